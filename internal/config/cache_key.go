package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AssessmentDocKey returns the cache key holding an assessment's stored
// document.
func (r *CacheKeyStruct) AssessmentDocKey(assessmentID string) string {
	return fmt.Sprintf("assessment:%s:document", assessmentID)
}

var CacheKey = NewCacheKeyStruct()
