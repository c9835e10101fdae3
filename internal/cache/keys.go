package cache

import "strings"

const (
	GlobalKeyPrefix = "wikiquiz"

	quizService      = "quiz"
	resultObjectType = "result"
	historyObject    = "history"
	historySentinel  = "all"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// QuizResultKey is the key under which a full generation response for url is cached.
func QuizResultKey(url string) string {
	return GenerateCacheKey(quizService, resultObjectType, url)
}

// HistoryKey is the fixed sentinel key for the rendered history list.
func HistoryKey() string {
	return GenerateCacheKey(quizService, historyObject, historySentinel)
}
