package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

type catalogCacheKeyInput struct {
	Type   string `json:"type"`
	Prefix string `json:"prefix"`
	Limit  int    `json:"limit"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// SkillCatalogCacheKey is stable for queries that only differ in case or
// whitespace.
func SkillCatalogCacheKey(q CatalogQuery) string {
	in := catalogCacheKeyInput{
		Type:   normalizeSearchValue(q.Type),
		Prefix: normalizeSearchValue(q.Prefix),
		Limit:  q.Limit,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "skills:catalog:" + hex.EncodeToString(sum[:])
}
