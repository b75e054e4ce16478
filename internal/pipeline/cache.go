package pipeline

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"questline/internal/planning"
)

// skillMapCache memoizes validated skill maps per goal statement so a
// same-day regenerate skips the skill-mapping stage. A nil cache is valid
// and never hits.
type skillMapCache struct {
	lru *expirable.LRU[string, planning.SkillMap]
}

func newSkillMapCache(size int, ttl time.Duration) *skillMapCache {
	if size <= 0 {
		return nil
	}
	return &skillMapCache{lru: expirable.NewLRU[string, planning.SkillMap](size, nil, ttl)}
}

func cacheKey(goal string) string {
	return strings.ToLower(strings.Join(strings.Fields(goal), " "))
}

func (c *skillMapCache) get(goal string) (*planning.SkillMap, bool) {
	if c == nil {
		return nil, false
	}
	sm, ok := c.lru.Get(cacheKey(goal))
	if !ok {
		return nil, false
	}
	return &sm, true
}

func (c *skillMapCache) put(goal string, sm *planning.SkillMap) {
	if c == nil || sm == nil {
		return
	}
	c.lru.Add(cacheKey(goal), *sm)
}
