// Package cache holds the process-wide single-slot cache of the
// authenticated user's extended profile. A profile fetch is an expensive
// round trip and most screens need the same profile repeatedly, so it is
// fetched once and served from here until cleared.
package cache

import (
	gocache "github.com/patrickmn/go-cache"

	"github.com/retromarket/retromarket/internal/client/models"
)

const profileKey = "profile"

// ProfileCache caches at most one extended profile, valid only for the
// currently authenticated identity. Callers must Clear on logout and on
// fetch failure so a stale identity is never served. No TTL.
type ProfileCache struct {
	c *gocache.Cache
}

func NewProfileCache() *ProfileCache {
	return &ProfileCache{c: gocache.New(gocache.NoExpiration, 0)}
}

// Get returns the cached profile or nil.
func (p *ProfileCache) Get() *models.ExtendedProfile {
	v, ok := p.c.Get(profileKey)
	if !ok {
		return nil
	}
	profile, _ := v.(*models.ExtendedProfile)
	return profile
}

func (p *ProfileCache) Set(profile *models.ExtendedProfile) {
	p.c.Set(profileKey, profile, gocache.NoExpiration)
}

func (p *ProfileCache) Clear() {
	p.c.Delete(profileKey)
}
