package web

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// renderCache keeps rendered pages and images. The dataset never changes while the process runs,
// so entries only expire to bound memory.
type renderCache struct {
	c *cache.Cache
}

// cachedBody is one rendered response.
type cachedBody struct {
	contentType string
	body        []byte
}

func newRenderCache(ttl time.Duration) *renderCache {
	if ttl <= 0 {
		return &renderCache{c: cache.New(cache.NoExpiration, 0)}
	}
	return &renderCache{c: cache.New(ttl, 2*ttl)}
}

func cacheKey(kind string, params ...interface{}) string {
	key := kind
	for _, p := range params {
		key += ":" + fmt.Sprintf("%v", p)
	}
	return key
}

func (rc *renderCache) get(key string) (cachedBody, bool) {
	v, ok := rc.c.Get(key)
	if !ok {
		return cachedBody{}, false
	}
	b, ok := v.(cachedBody)
	return b, ok
}

func (rc *renderCache) set(key string, b cachedBody) {
	rc.c.Set(key, b, cache.DefaultExpiration)
}

// getOrRender serves key from cache, or renders, stores and returns it.
func (rc *renderCache) getOrRender(key string, render func() (cachedBody, error)) (cachedBody, bool, error) {
	if b, ok := rc.get(key); ok {
		return b, true, nil
	}
	b, err := render()
	if err != nil {
		return cachedBody{}, false, err
	}
	rc.set(key, b)
	return b, false, nil
}

func (rc *renderCache) len() int { return rc.c.ItemCount() }
