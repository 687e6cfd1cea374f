package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// NewARC returns an adaptive replacement cache holding at most size entries.
func NewARC(size int) (*ARC, error) {
	c, err := lru.NewARC(size)
	if err != nil {
		return nil, fmt.Errorf("new arc cache of size %d: %w", size, err)
	}

	return &ARC{cache: c}, nil
}

var _ Cache = (*ARC)(nil)

type ARC struct {
	cache *lru.ARCCache
}

func (c *ARC) Get(key interface{}) (interface{}, bool) {
	return c.cache.Get(key)
}

func (c *ARC) Add(key, value interface{}) {
	c.cache.Add(key, value)
}

func (c *ARC) Keys() []interface{} {
	return c.cache.Keys()
}

func (c *ARC) Delete(key interface{}) {
	c.cache.Remove(key)
}

func (c *ARC) Len() int {
	return c.cache.Len()
}

func (c *ARC) Purge() {
	c.cache.Purge()
}
