package vecsnap

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// embedCache memoizes embed results keyed by input content digest, so
// repeated inference over the same input skips the encoder entirely.
type embedCache struct {
	cache *lru.Cache[string, [][]float32]
}

func newEmbedCache(size int) (*embedCache, error) {
	cache, err := lru.New[string, [][]float32](size)
	if err != nil {
		return nil, err
	}
	return &embedCache{cache: cache}, nil
}

// get returns a row-wise copy so callers cannot mutate cached vectors.
func (c *embedCache) get(key string) ([][]float32, bool) {
	rows, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	out := make([][]float32, len(rows))
	for i, row := range rows {
		out[i] = make([]float32, len(row))
		copy(out[i], row)
	}
	return out, true
}

// add stores a row-wise copy; the caller keeps ownership of rows.
func (c *embedCache) add(key string, rows [][]float32) {
	stored := make([][]float32, len(rows))
	for i, row := range rows {
		stored[i] = make([]float32, len(row))
		copy(stored[i], row)
	}
	c.cache.Add(key, stored)
}

func (c *embedCache) purge() {
	c.cache.Purge()
}
