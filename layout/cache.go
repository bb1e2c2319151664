package layout

import (
	"fmt"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Cache keeps finished layouts per page and viewport. Layouts are pure
// functions of their inputs, so entries never go stale.
type Cache struct {
	m cmap.ConcurrentMap[string, Result]
}

func NewCache() *Cache {
	return &Cache{m: cmap.New[Result]()}
}

func cacheKey(page string, opts Options) string {
	return fmt.Sprintf("%s|%d|%g|%g", page, opts.ViewportHeight, opts.ColumnWidth, opts.ColumnGap)
}

// Columnize returns the cached layout of page, computing it on a miss.
func (c *Cache) Columnize(page string, blocks []string, opts Options) Result {
	opts = opts.withDefaults()
	key := cacheKey(page, opts)
	if r, ok := c.m.Get(key); ok {
		return r
	}
	r := Columnize(blocks, opts)
	c.m.Set(key, r)
	return r
}

func (c *Cache) Len() int {
	return c.m.Count()
}
