package compiler

import (
	"slices"
	"strings"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/codetask/task"
)

// Cache holds the libraries compiled for previously seen tasks.
//
// Tasks are matched with [task.TaskInfo.Equal], so a task whose source
// differs from a cached one only in case, or whose references are listed in
// another order, reuses the cached library. It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[uint64][]cacheEntry
}

type cacheEntry struct {
	info     *task.TaskInfo
	artifact task.Artifact
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[uint64][]cacheEntry)}
}

// cacheKey hashes the fields compared by [task.TaskInfo.Equal].
func cacheKey(info *task.TaskInfo) uint64 {
	refs := info.References.Slice()
	for i, r := range refs {
		refs[i] = strings.ToLower(r)
	}

	slices.Sort(refs)

	var sb strings.Builder

	sb.WriteString(strings.ToLower(info.SourceCode))

	for _, r := range refs {
		sb.WriteByte(0)
		sb.WriteString(r)
	}

	return xxh3.Hash([]byte(sb.String()))
}

// Lookup returns the library compiled for a task equal to info.
func (c *Cache) Lookup(info *task.TaskInfo) (task.Artifact, bool) {
	key := cacheKey(info)

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries[key] {
		if e.info.Equal(info) {
			return e.artifact, true
		}
	}

	return task.Artifact{}, false
}

// Store records the library compiled for a copy of info, replacing any
// library stored for an equal task.
func (c *Cache) Store(info *task.TaskInfo, a task.Artifact) {
	key := cacheKey(info)

	c.mu.Lock()
	defer c.mu.Unlock()

	entries := slices.DeleteFunc(c.entries[key], func(e cacheEntry) bool {
		return e.info.Equal(info)
	})

	c.entries[key] = append(entries, cacheEntry{info: info.Clone(), artifact: a})
}

// Len returns the number of cached libraries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, entries := range c.entries {
		n += len(entries)
	}

	return n
}
