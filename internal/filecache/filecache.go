// Package filecache maintains an LRU cache of open read-only files. A
// colorindex decoder borrows its data file handle from its own FileCache
// on every lookup, so the file stays open across lookups instead of
// being reopened each time.
package filecache

import (
	"container/list"
	"os"
	"sync"
)

// FileCache holds up to capacity open files, evicting the
// least-recently-used one when full. An evicted file with a zero
// reference count is closed at once; one still referenced is closed by
// its last Close. Safe for concurrent use.
type FileCache struct {
	lock     sync.Mutex
	cache    map[string]*list.Element
	ll       *list.List
	capacity int
	removed  map[*os.File]int
}

type entry struct {
	file *os.File
	refs int
}

// New creates a FileCache holding up to capacity open, read-only files.
// A capacity of 0 disables caching: every Open is a fresh os.Open and
// every Close closes immediately.
func New(capacity int) *FileCache {
	if capacity < 0 {
		capacity = 0
	}
	return &FileCache{capacity: capacity}
}

// Open returns a shared, already-open file for name, opening it
// read-only on a cache miss. Every Open must be paired with a Close.
func (c *FileCache) Open(name string) (*os.File, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.capacity == 0 {
		return os.Open(name)
	}
	if c.cache == nil {
		c.cache = make(map[string]*list.Element)
		c.ll = list.New()
	}

	if elem, ok := c.cache[name]; ok {
		c.ll.MoveToFront(elem)
		ent := elem.Value.(*entry)
		ent.refs++
		return ent.file, nil
	}

	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	c.cache[name] = c.ll.PushFront(&entry{file: file, refs: 1})
	if c.ll.Len() > c.capacity {
		c.removeOldest()
	}
	return file, nil
}

// Close decrements file's reference count, closing it once it has both
// been evicted and dropped to zero references.
func (c *FileCache) Close(file *os.File) error {
	name := file.Name()

	c.lock.Lock()
	defer c.lock.Unlock()

	if refs, ok := c.removed[file]; ok {
		if refs == 1 {
			delete(c.removed, file)
			if len(c.removed) == 0 {
				c.removed = nil
			}
			return file.Close()
		}
		c.removed[file] = refs - 1
		return nil
	}

	if elem, ok := c.cache[name]; ok {
		ent := elem.Value.(*entry)
		if ent.refs == 0 {
			return &os.PathError{Op: "close", Path: name, Err: os.ErrClosed}
		}
		ent.refs--
		return nil
	}

	return file.Close()
}

// Len returns the number of cache entries currently tracked.
func (c *FileCache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.cache == nil {
		return 0
	}
	return c.ll.Len()
}

// Clear evicts every entry, closing those with zero active references.
func (c *FileCache) Clear() {
	c.lock.Lock()
	defer c.lock.Unlock()
	for _, elem := range c.cache {
		c.removeElement(elem)
	}
	c.ll = nil
	c.cache = nil
}

func (c *FileCache) removeOldest() {
	if elem := c.ll.Back(); elem != nil {
		c.removeElement(elem)
	}
}

func (c *FileCache) removeElement(elem *list.Element) {
	c.ll.Remove(elem)
	ent := elem.Value.(*entry)
	delete(c.cache, ent.file.Name())
	if ent.refs == 0 {
		ent.file.Close()
		return
	}
	if c.removed == nil {
		c.removed = make(map[*os.File]int)
	}
	c.removed[ent.file] = ent.refs
}
