// Package cache implements the three-level expression store the builder and
// inner search enumerate from: type-tag, then structural type, then size.
package cache

import (
	"iter"

	"github.com/holesynth/synthcore/internal/expr"
	"github.com/holesynth/synthcore/internal/types"
)

// bucket holds the expressions of a single type, keyed by size, each list
// in insertion order.
type bucket struct {
	typ   types.Type
	sizes map[int][]expr.Expr
}

// Cache is the builder's three-level index: tag -> type -> size -> list.
// It supports a copy-on-write overlay so a child context (a lambda body
// during Map/Filter enumeration) can add entries visible only to itself,
// per §4.3/§9's "cloned cache" design.
type Cache struct {
	parent   *Cache
	buckets  map[types.Tag][]*bucket
	tagOrder []types.Tag
}

// New returns an empty top-level cache.
func New() *Cache {
	return &Cache{buckets: make(map[types.Tag][]*bucket)}
}

// Clone returns a copy-on-write overlay on top of c: reads see both c's
// entries and the overlay's; writes land only in the overlay, leaving c
// untouched. This is how the builder augments a cache with a freshly bound
// lambda variable without mutating the caller's cache (§4.3 steps 6-7).
func (c *Cache) Clone() *Cache {
	return &Cache{parent: c, buckets: make(map[types.Tag][]*bucket)}
}

func (c *Cache) bucketFor(t types.Type, create bool) *bucket {
	tag := t.Tag()
	for _, b := range c.buckets[tag] {
		if b.typ.Equal(t) {
			return b
		}
	}
	if !create {
		return nil
	}
	if _, ok := c.buckets[tag]; !ok {
		c.tagOrder = append(c.tagOrder, tag)
	}
	b := &bucket{typ: t, sizes: make(map[int][]expr.Expr)}
	c.buckets[tag] = append(c.buckets[tag], b)
	return b
}

// Add inserts e into the bucket for its own type at the given size.
func (c *Cache) Add(e expr.Expr, size int) {
	b := c.bucketFor(e.Type(), true)
	b.sizes[size] = append(b.sizes[size], e)
}

// Evict removes the first occurrence of e (by pointer identity via
// expr.Equal-less direct ==, since expressions are immutable value trees
// compared structurally at the fingerprint level, not here) from the
// local overlay's bucket at size. It is a no-op if e is not present in
// this cache's own layer; eviction never reaches into a parent layer,
// matching the overlay's copy-on-write contract.
func (c *Cache) Evict(e expr.Expr, size int) {
	b := c.bucketFor(e.Type(), false)
	if b == nil {
		return
	}
	list := b.sizes[size]
	for i, x := range list {
		if x == e {
			b.sizes[size] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Filter selects which expressions Find yields. Build one with Any (every
// expression), OfType (an exact-type match) or OfTag (a tag-only match).
type Filter struct {
	tag     types.Tag
	typ     types.Type
	anyTag  bool
	anyType bool
}

// Any matches every expression regardless of type.
func Any() Filter { return Filter{anyTag: true, anyType: true} }

// OfType matches only expressions whose type equals t exactly.
func OfType(t types.Type) Filter { return Filter{tag: t.Tag(), typ: t} }

// OfTag matches any expression whose type has the given tag, regardless of
// type arguments.
func OfTag(tag types.Tag) Filter { return Filter{tag: tag, anyType: true} }

func (f Filter) matchesTag(tag types.Tag) bool {
	return f.anyTag || f.tag == tag
}

func (f Filter) matchesType(t types.Type) bool {
	return f.anyType || f.typ.Equal(t)
}

// Find yields every cached expression matching filt, optionally restricted
// to an exact size (sizeFilter < 0 means any size). Layers are visited
// parent first, so every entry visible through a parent overlay is yielded
// before any of this layer's own entries. Within a layer the ordering is:
// outer by tag insertion order, then by type (bucket creation order), then
// by size ascending, then by insertion order within the bucket.
func (c *Cache) Find(filt Filter, sizeFilter int) iter.Seq2[expr.Expr, int] {
	return func(yield func(expr.Expr, int) bool) {
		layers := c.layers()
		for _, layer := range layers {
			if !filt.anyTag {
				if !layer.findTag(filt.tag, filt, sizeFilter, yield) {
					return
				}
				continue
			}
			for _, tag := range layer.tagOrder {
				if !layer.findTag(tag, filt, sizeFilter, yield) {
					return
				}
			}
		}
	}
}

func (c *Cache) findTag(tag types.Tag, filt Filter, sizeFilter int, yield func(expr.Expr, int) bool) bool {
	for _, b := range c.buckets[tag] {
		if !filt.matchesType(b.typ) {
			continue
		}
		if sizeFilter >= 0 {
			for _, e := range b.sizes[sizeFilter] {
				if !yield(e, sizeFilter) {
					return false
				}
			}
			continue
		}
		sizes := sortedSizes(b.sizes)
		for _, sz := range sizes {
			for _, e := range b.sizes[sz] {
				if !yield(e, sz) {
					return false
				}
			}
		}
	}
	return true
}

// layers returns c and its ancestors, outermost (root) first, matching the
// "parent entries before overlay entries" ordering Find documents.
func (c *Cache) layers() []*Cache {
	var chain []*Cache
	for l := c; l != nil; l = l.parent {
		chain = append(chain, l)
	}
	out := make([]*Cache, len(chain))
	for i, l := range chain {
		out[len(chain)-1-i] = l
	}
	return out
}

// All iterates every (expression, size) pair in the cache, in the same
// deterministic order as Find(Any(), -1).
func (c *Cache) All() iter.Seq2[expr.Expr, int] {
	return c.Find(Any(), -1)
}

// FindAt is the single-valued convenience most builder rules want: every
// cached expression matching filt at exactly the given size.
func (c *Cache) FindAt(filt Filter, size int) iter.Seq[expr.Expr] {
	return func(yield func(expr.Expr) bool) {
		for e, _ := range c.Find(filt, size) {
			if !yield(e) {
				return
			}
		}
	}
}

func sortedSizes(sizes map[int][]expr.Expr) []int {
	out := make([]int, 0, len(sizes))
	for sz := range sizes {
		out = append(out, sz)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
