package charset

import (
	"fmt"
	"sort"
)

// boundarySet tracks the characters after which an equivalence class ends.
//
// Algorithm (one bit per character):
//  1. For each registered range [lo, hi]:
//     - If lo > 0: mark lo-1 as boundary
//     - Mark hi as boundary
//  2. Walk the characters in order; a new class starts after every boundary.
type boundarySet struct {
	bits [(int(MaxChar) + 1) / 64]uint64
}

func (bs *boundarySet) setRange(lo, hi rune) {
	if lo > 0 {
		bs.set(lo - 1)
	}
	bs.set(hi)
}

func (bs *boundarySet) set(r rune) {
	bs.bits[r/64] |= 1 << (uint(r) % 64)
}

func (bs *boundarySet) get(r rune) bool {
	return bs.bits[r/64]&(1<<(uint(r)%64)) != 0
}

// starts converts the boundary set into the sorted first character of each
// class.
func (bs *boundarySet) starts() []rune {
	starts := []rune{0}
	for r := rune(0); r < MaxChar; r++ {
		if bs.get(r) {
			starts = append(starts, r+1)
		}
	}
	return starts
}

// Classes is the default Table implementation.
//
// A Classes value collects registrations, then lazily computes the
// partition. Call Freeze once all rules are registered; a frozen Classes is
// read-only and safe for concurrent use. Registering on a frozen Classes
// panics.
type Classes struct {
	bounds     boundarySet
	categories map[string]*category
	used       map[rune]struct{}

	// starts[i] is the representative (lowest character) of class i.
	starts []rune
	dirty  bool
	frozen bool
}

// NewClasses creates a Classes where every character is in a single class.
func NewClasses() *Classes {
	return &Classes{
		categories: defaultCategories(),
		used:       make(map[rune]struct{}),
		starts:     []rune{0},
	}
}

// RegisterUsed implements Table.
func (c *Classes) RegisterUsed(r rune) {
	r = clamp(r)
	c.mutate()
	c.used[r] = struct{}{}
	c.bounds.setRange(r, r)
}

// RegisterRange implements Table.
func (c *Classes) RegisterRange(lo, hi rune) {
	lo, hi = clamp(lo), clamp(hi)
	if lo > hi {
		lo, hi = hi, lo
	}
	c.mutate()
	c.bounds.setRange(lo, hi)
}

// RegisterCategory implements Table. Unknown names are ignored.
func (c *Classes) RegisterCategory(name string) {
	cat, ok := c.categories[name]
	if !ok {
		return
	}
	c.mutate()
	cat.each(c.bounds.setRange)
}

// HasCategory implements Table.
func (c *Classes) HasCategory(name string) bool {
	_, ok := c.categories[name]
	return ok
}

// InCategory implements Table.
func (c *Classes) InCategory(name string, r rune) bool {
	cat, ok := c.categories[name]
	if !ok {
		return false
	}
	return cat.contains(clamp(r))
}

// Used returns the characters registered with RegisterUsed, ascending.
func (c *Classes) Used() []rune {
	used := make([]rune, 0, len(c.used))
	for r := range c.used {
		used = append(used, r)
	}
	sort.Slice(used, func(i, j int) bool { return used[i] < used[j] })
	return used
}

// Freeze computes the partition and makes c read-only.
func (c *Classes) Freeze() {
	c.partition()
	c.frozen = true
}

// Frozen reports whether Freeze has been called.
func (c *Classes) Frozen() bool {
	return c.frozen
}

// Len returns the number of equivalence classes.
func (c *Classes) Len() int {
	return len(c.partition())
}

// Classify implements Table.
func (c *Classes) Classify(r rune) ClassID {
	starts := c.partition()
	r = clamp(r)
	// Largest start <= r; starts[0] is always 0.
	i := sort.Search(len(starts), func(i int) bool { return starts[i] > r }) - 1
	return ClassID(i)
}

// Canonical implements Canonicalizer.
func (c *Classes) Canonical(r rune) rune {
	return c.partition()[c.Classify(r)]
}

// Representatives implements Alphabet. The returned slice must not be
// modified.
func (c *Classes) Representatives() []rune {
	return c.partition()
}

// String returns a short description of the partition.
func (c *Classes) String() string {
	return fmt.Sprintf("Classes(%d classes, %d literal chars, frozen=%v)",
		c.Len(), len(c.used), c.frozen)
}

func (c *Classes) mutate() {
	if c.frozen {
		panic("charset: register on frozen Classes")
	}
	c.dirty = true
}

func (c *Classes) partition() []rune {
	if c.dirty {
		c.starts = c.bounds.starts()
		c.dirty = false
	}
	return c.starts
}
