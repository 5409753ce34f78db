package store

import (
	"bytes"

	"github.com/google/btree"
)

// cacheIter iterates over a range snapshot of the cache btree. The
// snapshot is taken up front, which is fine for the small write sets a
// single state transition produces, and keeps the iteration free of any
// goroutine bookkeeping.
type cacheIter struct {
	items []btree.Item
	idx   int
}

func ascendBtree(bt *btree.BTree, start, end []byte) *cacheIter {
	var items []btree.Item
	collect := func(item btree.Item) bool {
		items = append(items, item)
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return &cacheIter{items: items}
}

func descendBtree(bt *btree.BTree, start, end []byte) *cacheIter {
	var items []btree.Item
	collect := func(item btree.Item) bool {
		items = append(items, item)
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Descend(collect)
	case start == nil:
		bt.DescendLessOrEqual(bkeyLess{end}, collect)
	case end == nil:
		bt.DescendGreaterThan(bkeyLess{start}, collect)
	default:
		bt.DescendRange(bkeyLess{end}, bkeyLess{start}, collect)
	}
	return &cacheIter{items: items}
}

func (c *cacheIter) wrap(parent Iterator) *itemIter {
	iter := &itemIter{
		cache:  c,
		parent: parent,
	}
	iter.skipAllDeleted()
	return iter
}

func (c *cacheIter) valid() bool {
	return c.idx < len(c.items)
}

func (c *cacheIter) get() keyer {
	return c.items[c.idx].(keyer)
}

func (c *cacheIter) next() {
	c.idx++
}

// source marks where the current item comes from.
type source int32

const (
	us source = iota
	parent
	both
	none
)

// itemIter merges the cache iterator with the parent store iterator,
// taking into consideration overwrites and deletes.
type itemIter struct {
	cache *cacheIter
	// if we are iterating in a cache-wrap (and who isn't),
	// we need to combine this iterator with the parent
	parent Iterator
}

var _ Iterator = (*itemIter)(nil)

// Valid implements Iterator and returns true iff it can be read.
func (i *itemIter) Valid() bool {
	return i.cache.valid() || i.parentValid()
}

// Next moves the iterator to the next sequential key in the store, as
// defined by order of iteration.
//
// If Valid returns false, this method will panic.
func (i *itemIter) Next() {
	// advance either us, parent, or both
	switch i.firstKey() {
	case us:
		i.cache.next()
	case both:
		i.cache.next()
		fallthrough
	case parent:
		i.parent.Next()
	default:
		panic("advanced past the end")
	}

	// keep advancing over all deleted entries
	i.skipAllDeleted()
}

// Key returns the key of the cursor.
func (i *itemIter) Key() (key []byte) {
	switch i.firstKey() {
	case us, both:
		return i.cache.get().Key()
	case parent:
		return i.parent.Key()
	default: // none
		panic("advanced past the end")
	}
}

// Value returns the value of the cursor.
func (i *itemIter) Value() (value []byte) {
	switch i.firstKey() {
	case us, both:
		return i.cache.get().(setItem).value
	case parent:
		return i.parent.Value()
	default: // none
		panic("advanced past the end")
	}
}

// Close releases the Iterator.
func (i *itemIter) Close() {
	if i.parent != nil {
		i.parent.Close()
	}
	i.cache.items = nil
}

// skipAllDeleted loops and skips any number of deleted items.
func (i *itemIter) skipAllDeleted() {
	for i.skipDeleted() {
	}
}

// skipDeleted jumps over all elements we can safely fast forward.
// Returns true if skipped, so we can skip again.
func (i *itemIter) skipDeleted() bool {
	src := i.firstKey()
	if src == us || src == both {
		// if our next is deleted, advance...
		if _, ok := i.cache.get().(deletedItem); ok {
			i.cache.next()
			// if parent had the same key, advance parent as well
			if src == both {
				i.parent.Next()
			}
			return true
		}
	}
	return false
}

// firstKey selects the iterator holding the next key in order.
func (i *itemIter) firstKey() source {
	// if only one or none is valid, it is clear which to use
	if !i.parentValid() {
		if !i.cache.valid() {
			return none
		}
		return us
	} else if !i.cache.valid() {
		return parent
	}

	// both are valid, compare keys
	parKey := i.parent.Key()
	usKey := i.cache.get().Key()

	cmp := bytes.Compare(parKey, usKey)
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}

// parentValid makes sure the parent is non-nil before checking validity.
func (i *itemIter) parentValid() bool {
	return (i.parent != nil) && i.parent.Valid()
}
