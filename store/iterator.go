package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/swapd/errors"
)

///////////////////////////////////////////////////////
// From Items to Iterator

// btreeIter holds a snapshot of the cached items within a range, already
// in iteration order. Taking a snapshot keeps the btree free to be
// modified while the iterator is alive.
type btreeIter struct {
	items []cacheItem
	idx   int
}

func ascendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	return &btreeIter{items: collectRange(bt, start, end)}
}

func descendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	items := collectRange(bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return &btreeIter{items: items}
}

// collectRange returns all items with start <= key < end in ascending
// order. A nil start or end means the range is open on that side.
func collectRange(bt *btree.BTree, start, end []byte) []cacheItem {
	var items []cacheItem
	add := func(item btree.Item) bool {
		items = append(items, item.(cacheItem))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(add)
	case start == nil:
		bt.AscendLessThan(cacheItem{key: end}, add)
	case end == nil:
		bt.AscendGreaterOrEqual(cacheItem{key: start}, add)
	default:
		bt.AscendRange(cacheItem{key: start}, cacheItem{key: end}, add)
	}
	return items
}

func (b *btreeIter) valid() bool {
	return b.idx < len(b.items)
}

func (b *btreeIter) next() {
	b.idx++
}

// get requires this is valid, gets what we are pointing at
func (b *btreeIter) get() cacheItem {
	return b.items[b.idx]
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// mergedIterator combines the cached items with the iterator of the
// parent store, taking into consideration overwrites and deletes.
type mergedIterator struct {
	cache   *btreeIter
	parent  Iterator
	reverse bool
}

var _ Iterator = (*mergedIterator)(nil)

func newMergedIterator(cache *btreeIter, parent Iterator, reverse bool) (Iterator, error) {
	iter := &mergedIterator{
		cache:   cache,
		parent:  parent,
		reverse: reverse,
	}
	if err := iter.skipAllDeleted(); err != nil {
		iter.Close()
		return nil, err
	}
	return iter, nil
}

// Valid implements Iterator and returns true iff it can be read
func (i *mergedIterator) Valid() bool {
	return i.cache.valid() || i.parentValid()
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
func (i *mergedIterator) Next() error {
	switch i.firstKey() {
	case us:
		i.cache.next()
	case both:
		i.cache.next()
		if err := i.parent.Next(); err != nil {
			return err
		}
	case parent:
		if err := i.parent.Next(); err != nil {
			return err
		}
	default:
		return errors.Wrap(errors.ErrDatabase, "iterator advanced past the end")
	}
	return i.skipAllDeleted()
}

// Key returns the key of the cursor.
func (i *mergedIterator) Key() (key []byte) {
	switch i.firstKey() {
	case us, both:
		return i.cache.get().key
	case parent:
		return i.parent.Key()
	default:
		panic("iterator advanced past the end")
	}
}

// Value returns the value of the cursor.
func (i *mergedIterator) Value() (value []byte) {
	switch i.firstKey() {
	case us, both:
		return i.cache.get().value
	case parent:
		return i.parent.Value()
	default:
		panic("iterator advanced past the end")
	}
}

// Close releases the Iterator.
func (i *mergedIterator) Close() {
	if i.parent != nil {
		i.parent.Close()
	}
	i.cache.items = nil
	i.cache.idx = 0
}

// skipAllDeleted advances over all cached delete markers, together with
// the parent entries they hide.
func (i *mergedIterator) skipAllDeleted() error {
	for {
		src := i.firstKey()
		if src != us && src != both {
			return nil
		}
		if !i.cache.get().deleted {
			return nil
		}
		i.cache.next()
		if src == both {
			if err := i.parent.Next(); err != nil {
				return err
			}
		}
	}
}

// firstKey selects the source that holds the next key in iteration order.
func (i *mergedIterator) firstKey() source {
	if !i.parentValid() {
		if !i.cache.valid() {
			return none
		}
		return us
	} else if !i.cache.valid() {
		return parent
	}

	cmp := bytes.Compare(i.parent.Key(), i.cache.get().key)
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}

// makes sure the parent is non-nil before checking if it is valid
func (i *mergedIterator) parentValid() bool {
	return (i.parent != nil) && i.parent.Valid()
}
