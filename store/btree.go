package store

import (
	"bytes"

	"github.com/google/btree"
)

// btreeDegree keeps the nodes small, cache wraps usually hold only the
// writes of a single transaction.
const btreeDegree = 2

// MemStore returns a store kept entirely in memory. Nothing is persisted.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap buffers writes in a btree on top of a read only store.
// Reads consult the buffer first, so the wrap sees its own writes. The
// buffered writes are applied to the parent through the batch on Write.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache wrap reading from kv and writing to
// batch. Nested wraps share the free list, pass nil to allocate a new one.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(btreeDegree, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap returns a wrap on top of this one. Writing it applies the
// changes to this wrap only.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write applies all buffered changes to the parent and empties the wrap.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all buffered changes. Nodes are returned to the free list.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(cacheItem{key: key, value: value})
	return b.batch.Set(key, value)
}

// Delete buffers a delete marker that hides the key of the parent.
func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(cacheItem{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if item, ok := b.cached(key); ok {
		if item.deleted {
			return nil, nil
		}
		return item.value, nil
	}
	return b.back.Get(key)
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if item, ok := b.cached(key); ok {
		return !item.deleted, nil
	}
	return b.back.Has(key)
}

func (b BTreeCacheWrap) cached(key []byte) (cacheItem, bool) {
	res := b.bt.Get(cacheItem{key: key})
	if res == nil {
		return cacheItem{}, false
	}
	return res.(cacheItem), true
}

// Iterator merges the buffered changes with the parent iterator, in
// ascending key order.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parentIter, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergedIterator(ascendBtree(b.bt, start, end), parentIter, false)
}

// ReverseIterator is Iterator in descending key order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parentIter, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergedIterator(descendBtree(b.bt, start, end), parentIter, true)
}

// cacheItem is a buffered write. A deleted item hides the parent value.
type cacheItem struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = cacheItem{}

func (c cacheItem) Less(than btree.Item) bool {
	return bytes.Compare(c.key, than.(cacheItem).key) < 0
}
