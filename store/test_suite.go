package store

import (
	"bytes"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSuite runs the same KVStore contract checks against any backend. The
// backend is supplied through a constructor so the in-memory btree and the
// iavl adapter are held to identical behaviour.
type TestSuite struct {
	open TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a function releasing it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{open: constructor}
}

// GetSet walks a store through a write, a cached write that is flushed, a
// cached write that is discarded and a cached delete.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.open()
	defer cleanup()

	var (
		maker  = Pair([]byte("escrow:maker"), []byte("alice"))
		amount = Pair([]byte("escrow:amount"), []byte("200ETH"))
		taker  = Pair([]byte("escrow:taker"), []byte("bob"))
	)

	s.AssertGetHas(t, base, maker.Key, nil, false)
	require.NoError(t, base.Set(maker.Key, maker.Value))
	s.AssertGetHas(t, base, maker.Key, maker.Value, true)

	flushed := base.CacheWrap()
	s.AssertGetHas(t, flushed, maker.Key, maker.Value, true)
	require.NoError(t, flushed.Set(amount.Key, amount.Value))
	s.AssertGetHas(t, flushed, amount.Key, amount.Value, true)
	s.AssertGetHas(t, base, amount.Key, nil, false)
	require.NoError(t, flushed.Write())
	s.AssertGetHas(t, base, amount.Key, amount.Value, true)

	dropped := base.CacheWrap()
	require.NoError(t, dropped.Set(taker.Key, taker.Value))
	dropped.Discard()
	s.AssertGetHas(t, dropped, taker.Key, nil, false)

	deleting := base.CacheWrap()
	require.NoError(t, deleting.Delete(maker.Key))
	s.AssertGetHas(t, base, maker.Key, maker.Value, true)
	require.NoError(t, deleting.Write())

	s.AssertGetHas(t, base, maker.Key, nil, false)
	s.AssertGetHas(t, base, amount.Key, amount.Value, true)
	s.AssertGetHas(t, base, taker.Key, nil, false)
}

// CacheConflicts checks a cache layer that overwrites and deletes values held
// by its parent.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	keys := escrowKeys(rng, 4)
	vals := randomValues(rng, 6, 24)

	// A view lists the keys to query with the values expected. A nil
	// value means the key must be absent.
	cases := map[string]struct {
		parentOps  []Op
		childOps   []Op
		parentView []Model
		childView  []Model
	}{
		"overwrite one, delete another, add a third": {
			parentOps:  []Op{SetOp(keys[1], vals[1]), SetOp(keys[2], vals[2])},
			childOps:   []Op{SetOp(keys[1], vals[4]), SetOp(keys[3], vals[5]), DelOp(keys[2])},
			parentView: []Model{Pair(keys[1], vals[1]), Pair(keys[2], vals[2]), Pair(keys[3], nil)},
			childView:  []Model{Pair(keys[1], vals[4]), Pair(keys[2], nil), Pair(keys[3], vals[5])},
		},
		"delete then recreate in child": {
			parentOps:  []Op{SetOp(keys[0], vals[0])},
			childOps:   []Op{DelOp(keys[0]), SetOp(keys[0], vals[3])},
			parentView: []Model{Pair(keys[0], vals[0])},
			childView:  []Model{Pair(keys[0], vals[3])},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			parent, cleanup := s.open()
			defer cleanup()

			applyAll(t, parent, tc.parentOps)
			child := parent.CacheWrap()
			applyAll(t, child, tc.childOps)

			s.assertView(t, parent, tc.parentView)
			s.assertView(t, child, tc.childView)

			require.NoError(t, child.Write())
			s.assertView(t, parent, tc.childView)
		})
	}
}

// FuzzIterator compares ranged iteration, both directions, against a sorted
// expectation built from random writes and deletes of absent keys.
func (s *TestSuite) FuzzIterator(t *testing.T) {
	const size = 50

	rng := rand.New(rand.NewSource(42))
	childRows := randomModels(rng, size)
	parentRows := randomModels(rng, size)
	childOps := append(setOps(childRows...), delOps(randomModels(rng, 20)...)...)
	parentOps := append(setOps(parentRows...), delOps(randomModels(rng, 20)...)...)

	cases := map[string]scenario{
		"just write to a child with empty parent": {
			child:   childOps,
			queries: windows(sortedByKey(childRows)),
		},
		"iterator combines child and parent": {
			parent:  parentOps,
			child:   childOps,
			queries: windows(sortedByKey(append(parentRows, childRows...))),
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			base, cleanup := s.open()
			defer cleanup()
			tc.run(t, base)
		})
	}
}

// IteratorWithConflicts covers iteration where the child shadows or deletes
// entries of its parent.
func (s *TestSuite) IteratorWithConflicts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	rows := randomModels(rng, 6)
	a, b, c, d := rows[0], rows[1], rows[2], rows[3]
	a2 := Pair(a.Key, rows[4].Value)
	b2 := Pair(b.Key, rows[5].Value)

	abc := sortedByKey([]Model{a, b, c})
	shadowed := sortedByKey([]Model{a2, b2, c, d})

	cases := map[string]scenario{
		"iterate in child only": {
			child:   setOps(a, b, c),
			queries: simpleQueries(abc),
		},
		"iterate over parent only": {
			parent:  setOps(a, b, c),
			queries: simpleQueries(abc),
		},
		"simple combination": {
			parent:  setOps(a, b),
			child:   setOps(c),
			queries: simpleQueries(abc),
		},
		"overwrite data should show child data": {
			parent: setOps(a, b, c),
			child:  setOps(a2, b2, d),
			queries: []rangeQuery{
				{expected: shadowed},
				{start: shadowed[1].Key, end: shadowed[3].Key, expected: shadowed[1:3]},
				{reverse: true, expected: reversed(shadowed)},
			},
		},
		"deleted entries are skipped": {
			parent: setOps(a, c, d),
			child:  delOps(a, b, d),
			queries: []rangeQuery{
				{expected: []Model{c}},
				{end: c.Key},
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			base, cleanup := s.open()
			defer cleanup()
			tc.run(t, base)
		})
	}
}

// AssertGetHas checks both Get and Has of the store for a key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	assert.Equal(t, has, exists)
}

func (s *TestSuite) assertView(t testing.TB, kv ReadOnlyKVStore, view []Model) {
	t.Helper()
	for _, m := range view {
		s.AssertGetHas(t, kv, m.Key, m.Value, m.Value != nil)
	}
}

// scenario prepares a parent store, layers a cache with its own writes on top
// and runs range queries against the cache.
type scenario struct {
	parent  []Op
	child   []Op
	queries []rangeQuery
}

type rangeQuery struct {
	start    []byte
	end      []byte
	reverse  bool
	expected []Model
}

func (sc scenario) run(t testing.TB, base CacheableKVStore) {
	applyAll(t, base, sc.parent)
	child := base.CacheWrap()
	applyAll(t, child, sc.child)

	for _, q := range sc.queries {
		open := child.Iterator
		if q.reverse {
			open = child.ReverseIterator
		}
		it, err := open(q.start, q.end)
		require.NoError(t, err)
		got := drain(t, it)
		require.Equal(t, len(q.expected), len(got), "range [%X, %X) reverse=%v", q.start, q.end, q.reverse)
		for i := range got {
			if !bytes.Equal(q.expected[i].Key, got[i].Key) {
				t.Fatalf("entry %d: want key %X, got %X", i, q.expected[i].Key, got[i].Key)
			}
			assert.Equal(t, q.expected[i].Value, got[i].Value)
		}
	}
}

func drain(t testing.TB, it Iterator) []Model {
	defer it.Close()
	var out []Model
	for it.Valid() {
		out = append(out, Pair(it.Key(), it.Value()))
		require.NoError(t, it.Next())
	}
	return out
}

func applyAll(t testing.TB, out SetDeleter, ops []Op) {
	t.Helper()
	for _, op := range ops {
		require.NoError(t, op.Apply(out))
	}
}

// windows builds forward and reverse queries over the full range, an open
// end, an open start and a bounded window of rows.
func windows(rows []Model) []rangeQuery {
	n := len(rows)
	lo, hi := n/5, n/2
	return []rangeQuery{
		{expected: rows},
		{start: rows[lo].Key, expected: rows[lo:]},
		{end: rows[hi].Key, expected: rows[:hi]},
		{start: rows[lo].Key, end: rows[hi].Key, expected: rows[lo:hi]},

		{reverse: true, expected: reversed(rows)},
		{start: rows[hi].Key, reverse: true, expected: reversed(rows[hi:])},
		{end: rows[lo].Key, reverse: true, expected: reversed(rows[:lo])},
		{start: rows[lo].Key, end: rows[hi].Key, reverse: true, expected: reversed(rows[lo:hi])},
	}
}

func simpleQueries(rows []Model) []rangeQuery {
	return []rangeQuery{
		{expected: rows},
		{start: rows[1].Key, end: rows[2].Key, expected: rows[1:2]},
		{reverse: true, expected: reversed(rows)},
	}
}

// escrowKeys returns distinct keys shaped like escrow bucket entries.
func escrowKeys(rng *rand.Rand, count int) [][]byte {
	keys := make([][]byte, count)
	for i := range keys {
		keys[i] = []byte(fmt.Sprintf("escrow:%016x", rng.Uint64()))
	}
	return keys
}

func randomValues(rng *rand.Rand, count, size int) [][]byte {
	vals := make([][]byte, count)
	for i := range vals {
		vals[i] = make([]byte, size)
		rng.Read(vals[i])
	}
	return vals
}

func randomModels(rng *rand.Rand, count int) []Model {
	keys := escrowKeys(rng, count)
	vals := randomValues(rng, count, 32)
	rows := make([]Model, count)
	for i := range rows {
		rows[i] = Pair(keys[i], vals[i])
	}
	return rows
}

func reversed(rows []Model) []Model {
	out := make([]Model, len(rows))
	for i, m := range rows {
		out[len(rows)-1-i] = m
	}
	return out
}

func sortedByKey(rows []Model) []Model {
	out := append([]Model(nil), rows...)
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].Key, out[j].Key) < 0
	})
	return out
}

func setOps(rows ...Model) []Op {
	ops := make([]Op, len(rows))
	for i, m := range rows {
		ops[i] = SetOp(m.Key, m.Value)
	}
	return ops
}

func delOps(rows ...Model) []Op {
	ops := make([]Op, len(rows))
	for i, m := range rows {
		ops[i] = DelOp(m.Key)
	}
	return ops
}
