package store

// Recorder interface is implemented by anything returned from
// NewRecordingStore
type Recorder interface {
	// KVPairs returns all keys written through the store. Deleted keys
	// map to a nil value.
	KVPairs() map[string][]byte
}

// NewRecordingStore initializes a recording store wrapping this
// base store, using cached alternative if possible
//
// Downstream components (like Savepoint) check for CacheableKVStore, so
// the wrapper keeps that capability when the base store has it.
func NewRecordingStore(db KVStore) KVStore {
	changes := make(map[string][]byte)
	if cached, ok := db.(CacheableKVStore); ok {
		return &cacheableRecordingStore{
			CacheableKVStore: cached,
			changes:          changes,
		}
	}
	return &recordingStore{
		KVStore: db,
		changes: changes,
	}
}

//------- non-cached recording store

// recordingStore wraps a normal KVStore and records any change operations
type recordingStore struct {
	KVStore
	changes map[string][]byte
}

var _ KVStore = (*recordingStore)(nil)
var _ Recorder = (*recordingStore)(nil)

func (r *recordingStore) KVPairs() map[string][]byte {
	return r.changes
}

func (r *recordingStore) Set(key, value []byte) error {
	r.changes[string(key)] = value
	return r.KVStore.Set(key, value)
}

func (r *recordingStore) Delete(key []byte) error {
	r.changes[string(key)] = nil
	return r.KVStore.Delete(key)
}

// NewBatch makes sure all writes go through this one
func (r *recordingStore) NewBatch() Batch {
	return &recorderBatch{
		changes: r.changes,
		b:       r.KVStore.NewBatch(),
	}
}

//------- cached recording store

// cacheableRecordingStore wraps a CacheableKVStore
// and records any change operations
type cacheableRecordingStore struct {
	CacheableKVStore
	changes map[string][]byte
}

var _ CacheableKVStore = (*cacheableRecordingStore)(nil)
var _ Recorder = (*cacheableRecordingStore)(nil)

func (r *cacheableRecordingStore) KVPairs() map[string][]byte {
	return r.changes
}

func (r *cacheableRecordingStore) Set(key, value []byte) error {
	r.changes[string(key)] = value
	return r.CacheableKVStore.Set(key, value)
}

func (r *cacheableRecordingStore) Delete(key []byte) error {
	r.changes[string(key)] = nil
	return r.CacheableKVStore.Delete(key)
}

// NewBatch makes sure all writes go through this one
func (r *cacheableRecordingStore) NewBatch() Batch {
	return &recorderBatch{
		changes: r.changes,
		b:       r.CacheableKVStore.NewBatch(),
	}
}

// CacheWrap makes sure all cached writes are recorded once written
func (r *cacheableRecordingStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(r, r.NewBatch(), nil)
}

//----- batch recording, write to changes map from Recorder

// recorderBatch records operations only when they are written, so a
// discarded cache wrap leaves no trace.
type recorderBatch struct {
	changes map[string][]byte
	b       Batch
	ops     []Op
}

var _ Batch = (*recorderBatch)(nil)

func (r *recorderBatch) Set(key, value []byte) error {
	r.ops = append(r.ops, SetOp(key, value))
	return r.b.Set(key, value)
}

func (r *recorderBatch) Delete(key []byte) error {
	r.ops = append(r.ops, DelOp(key))
	return r.b.Delete(key)
}

func (r *recorderBatch) Write() error {
	if err := r.b.Write(); err != nil {
		return err
	}
	for _, op := range r.ops {
		switch op.kind {
		case setKind:
			r.changes[string(op.key)] = op.value
		case delKind:
			r.changes[string(op.key)] = nil
		}
	}
	r.ops = nil
	return nil
}
