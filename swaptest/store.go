package swaptest

import (
	"testing"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/store/iavl"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data.
// This implementation should be used instead of MemStore when you want the
// exact same storage implementation as the production instance is using.
func CommitKVStore(t testing.TB) swapd.CommitKVStore {
	t.Helper()

	db, err := iavl.OpenDB(iavl.GoLevelDBBackend, t.TempDir(), "db")
	if err != nil {
		t.Fatalf("cannot open database: %s", err)
	}
	s := iavl.NewCommitStore(db)
	if err := s.LoadLatestVersion(); err != nil {
		t.Fatalf("cannot load store: %s", err)
	}
	return s
}
