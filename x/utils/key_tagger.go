package utils

import (
	"fmt"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/store"
	"github.com/tendermint/tendermint/libs/common"
)

// KeyTagger is a decorator that records all Set/Delete operations
// performed by its children and adds all those keys as DeliverTx tags.
// Watching the key of an escrow tells when it is opened and closed.
type KeyTagger struct{}

var _ swapd.Decorator = KeyTagger{}

// NewKeyTagger creates a KeyTagger decorator
func NewKeyTagger() KeyTagger {
	return KeyTagger{}
}

// Check does nothing
func (KeyTagger) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx, next swapd.Checker) (*swapd.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver passes in a recording KVStore into the child and
// uses that to calculate tags to add to DeliverResult
func (KeyTagger) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx, next swapd.Deliverer) (*swapd.DeliverResult, error) {
	record := store.NewRecordingStore(db)
	res, err := next.Deliver(ctx, record, tx)
	if err != nil {
		return res, err
	}
	res.Tags = append(res.Tags, changesToTags(record)...)
	return res, nil
}

var (
	recordSet    = []byte("s")
	recordDelete = []byte("d")
)

// changesToTags turns every key written through the recording store into
// a tag. The key is upper case hex encoded, the value tells if the key was
// set or deleted.
func changesToTags(db swapd.KVStore) common.KVPairs {
	r, ok := db.(store.Recorder)
	if !ok {
		return nil
	}
	changes := r.KVPairs()
	if len(changes) == 0 {
		return nil
	}
	res := make(common.KVPairs, 0, len(changes))
	for k, v := range changes {
		op := recordSet
		if v == nil {
			op = recordDelete
		}
		res = append(res, common.KVPair{
			Key:   []byte(fmt.Sprintf("%X", k)),
			Value: op,
		})
	}
	res.Sort()
	return res
}
