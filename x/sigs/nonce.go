package sigs

import "github.com/iov-one/swapd"

// NextNonce returns the sequence the next signature of given address must
// carry. An address that never signed starts at zero.
func NextNonce(db swapd.ReadOnlyKVStore, signer swapd.Address) (int64, error) {
	u, err := loadUser(db, NewBucket(), signer)
	if err != nil || u == nil {
		return 0, err
	}
	return u.Sequence, nil
}
