package orm

import (
	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
)

// RegisterQuery will register a root query (literal keys)
// under "/" in the query router
func RegisterQuery(qr swapd.QueryRouter) {
	qr.Register("/", rawQuery{})
}

// rawQuery serves the store content by full database key.
type rawQuery struct{}

func (rawQuery) Query(db swapd.ReadOnlyKVStore, mod string, data []byte) ([]swapd.Model, error) {
	switch mod {
	case swapd.KeyQueryMod:
		value, err := db.Get(data)
		if err != nil || value == nil {
			return nil, err
		}
		return []swapd.Model{swapd.Pair(data, value)}, nil
	case swapd.PrefixQueryMod:
		return queryPrefix(db, data)
	default:
		return nil, errors.Wrap(errors.ErrHuman, "not implemented: "+mod)
	}
}

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr swapd.Iterator) ([]swapd.Model, error) {
	defer itr.Close()

	var res []swapd.Model
	for itr.Valid() {
		res = append(res, swapd.Pair(itr.Key(), itr.Value()))
		if err := itr.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// PrefixRange turns a prefix into (start, end) to create
// and iterator
func PrefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed?....
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}

func queryPrefix(db swapd.ReadOnlyKVStore, prefix []byte) ([]swapd.Model, error) {
	start, end := PrefixRange(prefix)
	itr, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}
