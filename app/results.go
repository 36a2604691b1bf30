package app

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
)

// ResultSet is the serialized form of query results. The key and the value
// of an abci query response each carry one ResultSet of the same size.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results" json:"results"`
}

// Marshal serializes the set. Empty results are kept.
func (r *ResultSet) Marshal() ([]byte, error) {
	return proto.Marshal((*resultSetPB)(r))
}

// Unmarshal parses a serialized set.
func (r *ResultSet) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*resultSetPB)(r)); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return nil
}

type resultSetPB ResultSet

func (r *resultSetPB) Reset()         { *r = resultSetPB{} }
func (r *resultSetPB) String() string { return proto.CompactTextString(r) }
func (*resultSetPB) ProtoMessage()    {}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []swapd.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []swapd.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]swapd.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInvalidState, "%d keys and %d values", len(kref), len(vref))
	}
	mods := make([]swapd.Model, len(kref))
	for i := range mods {
		mods[i] = swapd.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o
func UnmarshalOneResult(bz []byte, o swapd.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return err
	}
	// no results, do nothing
	if len(res.Results) == 0 {
		return nil
	}
	return o.Unmarshal(res.Results[0])
}
