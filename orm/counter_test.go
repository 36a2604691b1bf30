package orm

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/swapd/errors"
)

// Counter is a minimal model used by the bucket tests.
type Counter struct {
	Count int64  `protobuf:"varint,1,opt,name=count,proto3"`
	Owner []byte `protobuf:"bytes,2,opt,name=owner,proto3"`
}

var _ Model = (*Counter)(nil)

func (c *Counter) Marshal() ([]byte, error)   { return proto.Marshal((*counterPB)(c)) }
func (c *Counter) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*counterPB)(c)) }

type counterPB Counter

func (c *counterPB) Reset()         { *c = counterPB{} }
func (c *counterPB) String() string { return proto.CompactTextString(c) }
func (*counterPB) ProtoMessage()    {}

func (c *Counter) Copy() CloneableData {
	return &Counter{Count: c.Count, Owner: append([]byte(nil), c.Owner...)}
}

func (c *Counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrInvalidState, "negative count")
	}
	return nil
}

func counterByOwner(obj Object) ([]byte, error) {
	c, ok := obj.Value().(*Counter)
	if !ok {
		return nil, errors.WithType(errors.ErrInvalidModel, obj.Value())
	}
	if len(c.Owner) == 0 {
		return nil, nil
	}
	return c.Owner, nil
}

// Other is used to test type mismatches.
type Other struct {
	Name string `protobuf:"bytes,1,opt,name=name,proto3"`
}

var _ Model = (*Other)(nil)

func (o *Other) Marshal() ([]byte, error)   { return proto.Marshal((*otherPB)(o)) }
func (o *Other) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*otherPB)(o)) }

type otherPB Other

func (o *otherPB) Reset()         { *o = otherPB{} }
func (o *otherPB) String() string { return proto.CompactTextString(o) }
func (*otherPB) ProtoMessage()    {}

func (o *Other) Copy() CloneableData { return &Other{Name: o.Name} }

func (o *Other) Validate() error { return nil }
