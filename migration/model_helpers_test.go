package migration

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/orm"
)

// counter is a schema versioned model used by the tests. Version 2 of its
// format doubles the count.
type counter struct {
	Metadata *swapd.Metadata `protobuf:"bytes,1,opt,name=metadata"`
	Count    int64           `protobuf:"varint,2,opt,name=count,proto3"`
}

var _ orm.Model = (*counter)(nil)

func (c *counter) GetMetadata() *swapd.Metadata { return c.Metadata }

func (c *counter) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return err
	}
	if c.Count < 0 {
		return errors.Wrap(errors.ErrInvalidModel, "negative count")
	}
	return nil
}

func (c *counter) Copy() orm.CloneableData {
	return &counter{Metadata: c.Metadata.Copy(), Count: c.Count}
}

func (c *counter) Marshal() ([]byte, error)   { return proto.Marshal((*counterPB)(c)) }
func (c *counter) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*counterPB)(c)) }

type counterPB counter

func (c *counterPB) Reset()         { *c = counterPB{} }
func (c *counterPB) String() string { return proto.CompactTextString(c) }
func (*counterPB) ProtoMessage()    {}

// bumpMsg is a schema versioned message used by the tests.
type bumpMsg struct {
	Metadata *swapd.Metadata `protobuf:"bytes,1,opt,name=metadata"`
	By       int64           `protobuf:"varint,2,opt,name=by,proto3"`
}

var _ swapd.Msg = (*bumpMsg)(nil)

func (m *bumpMsg) GetMetadata() *swapd.Metadata { return m.Metadata }
func (m *bumpMsg) Path() string                 { return "test/bump" }
func (m *bumpMsg) Validate() error              { return m.Metadata.Validate() }

func (m *bumpMsg) Marshal() ([]byte, error)   { return proto.Marshal((*bumpMsgPB)(m)) }
func (m *bumpMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*bumpMsgPB)(m)) }

type bumpMsgPB bumpMsg

func (m *bumpMsgPB) Reset()         { *m = bumpMsgPB{} }
func (m *bumpMsgPB) String() string { return proto.CompactTextString(m) }
func (*bumpMsgPB) ProtoMessage()    {}

func doubleCount(_ swapd.ReadOnlyKVStore, p Migratable) error {
	p.(*counter).Count *= 2
	return nil
}

// testRegister returns a register knowing two versions of counter and one
// version of bumpMsg.
func testRegister() *register {
	r := newRegister()
	r.MustRegister(1, &counter{}, NoModification)
	r.MustRegister(2, &counter{}, doubleCount)
	r.MustRegister(1, &bumpMsg{}, NoModification)
	return r
}

// setSchema stores versions 1 to ver of given package.
func setSchema(db swapd.KVStore, pkg string, ver uint32) {
	b := NewSchemaBucket()
	for v := uint32(1); v <= ver; v++ {
		_, err := b.Create(db, &Schema{Metadata: &swapd.Metadata{Schema: 1}, Pkg: pkg, Version: v})
		if err != nil {
			panic(err)
		}
	}
}
