package swapd

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/swapd/errors"
)

// Metadata is carried as the first attribute of every schema versioned
// model and message.
type Metadata struct {
	// Schema is the version of the payload format. Zero means the
	// current version of the owning package.
	Schema uint32 `protobuf:"varint,1,opt,name=schema,proto3" json:"schema"`
}

// Validate returns an error if the metadata is missing.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "nil")
	}
	return nil
}

// Copy returns a copy of this object. This method is helpful when
// implementing orm.CloneableData interface to make a copy of the header.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}

// GetSchema returns the schema version, nil safe.
func (m *Metadata) GetSchema() uint32 {
	if m == nil {
		return 0
	}
	return m.Schema
}

func (m *Metadata) Marshal() ([]byte, error) {
	return proto.Marshal((*metadataPB)(m))
}

func (m *Metadata) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*metadataPB)(m))
}

// metadataPB is the method free twin of Metadata that gogo serializes by
// reflecting over the protobuf tags.
type metadataPB Metadata

func (m *metadataPB) Reset()         { *m = metadataPB{} }
func (m *metadataPB) String() string { return proto.CompactTextString(m) }
func (*metadataPB) ProtoMessage()    {}
