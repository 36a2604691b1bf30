package migration

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/swapd"
)

// Schema declares the current format version of a package. A new entity is
// stored for every version, so the highest one found is the current one.
type Schema struct {
	Metadata *swapd.Metadata `protobuf:"bytes,1,opt,name=metadata" json:"metadata"`
	// Pkg is the name of the package the version applies to.
	Pkg     string `protobuf:"bytes,2,opt,name=pkg,proto3" json:"pkg"`
	Version uint32 `protobuf:"varint,3,opt,name=version,proto3" json:"version"`
}

func (s *Schema) GetMetadata() *swapd.Metadata {
	if s == nil {
		return nil
	}
	return s.Metadata
}

func (s *Schema) Marshal() ([]byte, error)   { return proto.Marshal((*schemaPB)(s)) }
func (s *Schema) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*schemaPB)(s)) }

type schemaPB Schema

func (s *schemaPB) Reset()         { *s = schemaPB{} }
func (s *schemaPB) String() string { return proto.CompactTextString(s) }
func (*schemaPB) ProtoMessage()    {}
