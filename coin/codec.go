package coin

import "github.com/gogo/protobuf/proto"

// Marshal serializes the coin using the protobuf wire format.
func (c *Coin) Marshal() ([]byte, error) {
	return proto.Marshal((*coinPB)(c))
}

// Unmarshal loads the coin from its protobuf wire format.
func (c *Coin) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*coinPB)(c))
}

// coinPB shares the Coin layout but has no Marshal method, so gogo encodes
// it by reflecting over the struct tags instead of calling back into Coin.
type coinPB Coin

func (c *coinPB) Reset()         { *c = coinPB{} }
func (c *coinPB) String() string { return proto.CompactTextString(c) }
func (*coinPB) ProtoMessage()    {}
