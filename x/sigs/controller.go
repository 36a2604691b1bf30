package sigs

import (
	"bytes"
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/crypto"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/orm"
)

// SignCodeV1 prefixes the bytes covered by a signature.
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures checks every signature of the transaction and consumes
// the sequence of each signer. It returns the signer conditions in the
// order of the signatures.
func VerifyTxSignatures(db swapd.KVStore, tx SignedTx, chainID string) ([]swapd.Condition, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	bucket := NewBucket()
	sigs := tx.GetSignatures()
	conds := make([]swapd.Condition, 0, len(sigs))
	for i, sig := range sigs {
		cond, err := verify(db, bucket, sig, payload, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

// VerifySignature checks a single signature over given payload and consumes
// the signer's sequence.
func VerifySignature(db swapd.KVStore, sig *StdSignature, payload []byte, chainID string) (swapd.Condition, error) {
	return verify(db, NewBucket(), sig, payload, chainID)
}

func verify(db swapd.KVStore, bucket orm.ModelBucket, sig *StdSignature, payload []byte, chainID string) (swapd.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(payload, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !sig.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	addr := sig.Pubkey.Address()
	user, err := loadUser(db, bucket, addr)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &UserData{Metadata: &swapd.Metadata{Schema: 1}}
	}
	if user.Pubkey == nil {
		user.Pubkey = sig.Pubkey
	}
	if err := user.consume(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Put(db, addr, user); err != nil {
		return nil, errors.Wrap(err, "save user")
	}
	return sig.Pubkey.Condition(), nil
}

// BuildSignBytes returns the digest a signer signs. It is the sha512 hash
// of
//
//	version | len(chainID) | chainID | sequence          | payload
//	4 bytes | uint8        | ascii   | int64 (big endian) | tx without signatures
func BuildSignBytes(payload []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !swapd.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "chain id: %v", chainID)
	}

	var buf bytes.Buffer
	buf.Grow(len(SignCodeV1) + 1 + len(chainID) + 8 + len(payload))
	buf.Write(SignCodeV1)
	buf.WriteByte(uint8(len(chainID)))
	buf.WriteString(chainID)
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], uint64(seq))
	buf.Write(nonce[:])
	buf.Write(payload)

	digest := sha512.Sum512(buf.Bytes())
	return digest[:], nil
}

// BuildSignBytesTx returns the digest to sign for given transaction.
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(payload, chainID, seq)
}

// SignTx signs the transaction with given sequence. The result can be
// appended to the transaction signatures.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	digest, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{
		Sequence:  seq,
		Pubkey:    signer.PublicKey(),
		Signature: sig,
	}, nil
}
