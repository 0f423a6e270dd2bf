// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/addressvm/codec"
	"github.com/ava-labs/addressvm/consts"
	"github.com/ava-labs/addressvm/crypto/ed25519"
)

// AccountMeta describes how an instruction uses an account. The order of
// metas in an instruction is significant to the program.
type AccountMeta struct {
	PublicKey  codec.Address `json:"public_key"`
	IsWritable bool          `json:"is_writable"`
	IsSigner   bool          `json:"is_signer"`
}

func (AccountMeta) size() int {
	return codec.AddressLen + 2*consts.BoolLen
}

type Instruction struct {
	ProgramID codec.Address `json:"program_id"`
	Accounts  []AccountMeta `json:"accounts"`
	Data      []byte        `json:"data"`
}

func (ix *Instruction) size() int {
	size := codec.AddressLen + consts.IntLen + codec.BytesLen(ix.Data)
	for _, m := range ix.Accounts {
		size += m.size()
	}
	return size
}

// Transaction is a list of instructions executed atomically, authorized by
// the signatures of [Signers].
type Transaction struct {
	Instructions []*Instruction      `json:"instructions"`
	Signers      []codec.Address     `json:"signers"`
	Signatures   []ed25519.Signature `json:"-"`
}

func NewTransaction(instructions ...*Instruction) *Transaction {
	return &Transaction{Instructions: instructions}
}

// Digest returns the bytes covered by the transaction signatures.
func (t *Transaction) Digest() ([]byte, error) {
	size := consts.IntLen + len(t.Signers)*codec.AddressLen + consts.IntLen
	for _, ix := range t.Instructions {
		size += ix.size()
	}
	p := &wrappers.Packer{
		Bytes:   make([]byte, 0, size),
		MaxSize: size,
	}
	p.PackInt(uint32(len(t.Signers)))
	for _, s := range t.Signers {
		p.PackFixedBytes(s[:])
	}
	p.PackInt(uint32(len(t.Instructions)))
	for _, ix := range t.Instructions {
		p.PackFixedBytes(ix.ProgramID[:])
		p.PackInt(uint32(len(ix.Accounts)))
		for _, m := range ix.Accounts {
			p.PackFixedBytes(m.PublicKey[:])
			p.PackBool(m.IsWritable)
			p.PackBool(m.IsSigner)
		}
		p.PackBytes(ix.Data)
	}
	return p.Bytes, p.Err
}

// ID is the hash of the transaction digest.
func (t *Transaction) ID() (ids.ID, error) {
	d, err := t.Digest()
	if err != nil {
		return ids.Empty, err
	}
	return ids.ID(hashing.ComputeHash256Array(d)), nil
}

// Sign replaces the signer set with [keys] and signs the digest with each.
func (t *Transaction) Sign(keys ...ed25519.PrivateKey) error {
	t.Signers = make([]codec.Address, len(keys))
	for i, k := range keys {
		t.Signers[i] = k.Address()
	}
	d, err := t.Digest()
	if err != nil {
		return err
	}
	t.Signatures = make([]ed25519.Signature, len(keys))
	for i, k := range keys {
		t.Signatures[i] = ed25519.Sign(d, k)
	}
	return nil
}
