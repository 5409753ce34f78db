package vaulttx

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads/errors"
)

// MaxMessageSize caps the serialized compiled message. The transport MTU
// bounds how much payload a single submission can carry.
const MaxMessageSize = 1232

// CompiledInstruction references its program and accounts by index into
// the message account table.
type CompiledInstruction struct {
	ProgramIDIndex uint8
	AccountIndexes []uint8
	Data           []byte
}

// Message is the compiled form of the instructions a vault transaction
// will run. Accounts are deduplicated into a single table ordered by
// privilege: writable signers first, then readonly signers, writable
// non-signers, readonly non-signers. The three counts are enough to
// recover every account's privileges from its position.
type Message struct {
	NumSigners            uint8
	NumWritableSigners    uint8
	NumWritableNonSigners uint8
	AccountKeys           []solana.PublicKey
	Instructions          []CompiledInstruction
}

// Instruction is one decompiled instruction ready for dispatch.
type Instruction struct {
	ProgramID solana.PublicKey
	Accounts  []*solana.AccountMeta
	Data      []byte
}

// CompileMessage builds a Message from plain instructions, deduplicating
// accounts and merging privileges: an account is writable or a signer if
// any instruction wants it so.
func CompileMessage(instructions ...solana.Instruction) (Message, error) {
	if len(instructions) == 0 {
		return Message{}, errors.Wrap(errors.ErrInput, "no instructions")
	}

	type privilege struct {
		signer   bool
		writable bool
	}
	merged := make(map[solana.PublicKey]*privilege)
	var order []solana.PublicKey
	touch := func(key solana.PublicKey, signer, writable bool) {
		p, ok := merged[key]
		if !ok {
			p = &privilege{}
			merged[key] = p
			order = append(order, key)
		}
		p.signer = p.signer || signer
		p.writable = p.writable || writable
	}

	for _, ix := range instructions {
		for _, meta := range ix.Accounts() {
			touch(meta.PublicKey, meta.IsSigner, meta.IsWritable)
		}
		touch(ix.ProgramID(), false, false)
	}

	// stable partition into the four privilege classes, preserving first
	// appearance order within each class
	var table []solana.PublicKey
	classes := []func(privilege) bool{
		func(p privilege) bool { return p.signer && p.writable },
		func(p privilege) bool { return p.signer && !p.writable },
		func(p privilege) bool { return !p.signer && p.writable },
		func(p privilege) bool { return !p.signer && !p.writable },
	}
	for _, match := range classes {
		for _, key := range order {
			if match(*merged[key]) {
				table = append(table, key)
			}
		}
	}
	if len(table) > 256 {
		return Message{}, errors.Wrapf(errors.ErrInput, "%d accounts exceed the table capacity", len(table))
	}

	index := make(map[solana.PublicKey]uint8, len(table))
	for i, key := range table {
		index[key] = uint8(i)
	}

	msg := Message{
		AccountKeys: table,
	}
	for _, key := range table {
		p := merged[key]
		if p.signer {
			msg.NumSigners++
			if p.writable {
				msg.NumWritableSigners++
			}
		} else if p.writable {
			msg.NumWritableNonSigners++
		}
	}

	for _, ix := range instructions {
		data, err := ix.Data()
		if err != nil {
			return Message{}, errors.Wrap(errors.ErrInput, err.Error())
		}
		compiled := CompiledInstruction{
			ProgramIDIndex: index[ix.ProgramID()],
			Data:           data,
		}
		for _, meta := range ix.Accounts() {
			compiled.AccountIndexes = append(compiled.AccountIndexes, index[meta.PublicKey])
		}
		msg.Instructions = append(msg.Instructions, compiled)
	}

	raw, err := bin.MarshalBorsh(&msg)
	if err != nil {
		return Message{}, err
	}
	if len(raw) > MaxMessageSize {
		return Message{}, errors.Wrapf(errors.ErrInput, "compiled message is %d bytes, the maximum is %d", len(raw), MaxMessageSize)
	}
	return msg, nil
}

// Validate checks the internal consistency of a compiled message.
func (m *Message) Validate() error {
	n := len(m.AccountKeys)
	if n == 0 {
		return errors.Wrap(errors.ErrModel, "empty account table")
	}
	if n > 256 {
		return errors.Wrap(errors.ErrModel, "account table too large")
	}
	if int(m.NumSigners) > n {
		return errors.Wrap(errors.ErrModel, "more signers than accounts")
	}
	if m.NumWritableSigners > m.NumSigners {
		return errors.Wrap(errors.ErrModel, "more writable signers than signers")
	}
	if int(m.NumSigners)+int(m.NumWritableNonSigners) > n {
		return errors.Wrap(errors.ErrModel, "writable non-signers overflow the table")
	}
	if len(m.Instructions) == 0 {
		return errors.Wrap(errors.ErrModel, "no instructions")
	}
	for i, ix := range m.Instructions {
		if int(ix.ProgramIDIndex) >= n {
			return errors.Wrapf(errors.ErrModel, "instruction %d: program index out of range", i)
		}
		for _, ai := range ix.AccountIndexes {
			if int(ai) >= n {
				return errors.Wrapf(errors.ErrModel, "instruction %d: account index out of range", i)
			}
		}
	}
	raw, err := bin.MarshalBorsh(m)
	if err != nil {
		return err
	}
	if len(raw) > MaxMessageSize {
		return errors.Wrapf(errors.ErrModel, "compiled message is %d bytes, the maximum is %d", len(raw), MaxMessageSize)
	}
	return nil
}

// IsSigner reports whether the account at the given table position is a
// declared signer.
func (m *Message) IsSigner(i int) bool {
	return i < int(m.NumSigners)
}

// IsWritable reports whether the account at the given table position is
// writable.
func (m *Message) IsWritable(i int) bool {
	if i < int(m.NumSigners) {
		return i < int(m.NumWritableSigners)
	}
	return i < int(m.NumSigners)+int(m.NumWritableNonSigners)
}

// Decompile expands the compiled instructions back into dispatchable
// form, recovering each account's privileges from its table position.
func (m *Message) Decompile() ([]Instruction, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	out := make([]Instruction, 0, len(m.Instructions))
	for _, compiled := range m.Instructions {
		ix := Instruction{
			ProgramID: m.AccountKeys[compiled.ProgramIDIndex],
			Data:      compiled.Data,
		}
		for _, ai := range compiled.AccountIndexes {
			ix.Accounts = append(ix.Accounts, &solana.AccountMeta{
				PublicKey:  m.AccountKeys[ai],
				IsSigner:   m.IsSigner(int(ai)),
				IsWritable: m.IsWritable(int(ai)),
			})
		}
		out = append(out, ix)
	}
	return out, nil
}

// Equal reports whether two messages are identical.
func (m *Message) Equal(other *Message) bool {
	a, err := bin.MarshalBorsh(m)
	if err != nil {
		return false
	}
	b, err := bin.MarshalBorsh(other)
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}
