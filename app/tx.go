package app

import (
	bin "github.com/gagliardetto/binary"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/x/sigs"
)

// Tx is the concrete transaction the engine accepts: one message plus the
// signatures authorizing it. The sign bytes cover the message path and
// payload, the chain ID and sequence are mixed in by the signing layer.
type Tx struct {
	Msg        squads.Msg
	Signatures []sigs.StdSignature
}

var (
	_ squads.Tx    = (*Tx)(nil)
	_ sigs.SignedTx = (*Tx)(nil)
)

func (tx *Tx) GetMsg() (squads.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrState, "transaction without a message")
	}
	return tx.Msg, nil
}

func (tx *Tx) GetSignBytes() ([]byte, error) {
	payload, err := tx.Msg.Marshal()
	if err != nil {
		return nil, err
	}
	return bin.MarshalBorsh(&msgFrame{Path: tx.Msg.Path(), Payload: payload})
}

func (tx *Tx) GetSignatures() []sigs.StdSignature {
	return tx.Signatures
}

// msgFrame is the wire form of a routed message.
type msgFrame struct {
	Path    string
	Payload []byte
}

// txFrame is the wire form of a whole transaction.
type txFrame struct {
	Msg        msgFrame
	Signatures []sigs.StdSignature
}

func (tx *Tx) Marshal() ([]byte, error) {
	payload, err := tx.Msg.Marshal()
	if err != nil {
		return nil, err
	}
	frame := txFrame{
		Msg:        msgFrame{Path: tx.Msg.Path(), Payload: payload},
		Signatures: tx.Signatures,
	}
	return bin.MarshalBorsh(&frame)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	var frame txFrame
	if err := bin.UnmarshalBorsh(&frame, raw); err != nil {
		return err
	}
	newMsg, ok := txDecoders[frame.Msg.Path]
	if !ok {
		return errors.Wrapf(errors.ErrType, "no message registered for path %q", frame.Msg.Path)
	}
	msg := newMsg()
	if err := msg.Unmarshal(frame.Msg.Payload); err != nil {
		return errors.Wrapf(err, "message %q", frame.Msg.Path)
	}
	tx.Msg = msg
	tx.Signatures = frame.Signatures
	return nil
}

// DecodeTx parses bytes into a transaction, implements squads.TxDecoder.
func DecodeTx(raw []byte) (squads.Tx, error) {
	var tx Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	return &tx, nil
}

// txDecoders maps a message path to its constructor so a transaction can
// be decoded from bytes. Populated during package initialization.
var txDecoders = make(map[string]func() squads.Msg)

// registerTxMsg declares a message type decodable from the wire.
func registerTxMsg(newMsg func() squads.Msg) {
	path := newMsg().Path()
	if _, ok := txDecoders[path]; ok {
		panic("message already registered for path " + path)
	}
	txDecoders[path] = newMsg
}
