/*
Package batch provides middleware to execute several operations in one
transaction. All messages share the transaction's signatures and run in
order. The surrounding savepoint makes the batch atomic: one failing
message discards the whole batch.
*/
package batch

import (
	bin "github.com/gagliardetto/binary"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
)

// MaxMessages is the cap on batch size.
const MaxMessages = 10

var _ squads.Msg = (*ExecuteBatchMsg)(nil)

// ExecuteBatchMsg carries an ordered list of messages to run as one
// operation.
type ExecuteBatchMsg struct {
	Messages []squads.Msg
}

func (*ExecuteBatchMsg) Path() string {
	return "batch/execute"
}

func (m *ExecuteBatchMsg) Validate() error {
	if len(m.Messages) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no messages")
	}
	if len(m.Messages) > MaxMessages {
		return errors.Wrapf(errors.ErrInput, "batch must not exceed %d messages", MaxMessages)
	}
	for i, msg := range m.Messages {
		if _, ok := msg.(*ExecuteBatchMsg); ok {
			return errors.Wrap(errors.ErrInput, "batches cannot nest")
		}
		if err := msg.Validate(); err != nil {
			return errors.Wrapf(err, "message %d", i)
		}
	}
	return nil
}

// embeddedMsg is the wire frame of one batched message.
type embeddedMsg struct {
	Path    string
	Payload []byte
}

// batchFrame is the wire form of a whole batch.
type batchFrame struct {
	Messages []embeddedMsg
}

func (m *ExecuteBatchMsg) Marshal() ([]byte, error) {
	frame := batchFrame{Messages: make([]embeddedMsg, 0, len(m.Messages))}
	for _, msg := range m.Messages {
		payload, err := msg.Marshal()
		if err != nil {
			return nil, err
		}
		frame.Messages = append(frame.Messages, embeddedMsg{Path: msg.Path(), Payload: payload})
	}
	return bin.MarshalBorsh(&frame)
}

func (m *ExecuteBatchMsg) Unmarshal(raw []byte) error {
	var frame batchFrame
	if err := bin.UnmarshalBorsh(&frame, raw); err != nil {
		return err
	}
	msgs := make([]squads.Msg, 0, len(frame.Messages))
	for _, e := range frame.Messages {
		newMsg, ok := decoders[e.Path]
		if !ok {
			return errors.Wrapf(errors.ErrType, "no batchable message for path %q", e.Path)
		}
		msg := newMsg()
		if err := msg.Unmarshal(e.Payload); err != nil {
			return errors.Wrapf(err, "message %q", e.Path)
		}
		msgs = append(msgs, msg)
	}
	m.Messages = msgs
	return nil
}

// decoders maps a message path to its constructor, so a batch can be
// decoded from bytes.
var decoders = make(map[string]func() squads.Msg)

// RegisterMsg declares a message type usable inside a batch. Registering
// the same path twice panics, as that is a setup error.
func RegisterMsg(newMsg func() squads.Msg) {
	path := newMsg().Path()
	if _, ok := decoders[path]; ok {
		panic("message already registered for path " + path)
	}
	decoders[path] = newMsg
}
