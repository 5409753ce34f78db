package squadstest

import (
	"github.com/zcombinatorio/squads"
)

// Tx is a mock implementing squads.Tx interface, wrapping a single
// message.
type Tx struct {
	// Msg is the message that this transaction is carrying.
	Msg squads.Msg

	// Err if set is returned by any method call.
	Err error
}

var _ squads.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (squads.Msg, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg.Marshal()
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if tx.Err != nil {
		return tx.Err
	}
	return tx.Msg.Unmarshal(raw)
}

// Msg is a mock implementing squads.Msg interface.
type Msg struct {
	// Serialized is returned by both Marshal and the sign bytes.
	Serialized []byte

	// RoutePath is returned by Path.
	RoutePath string

	// Err if set is returned by Marshal, Unmarshal and Validate.
	Err error
}

var _ squads.Msg = (*Msg)(nil)

func (m *Msg) Marshal() ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Serialized, nil
}

func (m *Msg) Unmarshal(raw []byte) error {
	if m.Err != nil {
		return m.Err
	}
	m.Serialized = raw
	return nil
}

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
