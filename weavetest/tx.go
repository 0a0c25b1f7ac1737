package weavetest

import "github.com/iov-one/safepay"

// Tx is a transaction holding a single message. Err, if set, is returned
// instead of the message.
type Tx struct {
	Msg safepay.Msg
	Err error
}

var _ safepay.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (safepay.Msg, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg, nil
}

// Marshal and Unmarshal are never called on a test transaction.
func (tx *Tx) Marshal() ([]byte, error) { panic("weavetest.Tx cannot be serialized") }
func (tx *Tx) Unmarshal([]byte) error    { panic("weavetest.Tx cannot be serialized") }

// Msg is a message known only by its route. Its serialized form is the raw
// Serialized bytes. Err, if set, is returned by every method.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
}

var _ safepay.Msg = (*Msg)(nil)

func (m *Msg) Path() string    { return m.RoutePath }
func (m *Msg) Validate() error { return m.Err }

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return m.Err
}
