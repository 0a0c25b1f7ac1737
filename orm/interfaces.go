package orm

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/x"
)

// Object is what is stored in the bucket
// Key is joined with the prefix to set the full key
// Value is the data stored
type Object interface {
	Keyed
	Cloneable
	// Validate returns error if the object is not in a valid
	// state to save to the db (eg. field missing, out of range, ...)
	x.Validater
	Value() safepay.Persistent
}

// Keyed is anything that can identify itself
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable will create a new object that can be loaded into
type Cloneable interface {
	Clone() Object
}

// Model is the value stored in a SimpleObj. It must be a pointer to a struct
// that can serialize itself.
type Model interface {
	x.Validater
	safepay.Persistent
}
