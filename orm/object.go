package orm

import (
	"reflect"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/x"
)

// SimpleObj is the Object implementation used by all buckets: a model and
// the key it is stored under.
type SimpleObj struct {
	key   []byte
	value Model
}

var _ x.Validater = (*SimpleObj)(nil)

func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o SimpleObj) Key() []byte               { return o.key }
func (o SimpleObj) Value() safepay.Persistent { return o.value }
func (o *SimpleObj) SetKey(key []byte)        { o.key = key }

// Validate requires both key and value and then validates the model.
func (o SimpleObj) Validate() error {
	var err error
	if len(o.key) == 0 {
		err = errors.Append(err, errors.Field("Key", errors.ErrEmpty, "required"))
	}
	if o.value == nil {
		return errors.Append(err, errors.Field("Value", errors.ErrEmpty, "required"))
	}
	if err != nil {
		return err
	}
	return o.value.Validate()
}

// Clone returns an object with a copy of the key and a zero model of the
// same type, ready to be loaded from the store.
func (o *SimpleObj) Clone() Object {
	model := reflect.New(reflect.TypeOf(o.value).Elem()).Interface().(Model)
	var key []byte
	if len(o.key) != 0 {
		key = append(key, o.key...)
	}
	return NewSimpleObj(key, model)
}
