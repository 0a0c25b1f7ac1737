package safepay

import (
	"github.com/iov-one/safepay/errors"
	amino "github.com/tendermint/go-amino"
)

// cdc serializes every model, message and transaction. Only concrete struct
// types are encoded so no registration is needed.
var cdc = amino.NewCodec()

// MarshalBinary returns the binary representation of given struct.
// Use it to implement the Marshaller interface.
func MarshalBinary(obj interface{}) ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(obj)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot marshal %T: %s", obj, err)
	}
	return bz, nil
}

// UnmarshalBinary loads the binary representation into the struct that ptr
// points to. Use it to implement the Persistent interface.
func UnmarshalBinary(bz []byte, ptr interface{}) error {
	if err := cdc.UnmarshalBinaryBare(bz, ptr); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot unmarshal %T: %s", ptr, err)
	}
	return nil
}
