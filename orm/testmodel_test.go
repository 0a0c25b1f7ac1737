package orm

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

// counter is a tiny model used to exercise buckets and indexes.
type counter struct {
	Metadata *safepay.Metadata
	Owner    []byte
	Count    int64
}

func (c *counter) Marshal() ([]byte, error) {
	return safepay.MarshalBinary(c)
}

func (c *counter) Unmarshal(raw []byte) error {
	return safepay.UnmarshalBinary(raw, c)
}

func (c *counter) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if c.Count < 0 {
		return errors.Field("Count", errors.ErrAmount, "negative")
	}
	return nil
}

func newCounter(key string, owner string, count int64) *SimpleObj {
	var o []byte
	if owner != "" {
		o = []byte(owner)
	}
	return NewSimpleObj([]byte(key), &counter{
		Metadata: &safepay.Metadata{Schema: 1},
		Owner:    o,
		Count:    count,
	})
}

func counterOwner(obj Object) ([]byte, error) {
	c, ok := obj.Value().(*counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return c.Owner, nil
}
