package orm

import (
	"testing"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/store"
	"github.com/iov-one/safepay/weavetest/assert"
)

func keys(objs []Object) []string {
	res := make([]string, len(objs))
	for i, o := range objs {
		res[i] = string(o.Key())
	}
	return res
}

func TestMultiIndex(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnt", newCounter("", "", 0)).
		WithIndex("owner", counterOwner, false)

	assert.Nil(t, b.Save(db, newCounter("c", "alice", 1)))
	assert.Nil(t, b.Save(db, newCounter("a", "alice", 2)))
	assert.Nil(t, b.Save(db, newCounter("b", "bob", 3)))
	// Not indexed.
	assert.Nil(t, b.Save(db, newCounter("d", "", 4)))

	objs, err := b.GetIndexed(db, "owner", []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, []string{"a", "c"}, keys(objs))

	// Moving "a" to bob updates both entries.
	assert.Nil(t, b.Save(db, newCounter("a", "bob", 2)))
	objs, err = b.GetIndexed(db, "owner", []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, []string{"c"}, keys(objs))
	objs, err = b.GetIndexed(db, "owner", []byte("bob"))
	assert.Nil(t, err)
	assert.Equal(t, []string{"a", "b"}, keys(objs))

	assert.Nil(t, b.Delete(db, []byte("c")))
	objs, err = b.GetIndexed(db, "owner", []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(objs))

	_, err = b.GetIndexed(db, "nope", []byte("alice"))
	assert.IsErr(t, errors.ErrInput, err)

	res, err := b.indexes["owner"].Query(db, safepay.KeyQueryMod, []byte("bob"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))
	assert.Equal(t, b.DBKey([]byte("a")), res[0].Key)
}

func TestUniqueIndex(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnt", newCounter("", "", 0)).
		WithIndex("owner", counterOwner, true)

	assert.Nil(t, b.Save(db, newCounter("a", "alice", 1)))
	err := b.Save(db, newCounter("b", "alice", 1))
	assert.IsErr(t, errors.ErrDuplicate, err)

	// Updating the same entity keeps its own index entry.
	assert.Nil(t, b.Save(db, newCounter("a", "alice", 5)))

	objs, err := b.GetIndexed(db, "owner", []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, []string{"a"}, keys(objs))

	assert.Panics(t, func() { b.WithIndex("owner", counterOwner, true) })
}

func TestMultiRef(t *testing.T) {
	var m MultiRef
	assert.Nil(t, m.Add([]byte("b")))
	assert.Nil(t, m.Add([]byte("a")))
	assert.Nil(t, m.Add([]byte("c")))
	assert.IsErr(t, errors.ErrDuplicate, m.Add([]byte("a")))
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, m.Refs)

	assert.Nil(t, m.Remove([]byte("b")))
	assert.IsErr(t, errors.ErrNotFound, m.Remove([]byte("b")))

	bz, err := m.Marshal()
	assert.Nil(t, err)
	var got MultiRef
	assert.Nil(t, got.Unmarshal(bz))
	assert.Equal(t, m.Refs, got.Refs)
}
