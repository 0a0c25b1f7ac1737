package orm

import (
	"bytes"
	"sort"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

// Indexer calculates the secondary index key for a given object. Returning
// nil means the object is not indexed.
type Indexer func(Object) ([]byte, error)

// Index represents a secondary index on some data. It is indexed by an
// arbitrary key returned by Indexer. The value is one primary key (unique),
// or an ordered set of primary keys (not unique).
type Index struct {
	name   string
	id     []byte
	unique bool
	index  Indexer
	refKey func([]byte) []byte
}

var _ safepay.QueryHandler = Index{}

// NewIndex constructs an index.
// Indexer calculates the index for an object
// unique enforces a unique constraint on the index
// refKey calculates the absolute dbkey for a ref
func NewIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) Index {
	return Index{
		name:   name,
		id:     append([]byte("_i."), []byte(name+":")...),
		index:  indexer,
		unique: unique,
		refKey: refKey,
	}
}

// IndexKey is the full key we store in the db, including prefix
func (i Index) IndexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

// Update handles updating the reference to the object in
// the secondary index.
//
// prev == nil means insert
// save == nil means delete
// both == nil is error
// if both != nil and prev.Key() != save.Key() this is an error
func (i Index) Update(db safepay.KVStore, prev Object, save Object) error {
	switch {
	case prev == nil && save == nil:
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	case prev == nil:
		key, err := i.index(save)
		if err != nil || key == nil {
			return err
		}
		return i.insert(db, key, save.Key())
	case save == nil:
		key, err := i.index(prev)
		if err != nil || key == nil {
			return err
		}
		return i.remove(db, key, prev.Key())
	}

	if !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrImmutable, "cannot change primary key of an indexed object")
	}
	oldKey, err := i.index(prev)
	if err != nil {
		return err
	}
	newKey, err := i.index(save)
	if err != nil {
		return err
	}
	if bytes.Equal(oldKey, newKey) {
		return nil
	}
	if oldKey != nil {
		if err := i.remove(db, oldKey, prev.Key()); err != nil {
			return err
		}
	}
	if newKey != nil {
		return i.insert(db, newKey, save.Key())
	}
	return nil
}

// GetAt returns the list of primary keys stored under given index value.
func (i Index) GetAt(db safepay.ReadOnlyKVStore, index []byte) ([][]byte, error) {
	val, err := db.Get(i.IndexKey(index))
	if err != nil || val == nil {
		return nil, err
	}
	if i.unique {
		return [][]byte{val}, nil
	}
	var refs MultiRef
	if err := refs.Unmarshal(val); err != nil {
		return nil, err
	}
	return refs.Refs, nil
}

// Query returns all the models referenced by the index value (or prefix).
func (i Index) Query(db safepay.ReadOnlyKVStore, mod string, data []byte) ([]safepay.Model, error) {
	var refs [][]byte
	switch mod {
	case safepay.KeyQueryMod:
		r, err := i.GetAt(db, data)
		if err != nil {
			return nil, err
		}
		refs = r
	case safepay.PrefixQueryMod:
		models, err := queryPrefix(db, i.IndexKey(data))
		if err != nil {
			return nil, err
		}
		for _, m := range models {
			if i.unique {
				refs = append(refs, m.Value)
				continue
			}
			var mr MultiRef
			if err := mr.Unmarshal(m.Value); err != nil {
				return nil, err
			}
			refs = append(refs, mr.Refs...)
		}
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}

	res := make([]safepay.Model, 0, len(refs))
	for _, ref := range refs {
		key := i.refKey(ref)
		val, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		res = append(res, safepay.Pair(key, val))
	}
	return res, nil
}

func (i Index) insert(db safepay.KVStore, index []byte, pk []byte) error {
	key := i.IndexKey(index)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}

	if i.unique {
		if cur != nil {
			return errors.Wrapf(errors.ErrDuplicate, "index %s", i.name)
		}
		return db.Set(key, pk)
	}

	var refs MultiRef
	if cur != nil {
		if err := refs.Unmarshal(cur); err != nil {
			return err
		}
	}
	if err := refs.Add(pk); err != nil {
		return err
	}
	bz, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, bz)
}

func (i Index) remove(db safepay.KVStore, index []byte, pk []byte) error {
	key := i.IndexKey(index)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}
	if cur == nil {
		return errors.Wrapf(errors.ErrNotFound, "index %s", i.name)
	}

	if i.unique {
		if !bytes.Equal(cur, pk) {
			return errors.Wrapf(errors.ErrNotFound, "index %s", i.name)
		}
		return db.Delete(key)
	}

	var refs MultiRef
	if err := refs.Unmarshal(cur); err != nil {
		return err
	}
	if err := refs.Remove(pk); err != nil {
		return err
	}
	if len(refs.Refs) == 0 {
		return db.Delete(key)
	}
	bz, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, bz)
}

// MultiRef is a sorted set of primary keys stored by a non unique index.
type MultiRef struct {
	Refs [][]byte
}

func (m *MultiRef) Marshal() ([]byte, error) {
	return safepay.MarshalBinary(m)
}

func (m *MultiRef) Unmarshal(raw []byte) error {
	return safepay.UnmarshalBinary(raw, m)
}

// Add inserts the reference keeping the set sorted.
func (m *MultiRef) Add(ref []byte) error {
	pos := sort.Search(len(m.Refs), func(i int) bool { return bytes.Compare(m.Refs[i], ref) >= 0 })
	if pos < len(m.Refs) && bytes.Equal(m.Refs[pos], ref) {
		return errors.Wrap(errors.ErrDuplicate, "reference already present")
	}
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[pos+1:], m.Refs[pos:])
	m.Refs[pos] = ref
	return nil
}

// Remove deletes the reference from the set.
func (m *MultiRef) Remove(ref []byte) error {
	pos := sort.Search(len(m.Refs), func(i int) bool { return bytes.Compare(m.Refs[i], ref) >= 0 })
	if pos == len(m.Refs) || !bytes.Equal(m.Refs[pos], ref) {
		return errors.Wrap(errors.ErrNotFound, "reference not present")
	}
	m.Refs = append(m.Refs[:pos], m.Refs[pos+1:]...)
	return nil
}
