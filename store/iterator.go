package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/safepay/errors"
)

// ascendRange returns a snapshot of all cached items within [start, end).
// A nil start or end means the range is open on that side.
//
// Taking a copy allows the caller to modify the cache while iterating.
func ascendRange(bt *btree.BTree, start, end []byte) []entry {
	var items []entry
	collect := func(i btree.Item) bool {
		items = append(items, i.(entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(entry{key: end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(entry{key: start}, collect)
	default:
		bt.AscendRange(entry{key: start}, entry{key: end}, collect)
	}
	return items
}

// mergeIterator combines the cached items with the backing store iterator.
// Cached items shadow parent values with the same key and deleted items
// hide them.
type mergeIterator struct {
	cached    []entry
	parent    Iterator
	ascending bool

	// lookahead of the parent iterator
	pKey, pValue []byte
	pLoaded      bool
	pDone        bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(cached []entry, parent Iterator, ascending bool) *mergeIterator {
	return &mergeIterator{
		cached:    cached,
		parent:    parent,
		ascending: ascending,
	}
}

func (m *mergeIterator) loadParent() error {
	if m.pLoaded || m.pDone {
		return nil
	}
	key, value, err := m.parent.Next()
	switch {
	case errors.ErrIteratorDone.Is(err):
		m.pDone = true
		return nil
	case err != nil:
		return err
	}
	m.pKey, m.pValue, m.pLoaded = key, value, true
	return nil
}

// before returns true if a must be returned before b.
func (m *mergeIterator) before(a, b []byte) bool {
	if m.ascending {
		return bytes.Compare(a, b) < 0
	}
	return bytes.Compare(a, b) > 0
}

func (m *mergeIterator) Next() (key, value []byte, err error) {
	for {
		if err := m.loadParent(); err != nil {
			return nil, nil, err
		}

		if len(m.cached) == 0 {
			if m.pDone {
				return nil, nil, errors.Wrap(errors.ErrIteratorDone, "cache done")
			}
			m.pLoaded = false
			return m.pKey, m.pValue, nil
		}

		head := m.cached[0]
		if !m.pDone && m.before(m.pKey, head.key) {
			m.pLoaded = false
			return m.pKey, m.pValue, nil
		}

		// The cache item is first or shadows the parent value.
		if !m.pDone && bytes.Equal(m.pKey, head.key) {
			m.pLoaded = false
		}
		m.cached = m.cached[1:]
		if !head.deleted {
			return head.key, head.value, nil
		}
	}
}

func (m *mergeIterator) Release() {
	m.parent.Release()
	m.cached = nil
}
