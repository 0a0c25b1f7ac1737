package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/store"
	"github.com/iov-one/safepay/weavetest"
	"github.com/iov-one/safepay/weavetest/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestRecovery(t *testing.T) {
	h := weavetest.Decorate(&weavetest.PanicHandler{Msg: "boom"}, NewRecovery())
	ctx := context.Background()
	db := store.MemStore()
	tx := &weavetest.Tx{}

	_, err := h.Check(ctx, db, tx)
	assert.IsErr(t, errors.ErrPanic, err)
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("panic message lost: %s", err)
	}
	_, err = h.Deliver(ctx, db, tx)
	assert.IsErr(t, errors.ErrPanic, err)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewTMLogger(log.NewSyncWriter(&buf))
	ctx := safepay.WithLogger(context.Background(), logger)
	db := store.MemStore()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "grant/create"}}

	ok := weavetest.Decorate(&weavetest.Handler{
		DeliverResult: safepay.DeliverResult{Log: "all good"},
	}, NewLogging())
	_, err := ok.Deliver(ctx, db, tx)
	assert.Nil(t, err)
	out := buf.String()
	if !strings.Contains(out, "path=grant/create") || !strings.Contains(out, "all good") {
		t.Fatalf("unexpected log output: %q", out)
	}

	buf.Reset()
	failing := weavetest.Decorate(&weavetest.Handler{
		DeliverErr: errors.ErrUnauthorized,
	}, NewLogging())
	_, err = failing.Deliver(ctx, db, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	if out := buf.String(); !strings.HasPrefix(out, "E[") {
		t.Fatalf("want error level entry, got %q", out)
	}
}

func TestSavepoint(t *testing.T) {
	key, value := []byte("key"), []byte("value")
	cases := map[string]struct {
		savepoint Savepoint
		check     bool
		err       error
		wantKey   bool
	}{
		"disabled keeps writes of a failed check": {
			savepoint: NewSavepoint(),
			check:     true,
			err:       errors.ErrState,
			wantKey:   true,
		},
		"check rollback": {
			savepoint: NewSavepoint().OnCheck(),
			check:     true,
			err:       errors.ErrState,
			wantKey:   false,
		},
		"deliver rollback": {
			savepoint: NewSavepoint().OnDeliver(),
			err:       errors.ErrState,
			wantKey:   false,
		},
		"check savepoint does not affect deliver": {
			savepoint: NewSavepoint().OnCheck(),
			err:       errors.ErrState,
			wantKey:   true,
		},
		"both enabled, success writes": {
			savepoint: NewSavepoint().OnCheck().OnDeliver(),
			check:     true,
			wantKey:   true,
		},
		"deliver success writes": {
			savepoint: NewSavepoint().OnDeliver(),
			wantKey:   true,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db := store.MemStore()
			h := weavetest.Decorate(&weavetest.WriteHandler{Key: key, Value: value, Err: tc.err}, tc.savepoint)
			ctx := context.Background()

			var err error
			if tc.check {
				_, err = h.Check(ctx, db, &weavetest.Tx{})
			} else {
				_, err = h.Deliver(ctx, db, &weavetest.Tx{})
			}
			if tc.err == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.err, err)
			}

			has, err := db.Has(key)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantKey, has)
		})
	}
}

func TestActionTagger(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "grant/cancel"}}

	h := weavetest.Decorate(&weavetest.Handler{}, NewActionTagger())
	res, err := h.Deliver(ctx, db, tx)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res.Tags))
	assert.Equal(t, []byte(ActionKey), res.Tags[0].Key)
	assert.Equal(t, []byte("grant/cancel"), res.Tags[0].Value)

	failing := weavetest.Decorate(&weavetest.Handler{DeliverErr: errors.ErrState}, NewActionTagger())
	_, err = failing.Deliver(ctx, db, tx)
	assert.IsErr(t, errors.ErrState, err)
}
