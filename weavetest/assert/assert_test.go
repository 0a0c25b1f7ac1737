package assert

import (
	"testing"

	"github.com/iov-one/safepay/errors"
)

// recorder collects failures instead of stopping the test.
type recorder struct {
	testing.TB
	failures int
}

func (r *recorder) Fatal(args ...interface{}) {
	r.TB.Log(args...)
	r.failures++
}

func (r *recorder) Fatalf(format string, args ...interface{}) {
	r.TB.Logf(format, args...)
	r.failures++
}

func expectFailure(t *testing.T, want bool, check func(Tester)) {
	t.Helper()
	r := &recorder{TB: t}
	check(r)
	if got := r.failures > 0; got != want {
		t.Fatalf("want failure %v, got %d failures", want, r.failures)
	}
}

func TestNil(t *testing.T) {
	var nilPtr *errors.Error
	var nilMap map[string]int

	expectFailure(t, false, func(tb Tester) { Nil(tb, nil) })
	expectFailure(t, false, func(tb Tester) { Nil(tb, nilPtr) })
	expectFailure(t, false, func(tb Tester) { Nil(tb, nilMap) })
	expectFailure(t, true, func(tb Tester) { Nil(tb, errors.ErrEmpty) })
	expectFailure(t, true, func(tb Tester) { Nil(tb, 0) })
}

func TestEqual(t *testing.T) {
	expectFailure(t, false, func(tb Tester) { Equal(tb, []byte("a"), []byte("a")) })
	expectFailure(t, true, func(tb Tester) { Equal(tb, int64(1), 1) })
	expectFailure(t, true, func(tb Tester) { Equal(tb, "a", "b") })
}

func TestPanics(t *testing.T) {
	expectFailure(t, false, func(tb Tester) { Panics(tb, func() { panic("boom") }) })
	expectFailure(t, true, func(tb Tester) { Panics(tb, func() {}) })
}

func TestIsErr(t *testing.T) {
	cases := map[string]struct {
		want     error
		got      error
		wantFail bool
	}{
		"same kind":      {want: errors.ErrEmpty, got: errors.ErrEmpty},
		"wrapped kind":   {want: errors.ErrEmpty, got: errors.Wrap(errors.ErrEmpty, "grant")},
		"both nil":       {},
		"nil want":       {got: errors.ErrEmpty, wantFail: true},
		"nil got":        {want: errors.ErrEmpty, wantFail: true},
		"different kind": {want: errors.ErrEmpty, got: errors.ErrState, wantFail: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			expectFailure(t, tc.wantFail, func(tb Tester) { IsErr(tb, tc.want, tc.got) })
		})
	}
}

func TestFieldError(t *testing.T) {
	amount := errors.Field("Amount", errors.ErrAmount, "must be positive")

	cases := map[string]struct {
		err      error
		field    string
		want     *errors.Error
		wantFail bool
	}{
		"single matching error": {
			err:   amount,
			field: "Amount",
			want:  errors.ErrAmount,
		},
		"no error expected and none present": {
			err:   amount,
			field: "UID",
		},
		"no error expected but one present": {
			err:      amount,
			field:    "Amount",
			wantFail: true,
		},
		"error of another kind": {
			err:      amount,
			field:    "Amount",
			want:     errors.ErrEmpty,
			wantFail: true,
		},
		"missing field error": {
			err:      amount,
			field:    "Mint",
			want:     errors.ErrAmount,
			wantFail: true,
		},
		"two errors for one field": {
			err: errors.Append(
				amount,
				errors.Field("Amount", errors.ErrAmount, "too big"),
			),
			field:    "Amount",
			want:     errors.ErrAmount,
			wantFail: true,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			expectFailure(t, tc.wantFail, func(tb Tester) { FieldError(tb, tc.err, tc.field, tc.want) })
		})
	}
}

func TestABCICode(t *testing.T) {
	expectFailure(t, false, func(tb Tester) { ABCICode(tb, nil, 0, "") })
	expectFailure(t, false, func(tb Tester) {
		ABCICode(tb, errors.ErrUnauthorized, errors.ErrUnauthorized.ABCICode(), "unauthorized")
	})
	expectFailure(t, true, func(tb Tester) { ABCICode(tb, nil, errors.ErrState.ABCICode(), "state") })
	expectFailure(t, true, func(tb Tester) { ABCICode(tb, errors.ErrState, 0, "") })
}
