package coin

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/safepay/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinArithmetic(t *testing.T) {
	cases := map[string]struct {
		a, b    Coin
		wantSum Coin
		wantErr *errors.Error
	}{
		"simple add": {
			a:       NewCoin(1, 500000000, "SOL"),
			b:       NewCoin(2, 700000000, "SOL"),
			wantSum: NewCoin(4, 200000000, "SOL"),
		},
		"add negative": {
			a:       NewCoin(1, 0, "SOL"),
			b:       NewCoin(-1, -1, "SOL"),
			wantSum: NewCoin(0, -1, "SOL"),
		},
		"zero without ticker": {
			a:       Coin{},
			b:       NewCoin(7, 0, "SOL"),
			wantSum: NewCoin(7, 0, "SOL"),
		},
		"currency mismatch": {
			a:       NewCoin(1, 0, "SOL"),
			b:       NewCoin(1, 0, "USD"),
			wantErr: errors.ErrCurrency,
		},
		"overflow": {
			a:       NewCoin(MaxInt, 0, "SOL"),
			b:       NewCoin(1, 0, "SOL"),
			wantErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.a.Add(tc.b)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.wantSum, got)
			}
		})
	}
}

func TestCoinCompare(t *testing.T) {
	a := NewCoin(2, 1, "SOL")
	b := NewCoin(2, 0, "SOL")
	assert.Equal(t, 1, a.Compare(b))
	assert.Equal(t, -1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, a.IsGTE(b))
	assert.False(t, b.IsGTE(a))
	assert.False(t, a.IsGTE(NewCoin(0, 0, "USD")))
}

func TestCoinHumanFormat(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    Coin
		wantErr bool
	}{
		"whole":        {raw: "4 SOL", want: NewCoin(4, 0, "SOL")},
		"fractional":   {raw: "0.00203928 SOL", want: NewCoin(0, 2039280, "SOL")},
		"negative":     {raw: "-1.5 IOV", want: NewCoin(-1, -500000000, "IOV")},
		"no ticker":    {raw: "12", wantErr: true},
		"lower ticker": {raw: "1 sol", wantErr: true},
		"too precise":  {raw: "1.0000000001 SOL", wantErr: true},
		"not a number": {raw: "one SOL", wantErr: true},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseHumanFormat(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			back, err := ParseHumanFormat(got.String())
			require.NoError(t, err)
			assert.Equal(t, got, back)
		})
	}
}

func TestCoinJSON(t *testing.T) {
	var c Coin
	require.NoError(t, json.Unmarshal([]byte(`"2.5 SOL"`), &c))
	assert.Equal(t, NewCoin(2, 500000000, "SOL"), c)

	require.NoError(t, json.Unmarshal([]byte(`{"whole": 3, "ticker": "IOV"}`), &c))
	assert.Equal(t, NewCoin(3, 0, "IOV"), c)
}

func TestCoinsAddSubtract(t *testing.T) {
	cs, err := CombineCoins(NewCoin(5, 0, "SOL"), NewCoin(1, 0, "IOV"), NewCoin(1, 0, "SOL"))
	require.NoError(t, err)
	require.NoError(t, cs.Validate())
	require.Len(t, cs, 2)
	assert.Equal(t, "IOV", cs[0].Ticker)
	assert.True(t, cs.Contains(NewCoin(6, 0, "SOL")))
	assert.False(t, cs.Contains(NewCoin(6, 1, "SOL")))

	cs2, err := cs.Subtract(NewCoin(1, 0, "IOV"))
	require.NoError(t, err)
	assert.Len(t, cs2, 1)
	assert.Len(t, cs, 2, "original set must not be modified")

	cs3, err := cs2.Subtract(NewCoin(7, 0, "SOL"))
	require.NoError(t, err)
	assert.False(t, cs3.IsNonNegative())
}
