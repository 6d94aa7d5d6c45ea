package coin

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/timelock/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	maxInt128 = "170141183460469231731687303715884105727"
	minInt128 = "-170141183460469231731687303715884105728"
)

func TestParseAmount(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    string
		wantErr *errors.Error
	}{
		"zero":         {raw: "0", want: "0"},
		"positive":     {raw: "200", want: "200"},
		"negative":     {raw: "-17", want: "-17"},
		"max int128":   {raw: maxInt128, want: maxInt128},
		"min int128":   {raw: minInt128, want: minInt128},
		"above int128": {raw: "170141183460469231731687303715884105728", wantErr: errors.ErrOverflow},
		"below int128": {raw: "-170141183460469231731687303715884105729", wantErr: errors.ErrOverflow},
		"not a number": {raw: "12a", wantErr: errors.ErrAmount},
		"fraction":     {raw: "1.5", wantErr: errors.ErrAmount},
		"empty":        {raw: "", wantErr: errors.ErrEmpty},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			a, err := ParseAmount(tc.raw)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, a.String())
			}
		})
	}
}

func TestAmountArithmetic(t *testing.T) {
	a := NewAmount(200)
	b := NewAmount(50)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "250", sum.String())

	diff, err := b.Sub(a)
	require.NoError(t, err)
	assert.Equal(t, "-150", diff.String())
	assert.True(t, diff.IsNegative())
	assert.False(t, diff.IsPositive())

	// Inputs are not modified.
	assert.Equal(t, "200", a.String())
	assert.Equal(t, "50", b.String())

	max := MustParseAmount(maxInt128)
	_, err = max.Add(NewAmount(1))
	assert.True(t, errors.ErrOverflow.Is(err))

	min := MustParseAmount(minInt128)
	_, err = min.Sub(NewAmount(1))
	assert.True(t, errors.ErrOverflow.Is(err))

	assert.True(t, a.IsGTE(b))
	assert.True(t, a.IsGTE(a))
	assert.False(t, b.IsGTE(a))
	assert.True(t, a.Equals(NewAmount(200)))
}

func TestAmountZeroValue(t *testing.T) {
	var zero Amount
	assert.True(t, zero.IsZero())
	assert.False(t, zero.IsPositive())
	assert.Equal(t, "0", zero.String())
	assert.NoError(t, zero.Validate())

	sum, err := zero.Add(NewAmount(3))
	require.NoError(t, err)
	assert.True(t, sum.Equals(NewAmount(3)))
}

func TestAmountJSON(t *testing.T) {
	raw, err := json.Marshal(MustParseAmount(maxInt128))
	require.NoError(t, err)
	assert.Equal(t, `"`+maxInt128+`"`, string(raw))

	var a Amount
	require.NoError(t, json.Unmarshal(raw, &a))
	assert.Equal(t, maxInt128, a.String())

	require.NoError(t, json.Unmarshal([]byte(`42`), &a))
	assert.Equal(t, "42", a.String())

	err = json.Unmarshal([]byte(`"nope"`), &a)
	assert.True(t, errors.ErrAmount.Is(err))
}

func TestIsTicker(t *testing.T) {
	assert.True(t, IsTicker("IOV"))
	assert.True(t, IsTicker("ETH2"))
	assert.False(t, IsTicker("io"))
	assert.False(t, IsTicker("iov"))
	assert.False(t, IsTicker("2ETH"))
	assert.False(t, IsTicker("TOOLONGX"))
}
