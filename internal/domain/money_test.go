package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want Amount
		ok   bool
	}{
		{"40", 4000, true},
		{"0.01", 1, true},
		{"12.5", 1250, true},
		{"12.50", 1250, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"0.001", 0, false},
		{"1.005", 0, false},
		{"999999999999999999999", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAmount(decimal.RequireFromString(tc.in))
			if !tc.ok {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAmountJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Balance Amount `json:"balance"`
	}{MustAmount("40")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"balance":"40.00"}`, string(b))

	var v struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"7.25","b":3}`), &v))
	assert.Equal(t, Amount(725), v.A)
	assert.Equal(t, Amount(300), v.B)

	assert.Error(t, json.Unmarshal([]byte(`{"a":"0.125"}`), &v))
}

func TestAmountString(t *testing.T) {
	assert.Equal(t, "0.00", Amount(0).String())
	assert.Equal(t, "0.05", Amount(5).String())
	assert.Equal(t, "1234.56", Amount(123456).String())
}
