package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		isErr bool
	}{
		{name: "plain", in: "2.50", want: "2.5"},
		{name: "pound symbol", in: "£2.50", want: "2.5"},
		{name: "euro symbol", in: "€19.99", want: "19.99"},
		{name: "dollar symbol", in: "$5", want: "5"},
		{name: "embedded spaces", in: "£ 301.97", want: "301.97"},
		{name: "comma decimal", in: "19,00", want: "19"},
		{name: "thousands separator", in: "1,234.56", want: "1234.56"},
		{name: "integer", in: "42", want: "42"},
		{name: "empty", in: "", isErr: true},
		{name: "symbols only", in: "£ ", isErr: true},
		{name: "garbage", in: "n/a", isErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.isErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestParseQuantity(t *testing.T) {
	t.Run("plain integer", func(t *testing.T) {
		q, err := ParseQuantity("3")
		require.NoError(t, err)
		assert.Equal(t, 3, q)
	})

	t.Run("float truncates", func(t *testing.T) {
		q, err := ParseQuantity("6.0")
		require.NoError(t, err)
		assert.Equal(t, 6, q)
	})

	t.Run("non-numeric fails", func(t *testing.T) {
		_, err := ParseQuantity("six")
		assert.Error(t, err)
	})
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"42.005", "42.01"},
		{"42.004", "42.00"},
		{"41.995", "42.00"},
		{"7.00", "7.00"},
	}

	for _, tt := range tests {
		got := RoundHalfUp(decimal.RequireFromString(tt.in), 2)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
			"RoundHalfUp(%s) = %s, want %s", tt.in, got, tt.want)
	}
}

func TestVAT(t *testing.T) {
	net := decimal.RequireFromString("35.00")
	rate := decimal.NewFromInt(20)
	assert.True(t, VAT(net, rate).Equal(decimal.RequireFromString("7.00")))
}

func TestMoneyDisplay(t *testing.T) {
	m := NewFromDecimal(decimal.RequireFromString("42.00"), GBP)
	assert.Equal(t, int64(4200), m.Amount())
	assert.Equal(t, GBP, m.Currency())
	assert.True(t, m.ToDecimal().Equal(decimal.RequireFromString("42.00")))

	sum, err := m.Add(New(50, GBP))
	require.NoError(t, err)
	assert.Equal(t, int64(4250), sum.Amount())
}
