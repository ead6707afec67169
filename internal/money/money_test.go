package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"Free", 0},
		{"$1,234.50", 1234.50},
		{"$52.00/user", 52.00},
		{"₹4,500", 4500},
		{"Contact us for E5 pricing", 0},
		{"$0.00", 0},
		{"  $12.50", 12.50},
		{"12", 12},
		{"-5", 0},
		{"₹1,00,000", 100000},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Parse(tt.in)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$0.00", Format(0, USD))
	assert.Equal(t, "$115.00", Format(115, USD))
	assert.Equal(t, "$1,234.50", Format(1234.5, USD))
	assert.Equal(t, "₹9,090", Format(9090, INR))
	assert.Equal(t, "₹145", Format(145, INR))
	assert.Equal(t, "₹1,000,000", Format(1e6, INR))
}
