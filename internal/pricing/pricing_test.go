package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Baratelli/BaratelliMayorista/internal/pricing"
)

func TestBulkPrice(t *testing.T) {
	cases := []struct {
		price    float64
		expected float64
	}{
		{1200, 1100},
		{1250, 1200},
		{1000, 900},
		{150, 100},
		{100, 0},
		{101, 100},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, pricing.BulkPrice(tc.price), "price %.2f", tc.price)
	}
}

func TestEffectiveUnitPrice(t *testing.T) {
	t.Run("retail price below bulk quantity", func(t *testing.T) {
		assert.Equal(t, 1200.0, pricing.EffectiveUnitPrice(1200, nil, 2))
	})

	t.Run("derived bulk price at bulk quantity", func(t *testing.T) {
		assert.Equal(t, 1100.0, pricing.EffectiveUnitPrice(1200, nil, 3))
	})

	t.Run("explicit bulk price wins over derived", func(t *testing.T) {
		bulk := 999.0
		assert.Equal(t, 999.0, pricing.EffectiveUnitPrice(1200, &bulk, 5))
	})

	t.Run("explicit bulk price ignored below bulk quantity", func(t *testing.T) {
		bulk := 999.0
		assert.Equal(t, 1200.0, pricing.EffectiveUnitPrice(1200, &bulk, 2))
	})
}

func TestQuoteLine(t *testing.T) {
	t.Run("bulk order accrues savings", func(t *testing.T) {
		line := pricing.QuoteLine(1200, nil, 3)
		assert.Equal(t, 1100.0, line.UnitPrice)
		assert.Equal(t, 3300.0, line.Subtotal)
		assert.Equal(t, 300.0, line.Saving)
	})

	t.Run("small order has no savings", func(t *testing.T) {
		line := pricing.QuoteLine(1200, nil, 2)
		assert.Equal(t, 1200.0, line.UnitPrice)
		assert.Equal(t, 2400.0, line.Subtotal)
		assert.Equal(t, 0.0, line.Saving)
	})
}
