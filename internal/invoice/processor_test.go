package invoice

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessorFor(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		want    Processor
		wantErr bool
	}{
		{name: "Standard", typ: TypeStandard, want: standardProcessor{}},
		{name: "Commercial", typ: TypeCommercial, want: commercialProcessor{}},
		{name: "Unknown", typ: Type("internal"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := processorFor(tt.typ)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedType)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStandardProcessor_ConfirmPayment(t *testing.T) {
	inv := &Invoice{
		Type:       TypeStandard,
		Amount:     decimal.RequireFromString("100"),
		AmountPaid: decimal.Zero,
		TaxAmount:  decimal.Zero,
	}

	amounts := []string{"10", "25.50", "14.50"}
	for _, a := range amounts {
		standardProcessor{}.ConfirmPayment(inv, Payment{
			ID:     uuid.New(),
			Amount: decimal.RequireFromString(a),
		})
	}

	assert.True(t, inv.AmountPaid.Equal(decimal.RequireFromString("50")))
	assert.True(t, inv.TaxAmount.IsZero(), "standard invoices never accrue tax")
	assert.Len(t, inv.Payments, 3)
	assert.True(t, inv.AmountPaid.Equal(inv.TotalPaid()))
}

func TestCommercialProcessor_ConfirmPayment(t *testing.T) {
	inv := &Invoice{
		Type:       TypeCommercial,
		Amount:     decimal.RequireFromString("100"),
		AmountPaid: decimal.Zero,
		TaxAmount:  decimal.Zero,
	}

	amounts := []string{"50", "30", "20"}
	for _, a := range amounts {
		commercialProcessor{}.ConfirmPayment(inv, Payment{
			ID:     uuid.New(),
			Amount: decimal.RequireFromString(a),
		})
	}

	// 14% of the total paid, accrued per payment.
	assert.True(t, inv.AmountPaid.Equal(decimal.RequireFromString("100")))
	assert.True(t, inv.TaxAmount.Equal(decimal.RequireFromString("14")),
		"want tax 14, got %s", inv.TaxAmount)
	assert.Len(t, inv.Payments, 3)
	assert.True(t, inv.AmountPaid.Equal(inv.TotalPaid()))
}
