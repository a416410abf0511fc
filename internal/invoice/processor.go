package invoice

import "github.com/shopspring/decimal"

// taxRate is the fixed surcharge rate applied to commercial invoice payments.
var taxRate = decimal.New(14, -2) // 0.14

// Processor encapsulates the invoice-type-specific effect of accepting a
// payment. Implementations mutate the invoice and perform no validation;
// amount and remaining-balance checks happen in the service before this is
// called.
type Processor interface {
	ConfirmPayment(inv *Invoice, p Payment)
}

// processorFor maps an invoice type to its processor. The set is closed:
// adding an invoice type means adding its processor here as well.
func processorFor(t Type) (Processor, error) {
	switch t {
	case TypeStandard:
		return standardProcessor{}, nil
	case TypeCommercial:
		return commercialProcessor{}, nil
	default:
		return nil, ErrUnsupportedType
	}
}

type standardProcessor struct{}

func (standardProcessor) ConfirmPayment(inv *Invoice, p Payment) {
	inv.AmountPaid = inv.AmountPaid.Add(p.Amount)
	inv.Payments = append(inv.Payments, p)
}

type commercialProcessor struct{}

func (commercialProcessor) ConfirmPayment(inv *Invoice, p Payment) {
	inv.AmountPaid = inv.AmountPaid.Add(p.Amount)
	inv.TaxAmount = inv.TaxAmount.Add(p.Amount.Mul(taxRate))
	inv.Payments = append(inv.Payments, p)
}
