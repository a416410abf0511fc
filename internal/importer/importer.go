package importer

import (
	"io"

	"github.com/dcastro/payable/internal/invoice"
)

// Format identifies a supported remittance file format.
type Format string

const (
	FormatRemit Format = "remit"
)

type Importer interface {
	Parse(r io.Reader) ([]invoice.PaymentParams, error)
}
