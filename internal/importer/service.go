package importer

import (
	"fmt"
	"io"

	"github.com/dcastro/payable/internal/importer/remit"
	"github.com/dcastro/payable/internal/invoice"
)

type Service struct {
	remitImporter Importer
}

func NewService() *Service {
	return &Service{
		remitImporter: remit.New(),
	}
}

// Import parses a remittance file into payment params using the parser for
// the given format.
func (s *Service) Import(format Format, r io.Reader) ([]invoice.PaymentParams, error) {
	var importer Importer

	switch format {
	case FormatRemit:
		importer = s.remitImporter
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	return importer.Parse(r)
}
