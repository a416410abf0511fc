package remit

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	enc "github.com/dcastro/payable/internal/encoding"
	"github.com/dcastro/payable/internal/invoice"
)

// Parser reads remittance advice CSV exports and produces payment params.
// The expected layout is semicolon-separated with a header row naming a
// reference and an amount column; rows before the header (bank portal
// preambles) are skipped.
type Parser struct{}

func New() *Parser {
	return &Parser{}
}

const (
	colReference = "reference"
	colAmount    = "amount"
)

func (p *Parser) Parse(r io.Reader) ([]invoice.PaymentParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	refCol, amountCol, headerIdx := detectHeader(rows)
	if refCol < 0 {
		return nil, fmt.Errorf("no remittance header found: expected %q and %q columns", colReference, colAmount)
	}

	return parseRows(rows[headerIdx+1:], headerIdx+1, refCol, amountCol)
}

// detectHeader scans rows for one naming both required columns and returns
// their indices plus the header row index. refCol is -1 when no row matches.
func detectHeader(rows [][]string) (refCol, amountCol, headerIdx int) {
	for rowIdx, row := range rows {
		refCol, amountCol = -1, -1

		for i, cell := range row {
			switch strings.ToLower(strings.TrimSpace(cell)) {
			case colReference:
				refCol = i
			case colAmount:
				amountCol = i
			}
		}

		if refCol >= 0 && amountCol >= 0 {
			return refCol, amountCol, rowIdx
		}
	}

	return -1, -1, 0
}

func parseRows(rows [][]string, offset, refCol, amountCol int) ([]invoice.PaymentParams, error) {
	params := make([]invoice.PaymentParams, 0, len(rows))

	for i, row := range rows {
		rowNum := offset + i + 1

		if isBlank(row) {
			continue
		}

		if len(row) <= refCol || len(row) <= amountCol {
			return nil, fmt.Errorf("row %d: too few columns", rowNum)
		}

		reference := strings.TrimSpace(row[refCol])
		if reference == "" {
			return nil, fmt.Errorf("row %d: empty reference", rowNum)
		}

		amount, err := parseEuropeanAmount(row[amountCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", rowNum, row[amountCol], err)
		}

		if !amount.IsPositive() {
			return nil, fmt.Errorf("row %d: payment amount must be positive, got %s", rowNum, amount)
		}

		params = append(params, invoice.PaymentParams{
			Reference: reference,
			Amount:    amount,
		})
	}

	return params, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
