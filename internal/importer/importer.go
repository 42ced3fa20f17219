// Package importer parses bank statement CSV exports into transaction
// create params. It detects the file's encoding, finds the header row,
// and maps a small set of known column names.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	enc "github.com/pmcouto/centavo/internal/encoding"
	"github.com/pmcouto/centavo/internal/transaction"
)

// Options carry the fields a statement file does not contain.
type Options struct {
	OwnerID         uuid.UUID
	DefaultCurrency string
}

// Column names accepted for each field, lowercased. Covers the English
// and Portuguese exports we have seen.
var (
	dateCols     = []string{"date", "data", "data mov.", "data valor"}
	descCols     = []string{"description", "descrição", "descricao", "descritivo"}
	amountCols   = []string{"amount", "montante", "valor", "importância"}
	currencyCols = []string{"currency", "moeda"}
)

var dateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006"}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Parse reads a statement CSV and returns one create params per data row.
// Amounts may use either decimal convention ("1.234,56" or "1,234.56");
// negative amounts become expenses, positive ones income.
func (s *Service) Parse(r io.Reader, opts Options) ([]transaction.CreateParams, error) {
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

	header, headerIdx := findHeader(rows)
	if header == nil {
		return nil, fmt.Errorf("no header row found: need date, description and amount columns")
	}

	var params []transaction.CreateParams

	for i, row := range rows[headerIdx+1:] {
		if emptyRow(row) {
			continue
		}

		p, err := parseRow(header, row, opts)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", headerIdx+2+i, err)
		}

		params = append(params, p)
	}

	return params, nil
}

// columns locates each field's index in the header row.
type columns struct {
	date     int
	desc     int
	amount   int
	currency int // -1 when the file has no currency column
}

func findHeader(rows [][]string) (*columns, int) {
	for idx, row := range rows {
		names := make(map[string]int, len(row))
		for i, cell := range row {
			names[strings.ToLower(strings.TrimSpace(cell))] = i
		}

		date, okDate := firstOf(names, dateCols)
		desc, okDesc := firstOf(names, descCols)
		amount, okAmount := firstOf(names, amountCols)

		if !okDate || !okDesc || !okAmount {
			continue
		}

		cols := &columns{date: date, desc: desc, amount: amount, currency: -1}
		if cur, ok := firstOf(names, currencyCols); ok {
			cols.currency = cur
		}

		return cols, idx
	}

	return nil, 0
}

func firstOf(names map[string]int, candidates []string) (int, bool) {
	for _, c := range candidates {
		if i, ok := names[c]; ok {
			return i, true
		}
	}

	return 0, false
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

func parseRow(cols *columns, row []string, opts Options) (transaction.CreateParams, error) {
	if n := len(row); n <= cols.date || n <= cols.desc || n <= cols.amount {
		return transaction.CreateParams{}, fmt.Errorf("too few columns (%d)", len(row))
	}

	date, err := parseDate(strings.TrimSpace(row[cols.date]))
	if err != nil {
		return transaction.CreateParams{}, err
	}

	cents, err := ParseAmount(strings.TrimSpace(row[cols.amount]))
	if err != nil {
		return transaction.CreateParams{}, fmt.Errorf("amount %q: %w", row[cols.amount], err)
	}

	txType := transaction.TypeIncome
	if cents < 0 {
		txType = transaction.TypeExpense
		cents = -cents
	}

	curr := opts.DefaultCurrency
	if cols.currency >= 0 && cols.currency < len(row) {
		if c := strings.TrimSpace(row[cols.currency]); c != "" {
			curr = c
		}
	}

	return transaction.CreateParams{
		OwnerID:     opts.OwnerID,
		Amount:      cents,
		Type:        txType,
		Description: strings.TrimSpace(row[cols.desc]),
		Date:        date,
		Currency:    curr,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseAmount parses a statement amount into cents, accepting both the
// European convention ("1.234,56") and the anglophone one ("1,234.56").
func ParseAmount(s string) (int64, error) {
	clean := strings.ReplaceAll(s, " ", "")

	// A comma after the last dot marks the European convention: dots are
	// thousand separators and the comma is the decimal mark.
	if i, j := strings.LastIndex(clean, ","), strings.LastIndex(clean, "."); i > j {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}
