// Package csvfile reads daily prices from local CSV files, one file per symbol.
//
// Files are named "<symbol>.csv" and carry at least a "Date" column (YYYY-MM-DD) and an
// "Adj Close" column, the layout of Yahoo Finance downloads:
//
//	Date,Open,High,Low,Close,Adj Close,Volume
//	2020-01-02,100.0,101.0,99.5,100.5,98.2,12000
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/etnz/riskret"
	"github.com/etnz/riskret/date"
)

const (
	dateColumn  = "Date"
	priceColumn = "Adj Close"
	closeColumn = "Close"
)

// Provider reads prices from Dir.
type Provider struct {
	Dir string
}

// New returns a Provider reading files in dir.
func New(dir string) *Provider { return &Provider{Dir: dir} }

// Prices implements riskret.PriceProvider.
func (p *Provider) Prices(ctx context.Context, symbol string, window date.Range) ([]riskret.PriceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := filepath.Join(p.Dir, symbol+".csv")
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", name, err)
	}
	return riskret.FromHistory(h, window), nil
}

// Read decodes a price CSV. Rows come out sorted by date; a repeated date keeps the last row.
//
// When there is no "Adj Close" column, "Close" is used. Empty and "null" prices are skipped.
func Read(r io.Reader) (*date.History[float64], error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, err
	}

	dateIdx, priceIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case dateColumn:
			dateIdx = i
		case priceColumn:
			priceIdx = i
		case closeColumn:
			if priceIdx < 0 {
				priceIdx = i
			}
		}
	}
	if dateIdx < 0 || priceIdx < 0 {
		return nil, fmt.Errorf("missing %q or %q column in header %v", dateColumn, priceColumn, header)
	}

	h := new(date.History[float64])
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		raw := strings.TrimSpace(rec[priceIdx])
		if raw == "" || raw == "null" {
			continue
		}
		on, err := date.ParseISO(rec[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid date: %w", line, err)
		}
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid price %q: %w", line, raw, err)
		}
		if price <= 0 {
			return nil, fmt.Errorf("line %d: price %v on %s: %w", line, price, on, riskret.ErrInvalidPrice)
		}
		h.Append(on, price)
	}
	return h, nil
}
