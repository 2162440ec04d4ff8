package riskret

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is returned when a price series has fewer than two records.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidPrice is returned when a price (or a return) makes a return or a logarithm undefined.
	ErrInvalidPrice = errors.New("invalid price")
	// ErrConfiguration is returned for unknown or duplicate symbols, negative weights or costs.
	ErrConfiguration = errors.New("configuration error")
	// ErrFinalized is returned when an Accumulator is used after Finalize.
	ErrFinalized = errors.New("accumulator already finalized")
)

// InstrumentError is an error attached to one instrument.
type InstrumentError struct {
	Symbol string
	Err    error
}

func (e *InstrumentError) Error() string { return fmt.Sprintf("instrument %q: %v", e.Symbol, e.Err) }
func (e *InstrumentError) Unwrap() error { return e.Err }

// instrumentError wraps err with the symbol, unless it is nil or already attached to it.
func instrumentError(symbol string, err error) error {
	if err == nil {
		return nil
	}
	var ie *InstrumentError
	if errors.As(err, &ie) && ie.Symbol == symbol {
		return err
	}
	return &InstrumentError{Symbol: symbol, Err: err}
}

// FailedSymbols returns the symbols of all the instruments that failed in err.
//
// err is typically the joined error returned by Compute.
func FailedSymbols(err error) []string {
	var symbols []string
	seen := make(map[string]bool)
	var walk func(error)
	walk = func(err error) {
		if err == nil {
			return
		}
		if ie, ok := err.(*InstrumentError); ok {
			if !seen[ie.Symbol] {
				seen[ie.Symbol] = true
				symbols = append(symbols, ie.Symbol)
			}
			return
		}
		switch x := err.(type) {
		case interface{ Unwrap() []error }:
			for _, e := range x.Unwrap() {
				walk(e)
			}
		case interface{ Unwrap() error }:
			walk(x.Unwrap())
		}
	}
	walk(err)
	return symbols
}
