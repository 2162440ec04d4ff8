package riskret

import (
	"errors"
	"fmt"
	"testing"
)

func TestFailedSymbols(t *testing.T) {
	err := errors.Join(
		instrumentError("A", ErrInsufficientData),
		fmt.Errorf("context: %w", instrumentError("B", ErrInvalidPrice)),
		errors.New("not an instrument"),
		instrumentError("A", ErrInvalidPrice),
	)
	got := FailedSymbols(err)
	want := []string{"A", "B"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("FailedSymbols() = %v, want %v", got, want)
	}
	if got := FailedSymbols(nil); len(got) != 0 {
		t.Errorf("FailedSymbols(nil) = %v, want none", got)
	}
}

func TestInstrumentError(t *testing.T) {
	err := instrumentError("A", ErrInvalidPrice)
	if err.Error() != `instrument "A": invalid price` {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("errors.Is(%v, ErrInvalidPrice) = false", err)
	}
	if again := instrumentError("A", err); again != err {
		t.Errorf("instrumentError() wrapped twice: %v", again)
	}
	if other := instrumentError("B", err); other == err {
		t.Errorf("instrumentError() did not wrap for another symbol")
	}
	if instrumentError("A", nil) != nil {
		t.Errorf("instrumentError(nil) != nil")
	}
}
