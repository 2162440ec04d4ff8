package riskret

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/etnz/riskret/date"
)

var testWindow = date.NewRange(date.New(2019, 1, 1), date.New(2020, 1, 1))

func mustAnalyze(t *testing.T, inst Instrument, p []PriceRecord) Analysis {
	t.Helper()
	a, err := Analyze(inst, p, 1)
	if err != nil {
		t.Fatalf("Analyze(%s) error = %v", inst.Symbol, err)
	}
	return a
}

func TestAccumulatorHedgedPortfolio(t *testing.T) {
	up := Instrument{Symbol: "UP", Name: "Up", Weight: 0.5, Cost: 0.1}
	down := Instrument{Symbol: "DOWN", Name: "Down", Weight: 0.5, Cost: 0.3}
	acc := NewAccumulator([]Instrument{up, down}, 1, testWindow)

	if err := acc.Add(mustAnalyze(t, up, prices(100, 105, 110))); err != nil {
		t.Fatal(err)
	}
	if err := acc.Add(mustAnalyze(t, down, prices(100, 95, 90))); err != nil {
		t.Fatal(err)
	}
	got, err := acc.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if got.Symbol != PortfolioSymbol || got.Name != PortfolioSymbol || !got.IsPortfolio() {
		t.Errorf("Finalize() symbol, name = %q, %q", got.Symbol, got.Name)
	}
	if !got.Return.Equal(0) {
		t.Errorf("Finalize() return = %v, want 0", got.Return)
	}
	if got.StartValue != 100 || math.Abs(got.EndValue-100) > 1e-9 {
		t.Errorf("Finalize() values = %v..%v, want 100..100", got.StartValue, got.EndValue)
	}
	if !got.AnnualizedReturn.Equal(0) {
		t.Errorf("Finalize() annualized = %v, want 0", got.AnnualizedReturn)
	}
	if math.Abs(got.Weight-1) > 1e-12 {
		t.Errorf("Finalize() weight = %v, want 1", got.Weight)
	}
	if math.Abs(got.Cost-0.2) > 1e-12 {
		t.Errorf("Finalize() cost = %v, want 0.2", got.Cost)
	}
	if got.Start != testWindow.From || got.End != testWindow.To {
		t.Errorf("Finalize() dates = %v..%v, want %v", got.Start, got.End, testWindow)
	}
	// Daily log returns of the combined series: ln(1), ln(1 + (110/105 + 90/95 - 2)/2).
	if math.Abs(float64(got.Volatility)-2.816807540969256) > 1e-9 {
		t.Errorf("Finalize() volatility = %v, want 2.8168", got.Volatility)
	}
	want, err := AnnualizedVolatility(acc.Combined())
	if err != nil {
		t.Fatal(err)
	}
	if got.Volatility != want {
		t.Errorf("Finalize() volatility = %v, want the combined series volatility %v", got.Volatility, want)
	}
}

func TestAccumulatorWeightedSums(t *testing.T) {
	a := Instrument{Symbol: "A", Weight: 0.2, Cost: 0.07}
	b := Instrument{Symbol: "B", Weight: 0.3, Cost: 0.5}
	acc := NewAccumulator([]Instrument{a, b}, 1, testWindow)
	acc.Add(mustAnalyze(t, a, prices(100, 120)))
	acc.Add(mustAnalyze(t, b, prices(100, 90)))
	got, err := acc.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	// 0.2*20 + 0.3*-10 = 1
	if !got.Return.Equal(1) || math.Abs(got.EndValue-101) > 1e-9 {
		t.Errorf("Finalize() return, end = %v, %v, want 1%%, 101", got.Return, got.EndValue)
	}
	if math.Abs(got.Weight-0.5) > 1e-12 {
		t.Errorf("Finalize() weight = %v, want 0.5", got.Weight)
	}
	if want := 0.2*0.07 + 0.3*0.5; math.Abs(got.Cost-want) > 1e-12 {
		t.Errorf("Finalize() cost = %v, want %v", got.Cost, want)
	}
	if !got.AnnualizedReturn.Equal(1) {
		t.Errorf("Finalize() annualized = %v, want 1%% over one year", got.AnnualizedReturn)
	}
}

func TestAccumulatorCombinedOuterJoin(t *testing.T) {
	a := Instrument{Symbol: "A", Weight: 1}
	b := Instrument{Symbol: "B", Weight: 0.5}
	acc := NewAccumulator([]Instrument{a, b}, 1, testWindow)

	d1, d2, d3 := date.New(2019, 6, 3), date.New(2019, 6, 4), date.New(2019, 6, 5)
	acc.Add(mustAnalyze(t, a, []PriceRecord{
		{Date: d1.Add(-1), AdjustedClose: 100},
		{Date: d1, AdjustedClose: 110},
		{Date: d2, AdjustedClose: 121},
	}))
	acc.Add(mustAnalyze(t, b, []PriceRecord{
		{Date: d1.Add(-1), AdjustedClose: 100},
		{Date: d2, AdjustedClose: 90},
		{Date: d3, AdjustedClose: 99},
	}))

	got := acc.Combined()
	want := []DailyReturn{
		{Date: d1, Raw: 0.1},              // A only, B missing counts as 0
		{Date: d2, Raw: 0.1 + 0.5*(-0.1)}, // both
		{Date: d3, Raw: 0.5 * 0.1},        // B only
	}
	if len(got) != len(want) {
		t.Fatalf("Combined() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i].Date != want[i].Date || math.Abs(got[i].Raw-want[i].Raw) > 1e-12 || got[i].Weighted != got[i].Raw {
			t.Errorf("Combined()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	row, err := acc.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	// ln(1.1), ln(1.05), ln(1.05)
	if math.Abs(float64(row.Volatility)-42.63629859548516) > 1e-9 {
		t.Errorf("Finalize() volatility = %v, want 42.6363", row.Volatility)
	}
}

func TestAccumulatorLifecycle(t *testing.T) {
	a := Instrument{Symbol: "A", Weight: 1}
	b := Instrument{Symbol: "B", Weight: 1}
	analysisA := mustAnalyze(t, a, prices(100, 101))
	analysisB := mustAnalyze(t, b, prices(100, 101))
	stray := mustAnalyze(t, Instrument{Symbol: "C", Weight: 1}, prices(100, 101))

	acc := NewAccumulator([]Instrument{a, b}, 1, testWindow)
	if err := acc.Add(stray); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Add(unknown) error = %v, want ErrConfiguration", err)
	}
	if err := acc.Add(analysisA); err != nil {
		t.Fatal(err)
	}
	if err := acc.Add(analysisA); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Add(duplicate) error = %v, want ErrConfiguration", err)
	}

	_, err := acc.Finalize()
	var ie *InstrumentError
	if !errors.Is(err, ErrConfiguration) || !errors.As(err, &ie) || ie.Symbol != "B" {
		t.Errorf("Finalize() with a missing instrument error = %v, want ErrConfiguration on B", err)
	}

	if err := acc.Add(analysisB); err != nil {
		t.Fatalf("Add(B) after a failed Finalize error = %v", err)
	}
	if _, err := acc.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if _, err := acc.Finalize(); !errors.Is(err, ErrFinalized) {
		t.Errorf("second Finalize() error = %v, want ErrFinalized", err)
	}
	if err := acc.Add(analysisB); !errors.Is(err, ErrFinalized) {
		t.Errorf("Add() after Finalize error = %v, want ErrFinalized", err)
	}
}

func TestAccumulatorNonPositiveEndValue(t *testing.T) {
	// 2 * -60% brings the portfolio from 100 to -20.
	a := Instrument{Symbol: "A", Weight: 2}
	acc := NewAccumulator([]Instrument{a}, 1, testWindow)
	if err := acc.Add(mustAnalyze(t, a, prices(100, 40))); err != nil {
		t.Fatal(err)
	}
	if _, err := acc.Finalize(); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("Finalize() error = %v, want ErrInvalidPrice", err)
	}
}

func TestAccumulatorConcurrentAdd(t *testing.T) {
	var instruments []Instrument
	var analyses []Analysis
	for _, s := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		inst := Instrument{Symbol: s, Weight: 0.125}
		instruments = append(instruments, inst)
		analyses = append(analyses, mustAnalyze(t, inst, prices(100, 101, 102)))
	}
	acc := NewAccumulator(instruments, 1, testWindow)

	var wg sync.WaitGroup
	for _, an := range analyses {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := acc.Add(an); err != nil {
				t.Errorf("Add(%s) error = %v", an.Row.Symbol, err)
			}
		}()
	}
	wg.Wait()

	got, err := acc.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	if !got.Return.Equal(2) || math.Abs(got.Weight-1) > 1e-12 {
		t.Errorf("Finalize() return, weight = %v, %v, want 2%%, 1", got.Return, got.Weight)
	}
}
