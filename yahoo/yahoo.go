// Package yahoo provides daily adjusted prices from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/riskret"
	"github.com/etnz/riskret/date"
)

// BaseURL is the root of the chart API.
const BaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// Provider fetches adjusted closes from Yahoo Finance. Symbols are Yahoo tickers
// (e.g. "CSPX.AS" or "SPY").
type Provider struct {
	BaseURL string // BaseURL overrides the API root, mostly for tests.
	Fetcher *riskret.Fetcher
}

// New returns a Provider using fetcher.
func New(fetcher *riskret.Fetcher) *Provider {
	return &Provider{BaseURL: BaseURL, Fetcher: fetcher}
}

// paths in the chart payload
//
//	{"chart": {"result": [{
//	    "meta": {"currency": "USD", "symbol": "SPY", "gmtoffset": -18000, ...},
//	    "timestamp": [1420209000, ...],
//	    "indicators": {"quote": [...], "adjclose": [{"adjclose": [177.3, null, ...]}]}
//	}], "error": null}}
const (
	errorPath     = "$.chart.error"
	offsetPath    = "$.chart.result[0].meta.gmtoffset"
	timestampPath = "$.chart.result[0].timestamp"
	adjclosePath  = "$.chart.result[0].indicators.adjclose[0].adjclose"
)

// Prices implements riskret.PriceProvider.
func (p *Provider) Prices(ctx context.Context, symbol string, window date.Range) ([]riskret.PriceRecord, error) {
	base := p.BaseURL
	if base == "" {
		base = BaseURL
	}
	// period2 is exclusive, ask for the day after the window.
	addr := fmt.Sprintf("%s/%s?period1=%d&period2=%d&interval=1d&events=div%%2Csplit",
		base, url.PathEscape(symbol), window.From.Time().Unix(), window.To.Add(1).Time().Unix())

	fetcher := p.Fetcher
	if fetcher == nil {
		fetcher = riskret.NewFetcher("", nil)
	}
	body, err := fetcher.Get(ctx, addr)
	if err != nil {
		return nil, err
	}
	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		return nil, fmt.Errorf("invalid chart payload for %q: %w", symbol, err)
	}

	prices, err := parseChart(jobj)
	if err != nil {
		return nil, fmt.Errorf("cannot read chart for %q: %w", symbol, err)
	}
	return riskret.FromHistory(prices, window), nil
}

// parseChart extracts the adjusted closes from a decoded chart payload.
//
// Timestamps are shifted by the exchange's gmt offset to get the trading day. Null closes,
// returned for non trading rows, are skipped.
func parseChart(jobj any) (*date.History[float64], error) {
	if jerr, err := jsonpath.Get(errorPath, jobj); err == nil && jerr != nil {
		return nil, fmt.Errorf("chart api error: %v", jerr)
	}

	var offset float64
	if joff, err := jsonpath.Get(offsetPath, jobj); err == nil {
		offset, _ = joff.(float64)
	}

	jts, err := jsonpath.Get(timestampPath, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", timestampPath, err)
	}
	jcloses, err := jsonpath.Get(adjclosePath, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", adjclosePath, err)
	}
	timestamps, ok := jts.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing %q: not a list %T", timestampPath, jts)
	}
	closes, ok := jcloses.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing %q: not a list %T", adjclosePath, jcloses)
	}
	if len(timestamps) != len(closes) {
		return nil, fmt.Errorf("%d timestamps for %d adjusted closes", len(timestamps), len(closes))
	}

	prices := new(date.History[float64])
	for i, jt := range timestamps {
		ts, ok := jt.(float64)
		if !ok {
			return nil, fmt.Errorf("invalid timestamp %v", jt)
		}
		price, ok := closes[i].(float64)
		if !ok {
			// null rows are not trading days.
			continue
		}
		on := date.Of(time.Unix(int64(ts+offset), 0).UTC())
		prices.Append(on, price)
	}
	return prices, nil
}
