// Package eodhd provides daily adjusted prices from the EOD Historical Data API.
package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/etnz/riskret"
	"github.com/etnz/riskret/date"
	"github.com/shopspring/decimal"
)

// APIKeyEnv is the environment variable holding the EODHD API key.
const APIKeyEnv = "EODHD_API_KEY"

// BaseURL is the root of the EODHD API.
const BaseURL = "https://eodhd.com/api"

// Provider fetches adjusted closes from EODHD. Symbols use the EODHD format "CODE.EXCHANGE"
// (e.g. "CSPX.AS" or "MCD.US").
type Provider struct {
	APIKey  string
	BaseURL string // BaseURL overrides the API root, mostly for tests.
	Fetcher *riskret.Fetcher
}

// New returns a Provider using apiKey, or the APIKeyEnv environment variable if empty.
func New(apiKey string, fetcher *riskret.Fetcher) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv(APIKeyEnv)
	}
	if apiKey == "" {
		return nil, errors.New("EODHD API key is not set. Use -eodhd-api-key flag or " + APIKeyEnv + " environment variable")
	}
	return &Provider{APIKey: apiKey, BaseURL: BaseURL, Fetcher: fetcher}, nil
}

// Prices implements riskret.PriceProvider.
func (p *Provider) Prices(ctx context.Context, symbol string, window date.Range) ([]riskret.PriceRecord, error) {
	prices, err := p.fetchPrices(ctx, symbol, window.From, window.To)
	if err != nil {
		return nil, err
	}
	return riskret.FromHistory(prices, window), nil
}

// fetchPrices returns the daily adjusted close prices for a given EODHD ticker.
func (p *Provider) fetchPrices(ctx context.Context, ticker string, from, to date.Date) (*date.History[float64], error) {
	// https://eodhd.com/api/eod/NVD.F?api_token=demo&fmt=json
	// [
	//
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	  },
	// bounds are included in the response.
	addr := fmt.Sprintf("%s/eod/%s?fmt=json&api_token=%s&from=%s&to=%s", p.base(), url.PathEscape(ticker), url.QueryEscape(p.APIKey), from, to)
	type Info struct {
		Date          date.Date       `json:"date"`
		Close         decimal.Decimal `json:"close"`
		AdjustedClose decimal.Decimal `json:"adjusted_close"`
	}

	// that's the payload
	content := make([]Info, 0)
	if err := p.fetcher().GetJSON(ctx, addr, &content); err != nil {
		return nil, err
	}

	prices := new(date.History[float64])
	for _, info := range content {
		price := info.AdjustedClose
		if price.IsZero() {
			// some exchanges do not publish adjusted prices.
			price = info.Close
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("%w: %s adjusted close on %s is %s", riskret.ErrInvalidPrice, ticker, info.Date, price)
		}
		prices.Append(info.Date, price.InexactFloat64())
	}
	return prices, nil
}

func (p *Provider) base() string {
	if p.BaseURL == "" {
		return BaseURL
	}
	return p.BaseURL
}

func (p *Provider) fetcher() *riskret.Fetcher {
	if p.Fetcher == nil {
		return riskret.NewFetcher("", nil)
	}
	return p.Fetcher
}
