package eodhd

import (
	"context"
	"fmt"
	"net/url"

	"github.com/etnz/riskret"
	"github.com/etnz/riskret/date"
)

// SearchResult matches the structure of a single item in the EODHD search API response.
type SearchResult struct {
	Code              string    `json:"Code"`
	Exchange          string    `json:"Exchange"`
	Name              string    `json:"Name"`
	Type              string    `json:"Type"`
	Country           string    `json:"Country"`
	Currency          string    `json:"Currency"`
	ISIN              string    `json:"ISIN"`
	PreviousClose     float64   `json:"previousClose"`
	PreviousCloseDate date.Date `json:"previousCloseDate"`
}

// Symbol returns the ticker to use in a configuration file.
func (r SearchResult) Symbol() string { return r.Code + "." + r.Exchange }

// Instrument returns a configuration entry for that result, with no weight nor cost.
func (r SearchResult) Instrument() riskret.Instrument {
	return riskret.Instrument{Symbol: r.Symbol(), Name: r.Name, Currency: r.Currency}
}

// Search searches for securities via EOD Historical Data API.
func (p *Provider) Search(ctx context.Context, searchTerm string) ([]SearchResult, error) {
	apiURL := fmt.Sprintf("%s/search/%s?api_token=%s&fmt=json", p.base(), url.PathEscape(searchTerm), url.QueryEscape(p.APIKey))

	var results []SearchResult
	if err := p.fetcher().GetJSON(ctx, apiURL, &results); err != nil {
		return nil, err
	}
	return results, nil
}
