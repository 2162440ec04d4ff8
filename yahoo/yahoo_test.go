package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/etnz/riskret"
	"github.com/etnz/riskret/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2017-12-27, 2017-12-28 and 2017-12-29 at 09:00 in Amsterdam (UTC+1).
const chartPayload = `{"chart": {"result": [{
	"meta": {"currency": "USD", "symbol": "CSPX.AS", "gmtoffset": 3600},
	"timestamp": [1514361600, 1514448000, 1514534400],
	"indicators": {"quote": [{"close": [100, null, 99]}], "adjclose": [{"adjclose": [100, null, 99]}]}
}], "error": null}}`

func TestProviderPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/CSPX.AS", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Write([]byte(chartPayload))
	}))
	defer srv.Close()

	p := &Provider{BaseURL: srv.URL, Fetcher: &riskret.Fetcher{Client: srv.Client(), MaxDelay: time.Second}}
	prices, err := p.Prices(context.Background(), "CSPX.AS", date.NewRange(date.New(2017, 1, 1), date.New(2018, 1, 1)))
	require.NoError(t, err)

	want := []riskret.PriceRecord{
		{Date: date.New(2017, 12, 27), AdjustedClose: 100},
		{Date: date.New(2017, 12, 29), AdjustedClose: 99},
	}
	assert.Equal(t, want, prices)
}

func TestParseChartError(t *testing.T) {
	var jobj any = map[string]any{
		"chart": map[string]any{
			"result": nil,
			"error":  map[string]any{"code": "Not Found", "description": "No data found, symbol may be delisted"},
		},
	}
	_, err := parseChart(jobj)
	assert.ErrorContains(t, err, "Not Found")
}

func TestParseChartMismatch(t *testing.T) {
	var jobj any = map[string]any{
		"chart": map[string]any{
			"result": []any{map[string]any{
				"timestamp":  []any{1514361600.},
				"indicators": map[string]any{"adjclose": []any{map[string]any{"adjclose": []any{}}}},
			}},
			"error": nil,
		},
	}
	_, err := parseChart(jobj)
	assert.Error(t, err)
}
