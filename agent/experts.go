package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/etnz/riskret"
	"github.com/etnz/riskret/docs"
	"github.com/etnz/riskret/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and of answering the user's request.

			The user has computed a risk and return report of a portfolio of funds: for each fund and
			for the portfolio as a whole, the period return, the annualized return, the annualized
			volatility and the yearly cost.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They keep the context of your previous questions.

			Devise a plan of questions to ask each expert and come up with the best response. Do not
			make up figures: every number you quote comes from the Analyst.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns an expert grounded with Google Search, for news and fund knowledge.
func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader, very well aware of financial products, funds and their
		issuers, and of the latest market news. Ask the Trader whenever you need recent or grounding
		information about an instrument.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in trading, you can search anything related to financial institutions,
			funds, indices and markets. Leverage Google Search to ground your assertions.
			`}}},
		},
	}
}

// NewAnalyst returns an expert reading the figures of report.
func NewAnalyst(report *riskret.Report) *Expert {
	lib := ReportFunctions(report)
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. It has the risk and return report of the user's portfolio
		and knows how each figure is computed. Ask the Analyst for any number, comparison between
		instruments, or for the methodology.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a quantitative analyst. Use the Tools to read the report and the methodology.
			Volatility is a risk measure, a higher volatility for the same return is worse. Costs are
			yearly fees in percent and are not deducted from the returns.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// ReportFunctions returns the tools giving access to report.
func ReportFunctions(report *riskret.Report) []*Func {
	return []*Func{
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Summary",
				Description: "Summary returns the report window and the table of all instruments and the portfolio.",
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown document with the report table.",
				},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				return renderer.Markdown(report), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Instrument",
				Description: "Instrument returns every figure of one instrument, or of the portfolio with symbol " + riskret.PortfolioSymbol + ".",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"symbol": {Type: genai.TypeString, Description: "The instrument symbol, as listed in the Summary."},
					},
					Required: []string{"symbol"},
				},
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "The instrument figures as json.",
				},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				symbol, ok := args["symbol"].(string)
				if !ok {
					return "", fmt.Errorf("argument 'symbol' is not a string as expected but %T", args["symbol"])
				}
				row, ok := report.Row(symbol)
				if !ok {
					symbols := make([]string, 0, len(report.Rows))
					for _, r := range report.Rows {
						symbols = append(symbols, r.Symbol)
					}
					return "", fmt.Errorf("unknown symbol %q, want one of %s", symbol, strings.Join(symbols, ", "))
				}
				data, err := json.Marshal(row)
				return string(data), err
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Methodology",
				Description: "Methodology explains how returns, annualized returns, volatility and the portfolio row are computed.",
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown document.",
				},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				return docs.GetTopic("methodology")
			},
		},
	}
}
