// Package riskret computes risk/return statistics for a multi-instrument portfolio from
// historical daily price series.
//
// The core functionalities include:
//   - Return Series: converting an instrument's daily adjusted closes into daily returns,
//     optionally scaled by a weight (see BuildReturns).
//   - Instrument Statistics: period return, annualized return over a fixed window length and
//     annualized volatility of the daily log returns (see Analyze).
//   - Portfolio Rollup: folding every instrument's weighted statistics and weighted daily
//     returns into a single "Portfolio" row (see Accumulator).
//   - Batch Runs: fetching every configured instrument from a PriceProvider and producing an
//     ordered Report (see Compute).
//
// Everything is a stateless batch computation over a fixed historical window. This package
// serves as the foundational logic for the `rr` command-line tool.
package riskret
