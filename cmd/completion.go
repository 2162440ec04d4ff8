package cmd

import (
	"github.com/etnz/riskret/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	topics, _ := docs.GetAllTopics()
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config":        predict.Files("*.yaml"),
			"v":             predict.Nothing,
			"cache-dir":     predict.Dirs("*"),
			"eodhd-api-key": predict.Something,
		},
		Sub: map[string]*complete.Command{
			"report": {Flags: map[string]complete.Predictor{
				"json":        predict.Nothing,
				"skip-failed": predict.Nothing,
			}},
			"plot": {Flags: map[string]complete.Predictor{
				"o":           predict.Files("*.png"),
				"growth":      predict.Files("*.png"),
				"skip-failed": predict.Nothing,
			}},
			"explain": {Flags: map[string]complete.Predictor{
				"i":           predict.Nothing,
				"skip-failed": predict.Nothing,
			}},
			"search": {Args: predict.Something},
			"topic": {
				Flags: map[string]complete.Predictor{
					"list": predict.Nothing,
					"raw":  predict.Nothing,
				},
				Args: predict.Set(append(topics, "readme", "*")),
			},
			"help":  {},
			"flags": {},
		},
	}
}
