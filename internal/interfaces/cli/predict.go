package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/RxnFeasibility/internal/feasibility"
	prom "github.com/turtacn/RxnFeasibility/internal/infrastructure/monitoring/prometheus"
)

// newClassifier builds a classifier from the CLI context configuration.
func newClassifier(cliCtx *CLIContext) (*feasibility.Classifier, error) {
	return newClassifierWithMetrics(cliCtx, prom.NewNopAppMetrics())
}

func newClassifierWithMetrics(cliCtx *CLIContext, metrics *prom.AppMetrics) (*feasibility.Classifier, error) {
	params := feasibility.ParamsFromConfig(cliCtx.Config.Model, cliCtx.Config.Batch)
	return feasibility.NewClassifier(params, cliCtx.Logger, metrics)
}

// NewPredictCmd creates the predict subcommand.
func NewPredictCmd() *cobra.Command {
	var scoreOnly bool

	cmd := &cobra.Command{
		Use:   "predict <reaction>",
		Short: "Score a single reaction string",
		Long: "Score one reaction given either as \"A + B = C + D\" with SMILES or\n" +
			"common-name species, or as a reaction SMILES \"A.B>>C.D\".",
		Example: `  rxnfeas predict "CCO + NAD+ = CC=O + NADH"
  rxnfeas predict --output json "OCC1OC(O)C(O)C(O)C1O.O=P(O)(O)OP(=O)(O)O>>OCC1OC(OP(=O)(O)O)C(O)C(O)C1O.O=P(O)(O)O"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			clf, err := newClassifier(cliCtx)
			if err != nil {
				return err
			}

			pred, err := clf.Predict(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case cliCtx.OutputFormat == "json":
				return printJSON(cmd, pred)
			case scoreOnly:
				_, err = fmt.Fprintf(out, "%.6f\n", pred.Score)
				return err
			default:
				verdict := "infeasible"
				if pred.Label == 1 {
					verdict = "feasible"
				}
				_, err = fmt.Fprintf(out, "%s\tscore=%.4f\tthreshold=%.4f\t%s\n",
					verdict, pred.Score, pred.Threshold, pred.Reaction)
				return err
			}
		},
	}

	cmd.Flags().BoolVar(&scoreOnly, "score-only", false, "print only the raw feasibility score")
	return cmd
}
