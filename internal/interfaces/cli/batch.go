package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// NewBatchCmd creates the batch subcommand.
func NewBatchCmd() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "batch [reactions...]",
		Short: "Score many reactions concurrently",
		Long: "Score multiple reactions given as arguments, from a file with one\n" +
			"reaction per line, or from stdin. Blank lines and lines starting with\n" +
			"# are skipped. Items are scored concurrently and reported in input order.",
		Example: `  rxnfeas batch "CCO + O = CC(=O)O" "C.O>>CO"
  rxnfeas batch --input reactions.txt --output json
  cat reactions.txt | rxnfeas batch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			rxns, err := collectReactions(cmd, args, inputPath)
			if err != nil {
				return err
			}
			if len(rxns) == 0 {
				return fmt.Errorf("no reactions to score")
			}

			clf, err := newClassifier(cliCtx)
			if err != nil {
				return err
			}

			items := clf.PredictBatch(cmd.Context(), rxns)

			if cliCtx.OutputFormat == "json" {
				return printJSON(cmd, items)
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, item := range items {
				if item.Error != "" {
					failed++
					fmt.Fprintf(out, "error\t%s\t%s\n", item.Error, item.Reaction)
					continue
				}
				verdict := "infeasible"
				if item.Prediction.Label == 1 {
					verdict = "feasible"
				}
				fmt.Fprintf(out, "%s\tscore=%.4f\t%s\n", verdict, item.Prediction.Score, item.Reaction)
			}
			fmt.Fprintf(out, "# %d scored, %d failed\n", len(items)-failed, failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d reactions failed", failed, len(items))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "file with one reaction per line (- for stdin)")
	return cmd
}

// collectReactions gathers reactions from arguments, a file, or stdin, in
// that priority order.
func collectReactions(cmd *cobra.Command, args []string, inputPath string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	var r io.Reader
	switch inputPath {
	case "", "-":
		r = cmd.InOrStdin()
	default:
		f, err := os.Open(inputPath)
		if err != nil {
			return nil, fmt.Errorf("cannot open input file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var rxns []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rxns = append(rxns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading reactions: %w", err)
	}
	return rxns, nil
}
