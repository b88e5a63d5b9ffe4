package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/RxnFeasibility/internal/domain/molecule"
	"github.com/turtacn/RxnFeasibility/internal/domain/reaction"
	rtypes "github.com/turtacn/RxnFeasibility/pkg/types/reaction"
)

// cofactorLookup is the JSON shape of one cofactors query.
type cofactorLookup struct {
	SMILES     string  `json:"smiles"`
	IsCofactor bool    `json:"is_cofactor"`
	Nearest    string  `json:"nearest"`
	Similarity float64 `json:"similarity"`
}

// NewCofactorsCmd creates the cofactors subcommand.  It only needs the
// cofactor reference CSV and fingerprint settings, not the model artifacts,
// so it works without a trained model on disk.
func NewCofactorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cofactors <smiles>...",
		Short: "Check species against the cofactor reference table",
		Long: "Report, for each SMILES argument, whether it is a known cofactor; for\n" +
			"unknown species, report the most similar table entry by Tanimoto index.\n" +
			"Useful for diagnosing why a species landed in a substrate slot.",
		Example: `  rxnfeas cofactors "O" "CCO"
  rxnfeas cofactors --cofactors my_cofactors.csv "NC(=O)c1ccc[n+](c1)C1OC(COP(=O)(O)O)C(O)C1O"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			mc := cliCtx.Config.Model

			set, err := reaction.LoadCofactors(mc.CofactorsFile)
			if err != nil {
				return err
			}
			fper, err := molecule.NewFingerprinter(
				rtypes.FingerprintType(mc.FingerprintType), mc.NumBits)
			if err != nil {
				return err
			}

			results := make([]cofactorLookup, 0, len(args))
			for _, smiles := range args {
				lookup := cofactorLookup{SMILES: smiles, IsCofactor: set.IsCofactor(smiles)}
				if lookup.IsCofactor {
					lookup.Nearest, lookup.Similarity = smiles, 1.0
				} else {
					lookup.Nearest, lookup.Similarity, err = set.Nearest(fper, smiles)
					if err != nil {
						return err
					}
				}
				results = append(results, lookup)
			}

			if cliCtx.OutputFormat == "json" {
				return printJSON(cmd, results)
			}
			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.IsCofactor {
					_, err = fmt.Fprintf(out, "cofactor\t%s\n", r.SMILES)
				} else {
					_, err = fmt.Fprintf(out, "substrate\t%s\tnearest=%s\tsimilarity=%.4f\n",
						r.SMILES, r.Nearest, r.Similarity)
				}
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	return cmd
}
