// Command rxnfeas is the reaction feasibility CLI.
package main

import (
	"os"

	"github.com/turtacn/RxnFeasibility/internal/interfaces/cli"
)

func main() {
	os.Exit(cli.Execute())
}
