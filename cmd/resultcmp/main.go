// resultcmp compares two result directories written by serverest-e2e.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/spf13/pflag"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/e2e"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
)

func main() {
	opts := e2e.NewCompareOptions()
	for _, fs := range opts.Flags().FlagSets {
		pflag.CommandLine.AddFlagSet(fs)
	}
	pflag.Parse()

	if errs := opts.Validate(); len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "%v %v\n", color.RedString("Error:"), errors.NewAggregate(errs))
		pflag.Usage()
		os.Exit(2)
	}

	if err := opts.Compare(); err != nil {
		fmt.Fprintf(os.Stderr, "%v %v\n", color.RedString("Error:"), err)
		if errors.IsCode(err, code.ErrRegression) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
