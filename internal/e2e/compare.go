package e2e

import (
	"os"

	cliflag "github.com/maxiaolu1981/cretem/nexuscore/component-base/cli/flag"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/serverest-e2e/pkg/app"
)

// CompareOptions selects the two result directories of the compare command.
type CompareOptions struct {
	Baseline         string
	Current          string
	FailOnRegression bool
}

func NewCompareOptions() *CompareOptions {
	return &CompareOptions{Current: "_output/serverest-e2e"}
}

func (o *CompareOptions) Flags() (fss cliflag.NamedFlagSets) {
	fs := fss.FlagSet("compare")
	fs.StringVar(&o.Baseline, "baseline", o.Baseline, "Directory with baseline *_cases.json / *_perf.json files.")
	fs.StringVar(&o.Current, "current", o.Current, "Directory with the results to check.")
	fs.BoolVar(&o.FailOnRegression, "fail-on-regression", o.FailOnRegression, "Exit non-zero when a regression is detected.")
	return fss
}

func (o *CompareOptions) Validate() []error {
	var errs []error
	if o.Baseline == "" {
		errs = append(errs, errors.WithCode(code.ErrConfiguration, "--baseline 不能为空"))
	}
	if o.Current == "" {
		errs = append(errs, errors.WithCode(code.ErrConfiguration, "--current 不能为空"))
	}
	return errs
}

// Compare runs one comparison and prints the report to stdout.
func (o *CompareOptions) Compare() error {
	return compare(os.Stdout, o.Baseline, o.Current, o.FailOnRegression)
}

func newCompareCommand() *app.Command {
	opts := NewCompareOptions()
	return app.NewCommand("compare", "Compare two result directories written by earlier runs.",
		app.WithCommandOptions(opts),
		app.WithCommandRunFunc(func([]string) error {
			return opts.Compare()
		}),
	)
}
