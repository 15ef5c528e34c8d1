package options

import (
	"encoding/json"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/spf13/pflag"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
)

// OutputOptions controls where case results are written and which earlier run
// they are compared against.
type OutputOptions struct {
	Dir              string `json:"dir"                mapstructure:"dir"`
	Baseline         string `json:"baseline"           mapstructure:"baseline"`
	FailOnRegression bool   `json:"fail-on-regression" mapstructure:"fail-on-regression"`
}

func NewOutputOptions() *OutputOptions {
	return &OutputOptions{
		Dir: "_output/serverest-e2e",
	}
}

func (o *OutputOptions) Validate() []error {
	var errs []error
	if o.FailOnRegression && o.Baseline == "" {
		errs = append(errs, errors.WithCode(code.ErrConfiguration, "output.fail-on-regression 需要同时指定 output.baseline"))
	}
	if o.Baseline != "" && o.Dir == "" {
		errs = append(errs, errors.WithCode(code.ErrConfiguration, "output.baseline 需要同时指定 output.dir"))
	}
	return errs
}

func (o *OutputOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Dir, "output.dir", o.Dir, "Directory receiving <suite>_cases.json, empty disables recording.")
	fs.StringVar(&o.Baseline, "output.baseline", o.Baseline, "Directory of a previous run to compare this run against.")
	fs.BoolVar(&o.FailOnRegression, "output.fail-on-regression", o.FailOnRegression, "Exit non-zero when the run regresses against the baseline.")
}

func (o *OutputOptions) String() string {
	data, _ := json.Marshal(o)
	return string(data)
}
