// Package options 定义 serverest-e2e 运行所需的全部命令行与配置文件选项。
package options

import (
	"encoding/json"

	cliflag "github.com/maxiaolu1981/cretem/nexuscore/component-base/cli/flag"

	genericoptions "github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/options"
	"github.com/maxiaolu1981/cretem/serverest-e2e/pkg/log"
)

type Options struct {
	Server      *genericoptions.ServerOptions     `json:"server"      mapstructure:"server"`
	Credentials *genericoptions.CredentialOptions `json:"credentials" mapstructure:"credentials"`
	Scenario    *genericoptions.ScenarioOptions   `json:"scenario"    mapstructure:"scenario"`
	Output      *genericoptions.OutputOptions     `json:"output"      mapstructure:"output"`
	Log         *log.Options                      `json:"log"         mapstructure:"log"`
}

func NewOptions() *Options {
	return &Options{
		Server:      genericoptions.NewServerOptions(),
		Credentials: genericoptions.NewCredentialOptions(),
		Scenario:    genericoptions.NewScenarioOptions(),
		Output:      genericoptions.NewOutputOptions(),
		Log:         log.NewOptions(),
	}
}

func (o *Options) Flags() (fss cliflag.NamedFlagSets) {
	o.Server.AddFlags(fss.FlagSet("server"))
	o.Credentials.AddFlags(fss.FlagSet("credentials"))
	o.Scenario.AddFlags(fss.FlagSet("scenario"))
	o.Output.AddFlags(fss.FlagSet("output"))
	o.Log.AddFlags(fss.FlagSet("logs"))
	return fss
}

func (o *Options) Complete() error {
	o.Server.Complete()
	o.Credentials.Complete()
	o.Scenario.Complete()
	return nil
}

// Validate checks credentials only when they will not be prompted for; a
// prompted run is validated after the passwords were read.
func (o *Options) Validate() []error {
	var errs []error
	errs = append(errs, o.Server.Validate()...)
	if !o.Credentials.Prompt {
		errs = append(errs, o.Credentials.Validate()...)
	}
	errs = append(errs, o.Scenario.Validate()...)
	errs = append(errs, o.Output.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return errs
}

func (o *Options) String() string {
	data, _ := json.Marshal(o)
	return string(data)
}
