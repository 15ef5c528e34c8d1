// Package options 定义 ServeRest 替身服务的全部命令行与配置文件选项。
package options

import (
	"encoding/json"

	cliflag "github.com/maxiaolu1981/cretem/nexuscore/component-base/cli/flag"

	genericoptions "github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/options"
	"github.com/maxiaolu1981/cretem/serverest-e2e/pkg/log"
)

type Options struct {
	InsecureServing *genericoptions.InsecureServingOptions `json:"insecure" mapstructure:"insecure"`
	Jwt             *genericoptions.JwtOptions             `json:"jwt"      mapstructure:"jwt"`
	Feature         *genericoptions.FeatureOptions         `json:"feature"  mapstructure:"feature"`
	Seed            *genericoptions.SeedOptions            `json:"seed"     mapstructure:"seed"`
	Log             *log.Options                           `json:"log"      mapstructure:"log"`
}

func NewOptions() *Options {
	return &Options{
		InsecureServing: genericoptions.NewInsecureServingOptions(),
		Jwt:             genericoptions.NewJwtOptions(),
		Feature:         genericoptions.NewFeatureOptions(),
		Seed:            genericoptions.NewSeedOptions(),
		Log:             log.NewOptions(),
	}
}

func (o *Options) Flags() (fss cliflag.NamedFlagSets) {
	o.InsecureServing.AddFlags(fss.FlagSet("insecure serving"))
	o.Jwt.AddFlags(fss.FlagSet("jwt"))
	o.Feature.AddFlags(fss.FlagSet("feature"))
	o.Seed.AddFlags(fss.FlagSet("seed"))
	o.Log.AddFlags(fss.FlagSet("logs"))
	return fss
}

func (o *Options) Complete() error {
	o.Jwt.Complete()
	return nil
}

func (o *Options) Validate() []error {
	var errs []error
	errs = append(errs, o.InsecureServing.Validate()...)
	errs = append(errs, o.Jwt.Validate()...)
	errs = append(errs, o.Seed.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return errs
}

func (o *Options) String() string {
	data, _ := json.Marshal(o)
	return string(data)
}
