package options

import "github.com/spf13/pflag"

type FeatureOptions struct {
	EnableProfiling bool `json:"profiling"      mapstructure:"profiling"`
	EnableMetrics   bool `json:"enable-metrics" mapstructure:"enable-metrics"`
	EnableDump      bool `json:"dump"           mapstructure:"dump"`
}

func NewFeatureOptions() *FeatureOptions {
	return &FeatureOptions{EnableMetrics: true}
}

func (o *FeatureOptions) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.EnableProfiling, "feature.profiling", o.EnableProfiling, "Expose /debug/pprof on the fake API.")
	fs.BoolVar(&o.EnableMetrics, "feature.enable-metrics", o.EnableMetrics, "Expose /metrics on the fake API.")
	fs.BoolVar(&o.EnableDump, "feature.dump", o.EnableDump, "Dump every request and response body to stdout.")
}
