package app

import (
	cliflag "github.com/maxiaolu1981/cretem/nexuscore/component-base/cli/flag"
)

// CliOptions abstracts configuration options for reading parameters from the
// command line and config file.
type CliOptions interface {
	Flags() cliflag.NamedFlagSets
	Validate() []error
}

// CompleteableOptions fills defaults that depend on other options.
type CompleteableOptions interface {
	Complete() error
}

// PrintableOptions prints the effective options at start up.
type PrintableOptions interface {
	String() string
}
