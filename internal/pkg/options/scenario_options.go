package options

import (
	"encoding/json"
	"strings"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/spf13/pflag"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
)

// ScenarioOptions selects cases and names the generated records.
type ScenarioOptions struct {
	Only            []string `json:"only"              mapstructure:"only"`
	ProductBaseName string   `json:"product-base-name" mapstructure:"product-base-name"`
	UserBaseName    string   `json:"user-base-name"    mapstructure:"user-base-name"`
	UpdateUser      bool     `json:"update-user"       mapstructure:"update-user"`
}

func NewScenarioOptions() *ScenarioOptions {
	return &ScenarioOptions{
		ProductBaseName: "New product",
		UserBaseName:    "QA Admin",
		UpdateUser:      true,
	}
}

func (s *ScenarioOptions) Complete() {
	only := s.Only[:0]
	for _, name := range s.Only {
		if name = strings.TrimSpace(name); name != "" {
			only = append(only, name)
		}
	}
	s.Only = only
}

func (s *ScenarioOptions) Validate() []error {
	var errs []error
	if strings.TrimSpace(s.ProductBaseName) == "" {
		errs = append(errs, errors.WithCode(code.ErrConfiguration, "scenario.product-base-name 不能为空"))
	}
	if strings.TrimSpace(s.UserBaseName) == "" {
		errs = append(errs, errors.WithCode(code.ErrConfiguration, "scenario.user-base-name 不能为空"))
	}
	return errs
}

func (s *ScenarioOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringSliceVar(&s.Only, "scenario.only", s.Only, "Run only the named cases (comma separated).")
	fs.StringVar(&s.ProductBaseName, "scenario.product-base-name", s.ProductBaseName, "Base name of generated products.")
	fs.StringVar(&s.UserBaseName, "scenario.user-base-name", s.UserBaseName, "Base name of generated users.")
	fs.BoolVar(&s.UpdateUser, "scenario.update-user", s.UpdateUser, "Exercise PUT /usuarios inside the user lifecycle.")
}

func (s *ScenarioOptions) String() string {
	data, _ := json.Marshal(s)
	return string(data)
}
