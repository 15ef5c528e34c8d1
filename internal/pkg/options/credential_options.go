package options

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/spf13/pflag"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
)

// AccountOptions is one role's login. The password never leaves the process in
// String() output.
type AccountOptions struct {
	Email    string `json:"email" mapstructure:"email"    validate:"required,email"`
	Password string `json:"-"     mapstructure:"password" validate:"required"`
}

// CredentialOptions holds exactly one account per role.
type CredentialOptions struct {
	Standard AccountOptions `json:"standard" mapstructure:"standard"`
	Admin    AccountOptions `json:"admin"    mapstructure:"admin"`
	Prompt   bool           `json:"prompt"   mapstructure:"prompt"`
}

var validate = validator.New()

func NewCredentialOptions() *CredentialOptions {
	return &CredentialOptions{}
}

func (c *CredentialOptions) Complete() {
	c.Standard.Email = strings.TrimSpace(c.Standard.Email)
	c.Admin.Email = strings.TrimSpace(c.Admin.Email)
}

// Validate checks both roles; a missing or malformed field is a configuration error.
func (c *CredentialOptions) Validate() []error {
	var errs []error
	errs = append(errs, validateAccount("standard", &c.Standard)...)
	errs = append(errs, validateAccount("admin", &c.Admin)...)
	return errs
}

func validateAccount(role string, a *AccountOptions) []error {
	err := validate.Struct(a)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !asValidationErrors(err, &fieldErrs) {
		return []error{errors.WrapC(err, code.ErrConfiguration, "credentials.%s 校验失败", role)}
	}
	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, errors.WithCode(code.ErrConfiguration,
			"credentials.%s.%s 不满足规则 %q", role, strings.ToLower(fe.Field()), fe.Tag()))
	}
	return errs
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	v, ok := err.(validator.ValidationErrors)
	if ok {
		*target = v
	}
	return ok
}

func (c *CredentialOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Standard.Email, "credentials.standard.email", c.Standard.Email, "Email of the standard (non administrator) account.")
	fs.StringVar(&c.Standard.Password, "credentials.standard.password", c.Standard.Password, "Password of the standard account.")
	fs.StringVar(&c.Admin.Email, "credentials.admin.email", c.Admin.Email, "Email of the administrator account.")
	fs.StringVar(&c.Admin.Password, "credentials.admin.password", c.Admin.Password, "Password of the administrator account.")
	fs.BoolVar(&c.Prompt, "credentials.prompt", c.Prompt, "Read missing passwords from the terminal before running.")
}

func (c *CredentialOptions) String() string {
	data, _ := json.Marshal(c)
	return string(data)
}
