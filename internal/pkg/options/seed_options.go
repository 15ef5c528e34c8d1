package options

import (
	"github.com/spf13/pflag"
)

// SeedOptions are the accounts the fake API knows before the first request.
type SeedOptions struct {
	Standard AccountOptions `json:"standard" mapstructure:"standard"`
	Admin    AccountOptions `json:"admin"    mapstructure:"admin"`
}

func NewSeedOptions() *SeedOptions {
	return &SeedOptions{
		Standard: AccountOptions{Email: "standard@qa.com", Password: "standard123"},
		Admin:    AccountOptions{Email: "admin@qa.com", Password: "admin123"},
	}
}

func (s *SeedOptions) Validate() []error {
	var errs []error
	errs = append(errs, validateAccount("seed.standard", &s.Standard)...)
	errs = append(errs, validateAccount("seed.admin", &s.Admin)...)
	return errs
}

func (s *SeedOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&s.Standard.Email, "seed.standard.email", s.Standard.Email, "Email of the seeded standard account.")
	fs.StringVar(&s.Standard.Password, "seed.standard.password", s.Standard.Password, "Password of the seeded standard account.")
	fs.StringVar(&s.Admin.Email, "seed.admin.email", s.Admin.Email, "Email of the seeded administrator account.")
	fs.StringVar(&s.Admin.Password, "seed.admin.password", s.Admin.Password, "Password of the seeded administrator account.")
}
