// Package credential resolves the login used for each role. All roles are checked
// once when the resolver is built, so a missing account aborts the run before any
// request is sent.
package credential

import (
	"fmt"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/options"
)

// Role selects which account a request runs as.
type Role string

const (
	Standard      Role = "standard"
	Administrator Role = "administrator"
)

// Roles lists every role a run needs, in resolution order.
var Roles = []Role{Standard, Administrator}

// Credential is immutable once resolved.
type Credential struct {
	Role     Role
	Email    string
	Password string
}

// String never prints the password.
func (c Credential) String() string {
	return fmt.Sprintf("%s<%s>", c.Role, c.Email)
}

// Resolver hands out the credential of a role.
type Resolver struct {
	creds map[Role]Credential
}

// NewResolver validates every role of opts and fails with code.ErrConfiguration
// when any email or password is absent or malformed.
func NewResolver(opts *options.CredentialOptions) (*Resolver, error) {
	if opts == nil {
		return nil, errors.WithCode(code.ErrConfiguration, "credentials are not configured")
	}
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, errors.WrapC(errors.NewAggregate(errs), code.ErrConfiguration, "invalid credentials configuration")
	}
	return &Resolver{creds: map[Role]Credential{
		Standard:      {Role: Standard, Email: opts.Standard.Email, Password: opts.Standard.Password},
		Administrator: {Role: Administrator, Email: opts.Admin.Email, Password: opts.Admin.Password},
	}}, nil
}

// Get returns the credential of role; an unknown role is a configuration error.
func (r *Resolver) Get(role Role) (Credential, error) {
	c, ok := r.creds[role]
	if !ok {
		return Credential{}, errors.WithCode(code.ErrConfiguration, "no credential configured for role %q", role)
	}
	return c, nil
}
