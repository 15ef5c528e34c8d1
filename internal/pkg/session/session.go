// Package session exchanges role credentials for bearer tokens. A token belongs to
// the caller that asked for it; nothing is cached between calls.
package session

import (
	"context"
	"net/http"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/client"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/credential"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/serverest"
	"github.com/maxiaolu1981/cretem/serverest-e2e/pkg/log"
)

type Provider struct {
	client   *client.Client
	resolver *credential.Resolver
}

func NewProvider(c *client.Client, r *credential.Resolver) *Provider {
	return &Provider{client: c, resolver: r}
}

// Login sends exactly one login request and returns whatever the API answered.
// A 401 is not an error here, so negative cases can assert on it.
func (p *Provider) Login(ctx context.Context, cred credential.Credential) (*client.LoginResponse, error) {
	return p.client.Login(ctx, cred.Email, cred.Password)
}

// Authenticate requires a 200 carrying a "Bearer <value>" authorization.
// Any other status fails with code.ErrAuthenticationFailure wrapping a
// *client.StatusError; a 200 without a usable token is code.ErrUnexpectedResponse.
func (p *Provider) Authenticate(ctx context.Context, cred credential.Credential) (Token, error) {
	resp, err := p.Login(ctx, cred)
	if err != nil {
		return "", err
	}
	if err := resp.Expect("login", http.StatusOK); err != nil {
		return "", errors.WrapC(err, code.ErrAuthenticationFailure, "login as %s", cred)
	}
	if !serverest.IsBearer(resp.Authorization) {
		return "", errors.WithCode(code.ErrUnexpectedResponse, "login as %s: authorization %q is not a bearer token", cred, resp.Authorization)
	}
	log.L(ctx).Debugw("authenticated", "role", cred.Role, "email", cred.Email)
	return Token(resp.Authorization), nil
}

// AuthenticateRole resolves the role's credential and authenticates with it.
func (p *Provider) AuthenticateRole(ctx context.Context, role credential.Role) (Token, error) {
	cred, err := p.resolver.Get(role)
	if err != nil {
		return "", err
	}
	return p.Authenticate(ctx, cred)
}

func (p *Provider) Standard(ctx context.Context) (Token, error) {
	return p.AuthenticateRole(ctx, credential.Standard)
}

func (p *Provider) Administrator(ctx context.Context) (Token, error) {
	return p.AuthenticateRole(ctx, credential.Administrator)
}

// Client is the API client the provider authenticates against.
func (p *Provider) Client() *client.Client { return p.client }
