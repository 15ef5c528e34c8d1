// Package stubtest starts the fake ServeRest API for package tests.
package stubtest

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	genericoptions "github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/options"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/stub"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/stub/options"
)

// Fixture is a running fake API and the accounts it was seeded with.
type Fixture struct {
	URL    string
	Server *stub.Server
	Seed   *genericoptions.SeedOptions
}

// Start runs a fresh fake API for the lifetime of t.
func Start(t testing.TB) *Fixture {
	t.Helper()
	opts := options.NewOptions()
	opts.Feature.EnableMetrics = false
	opts.Log.Level = "error"
	require.NoError(t, opts.Complete())
	require.Empty(t, opts.Validate())

	s, err := stub.New(opts)
	require.NoError(t, err)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	return &Fixture{URL: srv.URL, Server: s, Seed: opts.Seed}
}

// ServerOptions points the harness at the fixture.
func (f *Fixture) ServerOptions() *genericoptions.ServerOptions {
	o := genericoptions.NewServerOptions()
	o.BaseURL = f.URL
	o.Timeout = 5 * time.Second
	return o
}

// CredentialOptions holds the seeded accounts.
func (f *Fixture) CredentialOptions() *genericoptions.CredentialOptions {
	o := genericoptions.NewCredentialOptions()
	o.Standard = f.Seed.Standard
	o.Admin = f.Seed.Admin
	return o
}
