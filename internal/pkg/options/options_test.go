package options

import (
	"testing"
	"time"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
)

func TestServerOptions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *ServerOptions)
		wantErr int
	}{
		{name: "defaults", mutate: func(o *ServerOptions) {}},
		{name: "trailing slash trimmed", mutate: func(o *ServerOptions) { o.BaseURL = "http://localhost:3000/" }},
		{name: "empty url", mutate: func(o *ServerOptions) { o.BaseURL = "  " }, wantErr: 1},
		{name: "relative url", mutate: func(o *ServerOptions) { o.BaseURL = "serverest.dev" }, wantErr: 1},
		{name: "negative rate", mutate: func(o *ServerOptions) { o.RateLimit = -1 }, wantErr: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewServerOptions()
			tt.mutate(o)
			o.Complete()
			errs := o.Validate()
			assert.Len(t, errs, tt.wantErr)
			for _, err := range errs {
				assert.True(t, errors.IsCode(err, code.ErrConfiguration))
			}
		})
	}

	o := NewServerOptions()
	o.BaseURL = "http://localhost:3000///"
	o.Timeout = 0
	o.Complete()
	assert.Equal(t, "http://localhost:3000", o.BaseURL)
	assert.Equal(t, 30*time.Second, o.Timeout)
}

func TestCredentialOptions(t *testing.T) {
	o := NewCredentialOptions()
	errs := o.Validate()
	// email and password for both roles
	require.Len(t, errs, 4)
	for _, err := range errs {
		assert.True(t, errors.IsCode(err, code.ErrConfiguration))
	}

	o.Standard = AccountOptions{Email: " user@qa.com ", Password: "secret"}
	o.Admin = AccountOptions{Email: "not-an-email", Password: "secret"}
	o.Complete()
	errs = o.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "credentials.admin.email")
	assert.Equal(t, "user@qa.com", o.Standard.Email)

	o.Admin.Email = "admin@qa.com"
	assert.Empty(t, o.Validate())
	assert.NotContains(t, o.String(), "secret")
}

func TestCredentialFlags(t *testing.T) {
	o := NewCredentialOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.AddFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"--credentials.standard.email=a@qa.com",
		"--credentials.admin.password=pw",
		"--credentials.prompt",
	}))
	assert.Equal(t, "a@qa.com", o.Standard.Email)
	assert.Equal(t, "pw", o.Admin.Password)
	assert.True(t, o.Prompt)
}

func TestOutputAndScenarioOptions(t *testing.T) {
	out := NewOutputOptions()
	assert.Empty(t, out.Validate())
	out.FailOnRegression = true
	assert.Len(t, out.Validate(), 1)
	out.Baseline = "_output/baseline"
	assert.Empty(t, out.Validate())
	out.Dir = ""
	assert.Len(t, out.Validate(), 1)

	sc := NewScenarioOptions()
	sc.Only = []string{" login ", "", "product-roundtrip"}
	sc.Complete()
	assert.Equal(t, []string{"login", "product-roundtrip"}, sc.Only)
	assert.Empty(t, sc.Validate())
	sc.ProductBaseName = ""
	assert.Len(t, sc.Validate(), 1)
}

func TestStubOptions(t *testing.T) {
	assert.Empty(t, NewInsecureServingOptions().Validate())
	bad := &InsecureServingOptions{BindAddress: "localhost", BindPort: 70000}
	assert.Len(t, bad.Validate(), 2)
	assert.Equal(t, "127.0.0.1:3000", NewInsecureServingOptions().Address())

	j := NewJwtOptions()
	j.Complete()
	assert.NotEmpty(t, j.Key)
	assert.Empty(t, j.Validate())
	j.Timeout = -time.Second
	assert.Len(t, j.Validate(), 1)

	assert.Empty(t, NewSeedOptions().Validate())
}
