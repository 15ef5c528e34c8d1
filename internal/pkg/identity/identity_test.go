package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/client"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/credential"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/options"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/session"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/stub/stubtest"
)

type fixture struct {
	resolver *Resolver
	client   *client.Client
	token    session.Token
}

func setup(t *testing.T) *fixture {
	t.Helper()
	f := stubtest.Start(t)
	r, err := credential.NewResolver(f.CredentialOptions())
	require.NoError(t, err)
	c := client.New(f.ServerOptions(), nil)
	tok, err := session.NewProvider(c, r).Administrator(context.Background())
	require.NoError(t, err)
	return &fixture{resolver: NewResolver(c), client: c, token: tok}
}

func (f *fixture) product(t *testing.T, name string) string {
	t.Helper()
	resp, err := f.client.CreateProduct(context.Background(), f.token.Header(), map[string]interface{}{
		"nome": name, "preco": 1, "descricao": "d", "quantidade": 1,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.HTTPStatus)
	return resp.ID
}

func TestFindProductByPrefix(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	decoy := f.product(t, "Old New product 1")
	want := f.product(t, "New product 2")

	id, err := f.resolver.FindIdentifierByName(ctx, Products, "New product", MatchPrefix)
	require.NoError(t, err)
	assert.Equal(t, want, id)
	assert.NotEqual(t, decoy, id)

	id, err = f.resolver.FindIdentifierByName(ctx, Products, "New product 2", MatchExact)
	require.NoError(t, err)
	assert.Equal(t, want, id)
}

func TestFuzzyCandidatesAreRevalidated(t *testing.T) {
	f := setup(t)
	f.product(t, "Alpha Widget 1")

	_, err := f.resolver.FindIdentifierByName(context.Background(), Products, "Widget", MatchPrefix)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, code.ErrNotFound))

	_, err = f.resolver.FindIdentifierByName(context.Background(), Products, "Alpha Widget", MatchExact)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, code.ErrNotFound))
}

func TestFindUserExact(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	resp, err := f.client.CreateUser(ctx, "", map[string]interface{}{
		"nome": "QA Admin 7", "email": "qa_7@qa.com", "password": "teste123", "administrador": "true",
	})
	require.NoError(t, err)

	id, err := f.resolver.FindIdentifierByName(ctx, Users, "QA Admin 7", MatchExact)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, id)

	listed, err := f.resolver.Listed(ctx, Users, "QA Admin 7", id)
	require.NoError(t, err)
	assert.True(t, listed)

	_, err = f.resolver.FindIdentifierByName(ctx, Users, "Nobody", MatchExact)
	assert.True(t, errors.IsCode(err, code.ErrNotFound))
}

func TestUnexpectedListings(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   int
	}{
		{"server error", http.StatusInternalServerError, `{"message":"boom"}`, code.ErrUnexpectedResponse},
		{"count without records", http.StatusOK, `{"quantidade":2,"produtos":[]}`, code.ErrUnexpectedResponse},
		{"empty listing", http.StatusOK, `{"quantidade":0,"produtos":[]}`, code.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()
			opts := options.NewServerOptions()
			opts.BaseURL = srv.URL
			r := NewResolver(client.New(opts, nil))

			_, err := r.FindIdentifierByName(context.Background(), Products, "x", MatchPrefix)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.want))
		})
	}
}

func TestUnknownCollection(t *testing.T) {
	r := NewResolver(client.New(options.NewServerOptions(), nil))
	_, err := r.FindIdentifierByName(context.Background(), Collection("carrinhos"), "x", MatchExact)
	assert.True(t, errors.IsCode(err, code.ErrConfiguration))
}
