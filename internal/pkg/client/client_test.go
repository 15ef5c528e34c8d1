package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/options"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/serverest"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts := options.NewServerOptions()
	opts.BaseURL = srv.URL
	opts.Timeout = 5 * time.Second
	return New(opts, nil)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestLogin(t *testing.T) {
	var gotRequestID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get(HeaderRequestID)
		var body serverest.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Password == "right" {
			writeJSON(w, http.StatusOK, `{"message":"Login realizado com sucesso","authorization":"Bearer abc.def.ghi"}`)
			return
		}
		writeJSON(w, http.StatusUnauthorized, `{"message":"Email e/ou senha inválidos"}`)
	})

	ok, err := c.Login(context.Background(), "a@qa.com", "right")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, ok.HTTPStatus)
	assert.Equal(t, "Bearer abc.def.ghi", ok.Authorization)
	assert.Equal(t, serverest.MsgLoginSuccess, ok.Message)
	assert.Equal(t, gotRequestID, ok.RequestID)
	assert.NotEmpty(t, ok.RequestID)

	bad, err := c.Login(context.Background(), "a@qa.com", "wrong")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, bad.HTTPStatus)
	assert.Empty(t, bad.Authorization)
	assert.True(t, serverest.IsInvalidCredentials(bad.Message))
	assert.False(t, bad.Has("authorization"))
}

func TestValidationFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"preco":"preco deve ser um número positivo","nome":"nome é obrigatório"}`)
	})
	resp, err := c.CreateProduct(context.Background(), "Bearer x", map[string]any{"preco": -1})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.HTTPStatus)
	assert.Empty(t, resp.ID)
	assert.Equal(t, "nome é obrigatório", resp.Fields["nome"])
	assert.Len(t, resp.Fields, 2)
}

func TestListQueryAndDecode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, serverest.PathProducts, r.URL.Path)
		assert.Equal(t, "New product 1", r.URL.Query().Get("nome"))
		writeJSON(w, http.StatusOK, `{"quantidade":1,"produtos":[{"_id":"p1","nome":"New product 1","preco":100,"descricao":"d","quantidade":5}]}`)
	})
	resp, err := c.ListProducts(context.Background(), url.Values{"nome": {"New product 1"}})
	require.NoError(t, err)
	require.Len(t, resp.List.Produtos, 1)
	assert.Equal(t, "p1", resp.List.Produtos[0].ID)
	assert.Equal(t, 100, resp.List.Produtos[0].Preco)
}

func TestDecodeFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `<html>`)
	})
	_, err := c.ListUsers(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, code.ErrDecodeResponse))
}

func TestNonJSONErrorIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	})
	resp, err := c.GetProduct(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.HTTPStatus)
	assert.Empty(t, resp.Message)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	opts := options.NewServerOptions()
	opts.BaseURL = srv.URL
	c := New(opts, nil)

	_, err := c.DeleteUser(context.Background(), "", "x")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, code.ErrTransport))
}

func TestPathEscapingAndAuthorization(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/produtos/a b", r.URL.Path)
		assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `{"message":"Registro excluído com sucesso"}`)
	})
	resp, err := c.DeleteProduct(context.Background(), "Bearer t", "a b")
	require.NoError(t, err)
	assert.Equal(t, serverest.MsgDeleted, resp.Message)
}

func TestRateLimiterHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"quantidade":0,"usuarios":[]}`)
	}))
	defer srv.Close()
	opts := options.NewServerOptions()
	opts.BaseURL = srv.URL
	opts.RateLimit = 0.001
	opts.RateBurst = 1
	c := New(opts, nil)

	_, err := c.ListUsers(context.Background(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.ListUsers(ctx, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, code.ErrTransport))
}

func TestStatusError(t *testing.T) {
	r := &Response{HTTPStatus: http.StatusForbidden, Message: serverest.MsgAdminOnly}
	assert.NoError(t, r.Expect("create_product", http.StatusForbidden))

	err := r.Expect("create_product", http.StatusCreated)
	require.Error(t, err)
	wrapped := errors.WrapC(err, code.ErrUnexpectedResponse, "create product")

	se, ok := AsStatusError(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, se.HTTPStatus)
	assert.Equal(t, http.StatusCreated, se.Want)
	assert.Contains(t, se.Error(), "expected HTTP 201, got 403")

	_, ok = AsStatusError(errors.New("plain"))
	assert.False(t, ok)
}
