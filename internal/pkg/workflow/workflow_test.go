package workflow

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/client"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/credential"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/identity"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/resource"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/serverest"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/session"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/stub/stubtest"
)

// failing answers 500 to the matching requests and forwards everything else.
type failing struct {
	match func(*http.Request) bool
}

func (f failing) RoundTrip(req *http.Request) (*http.Response, error) {
	if f.match(req) {
		return &http.Response{
			StatusCode: http.StatusInternalServerError,
			Header:     http.Header{"Content-Type": {"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"message":"injected"}`)),
			Request:    req,
		}, nil
	}
	return http.DefaultTransport.RoundTrip(req)
}

// rewriting hands every request to fn, which may answer it itself or forward it.
type rewriting func(*http.Request) (*http.Response, error)

func (f rewriting) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(req *http.Request, status int, body interface{}) *http.Response {
	raw, _ := jsoniter.Marshal(body)
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(raw)),
		Request:    req,
	}
}

// editBody rewrites a JSON object body in place.
func editBody(body io.ReadCloser, edit func(map[string]interface{})) (io.ReadCloser, int64, error) {
	raw, err := io.ReadAll(body)
	_ = body.Close()
	if err != nil {
		return nil, 0, err
	}
	m := map[string]interface{}{}
	if err := jsoniter.Unmarshal(raw, &m); err != nil {
		return nil, 0, err
	}
	edit(m)
	if raw, err = jsoniter.Marshal(m); err != nil {
		return nil, 0, err
	}
	return io.NopCloser(bytes.NewReader(raw)), int64(len(raw)), nil
}

func byID(req *http.Request, method, collection string) bool {
	return req.Method == method && strings.HasPrefix(req.URL.Path, collection+"/")
}

type env struct {
	wf     *Workflow
	direct *client.Client
}

func newEnv(t *testing.T, fail func(*http.Request) bool) *env {
	t.Helper()
	if fail == nil {
		return newEnvWithTransport(t, nil)
	}
	return newEnvWithTransport(t, failing{match: fail})
}

func newEnvWithTransport(t *testing.T, rt http.RoundTripper) *env {
	t.Helper()
	f := stubtest.Start(t)
	r, err := credential.NewResolver(f.CredentialOptions())
	require.NoError(t, err)

	hc := &http.Client{Timeout: 5 * time.Second}
	if rt != nil {
		hc.Transport = rt
	}
	c := client.New(f.ServerOptions(), hc)
	sessions := session.NewProvider(c, r)
	wf := New(sessions, resource.NewFactory(sessions), identity.NewResolver(c))
	return &env{wf: wf, direct: client.New(f.ServerOptions(), nil)}
}

func stepNames(r *Report) []string {
	var names []string
	for _, s := range r.Steps {
		names = append(names, s.Name)
	}
	return names
}

func TestProductRoundTrip(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()

	report, err := e.wf.ProductRoundTrip(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"create", "locate", "update", "verify update", "delete", "verify absence"}, stepNames(report))
	assert.True(t, strings.HasPrefix(report.OriginalName, resource.DefaultProductBase))
	assert.True(t, strings.HasPrefix(report.UpdatedName, report.OriginalName+" - Edited "))
	assert.False(t, report.Residue)
	_, failed := report.Failed()
	assert.False(t, failed)

	resp, err := e.direct.GetProduct(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.HTTPStatus)
}

func TestProductEdit(t *testing.T) {
	wf := &Workflow{now: func() time.Time { return time.Unix(0, 42) }}
	edit, err := wf.ProductEdit(map[string]interface{}{"nome": "New product 1", "preco": 100, "descricao": "d", "quantidade": float64(5)})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"nome":       "New product 1 - Edited 42",
		"preco":      110,
		"descricao":  "d (editado)",
		"quantidade": 6,
	}, edit)

	_, err = wf.ProductEdit(map[string]interface{}{"nome": "x", "preco": "cem", "quantidade": 1})
	assert.True(t, errors.IsCode(err, code.ErrConfiguration))
}

func TestProductRoundTripCleansUpAfterFailure(t *testing.T) {
	e := newEnv(t, func(r *http.Request) bool { return r.Method == http.MethodPut })
	ctx := context.Background()

	report, err := e.wf.ProductRoundTrip(ctx, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, code.ErrUnexpectedResponse))
	failed, ok := report.Failed()
	require.True(t, ok)
	assert.Equal(t, "update", failed.Name)
	assert.False(t, report.Residue)

	resp, err := e.direct.GetProduct(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.HTTPStatus)
}

func TestProductRoundTripReportsResidue(t *testing.T) {
	e := newEnv(t, func(r *http.Request) bool {
		return r.Method == http.MethodPut || r.Method == http.MethodDelete
	})
	report, err := e.wf.ProductRoundTrip(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, report.Residue)

	resp, err := e.direct.GetProduct(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.HTTPStatus)
}

func TestProductRoundTripReportsUnlocatedRecordAsResidue(t *testing.T) {
	e := newEnv(t, func(r *http.Request) bool {
		return r.Method == http.MethodGet && r.URL.Path == serverest.PathProducts
	})
	report, err := e.wf.ProductRoundTrip(context.Background(), nil)
	require.Error(t, err)
	failed, ok := report.Failed()
	require.True(t, ok)
	assert.Equal(t, "locate", failed.Name)
	assert.True(t, report.Residue)

	resp, err := e.direct.GetProduct(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.HTTPStatus)
}

func TestProductRoundTripRejectsFieldMismatch(t *testing.T) {
	e := newEnvWithTransport(t, rewriting(func(req *http.Request) (*http.Response, error) {
		if byID(req, http.MethodPut, serverest.PathProducts) {
			body, n, err := editBody(req.Body, func(m map[string]interface{}) { m["preco"] = 999 })
			if err != nil {
				return nil, err
			}
			req.Body, req.ContentLength = body, n
		}
		return http.DefaultTransport.RoundTrip(req)
	}))
	ctx := context.Background()

	report, err := e.wf.ProductRoundTrip(ctx, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, code.ErrUnexpectedResponse))
	failed, ok := report.Failed()
	require.True(t, ok)
	assert.Equal(t, "verify update", failed.Name)
	assert.Contains(t, failed.Error, "preco")
	assert.False(t, report.Residue)

	resp, err := e.direct.GetProduct(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.HTTPStatus)
}

func TestProductRoundTripRejectsRecordStillListed(t *testing.T) {
	// The delete is acknowledged but never reaches the server, and reads by id
	// claim the record is gone, so only the listing still shows it.
	e := newEnvWithTransport(t, rewriting(func(req *http.Request) (*http.Response, error) {
		switch {
		case byID(req, http.MethodDelete, serverest.PathProducts):
			return jsonResponse(req, http.StatusOK, serverest.MessageBody{Message: serverest.MsgDeleted}), nil
		case byID(req, http.MethodGet, serverest.PathProducts):
			return jsonResponse(req, http.StatusBadRequest, serverest.MessageBody{Message: serverest.MsgProductNotFound}), nil
		}
		return http.DefaultTransport.RoundTrip(req)
	}))

	report, err := e.wf.ProductRoundTrip(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, code.ErrUnexpectedResponse))
	failed, ok := report.Failed()
	require.True(t, ok)
	assert.Equal(t, "verify absence", failed.Name)
	assert.Contains(t, failed.Error, "still listed")
}

func TestProductRoundTripStopsWhenCreationFails(t *testing.T) {
	e := newEnv(t, nil)
	report, err := e.wf.ProductRoundTrip(context.Background(), map[string]interface{}{"preco": 0})
	require.Error(t, err)
	assert.Equal(t, []string{"create"}, stepNames(report))
	assert.Empty(t, report.ID)
}

func TestUserLifecycle(t *testing.T) {
	for _, update := range []bool{false, true} {
		e := newEnv(t, nil)
		report, err := e.wf.UserLifecycle(context.Background(), nil, update)
		require.NoError(t, err)

		want := []string{"create", "locate", "read", "delete", "verify absence"}
		if update {
			want = []string{"create", "locate", "read", "update", "delete", "verify absence"}
			assert.NotEmpty(t, report.UpdatedName)
		}
		assert.Equal(t, want, stepNames(report))

		resp, err := e.direct.GetUser(context.Background(), report.ID)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.HTTPStatus)
	}
}

func TestUserLifecycleCleansUpAfterFailure(t *testing.T) {
	e := newEnv(t, func(r *http.Request) bool {
		return r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/usuarios/")
	})
	report, err := e.wf.UserLifecycle(context.Background(), nil, false)
	require.Error(t, err)
	failed, ok := report.Failed()
	require.True(t, ok)
	assert.Equal(t, "read", failed.Name)

	resp, err := e.direct.GetUser(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.HTTPStatus)
}

func TestUserLifecycleRejectsInconsistentRead(t *testing.T) {
	tests := map[string]func(map[string]interface{}){
		"foreign id":       func(m map[string]interface{}) { m["_id"] = "0000000000000000" },
		"missing password": func(m map[string]interface{}) { delete(m, "password") },
		"bad admin flag":   func(m map[string]interface{}) { m["administrador"] = "yes" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			e := newEnvWithTransport(t, rewriting(func(req *http.Request) (*http.Response, error) {
				resp, err := http.DefaultTransport.RoundTrip(req)
				if err != nil || !byID(req, http.MethodGet, serverest.PathUsers) || resp.StatusCode != http.StatusOK {
					return resp, err
				}
				body, n, err := editBody(resp.Body, mutate)
				if err != nil {
					return nil, err
				}
				resp.Body, resp.ContentLength = body, n
				resp.Header.Del("Content-Length")
				return resp, nil
			}))

			report, err := e.wf.UserLifecycle(context.Background(), nil, false)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, code.ErrUnexpectedResponse))
			failed, ok := report.Failed()
			require.True(t, ok)
			assert.Equal(t, "read", failed.Name)
			assert.False(t, report.Residue)

			resp, err := e.direct.GetUser(context.Background(), report.ID)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.HTTPStatus)
		})
	}
}
