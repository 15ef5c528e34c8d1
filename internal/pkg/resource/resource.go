// Package resource creates the products and users a scenario owns. Names carry a
// nanosecond suffix so repeated runs against the shared deployment never collide.
package resource

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/client"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/serverest"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/session"
	"github.com/maxiaolu1981/cretem/serverest-e2e/pkg/log"
)

const (
	DefaultProductBase = "New product"
	DefaultUserBase    = "QA Admin"

	defaultPreco       = 100
	defaultDescricao   = "Descrição do produto teste"
	defaultQuantidade  = 5
	defaultPassword    = "teste123"
	defaultEmailDomain = "qa.com"
)

// Created is a record the caller now owns and must delete.
type Created struct {
	ID   string
	Name string
	// Payload is exactly what was sent, after overrides.
	Payload map[string]interface{}
	Raw     []byte
}

// Factory builds records as administrator.
type Factory struct {
	sessions    *session.Provider
	productBase string
	userBase    string
	now         func() time.Time
}

type Option func(*Factory)

func WithProductBase(base string) Option { return func(f *Factory) { f.productBase = base } }

func WithUserBase(base string) Option { return func(f *Factory) { f.userBase = base } }

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option { return func(f *Factory) { f.now = now } }

func NewFactory(sessions *session.Provider, opts ...Option) *Factory {
	f := &Factory{
		sessions:    sessions,
		productBase: DefaultProductBase,
		userBase:    DefaultUserBase,
		now:         time.Now,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// UniqueName appends a nanosecond timestamp to base.
func UniqueName(base string, now time.Time) string {
	return fmt.Sprintf("%s %d", base, now.UnixNano())
}

// ProductBase is the prefix every generated product name starts with.
func (f *Factory) ProductBase() string { return f.productBase }

func (f *Factory) UserBase() string { return f.userBase }

// ProductTemplate is the base product payload for a given instant.
func (f *Factory) ProductTemplate(now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"nome":       UniqueName(f.productBase, now),
		"preco":      defaultPreco,
		"descricao":  defaultDescricao,
		"quantidade": defaultQuantidade,
	}
}

// UserTemplate is the base administrator user payload for a given instant.
func (f *Factory) UserTemplate(now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"nome":          UniqueName(f.userBase, now),
		"email":         fmt.Sprintf("qa_%d@%s", now.UnixNano(), defaultEmailDomain),
		"password":      defaultPassword,
		"administrador": serverest.AdminTrue,
	}
}

// merge returns base with every override applied; extra keys pass through.
func merge(base, overrides map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// CreateProduct authenticates as administrator and posts the template merged
// with overrides. Anything but 201, the exact success message and an _id fails
// with code.ErrUnexpectedResponse.
func (f *Factory) CreateProduct(ctx context.Context, overrides map[string]interface{}) (*Created, error) {
	token, err := f.sessions.Administrator(ctx)
	if err != nil {
		return nil, err
	}
	payload := merge(f.ProductTemplate(f.now()), overrides)
	resp, err := f.sessions.Client().CreateProduct(ctx, token.Header(), payload)
	if err != nil {
		return nil, err
	}
	if err := resp.Expect("create product", http.StatusCreated); err != nil {
		return nil, errors.WrapC(err, code.ErrUnexpectedResponse, "create product %v", payload["nome"])
	}
	if resp.Message != serverest.MsgCreated || resp.ID == "" {
		return nil, errors.WithCode(code.ErrUnexpectedResponse, "create product: message %q, _id %q", resp.Message, resp.ID)
	}
	return f.created(ctx, "product", resp, payload), nil
}

// CreateUser works like CreateProduct for /usuarios, except that the success
// message is matched case-insensitively.
func (f *Factory) CreateUser(ctx context.Context, overrides map[string]interface{}) (*Created, error) {
	token, err := f.sessions.Administrator(ctx)
	if err != nil {
		return nil, err
	}
	payload := merge(f.UserTemplate(f.now()), overrides)
	resp, err := f.sessions.Client().CreateUser(ctx, token.Header(), payload)
	if err != nil {
		return nil, err
	}
	if err := resp.Expect("create user", http.StatusCreated); err != nil {
		return nil, errors.WrapC(err, code.ErrUnexpectedResponse, "create user %v", payload["email"])
	}
	if !serverest.IsCreated(resp.Message) || resp.ID == "" {
		return nil, errors.WithCode(code.ErrUnexpectedResponse, "create user: message %q, _id %q", resp.Message, resp.ID)
	}
	return f.created(ctx, "user", resp, payload), nil
}

func (f *Factory) created(ctx context.Context, kind string, resp *client.CreateResponse, payload map[string]interface{}) *Created {
	name, _ := payload["nome"].(string)
	log.L(ctx).Infow("resource created", "kind", kind, "id", resp.ID, "name", name)
	return &Created{ID: resp.ID, Name: name, Payload: payload, Raw: resp.Raw}
}
