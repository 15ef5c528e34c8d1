// Package identity resolves a human readable name to the identifier the API
// assigned. The listing filter on the server is fuzzy, so every candidate is
// matched again on the client before its identifier is trusted.
package identity

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/client"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/serverest-e2e/pkg/log"
)

type Collection string

const (
	Products Collection = "produtos"
	Users    Collection = "usuarios"
)

type MatchMode int

const (
	// MatchExact requires the whole name to be equal.
	MatchExact MatchMode = iota
	// MatchPrefix accepts names that start with the query.
	MatchPrefix
)

func (m MatchMode) String() string {
	if m == MatchPrefix {
		return "prefix"
	}
	return "exact"
}

func (m MatchMode) matches(name, query string) bool {
	if m == MatchPrefix {
		return strings.HasPrefix(name, query)
	}
	return name == query
}

// record is the part of a listed record the resolver looks at.
type record struct {
	id   string
	name string
}

type Resolver struct {
	client *client.Client
}

func NewResolver(c *client.Client) *Resolver {
	return &Resolver{client: c}
}

// FindIdentifierByName lists coll filtered by name and returns the identifier of
// the first record whose name satisfies mode.
//
// A non-200 listing, or a count that disagrees with an empty array, fails with
// code.ErrUnexpectedResponse. No candidate at all fails with code.ErrNotFound.
func (r *Resolver) FindIdentifierByName(ctx context.Context, coll Collection, name string, mode MatchMode) (string, error) {
	records, resp, err := r.list(ctx, coll, name)
	if err != nil {
		return "", err
	}
	if err := resp.Expect("list "+string(coll), http.StatusOK); err != nil {
		return "", errors.WrapC(err, code.ErrUnexpectedResponse, "find %s %q", coll, name)
	}
	if len(records) == 0 {
		return "", errors.WithCode(code.ErrNotFound, "no %s listed for %q", coll, name)
	}
	for _, rec := range records {
		if mode.matches(rec.name, name) {
			log.L(ctx).Debugw("identifier resolved", "collection", coll, "name", rec.name, "id", rec.id, "mode", mode)
			return rec.id, nil
		}
	}
	return "", errors.WithCode(code.ErrNotFound, "%d %s listed for %q, none matches by %s", len(records), coll, name, mode)
}

// Listed reports whether id appears in the listing of coll filtered by name.
func (r *Resolver) Listed(ctx context.Context, coll Collection, name, id string) (bool, error) {
	records, resp, err := r.list(ctx, coll, name)
	if err != nil {
		return false, err
	}
	if err := resp.Expect("list "+string(coll), http.StatusOK); err != nil {
		return false, errors.WrapC(err, code.ErrUnexpectedResponse, "list %s %q", coll, name)
	}
	for _, rec := range records {
		if rec.id == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *Resolver) list(ctx context.Context, coll Collection, name string) ([]record, *client.Response, error) {
	filter := url.Values{"nome": {name}}
	var (
		records  []record
		reported int
		resp     *client.Response
	)
	switch coll {
	case Products:
		out, err := r.client.ListProducts(ctx, filter)
		if err != nil {
			return nil, nil, err
		}
		resp, reported = out.Response, out.List.Quantidade
		for _, p := range out.List.Produtos {
			records = append(records, record{id: p.ID, name: p.Nome})
		}
	case Users:
		out, err := r.client.ListUsers(ctx, filter)
		if err != nil {
			return nil, nil, err
		}
		resp, reported = out.Response, out.List.Quantidade
		for _, u := range out.List.Usuarios {
			records = append(records, record{id: u.ID, name: u.Nome})
		}
	default:
		return nil, nil, errors.WithCode(code.ErrConfiguration, "unknown collection %q", coll)
	}
	if resp.HTTPStatus == http.StatusOK && reported != len(records) && (reported == 0 || len(records) == 0) {
		return nil, nil, errors.WithCode(code.ErrUnexpectedResponse,
			"list %s %q: quantidade %d but %d records", coll, name, reported, len(records))
	}
	return records, resp, nil
}
