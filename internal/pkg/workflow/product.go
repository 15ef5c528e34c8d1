package workflow

import (
	"context"
	"net/http"
	"net/url"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/identity"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/serverest"
)

// ProductEdit derives the update payload from what was created: a new unique
// name, a higher price, an annotated description and one more unit in stock.
func (w *Workflow) ProductEdit(created map[string]interface{}) (map[string]interface{}, error) {
	nome, _ := created["nome"].(string)
	descricao, _ := created["descricao"].(string)
	preco, okPreco := asInt(created["preco"])
	quantidade, okQtd := asInt(created["quantidade"])
	if nome == "" || !okPreco || !okQtd {
		return nil, errors.WithCode(code.ErrConfiguration, "product payload %v cannot be edited", created)
	}
	return map[string]interface{}{
		"nome":       editedName(nome, w.now()),
		"preco":      preco + 10,
		"descricao":  descricao + " (editado)",
		"quantidade": quantidade + 1,
	}, nil
}

// ProductRoundTrip creates a product, finds it by name, updates it, checks the
// update through the listing, deletes it and checks it is gone.
func (w *Workflow) ProductRoundTrip(ctx context.Context, overrides map[string]interface{}) (*Report, error) {
	report := &Report{}
	c := w.sessions.Client()

	var created map[string]interface{}
	if err := step(ctx, report, "create", func() error {
		res, err := w.factory.CreateProduct(ctx, overrides)
		if err != nil {
			return err
		}
		report.ID, report.OriginalName, created = res.ID, res.Name, res.Payload
		return nil
	}); err != nil {
		return report, err
	}

	deleted := false
	var err error
	defer func() {
		if err != nil && !deleted {
			w.cleanup(ctx, report, identity.Products, func(id string) error {
				tok, err := w.sessions.Administrator(ctx)
				if err != nil {
					return err
				}
				resp, err := c.DeleteProduct(ctx, tok.Header(), id)
				if err != nil {
					return err
				}
				return resp.Expect("delete product", http.StatusOK)
			})
		}
	}()

	var id string
	if err = step(ctx, report, "locate", func() error {
		id, err = w.locate(ctx, identity.Products, report.OriginalName, identity.MatchPrefix, report.ID)
		return err
	}); err != nil {
		return report, err
	}

	var edit map[string]interface{}
	if err = step(ctx, report, "update", func() error {
		if edit, err = w.ProductEdit(created); err != nil {
			return err
		}
		tok, err := w.sessions.Administrator(ctx)
		if err != nil {
			return err
		}
		resp, err := c.UpdateProduct(ctx, tok.Header(), id, edit)
		if err != nil {
			return err
		}
		if err := resp.Expect("update product", http.StatusOK); err != nil {
			return errors.WrapC(err, code.ErrUnexpectedResponse, "update product %s", id)
		}
		if !serverest.IsUpdated(resp.Message) {
			return errors.WithCode(code.ErrUnexpectedResponse, "update product %s: message %q", id, resp.Message)
		}
		report.UpdatedName = edit["nome"].(string)
		return nil
	}); err != nil {
		return report, err
	}

	if err = step(ctx, report, "verify update", func() error {
		if _, err := w.locate(ctx, identity.Products, report.UpdatedName, identity.MatchPrefix, id); err != nil {
			return err
		}
		list, err := c.ListProducts(ctx, url.Values{"nome": {report.UpdatedName}})
		if err != nil {
			return err
		}
		for _, p := range list.List.Produtos {
			if p.ID != id {
				continue
			}
			got := map[string]interface{}{"nome": p.Nome, "preco": p.Preco, "descricao": p.Descricao, "quantidade": p.Quantidade}
			for field, want := range edit {
				if !sameValue(got[field], want) {
					return errors.WithCode(code.ErrUnexpectedResponse, "product %s: %s is %v, sent %v", id, field, got[field], want)
				}
			}
			return nil
		}
		return errors.WithCode(code.ErrNotFound, "product %s missing from listing of %q", id, report.UpdatedName)
	}); err != nil {
		return report, err
	}

	if err = step(ctx, report, "delete", func() error {
		tok, err := w.sessions.Administrator(ctx)
		if err != nil {
			return err
		}
		resp, err := c.DeleteProduct(ctx, tok.Header(), id)
		if err != nil {
			return err
		}
		if err := resp.Expect("delete product", http.StatusOK); err != nil {
			return errors.WrapC(err, code.ErrUnexpectedResponse, "delete product %s", id)
		}
		if resp.Message == "" || resp.Message == serverest.MsgNothingDeleted {
			return errors.WithCode(code.ErrUnexpectedResponse, "delete product %s: message %q", id, resp.Message)
		}
		deleted = true
		return nil
	}); err != nil {
		return report, err
	}

	err = step(ctx, report, "verify absence", func() error {
		resp, err := c.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		if resp.HTTPStatus != http.StatusBadRequest || !serverest.IsNotFound(resp.Message) {
			return errors.WithCode(code.ErrUnexpectedResponse, "product %s still readable: HTTP %d %q", id, resp.HTTPStatus, resp.Message)
		}
		return w.absentFromListings(ctx, identity.Products, id, report.OriginalName, report.UpdatedName)
	})
	return report, err
}

func (w *Workflow) absentFromListings(ctx context.Context, coll identity.Collection, id string, names ...string) error {
	for _, name := range names {
		if name == "" {
			continue
		}
		listed, err := w.resolver.Listed(ctx, coll, name, id)
		if err != nil {
			return err
		}
		if listed {
			return errors.WithCode(code.ErrUnexpectedResponse, "%s %s still listed under %q", coll, id, name)
		}
	}
	return nil
}

// sameValue compares a decoded field with what was sent, ignoring numeric type.
func sameValue(got, want interface{}) bool {
	if g, ok := asInt(got); ok {
		w, ok := asInt(want)
		return ok && g == w
	}
	return got == want
}
