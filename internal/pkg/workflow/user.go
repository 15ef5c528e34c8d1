package workflow

import (
	"context"
	"net/http"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/client"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/identity"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/serverest"
)

// UserLifecycle creates an administrator user, locates it by exact name, checks
// the stored fields, optionally renames it, deletes it and checks it is gone.
func (w *Workflow) UserLifecycle(ctx context.Context, overrides map[string]interface{}, update bool) (*Report, error) {
	report := &Report{}
	c := w.sessions.Client()

	var created map[string]interface{}
	if err := step(ctx, report, "create", func() error {
		res, err := w.factory.CreateUser(ctx, overrides)
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
			w.cleanup(ctx, report, identity.Users, func(id string) error {
				resp, err := w.deleteUser(ctx, id)
				if err != nil {
					return err
				}
				return resp.Expect("delete user", http.StatusOK)
			})
		}
	}()

	var id string
	if err = step(ctx, report, "locate", func() error {
		id, err = w.locate(ctx, identity.Users, report.OriginalName, identity.MatchExact, report.ID)
		return err
	}); err != nil {
		return report, err
	}

	if err = step(ctx, report, "read", func() error {
		return w.checkUser(ctx, id, created)
	}); err != nil {
		return report, err
	}

	if update {
		if err = step(ctx, report, "update", func() error {
			edit := make(map[string]interface{}, len(created))
			for k, v := range created {
				edit[k] = v
			}
			edit["nome"] = editedName(report.OriginalName, w.now())

			tok, err := w.sessions.Administrator(ctx)
			if err != nil {
				return err
			}
			resp, err := c.UpdateUser(ctx, tok.Header(), id, edit)
			if err != nil {
				return err
			}
			if err := resp.Expect("update user", http.StatusOK); err != nil {
				return errors.WrapC(err, code.ErrUnexpectedResponse, "update user %s", id)
			}
			if !serverest.IsUpdated(resp.Message) {
				return errors.WithCode(code.ErrUnexpectedResponse, "update user %s: message %q", id, resp.Message)
			}
			report.UpdatedName = edit["nome"].(string)
			if _, err := w.locate(ctx, identity.Users, report.UpdatedName, identity.MatchExact, id); err != nil {
				return err
			}
			return w.checkUser(ctx, id, edit)
		}); err != nil {
			return report, err
		}
	}

	if err = step(ctx, report, "delete", func() error {
		resp, err := w.deleteUser(ctx, id)
		if err != nil {
			return err
		}
		if err := resp.Expect("delete user", http.StatusOK); err != nil {
			return errors.WrapC(err, code.ErrUnexpectedResponse, "delete user %s", id)
		}
		if resp.Message == "" || resp.Message == serverest.MsgNothingDeleted {
			return errors.WithCode(code.ErrUnexpectedResponse, "delete user %s: message %q", id, resp.Message)
		}
		deleted = true
		return nil
	}); err != nil {
		return report, err
	}

	err = step(ctx, report, "verify absence", func() error {
		resp, err := c.GetUser(ctx, id)
		if err != nil {
			return err
		}
		if resp.HTTPStatus != http.StatusBadRequest || !serverest.IsNotFound(resp.Message) {
			return errors.WithCode(code.ErrUnexpectedResponse, "user %s still readable: HTTP %d %q", id, resp.HTTPStatus, resp.Message)
		}
		return w.absentFromListings(ctx, identity.Users, id, report.OriginalName, report.UpdatedName)
	})
	return report, err
}

func (w *Workflow) checkUser(ctx context.Context, id string, want map[string]interface{}) error {
	resp, err := w.sessions.Client().GetUser(ctx, id)
	if err != nil {
		return err
	}
	if err := resp.Expect("get user", http.StatusOK); err != nil {
		return errors.WrapC(err, code.ErrUnexpectedResponse, "get user %s", id)
	}
	if resp.User.ID != id {
		return errors.WithCode(code.ErrUnexpectedResponse, "get user %s: answered with _id %q", id, resp.User.ID)
	}
	if !resp.Has("password") {
		return errors.WithCode(code.ErrUnexpectedResponse, "get user %s: password missing", id)
	}
	if !serverest.ValidAdminFlag(resp.User.Administrador) {
		return errors.WithCode(code.ErrUnexpectedResponse, "get user %s: administrador is %q", id, resp.User.Administrador)
	}
	got := map[string]interface{}{
		"nome":          resp.User.Nome,
		"email":         resp.User.Email,
		"administrador": resp.User.Administrador,
	}
	for field, v := range got {
		if sent, ok := want[field]; ok && sent != v {
			return errors.WithCode(code.ErrUnexpectedResponse, "user %s: %s is %v, sent %v", id, field, v, sent)
		}
	}
	return nil
}

func (w *Workflow) deleteUser(ctx context.Context, id string) (*client.Response, error) {
	tok, err := w.sessions.Administrator(ctx)
	if err != nil {
		return nil, err
	}
	return w.sessions.Client().DeleteUser(ctx, tok.Header(), id)
}
