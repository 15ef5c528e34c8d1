// Package workflow chains the harness building blocks into full lifecycles:
// create, locate by name, update, verify, delete, verify absence. Every step waits
// for the previous one and consumes the identifier it located. A failing step
// stops the chain; whatever was created is then located and deleted on a best
// effort basis, and the original failure is returned.
package workflow

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/client"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/identity"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/resource"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/serverest"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/session"
	"github.com/maxiaolu1981/cretem/serverest-e2e/pkg/log"
)

// Step is one completed or failed stage of a lifecycle.
type Step struct {
	Name     string        `json:"name"`
	Passed   bool          `json:"passed"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Report describes one lifecycle run, successful or not.
type Report struct {
	ID           string `json:"id"`
	OriginalName string `json:"originalName"`
	UpdatedName  string `json:"updatedName,omitempty"`
	Steps        []Step `json:"steps"`
	// Residue is set when cleanup after a failure could not delete the record or
	// could not prove it is gone.
	Residue bool `json:"residue,omitempty"`
}

// Failed returns the first failed step, if any.
func (r *Report) Failed() (Step, bool) {
	for _, s := range r.Steps {
		if !s.Passed {
			return s, true
		}
	}
	return Step{}, false
}

type Workflow struct {
	sessions *session.Provider
	factory  *resource.Factory
	resolver *identity.Resolver
	now      func() time.Time
}

func New(sessions *session.Provider, factory *resource.Factory, resolver *identity.Resolver) *Workflow {
	return &Workflow{
		sessions: sessions,
		factory:  factory,
		resolver: resolver,
		now:      time.Now,
	}
}

// step runs fn and appends its outcome to report.
func step(ctx context.Context, report *Report, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	s := Step{Name: name, Passed: err == nil, Duration: time.Since(start)}
	if err != nil {
		s.Error = err.Error()
		log.L(ctx).Warnw("workflow step failed", "step", name, "id", report.ID, "error", s.Error)
	} else {
		log.L(ctx).Debugw("workflow step passed", "step", name, "id", report.ID, "duration", s.Duration)
	}
	report.Steps = append(report.Steps, s)
	return err
}

// locate resolves name and insists it points at the record created in this run.
func (w *Workflow) locate(ctx context.Context, coll identity.Collection, name string, mode identity.MatchMode, want string) (string, error) {
	id, err := w.resolver.FindIdentifierByName(ctx, coll, name, mode)
	if err != nil {
		return "", err
	}
	if want != "" && id != want {
		return "", errors.WithCode(code.ErrUnexpectedResponse, "%s %q resolved to %s, created as %s", coll, name, id, want)
	}
	return id, nil
}

// cleanup locates the record through the listing of each known name and deletes
// it. It never returns an error; a record it cannot remove is flagged as residue.
// A record that no listing shows is only deleted after it was located, so it
// counts as residue unless a read by id confirms it is gone.
func (w *Workflow) cleanup(ctx context.Context, report *Report, coll identity.Collection, del func(id string) error) {
	for _, name := range []string{report.UpdatedName, report.OriginalName} {
		if name == "" {
			continue
		}
		listed, err := w.resolver.Listed(ctx, coll, name, report.ID)
		if err != nil {
			log.L(ctx).Warnw("cleanup listing failed", "collection", coll, "id", report.ID, "name", name, "error", err.Error())
			continue
		}
		if !listed {
			continue
		}
		if err := del(report.ID); err != nil {
			log.L(ctx).Errorw("cleanup failed, record left behind", "collection", coll, "id", report.ID, "name", name, "error", err.Error())
			report.Residue = true
			return
		}
		log.L(ctx).Infow("cleaned up after failed workflow", "collection", coll, "id", report.ID, "name", name)
		return
	}
	if w.gone(ctx, coll, report.ID) {
		log.L(ctx).Infow("record already gone, nothing to clean up", "collection", coll, "id", report.ID)
		return
	}
	log.L(ctx).Errorw("record not located for cleanup, left behind", "collection", coll, "id", report.ID)
	report.Residue = true
}

// gone reports whether a read by id answers "not found". Any other outcome,
// a transport error included, means the record may still exist.
func (w *Workflow) gone(ctx context.Context, coll identity.Collection, id string) bool {
	var resp *client.Response
	c := w.sessions.Client()
	switch coll {
	case identity.Products:
		out, err := c.GetProduct(ctx, id)
		if err != nil {
			return false
		}
		resp = out.Response
	case identity.Users:
		out, err := c.GetUser(ctx, id)
		if err != nil {
			return false
		}
		resp = out.Response
	default:
		return false
	}
	return resp.HTTPStatus == http.StatusBadRequest && serverest.IsNotFound(resp.Message)
}

func editedName(original string, now time.Time) string {
	return fmt.Sprintf("%s - Edited %d", original, now.UnixNano())
}

// asInt reads a numeric payload member, whatever numeric type it was given as.
func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
