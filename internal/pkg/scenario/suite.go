// Package scenario runs the named end to end cases against one ServeRest
// deployment and records a CaseResult per case. Cases run one after another;
// a failing case is recorded and the next one starts.
package scenario

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/client"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/credential"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/identity"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/metrics"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/options"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/resource"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/session"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/workflow"
	"github.com/maxiaolu1981/cretem/serverest-e2e/pkg/log"
)

// SuiteName names the result files: serverest_cases.json, serverest_perf.json.
const SuiteName = "serverest"

// Env is what a case works with.
type Env struct {
	Client      *client.Client
	Credentials *credential.Resolver
	Sessions    *session.Provider
	Factory     *resource.Factory
	Identity    *identity.Resolver
	Workflow    *workflow.Workflow
	Options     *options.ScenarioOptions

	now func() time.Time
}

func NewEnv(c *client.Client, creds *credential.Resolver, opts *options.ScenarioOptions) *Env {
	if opts == nil {
		opts = options.NewScenarioOptions()
	}
	sessions := session.NewProvider(c, creds)
	factory := resource.NewFactory(sessions,
		resource.WithProductBase(opts.ProductBaseName),
		resource.WithUserBase(opts.UserBaseName),
	)
	resolver := identity.NewResolver(c)
	return &Env{
		Client:      c,
		Credentials: creds,
		Sessions:    sessions,
		Factory:     factory,
		Identity:    resolver,
		Workflow:    workflow.New(sessions, factory, resolver),
		Options:     opts,
		now:         time.Now,
	}
}

// Case is one named check. Run fills r with what it observed; a returned error
// or a failed check marks the case as failed.
type Case struct {
	Name        string
	Description string
	Run         func(ctx context.Context, env *Env, r *CaseResult) error
}

type Suite struct {
	name  string
	env   *Env
	cases []Case
}

// NewSuite builds the serverest suite with every known case.
func NewSuite(env *Env) *Suite {
	return &Suite{name: SuiteName, env: env, cases: Cases()}
}

func (s *Suite) Name() string { return s.name }

// Selected returns the cases picked by the scenario options, in suite order.
// Naming a case that does not exist is a configuration error.
func (s *Suite) Selected() ([]Case, error) {
	only := s.env.Options.Only
	if len(only) == 0 {
		return s.cases, nil
	}
	known := make(map[string]bool, len(s.cases))
	for _, c := range s.cases {
		known[c.Name] = true
	}
	want := make(map[string]bool, len(only))
	var unknown []string
	for _, name := range only {
		if !known[name] {
			unknown = append(unknown, name)
		}
		want[name] = true
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, errors.WithCode(code.ErrConfiguration, "unknown case(s): %s", strings.Join(unknown, ", "))
	}
	var out []Case
	for _, c := range s.cases {
		if want[c.Name] {
			out = append(out, c)
		}
	}
	return out, nil
}

// Run executes the selected cases and adds each result to rec. It stops early
// only when ctx is done.
func (s *Suite) Run(ctx context.Context, rec *Recorder) ([]CaseResult, error) {
	cases, err := s.Selected()
	if err != nil {
		return nil, err
	}
	results := make([]CaseResult, 0, len(cases))
	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result := s.runCase(ctx, c)
		results = append(results, result)
		if rec != nil {
			rec.AddCase(result)
		}
	}
	return results, nil
}

func (s *Suite) runCase(ctx context.Context, c Case) CaseResult {
	ctx = log.WithValues("suite", s.name, "case", c.Name).WithContext(ctx)
	log.L(ctx).Infow("case started", "description", c.Description)

	result := CaseResult{Name: c.Name, Description: c.Description}
	start := time.Now()
	err := c.Run(ctx, s.env, &result)
	elapsed := time.Since(start)
	result.DurationMS = elapsed.Milliseconds()

	if err == nil {
		if failed := result.failedChecks(); len(failed) > 0 {
			sort.Strings(failed)
			err = errors.WithCode(code.ErrUnexpectedResponse, "check(s) failed: %s", strings.Join(failed, ", "))
		}
	}
	if err != nil {
		result.Error = err.Error()
		if coder := errors.ParseCoderByErr(err); coder != nil {
			result.Code = coder.Code()
		}
		if se, ok := client.AsStatusError(err); ok && result.HTTPStatus == 0 {
			result.HTTPStatus = se.HTTPStatus
			result.Message = se.Message
		}
	}
	result.Success = err == nil
	metrics.RecordCase(s.name, result.Success, elapsed)

	if result.Success {
		log.L(ctx).Infow("case passed", "duration", elapsed)
	} else {
		log.L(ctx).Errorw("case failed", "duration", elapsed, "error", result.Error, "code", result.Code)
	}
	return result
}

// Passed counts the successful results.
func Passed(results []CaseResult) int {
	n := 0
	for _, r := range results {
		if r.Success {
			n++
		}
	}
	return n
}

func (e *Env) stamp() string {
	return fmt.Sprintf("%d", e.now().UnixNano())
}
