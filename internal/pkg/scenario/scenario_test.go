package scenario

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/client"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/credential"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/metrics"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/options"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/stub/stubtest"
)

func newSuite(t *testing.T, only ...string) (*Suite, *stubtest.Fixture) {
	t.Helper()
	f := stubtest.Start(t)
	r, err := credential.NewResolver(f.CredentialOptions())
	require.NoError(t, err)
	opts := options.NewScenarioOptions()
	opts.Only = only
	return NewSuite(NewEnv(client.New(f.ServerOptions(), nil), r, opts)), f
}

func TestSuiteRunsEveryCaseAgainstStub(t *testing.T) {
	s, f := newSuite(t)
	rec, err := NewRecorder(t.TempDir(), s.Name())
	require.NoError(t, err)

	results, err := s.Run(context.Background(), rec)
	require.NoError(t, err)
	require.Len(t, results, len(Cases()))
	for _, r := range results {
		assert.Truef(t, r.Success, "%s: %s %v", r.Name, r.Error, r.Checks)
	}
	assert.Equal(t, len(results), Passed(results))
	assert.Len(t, rec.Cases(), len(results))

	// every owned record is gone; only the seeded users remain
	products, err := client.New(f.ServerOptions(), nil).ListProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, products.List.Quantidade)
}

func TestSuiteOnly(t *testing.T) {
	s, _ := newSuite(t, "login-invalid-password", "login-standard")
	results, err := s.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	// suite order, not selection order
	assert.Equal(t, "login-standard", results[0].Name)
	assert.Equal(t, "login-invalid-password", results[1].Name)
	assert.Equal(t, 401, results[1].HTTPStatus)
}

func TestSuiteOnlyUnknownCase(t *testing.T) {
	s, _ := newSuite(t, "login-standard", "no-such-case")
	_, err := s.Run(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, code.ErrConfiguration))
	assert.Contains(t, err.Error(), "no-such-case")
}

func TestSuiteStopsOnCancelledContext(t *testing.T) {
	s, _ := newSuite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := s.Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestFailedCheckFailsCase(t *testing.T) {
	s, _ := newSuite(t)
	s.cases = []Case{{
		Name: "always-wrong",
		Run: func(_ context.Context, _ *Env, r *CaseResult) error {
			r.HTTPStatus = 200
			r.Check("ok", true)
			r.Check("status is 418", false)
			return nil
		},
	}}
	before := metrics.CounterValue(metrics.ScenarioCases, SuiteName, "failed")

	results, err := s.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, code.ErrUnexpectedResponse, results[0].Code)
	assert.Contains(t, results[0].Error, "status is 418")
	assert.Equal(t, before+1, metrics.CounterValue(metrics.ScenarioCases, SuiteName, "failed"))
}

func TestStatusErrorFillsHTTPStatus(t *testing.T) {
	s, _ := newSuite(t)
	s.cases = []Case{{
		Name: "status",
		Run: func(context.Context, *Env, *CaseResult) error {
			return errors.WrapC(&client.StatusError{Operation: "x", HTTPStatus: 503, Want: 200, Message: "down"},
				code.ErrUnexpectedResponse, "x")
		},
	}}
	results, err := s.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 503, results[0].HTTPStatus)
	assert.Equal(t, "down", results[0].Message)
	assert.Equal(t, code.ErrUnexpectedResponse, results[0].Code)
}

func TestRecorderFlush(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewRecorder(dir, "demo")
	require.NoError(t, err)
	rec.AddCase(CaseResult{Name: "a", Success: true, HTTPStatus: 200})
	rec.SetOperations([]metrics.OperationStat{{Operation: "login", Requests: 4, Failures: 1}})
	require.NoError(t, rec.Flush())
	assert.Equal(t, filepath.Join(dir, "demo_cases.json"), rec.CaseFile())

	var cases []CaseResult
	raw, err := os.ReadFile(filepath.Join(dir, "demo_cases.json"))
	require.NoError(t, err)
	require.NoError(t, jsoniter.Unmarshal(raw, &cases))
	assert.Equal(t, []CaseResult{{Name: "a", Success: true, HTTPStatus: 200}}, cases)

	var ops []OperationPoint
	raw, err = os.ReadFile(filepath.Join(dir, "demo_perf.json"))
	require.NoError(t, err)
	require.NoError(t, jsoniter.Unmarshal(raw, &ops))
	require.Len(t, ops, 1)
	assert.InDelta(t, 0.25, ops[0].FailureRate, 1e-9)
}

func TestInMemoryRecorder(t *testing.T) {
	rec, err := NewRecorder("", "demo")
	require.NoError(t, err)
	rec.AddCase(CaseResult{Name: "a"})
	assert.NoError(t, rec.Flush())
	assert.Empty(t, rec.CaseFile())
}

func writeRun(t *testing.T, cases []CaseResult, ops []OperationPoint) string {
	t.Helper()
	dir := t.TempDir()
	rec, err := NewRecorder(dir, SuiteName)
	require.NoError(t, err)
	for _, c := range cases {
		rec.AddCase(c)
	}
	rec.perf = ops
	require.NoError(t, rec.Flush())
	return dir
}

func TestCompareResults(t *testing.T) {
	baseline := writeRun(t,
		[]CaseResult{
			{Name: "kept", Success: true, HTTPStatus: 200, DurationMS: 10},
			{Name: "broken", Success: true, HTTPStatus: 201},
			{Name: "dropped", Success: true},
		},
		[]OperationPoint{{Operation: "login", Requests: 2}},
	)
	current := writeRun(t,
		[]CaseResult{
			{Name: "kept", Success: true, HTTPStatus: 200, DurationMS: 999},
			{Name: "broken", Success: false, HTTPStatus: 500},
			{Name: "new", Success: true},
		},
		[]OperationPoint{{Operation: "login", Requests: 2, FailureRate: 0.5}},
	)

	summary, err := CompareResults(baseline, current)
	require.NoError(t, err)
	require.Len(t, summary.CaseDiffs, 3)
	assert.Equal(t, "broken", summary.CaseDiffs[0].Name)
	assert.Equal(t, CaseChanged, summary.CaseDiffs[0].Status)
	assert.Equal(t, CaseRemoved, summary.CaseDiffs[1].Status)
	assert.Equal(t, CaseAdded, summary.CaseDiffs[2].Status)
	require.Len(t, summary.OperationDiffs, 1)
	assert.InDelta(t, 0.5, summary.OperationDiffs[0].DeltaFailureRate, 1e-9)
	assert.True(t, summary.HasRegression())

	var out bytes.Buffer
	summary.PrintReport(&out)
	assert.Contains(t, out.String(), "broken")
	assert.Contains(t, out.String(), "login")
}

func TestCompareIdenticalRuns(t *testing.T) {
	cases := []CaseResult{{Name: "a", Success: true, HTTPStatus: 200}}
	summary, err := CompareResults(writeRun(t, cases, nil), writeRun(t, cases, nil))
	require.NoError(t, err)
	assert.True(t, summary.IsEmpty())
	assert.False(t, summary.HasRegression())
}

func TestCompareImprovementIsNotRegression(t *testing.T) {
	baseline := writeRun(t, []CaseResult{{Name: "a", Success: false, HTTPStatus: 500}},
		[]OperationPoint{{Operation: "login", FailureRate: 0.5}})
	current := writeRun(t, []CaseResult{{Name: "a", Success: true, HTTPStatus: 200}, {Name: "b", Success: true}},
		[]OperationPoint{{Operation: "login"}})

	summary, err := CompareResults(baseline, current)
	require.NoError(t, err)
	assert.False(t, summary.IsEmpty())
	assert.False(t, summary.HasRegression())
}

func TestCompareMissingDirectoryIsEmpty(t *testing.T) {
	summary, err := CompareResults(filepath.Join(t.TempDir(), "absent"), "")
	require.NoError(t, err)
	assert.True(t, summary.IsEmpty())
}

func TestCompareCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x_cases.json"), []byte("{"), 0o644))
	_, err := CompareResults(dir, "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, code.ErrResultIO))
}

func TestPrintResults(t *testing.T) {
	var out bytes.Buffer
	PrintResults(&out, []CaseResult{
		{Name: "ok", Success: true, HTTPStatus: 200, Message: "fine"},
		{Name: "bad", Error: "boom"},
	})
	assert.Contains(t, out.String(), "ok")
	assert.Contains(t, out.String(), "boom")
	assert.Contains(t, out.String(), "1/2 cases passed")
}
