package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/metrics"
)

// CaseResult is the outcome of one case as written to <suite>_cases.json.
type CaseResult struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Success     bool            `json:"success"`
	HTTPStatus  int             `json:"http_status,omitempty"`
	Code        int             `json:"code,omitempty"`
	Message     string          `json:"message,omitempty"`
	Error       string          `json:"error,omitempty"`
	DurationMS  int64           `json:"duration_ms"`
	Checks      map[string]bool `json:"checks,omitempty"`
	Notes       []string        `json:"notes,omitempty"`
}

// Check records a named assertion.
func (r *CaseResult) Check(name string, ok bool) bool {
	if r.Checks == nil {
		r.Checks = map[string]bool{}
	}
	r.Checks[name] = ok
	return ok
}

// Note appends a free form line.
func (r *CaseResult) Note(format string, args ...interface{}) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// failedChecks lists the checks that did not hold.
func (r *CaseResult) failedChecks() []string {
	var out []string
	for name, ok := range r.Checks {
		if !ok {
			out = append(out, name)
		}
	}
	return out
}

// OperationPoint is one row of <suite>_perf.json.
type OperationPoint struct {
	Operation     string  `json:"operation"`
	Requests      int     `json:"requests"`
	FailureRate   float64 `json:"failure_rate"`
	MeanLatencyMS float64 `json:"mean_latency_ms"`
}

func operationPoints(stats []metrics.OperationStat) []OperationPoint {
	out := make([]OperationPoint, 0, len(stats))
	for _, s := range stats {
		p := OperationPoint{
			Operation:     s.Operation,
			Requests:      s.Requests,
			MeanLatencyMS: float64(s.MeanLatency) / float64(time.Millisecond),
		}
		if s.Requests > 0 {
			p.FailureRate = float64(s.Failures) / float64(s.Requests)
		}
		out = append(out, p)
	}
	return out
}

// Recorder collects the results of one suite and writes them to a directory.
type Recorder struct {
	mu       sync.Mutex
	caseFile string
	perfFile string
	cases    []CaseResult
	perf     []OperationPoint
}

// NewRecorder prepares outputDir. An empty outputDir gives a recorder that only
// keeps results in memory.
func NewRecorder(outputDir, name string) (*Recorder, error) {
	if outputDir == "" {
		return &Recorder{}, nil
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, errors.WrapC(err, code.ErrResultIO, "prepare output dir %s", outputDir)
	}
	return &Recorder{
		caseFile: filepath.Join(outputDir, fmt.Sprintf("%s_cases.json", name)),
		perfFile: filepath.Join(outputDir, fmt.Sprintf("%s_perf.json", name)),
	}, nil
}

func (r *Recorder) AddCase(result CaseResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cases = append(r.cases, result)
}

func (r *Recorder) SetOperations(stats []metrics.OperationStat) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.perf = operationPoints(stats)
}

// Cases returns a copy of the recorded cases.
func (r *Recorder) Cases() []CaseResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]CaseResult(nil), r.cases...)
}

// CaseFile is where Flush writes case results, empty for an in-memory recorder.
func (r *Recorder) CaseFile() string { return r.caseFile }

func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.caseFile == "" {
		return nil
	}
	if len(r.cases) > 0 {
		if err := writeJSON(r.caseFile, r.cases); err != nil {
			return errors.WrapC(err, code.ErrResultIO, "write case results")
		}
	}
	if len(r.perf) > 0 {
		if err := writeJSON(r.perfFile, r.perf); err != nil {
			return errors.WrapC(err, code.ErrResultIO, "write operation results")
		}
	}
	return nil
}

func writeJSON(path string, data interface{}) error {
	raw, err := jsoniter.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	tmp := fmt.Sprintf("%s.tmp.%d", path, time.Now().UnixNano())
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
