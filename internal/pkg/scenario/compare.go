package scenario

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	jsoniter "github.com/json-iterator/go"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
)

type CaseDiffStatus string

const (
	CaseAdded   CaseDiffStatus = "added"
	CaseRemoved CaseDiffStatus = "removed"
	CaseChanged CaseDiffStatus = "changed"
)

type CaseDiff struct {
	File     string         `json:"file"`
	Name     string         `json:"name"`
	Status   CaseDiffStatus `json:"status"`
	Baseline *CaseResult    `json:"baseline,omitempty"`
	Current  *CaseResult    `json:"current,omitempty"`
}

type OperationDiff struct {
	File             string          `json:"file"`
	Operation        string          `json:"operation"`
	Baseline         *OperationPoint `json:"baseline,omitempty"`
	Current          *OperationPoint `json:"current,omitempty"`
	DeltaFailureRate float64         `json:"delta_failure_rate"`
	DeltaLatencyMS   float64         `json:"delta_latency_ms"`
}

type ComparisonSummary struct {
	CaseDiffs      []CaseDiff      `json:"case_diffs,omitempty"`
	OperationDiffs []OperationDiff `json:"operation_diffs,omitempty"`
}

func (s *ComparisonSummary) IsEmpty() bool {
	return len(s.CaseDiffs) == 0 && len(s.OperationDiffs) == 0
}

// HasRegression reports a missing case, a case that stopped passing, or an
// operation whose failure rate went up. Latency drift alone is informational:
// the public deployment is too noisy for it to gate a run.
func (s *ComparisonSummary) HasRegression() bool {
	for _, diff := range s.CaseDiffs {
		switch diff.Status {
		case CaseRemoved:
			return true
		case CaseChanged:
			if diff.Baseline != nil && diff.Baseline.Success && diff.Current != nil && !diff.Current.Success {
				return true
			}
		}
	}
	for _, diff := range s.OperationDiffs {
		if diff.DeltaFailureRate > 0 && !almostEqual(diff.DeltaFailureRate, 0) {
			return true
		}
	}
	return false
}

func (s *ComparisonSummary) PrintReport(w io.Writer) {
	if s.IsEmpty() {
		color.New(color.FgGreen).Fprintln(w, "没有检测到结果差异")
		return
	}

	if len(s.CaseDiffs) > 0 {
		color.New(color.Bold).Fprintln(w, "用例结果差异：")
		table := uitable.New()
		table.MaxColWidth = 60
		table.AddRow("FILE", "CASE", "STATUS", "HTTP", "CODE", "SUCCESS")
		for _, diff := range s.CaseDiffs {
			switch diff.Status {
			case CaseAdded:
				table.AddRow(diff.File, diff.Name, "新增",
					diff.Current.HTTPStatus, diff.Current.Code, diff.Current.Success)
			case CaseRemoved:
				table.AddRow(diff.File, diff.Name, color.RedString("缺失"),
					diff.Baseline.HTTPStatus, diff.Baseline.Code, diff.Baseline.Success)
			case CaseChanged:
				status := "变化"
				if diff.Baseline.Success && !diff.Current.Success {
					status = color.RedString("退化")
				}
				table.AddRow(diff.File, diff.Name, status,
					fmt.Sprintf("%d→%d", diff.Baseline.HTTPStatus, diff.Current.HTTPStatus),
					fmt.Sprintf("%d→%d", diff.Baseline.Code, diff.Current.Code),
					fmt.Sprintf("%v→%v", diff.Baseline.Success, diff.Current.Success))
			}
		}
		fmt.Fprintln(w, table)
	}

	if len(s.OperationDiffs) > 0 {
		color.New(color.Bold).Fprintln(w, "接口指标差异：")
		table := uitable.New()
		table.AddRow("FILE", "OPERATION", "ΔFAILURE", "ΔLATENCY")
		for _, diff := range s.OperationDiffs {
			switch {
			case diff.Baseline == nil:
				table.AddRow(diff.File, diff.Operation, "新增", "-")
			case diff.Current == nil:
				table.AddRow(diff.File, diff.Operation, "缺失", "-")
			default:
				table.AddRow(diff.File, diff.Operation,
					fmt.Sprintf("%+.2f%%", diff.DeltaFailureRate*100),
					fmt.Sprintf("%+.1fms", diff.DeltaLatencyMS))
			}
		}
		fmt.Fprintln(w, table)
	}
}

type collectorResult struct {
	cases map[string]map[string]CaseResult
	ops   map[string]map[string]OperationPoint
}

// CompareResults diffs every *_cases.json and *_perf.json below the two
// directories. A missing directory counts as empty.
func CompareResults(baselineDir, currentDir string) (*ComparisonSummary, error) {
	baseline, err := collectResults(baselineDir)
	if err != nil {
		return nil, err
	}
	current, err := collectResults(currentDir)
	if err != nil {
		return nil, err
	}

	summary := &ComparisonSummary{}

	for _, file := range unionKeys(baseline.cases, current.cases) {
		baseCases := baseline.cases[file]
		currCases := current.cases[file]
		for _, name := range unionKeys(baseCases, currCases) {
			baseCase, hasBase := baseCases[name]
			currCase, hasCurr := currCases[name]
			switch {
			case hasBase && !hasCurr:
				bc := baseCase
				summary.CaseDiffs = append(summary.CaseDiffs, CaseDiff{File: file, Name: name, Status: CaseRemoved, Baseline: &bc})
			case !hasBase && hasCurr:
				cc := currCase
				summary.CaseDiffs = append(summary.CaseDiffs, CaseDiff{File: file, Name: name, Status: CaseAdded, Current: &cc})
			case caseChanged(baseCase, currCase):
				bc, cc := baseCase, currCase
				summary.CaseDiffs = append(summary.CaseDiffs, CaseDiff{File: file, Name: name, Status: CaseChanged, Baseline: &bc, Current: &cc})
			}
		}
	}

	for _, file := range unionKeys(baseline.ops, current.ops) {
		baseOps := baseline.ops[file]
		currOps := current.ops[file]
		for _, op := range unionKeys(baseOps, currOps) {
			basePoint, hasBase := baseOps[op]
			currPoint, hasCurr := currOps[op]
			switch {
			case hasBase && !hasCurr:
				bp := basePoint
				summary.OperationDiffs = append(summary.OperationDiffs, OperationDiff{File: file, Operation: op, Baseline: &bp})
			case !hasBase && hasCurr:
				cp := currPoint
				summary.OperationDiffs = append(summary.OperationDiffs, OperationDiff{File: file, Operation: op, Current: &cp})
			default:
				deltaFailure := currPoint.FailureRate - basePoint.FailureRate
				deltaLatency := currPoint.MeanLatencyMS - basePoint.MeanLatencyMS
				if !almostEqual(deltaFailure, 0) {
					bp, cp := basePoint, currPoint
					summary.OperationDiffs = append(summary.OperationDiffs, OperationDiff{
						File:             file,
						Operation:        op,
						Baseline:         &bp,
						Current:          &cp,
						DeltaFailureRate: deltaFailure,
						DeltaLatencyMS:   deltaLatency,
					})
				}
			}
		}
	}

	sort.SliceStable(summary.CaseDiffs, func(i, j int) bool {
		if summary.CaseDiffs[i].File == summary.CaseDiffs[j].File {
			return summary.CaseDiffs[i].Name < summary.CaseDiffs[j].Name
		}
		return summary.CaseDiffs[i].File < summary.CaseDiffs[j].File
	})
	sort.SliceStable(summary.OperationDiffs, func(i, j int) bool {
		if summary.OperationDiffs[i].File == summary.OperationDiffs[j].File {
			return summary.OperationDiffs[i].Operation < summary.OperationDiffs[j].Operation
		}
		return summary.OperationDiffs[i].File < summary.OperationDiffs[j].File
	})

	return summary, nil
}

func collectResults(root string) (*collectorResult, error) {
	result := &collectorResult{cases: map[string]map[string]CaseResult{}, ops: map[string]map[string]OperationPoint{}}
	if root == "" {
		return result, nil
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return result, nil
	} else if err != nil {
		return nil, errors.WrapC(err, code.ErrResultIO, "stat %s", root)
	}

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		name := filepath.Base(path)
		switch {
		case strings.HasSuffix(name, "_cases.json"):
			var entries []CaseResult
			if err := loadJSON(path, &entries); err != nil {
				return errors.Wrapf(err, "load case results %s", path)
			}
			if _, ok := result.cases[rel]; !ok {
				result.cases[rel] = make(map[string]CaseResult)
			}
			for _, entry := range entries {
				result.cases[rel][entry.Name] = entry
			}
		case strings.HasSuffix(name, "_perf.json"):
			var entries []OperationPoint
			if err := loadJSON(path, &entries); err != nil {
				return errors.Wrapf(err, "load operation results %s", path)
			}
			if _, ok := result.ops[rel]; !ok {
				result.ops[rel] = make(map[string]OperationPoint)
			}
			for _, entry := range entries {
				result.ops[rel][entry.Operation] = entry
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapC(err, code.ErrResultIO, "collect results in %s", root)
	}
	return result, nil
}

func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return jsoniter.Unmarshal(data, v)
}

func unionKeys[V any](a, b map[string]V) []string {
	keys := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// caseChanged ignores duration; live timings never repeat.
func caseChanged(base, current CaseResult) bool {
	if base.Success != current.Success {
		return true
	}
	if base.HTTPStatus != current.HTTPStatus || base.Code != current.Code {
		return true
	}
	return base.Message != current.Message
}

func almostEqual(a, b float64) bool {
	const eps = 1e-6
	return math.Abs(a-b) <= eps
}
