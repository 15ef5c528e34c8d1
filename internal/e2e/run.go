package e2e

import (
	"context"
	"io"
	"os"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/e2e/config"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/client"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/credential"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/metrics"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/scenario"
	"github.com/maxiaolu1981/cretem/serverest-e2e/pkg/log"
)

// Run executes the suite described by cfg and writes a report to out.
//
// The error carries code.ErrConfiguration when the run could not start,
// code.ErrRegression when a baseline comparison regressed and fail on regression
// is set, and code.ErrUnexpectedResponse when any case failed.
func Run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if cfg.Credentials.Prompt {
		if err := credential.Prompt(cfg.Credentials, os.Stdin, os.Stderr); err != nil {
			return err
		}
	}
	resolver, err := credential.NewResolver(cfg.Credentials)
	if err != nil {
		return err
	}

	c := client.New(cfg.Server, nil)
	suite := scenario.NewSuite(scenario.NewEnv(c, resolver, cfg.Scenario))
	rec, err := scenario.NewRecorder(cfg.Output.Dir, suite.Name())
	if err != nil {
		return err
	}

	log.Infow("running suite", "suite", suite.Name(), "baseURL", c.BaseURL())
	results, runErr := suite.Run(ctx, rec)
	if runErr != nil && len(results) == 0 {
		return runErr
	}

	stats, err := metrics.Summarize()
	if err != nil {
		log.Warnw("could not summarize client metrics", "error", err)
	}
	rec.SetOperations(stats)
	if err := rec.Flush(); err != nil {
		return err
	}
	if rec.CaseFile() != "" {
		log.Infow("results written", "file", rec.CaseFile())
	}

	scenario.PrintResults(out, results)
	scenario.PrintOperations(out, stats)
	if runErr != nil {
		return runErr
	}

	if cfg.Output.Baseline != "" {
		if err := compare(out, cfg.Output.Baseline, cfg.Output.Dir, cfg.Output.FailOnRegression); err != nil {
			return err
		}
	}

	if passed := scenario.Passed(results); passed != len(results) {
		return errors.WithCode(code.ErrUnexpectedResponse, "%d of %d cases failed", len(results)-passed, len(results))
	}
	return nil
}

// compare prints the differences between two result directories. A regression
// is an error only when failOnRegression is set.
func compare(out io.Writer, baseline, current string, failOnRegression bool) error {
	summary, err := scenario.CompareResults(baseline, current)
	if err != nil {
		return err
	}
	summary.PrintReport(out)
	if summary.HasRegression() {
		if failOnRegression {
			return errors.WithCode(code.ErrRegression, "results in %s regressed against %s", current, baseline)
		}
		log.Warnw("regression detected", "baseline", baseline, "current", current)
	}
	return nil
}
