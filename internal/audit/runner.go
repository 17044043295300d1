package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"helix/internal/logging"
	"helix/internal/manifest"
)

// MetricSource is the capability the engine needs from the prediction
// side: given a target, either produce raw metrics or fail for that target
// alone. Implementations must never fail for the run as a whole.
type MetricSource interface {
	Name() string
	Metrics(ctx context.Context, t manifest.Target) (RawMetrics, ModelInfo, error)
}

// IntegrityError is the pre-flight abort: an authorized manifest hash did
// not match. No target is processed when this is returned.
type IntegrityError struct {
	Checks []manifest.HashCheck
}

func (e *IntegrityError) Error() string {
	var failed []string
	for _, c := range e.Checks {
		if !c.Match {
			failed = append(failed, fmt.Sprintf("%s (expected %s, got %s)", c.Path, c.Expected, c.Actual))
		}
	}
	return "integrity failure: " + strings.Join(failed, "; ")
}

// Run executes a full audit: pre-flight integrity verification, then one
// ordered pass over the manifest producing a SAR or a recorded error per
// target, then compilation into the final RunResult. Targets are processed
// and emitted strictly in manifest order; with Parallel > 1 the metric
// source calls overlap but result placement still follows the manifest.
func Run(ctx context.Context, cfg Config, src MetricSource, cmdline string) (*RunResult, error) {
	started := time.Now()
	log := logging.New("audit")

	checks, err := VerifyManifests(cfg)
	if err != nil {
		return nil, err
	}
	for _, c := range checks {
		if !c.Match {
			return nil, &IntegrityError{Checks: checks}
		}
	}

	man, err := manifest.Load(cfg.ManifestPath)
	if err != nil {
		return nil, err
	}
	log.Info("manifest verified", "targets", len(man.Targets), "source", src.Name())

	asm := NewAssembler(cfg.SchemaVersion, cfg.Strict)

	outcomes := make([]TargetOutcome, len(man.Targets))
	if cfg.Parallel > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Parallel)
		for i := range man.Targets {
			i := i
			g.Go(func() error {
				outcomes[i] = auditTarget(gctx, asm, src, man.Targets[i])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, t := range man.Targets {
			log.Info("processing target", "pdb_id", t.PDBID, "index", i+1, "total", len(man.Targets))
			outcomes[i] = auditTarget(ctx, asm, src, t)
		}
	}

	for _, o := range outcomes {
		if o.Error != "" {
			log.Error("target errored", "pdb_id", o.PDBID, "error", o.Error)
		}
	}

	return Compile(CompileInput{
		Config:      cfg,
		Manifest:    man,
		Outcomes:    outcomes,
		HashChecks:  checks,
		CommandLine: cmdline,
		Started:     started,
		Finished:    time.Now(),
	}), nil
}

// VerifyManifests hashes the accepted and, when configured, rejected
// manifests against their authorized values.
func VerifyManifests(cfg Config) ([]manifest.HashCheck, error) {
	accepted, err := manifest.Verify(cfg.ManifestPath, cfg.AcceptedHash)
	if err != nil {
		return nil, err
	}
	checks := []manifest.HashCheck{accepted}

	if cfg.RejectedManifestPath != "" {
		rejected, err := manifest.Verify(cfg.RejectedManifestPath, cfg.RejectedHash)
		if err != nil {
			return nil, err
		}
		checks = append(checks, rejected)
	}
	return checks, nil
}

// auditTarget runs the classify → gate → assemble pipeline for one target.
// Any failure becomes a recorded per-target error; the batch continues.
func auditTarget(ctx context.Context, asm *Assembler, src MetricSource, t manifest.Target) TargetOutcome {
	raw, model, err := src.Metrics(ctx, t)
	if err != nil {
		return TargetOutcome{PDBID: t.PDBID, Error: err.Error()}
	}

	conf := AssessConfidence(raw)

	expected := t.ExpectedError
	if expected == nil {
		derived := DeriveExpectedRange(conf)
		expected = &derived
	}

	failure := Classify(ClassifyInput{
		Metrics:       raw,
		Expected:      *expected,
		LigandPresent: t.LigandPresent,
	})
	gate := Decide(GateInput{
		Class:       failure.Class,
		RMSDGlobal:  raw.RMSDGlobal,
		ExpectedMax: expected.RMSDMax,
	})
	action := RecommendAction(gate, failure, t.PDBID)

	sar, err := asm.Assemble(t, raw, conf, expected, failure, gate, action, model)
	if err != nil {
		return TargetOutcome{PDBID: t.PDBID, Error: err.Error()}
	}
	return TargetOutcome{PDBID: t.PDBID, SAR: sar}
}
