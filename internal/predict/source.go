// Package predict supplies raw metrics for audit targets. Two providers
// implement audit.MetricSource: a deterministic stand-in (Stub) and a
// reader of real prediction artifacts plus ground-truth structures
// (ArtifactSource). The provider is selected once at run configuration
// time, never per target.
package predict

import (
	"fmt"

	"helix/internal/audit"
)

// New returns the metric source selected by the configuration.
func New(cfg audit.Config) (audit.MetricSource, error) {
	switch cfg.Source {
	case audit.SourceStub:
		return NewStub(cfg.Seed, cfg.Recycles, cfg.ModelVersion), nil
	case audit.SourceArtifacts:
		return NewArtifactSource(cfg.PredDir, cfg.GroundTruthDir), nil
	}
	return nil, fmt.Errorf("unknown metric source %q", cfg.Source)
}
