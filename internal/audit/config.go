package audit

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Locked run parameters. The benchmark configuration is frozen; deviating
// values are allowed but warned about and recorded in provenance.
const (
	LockedSeed     = 42
	LockedRecycles = 3
)

// Metric source selection.
const (
	SourceStub      = "stub"      // deterministic stand-in provider
	SourceArtifacts = "artifacts" // prediction artifacts + ground truth on disk
)

// Config is the immutable run configuration. It is validated once at
// startup and never mutated during a run.
type Config struct {
	RunID                string `yaml:"run_id" json:"run_id"`
	ManifestPath         string `yaml:"manifest" json:"manifest"`
	RejectedManifestPath string `yaml:"rejected_manifest" json:"rejected_manifest"`
	PredDir              string `yaml:"pred_dir" json:"pred_dir"`
	GroundTruthDir       string `yaml:"ground_truth_dir" json:"ground_truth_dir"`
	OutputDir            string `yaml:"output_dir" json:"output_dir"`
	SchemaVersion        string `yaml:"schema_version" json:"schema_version"`
	Strict               bool   `yaml:"strict" json:"strict"`

	Source       string `yaml:"source" json:"source"` // stub or artifacts
	ModelVersion string `yaml:"model_version" json:"model_version"`
	Seed         int    `yaml:"seed" json:"seed"`
	Recycles     int    `yaml:"recycles" json:"recycles"`

	// Authorized SHA-256 hashes for the accepted and rejected manifests.
	// Empty values leave the corresponding check unenforced.
	AcceptedHash string `yaml:"accepted_manifest_hash" json:"accepted_manifest_hash"`
	RejectedHash string `yaml:"rejected_manifest_hash" json:"rejected_manifest_hash"`

	Parallel    int    `yaml:"parallel" json:"parallel"`
	ArchivePath string `yaml:"archive" json:"archive"` // run archive DB path; empty disables
}

// Validate checks the configuration once at startup. It returns warnings
// for allowed-but-suspect values (unlocked seed or recycle count) and an
// error for anything unusable.
func (c *Config) Validate() ([]string, error) {
	if c.ManifestPath == "" {
		return nil, fmt.Errorf("manifest path is required")
	}
	if c.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if c.SchemaVersion == "" {
		return nil, fmt.Errorf("schema version is required")
	}
	if c.RunID == "" {
		return nil, fmt.Errorf("run identifier is required")
	}
	switch c.Source {
	case SourceStub, SourceArtifacts:
	default:
		return nil, fmt.Errorf("unknown metric source %q (available: %s, %s)",
			c.Source, SourceStub, SourceArtifacts)
	}
	if c.Source == SourceArtifacts && c.PredDir == "" {
		return nil, fmt.Errorf("pred dir is required for the artifacts source")
	}
	if c.Parallel < 1 {
		c.Parallel = 1
	}

	var warnings []string
	if c.Seed != LockedSeed {
		warnings = append(warnings, fmt.Sprintf("seed=%d differs from locked value (%d)", c.Seed, LockedSeed))
	}
	if c.Recycles != LockedRecycles {
		warnings = append(warnings, fmt.Sprintf("recycles=%d differs from locked value (%d)", c.Recycles, LockedRecycles))
	}
	return warnings, nil
}

//go:embed profiles/*.yaml
var profileFS embed.FS

// LoadProfile reads a named run profile from the embedded YAML files.
// Flags layer on top of the returned Config.
func LoadProfile(name string) (*Config, error) {
	data, err := profileFS.ReadFile("profiles/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("profile %q not found (available: %s): %w",
			name, strings.Join(ListProfiles(), ", "), err)
	}
	return parseConfig(data, "profile "+name)
}

// LoadSpec reads a run-spec YAML file from disk.
func LoadSpec(data []byte, origin string) (*Config, error) {
	return parseConfig(data, origin)
}

func parseConfig(data []byte, origin string) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", origin, err)
	}
	return &c, nil
}

// ListProfiles returns the names of all embedded run profiles, sorted.
func ListProfiles() []string {
	entries, _ := profileFS.ReadDir("profiles")
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	sort.Strings(names)
	return names
}
