package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"helix/internal/audit"
	"helix/internal/logging"
	"helix/internal/predict"
	"helix/internal/store"
)

var auditFlags struct {
	profile          string
	specPath         string
	runID            string
	manifest         string
	rejectedManifest string
	predDir          string
	groundTruthDir   string
	outputDir        string
	schemaVersion    string
	strict           bool
	source           string
	modelVersion     string
	seed             int
	recycles         int
	acceptedHash     string
	rejectedHash     string
	parallel         int
	archive          string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run a full audit: per-target SARs, calibration, and the run rubric",
	Long: `Audit verifies manifest integrity, produces one Structural Audit Report
per accepted target, aggregates calibration statistics, and evaluates the
five-check run rubric. The exit code is 0 only when the rubric passes.`,
	RunE: runAudit,
}

func init() {
	f := auditCmd.Flags()
	f.StringVar(&auditFlags.profile, "profile", "", "Embedded run profile name (available: "+strings.Join(audit.ListProfiles(), ", ")+")")
	f.StringVar(&auditFlags.specPath, "config", "", "Run-spec YAML path (overrides --profile)")
	f.StringVar(&auditFlags.runID, "run-id", "", "Run identifier recorded in provenance")
	f.StringVar(&auditFlags.manifest, "manifest", "", "Accepted target manifest path (required unless profiled)")
	f.StringVar(&auditFlags.rejectedManifest, "rejected-manifest", "", "Rejected target manifest path (integrity check only)")
	f.StringVar(&auditFlags.predDir, "pred-dir", "", "Prediction artifact directory (artifacts source)")
	f.StringVar(&auditFlags.groundTruthDir, "ground-truth-dir", "", "Ground-truth structure directory (artifacts source)")
	f.StringVar(&auditFlags.outputDir, "output-dir", "", "Output directory for SARs and reports")
	f.StringVar(&auditFlags.schemaVersion, "schema-version", "", "SAR schema version to emit")
	f.BoolVar(&auditFlags.strict, "strict", false, "Strict schema validation (incomplete SARs become target errors)")
	f.StringVar(&auditFlags.source, "source", "", "Metric source (stub, artifacts)")
	f.StringVar(&auditFlags.modelVersion, "model-version", "", "Model version label for stub provenance")
	f.IntVar(&auditFlags.seed, "seed", audit.LockedSeed, "Inference seed (locked; deviations are warned and recorded)")
	f.IntVar(&auditFlags.recycles, "recycles", audit.LockedRecycles, "Recycle count (locked; deviations are warned and recorded)")
	f.StringVar(&auditFlags.acceptedHash, "accepted-hash", "", "Authorized SHA-256 of the accepted manifest")
	f.StringVar(&auditFlags.rejectedHash, "rejected-hash", "", "Authorized SHA-256 of the rejected manifest")
	f.IntVar(&auditFlags.parallel, "parallel", 1, "Number of parallel metric-source workers (1 = serial)")
	f.StringVar(&auditFlags.archive, "archive", "", "Run archive DB path (empty disables archiving)")
}

// loadAuditConfig resolves the run configuration: an embedded profile or a
// run-spec file as the base, with explicitly set flags layered on top.
func loadAuditConfig(cmd *cobra.Command) (*audit.Config, error) {
	var cfg *audit.Config
	switch {
	case auditFlags.specPath != "":
		data, err := os.ReadFile(auditFlags.specPath)
		if err != nil {
			return nil, fmt.Errorf("read run spec: %w", err)
		}
		cfg, err = audit.LoadSpec(data, auditFlags.specPath)
		if err != nil {
			return nil, err
		}
	case auditFlags.profile != "":
		var err error
		cfg, err = audit.LoadProfile(auditFlags.profile)
		if err != nil {
			return nil, err
		}
	default:
		cfg = &audit.Config{
			SchemaVersion: "1.0",
			Source:        audit.SourceStub,
			Seed:          audit.LockedSeed,
			Recycles:      audit.LockedRecycles,
		}
	}

	set := func(name string) bool { return cmd.Flags().Changed(name) }
	if set("run-id") {
		cfg.RunID = auditFlags.runID
	}
	if set("manifest") {
		cfg.ManifestPath = auditFlags.manifest
	}
	if set("rejected-manifest") {
		cfg.RejectedManifestPath = auditFlags.rejectedManifest
	}
	if set("pred-dir") {
		cfg.PredDir = auditFlags.predDir
	}
	if set("ground-truth-dir") {
		cfg.GroundTruthDir = auditFlags.groundTruthDir
	}
	if set("output-dir") {
		cfg.OutputDir = auditFlags.outputDir
	}
	if set("schema-version") {
		cfg.SchemaVersion = auditFlags.schemaVersion
	}
	if set("strict") {
		cfg.Strict = auditFlags.strict
	}
	if set("source") {
		cfg.Source = auditFlags.source
	}
	if set("model-version") {
		cfg.ModelVersion = auditFlags.modelVersion
	}
	if set("seed") {
		cfg.Seed = auditFlags.seed
	}
	if set("recycles") {
		cfg.Recycles = auditFlags.recycles
	}
	if set("accepted-hash") {
		cfg.AcceptedHash = auditFlags.acceptedHash
	}
	if set("rejected-hash") {
		cfg.RejectedHash = auditFlags.rejectedHash
	}
	if set("parallel") {
		cfg.Parallel = auditFlags.parallel
	}
	if set("archive") {
		cfg.ArchivePath = auditFlags.archive
	}
	return cfg, nil
}

func runAudit(cmd *cobra.Command, _ []string) error {
	log := logging.New("cli")

	cfg, err := loadAuditConfig(cmd)
	if err != nil {
		return err
	}
	warnings, err := cfg.Validate()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		log.Warn(w)
	}

	src, err := predict.New(*cfg)
	if err != nil {
		return err
	}

	cmdline := "helix " + strings.Join(os.Args[1:], " ")
	result, err := audit.Run(cmd.Context(), *cfg, src, cmdline)
	if err != nil {
		return err
	}

	if err := audit.WriteOutputs(*cfg, result); err != nil {
		return err
	}

	if cfg.ArchivePath != "" {
		s, err := store.Open(cfg.ArchivePath)
		if err != nil {
			return fmt.Errorf("open run archive: %w", err)
		}
		defer s.Close()
		if _, err := s.SaveRun(result); err != nil {
			return fmt.Errorf("archive run: %w", err)
		}
		log.Info("run archived", "db", cfg.ArchivePath, "run_id", result.RunID)
	}

	fmt.Fprint(cmd.OutOrStdout(), audit.FormatRunReport(result))

	if result.Status != "PASS" {
		fmt.Fprintf(cmd.ErrOrStderr(), "run rubric failed: %s\n",
			strings.Join(result.FailingChecks(), ", "))
		os.Exit(1)
	}
	return nil
}
