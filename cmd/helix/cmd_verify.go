package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"helix/internal/manifest"
)

var verifyFlags struct {
	manifest         string
	expected         string
	rejected         string
	rejectedExpected string
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify manifest files against their authorized SHA-256 hashes",
	Long: `Verify loads the accepted target manifest, checks its structure, and
compares its SHA-256 against the authorized value; a rejected manifest is
hash-checked alongside when given. With no --expected the actual hashes
are printed for pinning.`,
	RunE: runVerify,
}

func init() {
	f := verifyCmd.Flags()
	f.StringVar(&verifyFlags.manifest, "manifest", "", "Accepted manifest path (required)")
	f.StringVar(&verifyFlags.expected, "expected", "", "Authorized SHA-256 of the accepted manifest")
	f.StringVar(&verifyFlags.rejected, "rejected-manifest", "", "Rejected manifest path")
	f.StringVar(&verifyFlags.rejectedExpected, "rejected-expected", "", "Authorized SHA-256 of the rejected manifest")
	_ = verifyCmd.MarkFlagRequired("manifest")
}

func runVerify(cmd *cobra.Command, _ []string) error {
	man, err := manifest.Load(verifyFlags.manifest)
	if err != nil {
		return err
	}

	checks := make([]manifest.HashCheck, 0, 2)
	accepted, err := manifest.Verify(verifyFlags.manifest, verifyFlags.expected)
	if err != nil {
		return err
	}
	checks = append(checks, accepted)

	if verifyFlags.rejected != "" {
		rejected, err := manifest.Verify(verifyFlags.rejected, verifyFlags.rejectedExpected)
		if err != nil {
			return err
		}
		checks = append(checks, rejected)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "targets: %d\n", len(man.Targets))

	mismatch := false
	unpinned := false
	for _, c := range checks {
		fmt.Fprintf(out, "%s\n  sha256: %s\n", c.Path, c.Actual)
		switch {
		case c.Expected == "":
			unpinned = true
		case !c.Match:
			mismatch = true
			fmt.Fprintf(cmd.ErrOrStderr(), "  hash mismatch: expected %s\n", c.Expected)
		}
	}
	if mismatch {
		os.Exit(1)
	}
	if unpinned {
		fmt.Fprintln(out, "no authorized hash given for at least one manifest; pin the values above")
		return nil
	}
	fmt.Fprintln(out, "hashes verified")
	return nil
}
