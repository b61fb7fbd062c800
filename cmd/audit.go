package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kozaktomas/face-auth/internal/audit"
	"github.com/kozaktomas/face-auth/internal/config"
	"github.com/kozaktomas/face-auth/internal/logging"
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect enrolled templates",
}

var auditCollisionsCmd = &cobra.Command{
	Use:   "collisions",
	Short: "Report identities whose face templates are dangerously close",
	Long: `Build an HNSW index over all enrolled face templates and report every pair
of distinct identities closer than the threshold. Such pairs make face login
ambiguous: a probe of one may be accepted as the other.`,
	Args: cobra.NoArgs,
	RunE: runAuditCollisions,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditCollisionsCmd)

	auditCollisionsCmd.Flags().Float64("threshold", 0, "Distance threshold (defaults to the login threshold)")
	auditCollisionsCmd.Flags().Int("neighbors", 0, "Neighbors inspected per template")
	auditCollisionsCmd.Flags().Bool("json", false, "Output as JSON")
}

func runAuditCollisions(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level)

	profile, ok := cfg.Profile()
	if !ok {
		return fmt.Errorf("unknown EMBEDDING_MODEL %q, add it to models.yaml", cfg.Embedding.Model)
	}

	opts := audit.Options{
		Threshold: cfg.MatchThreshold(),
		Metric:    profile.Metric,
		Dim:       profile.Dim,
		Neighbors: mustGetInt(cmd, "neighbors"),
		Progress:  cmd.ErrOrStderr(),
	}
	if t := mustGetFloat64(cmd, "threshold"); t > 0 {
		opts.Threshold = t
	}
	asJSON := mustGetBool(cmd, "json")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := openStore(ctx, &cfg.Database, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := audit.Collisions(ctx, store, opts)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}
	return printCollisionReport(cmd.OutOrStdout(), report, opts.Threshold, asJSON)
}

func printCollisionReport(out io.Writer, report *audit.Report, threshold float64, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(out, "\nScanned %d templates", report.Scanned)
	if report.Skipped > 0 {
		fmt.Fprintf(out, " (%d skipped, wrong dimension)", report.Skipped)
	}
	fmt.Fprintln(out)

	if len(report.Pairs) == 0 {
		fmt.Fprintf(out, "No pairs closer than %.3f\n", threshold)
		return nil
	}
	fmt.Fprintf(out, "%d pairs closer than %.3f:\n", len(report.Pairs), threshold)
	for _, p := range report.Pairs {
		fmt.Fprintf(out, "  %-20s %-20s distance %.4f\n", p.A, p.B, p.Distance)
	}
	return nil
}
