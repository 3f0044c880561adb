package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/examiz/internal/api"
	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// minBackendVersion is the oldest backend whose response shapes this client
// understands.
const minBackendVersion = "v1.0.0"

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the exam backend is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, closer, err := openLog(cfg.LogFile)
		if err != nil {
			return err
		}
		defer closer.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
		defer cancel()

		h, err := newClient(cfg, "", logger).Health(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", api.UserMessage(err), err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "backend: %s\n", cfg.APIURL)
		fmt.Fprintf(out, "status:  %s\n", h.Status)
		if h.Version == "" {
			fmt.Fprintln(out, "version: unknown")
			return nil
		}
		fmt.Fprintf(out, "version: %s\n", h.Version)
		if msg := compatibility(h.Version); msg != "" {
			fmt.Fprintln(out, msg)
		}
		return nil
	},
}

// compatibility returns a warning when the backend reports a version older
// than minBackendVersion or one that is not semver. Empty means compatible.
func compatibility(reported string) string {
	v := reported
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Sprintf("warning: backend version %q is not a semantic version", reported)
	}
	if semver.Compare(v, minBackendVersion) < 0 {
		return fmt.Sprintf("warning: backend %s is older than the supported minimum %s", semver.Canonical(v), minBackendVersion)
	}
	return ""
}
