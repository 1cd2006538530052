package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ares-mcp/ares-mcp-server/internal/config"
	"github.com/ares-mcp/ares-mcp-server/internal/domain/registry"
)

var validateOnline bool

var validateICOCmd = &cobra.Command{
	Use:   "validate-ico <ico>",
	Short: "Check a company identifier (IČO)",
	Long: `Check that an IČO is 8 digits with a valid mod-11 check digit.

With --online the registry is also queried to confirm the subject exists.
Exits non-zero when the identifier is not valid.

Examples:
  ares-mcp validate-ico 27074358
  ares-mcp validate-ico 27074358 --online`,
	Args: cobra.ExactArgs(1),
	RunE: runValidateICO,
}

func init() {
	validateICOCmd.Flags().BoolVar(&validateOnline, "online", false, "also check the subject exists in the registry")
	rootCmd.AddCommand(validateICOCmd)
}

func runValidateICO(cmd *cobra.Command, args []string) error {
	if !validateOnline {
		return validateOffline(cmd.OutOrStdout(), args[0])
	}

	cfg, err := config.LoadConfig(Version)
	if err != nil {
		return err
	}
	// Quiet logger: command output goes to stdout, diagnostics only on warn.
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	app := buildComponents(cfg, logger)

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	result := app.service.CheckIdentifier(ctx, args[0])
	fmt.Fprintln(cmd.OutOrStdout(), registry.Encode(result))
	if !result.Valid {
		return fmt.Errorf("IČO %s is not valid", args[0])
	}
	return nil
}

// offlineValidation is the local-only result; registry existence is unknown.
type offlineValidation struct {
	Identifier  string `json:"identifier"`
	ValidFormat bool   `json:"validFormat"`
	Reason      string `json:"reason,omitempty"`
}

func validateOffline(w io.Writer, ico string) error {
	ok, reason := registry.ValidateIdentifierFormat(ico)
	fmt.Fprintln(w, registry.Encode(offlineValidation{
		Identifier:  ico,
		ValidFormat: ok,
		Reason:      reason,
	}))
	if !ok {
		return fmt.Errorf("IČO %s is not valid: %s", ico, reason)
	}
	return nil
}
