package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ares-mcp/ares-mcp-server/internal/domain/registry"
	"github.com/ares-mcp/ares-mcp-server/internal/domain/tool"
)

var toolsFormat string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the server exposes",
	Long: `Print the tool catalog as served on tools/list.

Formats:
  text  name, kind and title, one tool per line (default)
  json  the MCP listing with input schemas
  yaml  the full catalog including tool kinds`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printTools(cmd.OutOrStdout(), toolsFormat)
	},
}

func init() {
	toolsCmd.Flags().StringVar(&toolsFormat, "format", "text", "output format: text, json or yaml")
	rootCmd.AddCommand(toolsCmd)
}

func printTools(w io.Writer, format string) error {
	catalog := tool.Catalog()

	switch format {
	case "json":
		_, err := fmt.Fprintln(w, registry.Encode(catalog))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(catalog); err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}
		return enc.Close()
	case "text", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tKIND\tTITLE")
		for _, t := range catalog {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, t.Kind, t.Title)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}
