package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ares-mcp/ares-mcp-server/internal/domain/registry"
)

var registriesFormat string

var registriesCmd = &cobra.Command{
	Use:   "registries",
	Short: "List the source register codes",
	Long: `Print the source registers accepted by the registry-scoped tools
(vyhledat_v_registru, najit_v_registru).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRegistries(cmd.OutOrStdout(), registriesFormat)
	},
}

func init() {
	registriesCmd.Flags().StringVar(&registriesFormat, "format", "text", "output format: text or json")
	rootCmd.AddCommand(registriesCmd)
}

func printRegistries(w io.Writer, format string) error {
	list := registry.Registries()

	switch format {
	case "json":
		_, err := fmt.Fprintln(w, registry.Encode(list))
		return err
	case "text", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CODE\tNAME\tENDPOINT")
		for _, d := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Code, d.Name, d.Endpoint)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
}
