package commands

import (
	"fmt"
	"os"

	"fgperfume/internal/services"

	"github.com/spf13/cobra"
)

var ExportQueriesCmd = &cobra.Command{
	Use:   "export-queries",
	Short: "Export logged questions to an XLSX workbook",
	Args:  cobra.NoArgs,
	RunE:  runExportQueries,
}

func init() {
	ExportQueriesCmd.Flags().StringP("output", "o", "queries.xlsx", "Output file")
}

func runExportQueries(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	data, err := services.NewCatalogService(s).ExportQueryLogsXLSX(ctx)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Wrote %s (%d bytes)\n", output, len(data))
	return nil
}
