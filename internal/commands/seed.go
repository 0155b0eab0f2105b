package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var SeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the configured store",
	Long: `Open the configured store and copy the seed data (SEED_FILE, or the built-in
catalog) into every entity that has no records yet. Existing data is kept.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.StoreBackend == "memory" {
		fmt.Fprintln(cmd.ErrOrStderr(), "⚠️  STORE_BACKEND=memory, seeded data will not outlive this command")
	}

	s, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	perfumes, err := s.ListPerfumes(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to list perfumes: %w", err)
	}
	logs, err := s.ListQueryLogs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list query logs: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "🌱 %s store ready: %d perfume(s), %d logged question(s)\n",
		cfg.StoreBackend, len(perfumes), len(logs))
	return nil
}
