package main

import (
	"fmt"
	"log"
	"os"

	"fgperfume/internal/commands"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags "-X main.Version=X.Y.Z"
var Version = "0.0.0-dev"

var rootCmd = &cobra.Command{
	Use:   "fgctl",
	Short: "FGPerfume concierge admin tool",
	Long: `fgctl works directly against the store and providers configured through the
environment (or a .env file), the same way the server does.

Commands:
  ask <question>           Ask the concierge
  seed                     Seed empty stores
  export-queries -o FILE   Export logged questions to XLSX
  knowledge                Print the knowledge base
  hash-password <pw>       Print an ADMIN_PASSWORD_HASH value`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(commands.AskCmd)
	rootCmd.AddCommand(commands.SeedCmd)
	rootCmd.AddCommand(commands.ExportQueriesCmd)
	rootCmd.AddCommand(commands.KnowledgeCmd)
	rootCmd.AddCommand(commands.HashPasswordCmd)
}

func main() {
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
