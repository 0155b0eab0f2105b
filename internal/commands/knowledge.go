package commands

import (
	"encoding/json"
	"fmt"

	"fgperfume/internal/knowledge"

	"github.com/spf13/cobra"
)

var KnowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Print the knowledge base given to the providers",
	Args:  cobra.NoArgs,
	RunE:  runKnowledge,
}

func init() {
	KnowledgeCmd.Flags().Bool("all", false, "Include hidden perfumes")
	KnowledgeCmd.Flags().Bool("json", false, "Print only the JSON data block")
}

func runKnowledge(cmd *cobra.Command, args []string) error {
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

	all, _ := cmd.Flags().GetBool("all")
	onlyJSON, _ := cmd.Flags().GetBool("json")

	doc, err := knowledge.Build(ctx, s, all)
	if err != nil {
		return err
	}

	if !onlyJSON {
		fmt.Fprintln(cmd.OutOrStdout(), doc)
		return nil
	}

	snap, err := knowledge.Extract(doc)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
