package commands

import (
	"fmt"
	"strings"

	"fgperfume/internal/assistant"
	"fgperfume/internal/document"
	"fgperfume/internal/models"

	"github.com/spf13/cobra"
)

var AskCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the concierge a question",
	Long: `Run one question through the full concierge pipeline against the configured
store and providers. The question is logged like any customer question.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	AskCmd.Flags().StringP("lang", "l", "en", "Answer language (en, ms or a language name)")
	AskCmd.Flags().Bool("admin", false, "Ask with the admin role")
	AskCmd.Flags().Bool("html", false, "Print the answer rendered as HTML")
	AskCmd.Flags().BoolP("verbose", "v", false, "Print the outcome and provider")
}

func runAsk(cmd *cobra.Command, args []string) error {
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

	providers, err := assistant.NewProviders(ctx, cfg)
	if err != nil {
		return err
	}
	defer providers.Close()

	lang, _ := cmd.Flags().GetString("lang")
	admin, _ := cmd.Flags().GetBool("admin")
	asHTML, _ := cmd.Flags().GetBool("html")
	verbose, _ := cmd.Flags().GetBool("verbose")

	role := models.RoleUser
	if admin {
		role = models.RoleAdmin
	}

	result := providers.Concierge(s).Ask(ctx, assistant.Request{
		Query:    strings.Join(args, " "),
		Language: lang,
		Role:     role,
	})

	out := cmd.OutOrStdout()
	answer := result.Answer
	if asHTML {
		if answer, err = document.GetService().RenderAnswerHTML(result.Answer); err != nil {
			return err
		}
	}
	fmt.Fprintln(out, answer)

	if verbose {
		fmt.Fprintf(out, "\noutcome: %s", result.Outcome)
		if result.Provider != "" {
			fmt.Fprintf(out, " (via %s)", result.Provider)
		}
		fmt.Fprintln(out)
	}
	return nil
}
