package commands

import (
	"fmt"

	"fgperfume/pkg/auth"

	"github.com/spf13/cobra"
)

var HashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print an ADMIN_PASSWORD_HASH value for a password",
	Args:  cobra.ExactArgs(1),
	RunE:  runHashPassword,
}

func init() {
	HashPasswordCmd.Flags().Bool("allow-weak", false, "Skip the password strength check")
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	password := args[0]
	allowWeak, _ := cmd.Flags().GetBool("allow-weak")

	if err := auth.ValidatePassword(password); err != nil && !allowWeak {
		return fmt.Errorf("%w (use --allow-weak to hash it anyway)", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ADMIN_PASSWORD_HASH=%s\n", hash)
	return nil
}
