package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"igpilot/pkg/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the automated account's credentials",
}

var authSetCmd = &cobra.Command{
	Use:   "set <username>",
	Short: "Store credentials for an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := credentialStore()
		if err != nil {
			return err
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		account := &auth.Account{
			Username: args[0],
			Password: strings.TrimSpace(string(password)),
		}
		if err := store.Store(account); err != nil {
			return err
		}
		fmt.Printf("credentials stored for %s\n", args[0])
		return nil
	},
}

var authShowCmd = &cobra.Command{
	Use:   "show <username>",
	Short: "Check whether credentials exist for an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := credentialStore()
		if err != nil {
			return err
		}
		account, err := store.Retrieve(args[0])
		if err != nil {
			if errors.Is(err, auth.ErrNotFound) {
				fmt.Printf("no credentials stored for %s\n", args[0])
				return nil
			}
			return err
		}
		fmt.Printf("credentials for %s (updated %s)\n",
			account.Username, account.UpdatedAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var authRemoveCmd = &cobra.Command{
	Use:   "remove <username>",
	Short: "Delete stored credentials for an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := credentialStore()
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("credentials removed for %s\n", args[0])
		return nil
	},
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authShowCmd)
	authCmd.AddCommand(authRemoveCmd)
}

// credentialStore prefers the system keychain and falls back to an
// encrypted file keyed by IGPILOT_PASSPHRASE.
func credentialStore() (auth.CredentialStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	fallback := filepath.Join(home, ".config", "igpilot", "credentials.enc")
	return auth.NewStore(fallback, os.Getenv("IGPILOT_PASSPHRASE"))
}
