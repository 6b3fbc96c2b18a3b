package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ternarybob/studydesk/internal/security"
)

var securityCmd = &cobra.Command{
	Use:   "security",
	Short: "Encrypt stored document files with a passphrase",
}

var newPassphrase string

var securityStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether file encryption is enabled and unlocked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := application.Vault
		out := cmd.OutOrStdout()
		if outputJSON {
			return printJSON(out, map[string]bool{"enabled": v.Enabled(), "unlocked": v.Unlocked()})
		}
		switch {
		case !v.Enabled():
			fmt.Fprintln(out, "Encryption: disabled")
		case v.Unlocked():
			fmt.Fprintln(out, "Encryption: enabled, unlocked")
		default:
			fmt.Fprintln(out, "Encryption: enabled, locked (pass --passphrase to unlock)")
		}
		return nil
	},
}

var securityEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable encryption, or change the passphrase when already enabled",
	Long: `Enable derives a key from the new passphrase and re-writes every stored
file sealed with it. When encryption is already on, unlock with --passphrase
first; the files are then re-sealed under the new passphrase.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		v := application.Vault
		if v.Enabled() && !v.Unlocked() {
			return security.ErrLocked
		}
		pass, err := promptIfEmpty(cmd, newPassphrase, "New passphrase: ")
		if err != nil {
			return err
		}
		if pass == "" {
			return fmt.Errorf("passphrase is required")
		}

		n, err := security.Reseal(ctx, application.FileStorage(), func() error {
			return v.Enable(ctx, pass)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Encryption enabled, %d files sealed\n", n)
		return nil
	},
}

var securityDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Decrypt every stored file and turn encryption off",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		v := application.Vault
		if !v.Enabled() {
			return security.ErrNotEnabled
		}
		if !v.Unlocked() {
			return security.ErrLocked
		}

		n, err := security.Reseal(ctx, application.FileStorage(), func() error {
			return v.Disable(ctx)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Encryption disabled, %d files written in plain\n", n)
		return nil
	},
}

func init() {
	securityEnableCmd.Flags().StringVar(&newPassphrase, "new-passphrase", "", "Passphrase to seal with (prompted when empty)")
	securityCmd.AddCommand(securityStatusCmd, securityEnableCmd, securityDisableCmd)
}
