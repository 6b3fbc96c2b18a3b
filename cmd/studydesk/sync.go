package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ternarybob/studydesk/internal/models"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sign in to the sync service and exchange documents and annotations",
}

var (
	syncEmail    string
	syncPassword string
	syncName     string
)

var syncRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Push local records, then pull records the library has never seen",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := application.Sync.Sync(cmd.Context())
		if err != nil {
			return err
		}
		return printSyncReport(cmd, report)
	},
}

var syncLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptIfEmpty(cmd, syncPassword, "Password: ")
		if err != nil {
			return err
		}
		user, report, err := application.Sync.Login(cmd.Context(), syncEmail, password)
		return finishSignIn(cmd, "Signed in as", user, report, err)
	},
}

var syncRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and store the session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptIfEmpty(cmd, syncPassword, "Password: ")
		if err != nil {
			return err
		}
		user, report, err := application.Sync.Register(cmd.Context(), syncEmail, password, syncName)
		return finishSignIn(cmd, "Registered", user, report, err)
	},
}

var syncMeCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := application.Sync.Me(cmd.Context())
		if err != nil {
			return err
		}
		return printUser(cmd, "Signed in as", user)
	},
}

var syncLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.Sync.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
		return nil
	},
}

// finishSignIn prints the account and the sync that followed the sign-in.
// A failed sync is returned after the account is printed.
func finishSignIn(cmd *cobra.Command, prefix string, user *models.User, report *models.SyncReport, err error) error {
	if user == nil {
		return err
	}
	if outputJSON {
		if perr := printJSON(cmd.OutOrStdout(), map[string]interface{}{"user": user, "sync": report}); perr != nil {
			return perr
		}
		return err
	}
	if perr := printUser(cmd, prefix, user); perr != nil {
		return perr
	}
	if err != nil {
		return err
	}
	return printSyncReport(cmd, report)
}

func printSyncReport(cmd *cobra.Command, report *models.SyncReport) error {
	out := cmd.OutOrStdout()
	if outputJSON {
		return printJSON(out, report)
	}
	if report == nil {
		return nil
	}
	fmt.Fprintf(out, "Pushed %d documents, %d annotations\n", report.PushedDocuments, report.PushedAnnotations)
	fmt.Fprintf(out, "Pulled %d documents, %d annotations\n", report.PulledDocuments, report.PulledAnnotations)
	if report.SkippedOrphans > 0 {
		fmt.Fprintf(out, "Skipped %d annotations of unknown documents\n", report.SkippedOrphans)
	}
	fmt.Fprintf(out, "Took %s\n", report.Duration)
	return nil
}

// printUser prints the account, or "Not signed in" for a nil user
func printUser(cmd *cobra.Command, prefix string, user *models.User) error {
	if outputJSON {
		return printJSON(cmd.OutOrStdout(), user)
	}
	if user == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
		return nil
	}
	if user.Name != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s <%s>\n", prefix, user.Name, user.Email)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", prefix, user.Email)
	return nil
}

// promptIfEmpty reads one line from stdin when value is empty
func promptIfEmpty(cmd *cobra.Command, value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	for _, c := range []*cobra.Command{syncLoginCmd, syncRegisterCmd} {
		c.Flags().StringVarP(&syncEmail, "email", "e", "", "Account email")
		c.Flags().StringVarP(&syncPassword, "password", "p", "", "Account password (prompted when empty)")
		_ = c.MarkFlagRequired("email")
	}
	syncRegisterCmd.Flags().StringVar(&syncName, "name", "", "Display name")

	syncCmd.AddCommand(syncRunCmd, syncLoginCmd, syncRegisterCmd, syncMeCmd, syncLogoutCmd)
}
