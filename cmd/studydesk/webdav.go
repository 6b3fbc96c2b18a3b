package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ternarybob/studydesk/internal/services/webdav"
)

var webdavCmd = &cobra.Command{
	Use:   "webdav",
	Short: "Push or pull the library bundle on a WebDAV share",
}

var webdavConfig webdav.Config

var webdavConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Store the WebDAV endpoint and credentials, or show them without flags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		if webdavConfig.Endpoint != "" {
			if err := application.WebDAV.SaveConfig(ctx, &webdavConfig); err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved WebDAV config for %s\n", webdavConfig.URL())
			return nil
		}

		cfg, err := application.WebDAV.LoadConfig(ctx)
		if err != nil {
			return err
		}
		if outputJSON {
			masked := *cfg
			if masked.Password != "" {
				masked.Password = "********"
			}
			return printJSON(out, masked)
		}
		fmt.Fprintf(out, "URL:      %s\n", cfg.URL())
		fmt.Fprintf(out, "Username: %s\n", cfg.Username)
		return nil
	},
}

var webdavClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored WebDAV config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.WebDAV.ClearConfig(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "WebDAV config removed")
		return nil
	},
}

var webdavPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the library bundle",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.WebDAV.Push(cmd.Context(), application.Bundle); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Bundle uploaded")
		return nil
	},
}

var webdavPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download the remote bundle and merge it; newer records win",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := application.WebDAV.Pull(cmd.Context(), application.Bundle)
		if err != nil {
			return err
		}
		return printImportReport(cmd.OutOrStdout(), report)
	},
}

var webdavStatCmd = &cobra.Command{
	Use:   "stat",
	Short: "Check whether the remote bundle exists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := application.WebDAV.Stat(cmd.Context())
		if err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), info)
		}
		if !info.Exists {
			fmt.Fprintln(cmd.OutOrStdout(), "No remote bundle")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Remote bundle exists (etag %s)\n", info.ETag)
		return nil
	},
}

func init() {
	webdavConfigCmd.Flags().StringVar(&webdavConfig.Endpoint, "endpoint", "", "WebDAV base URL")
	webdavConfigCmd.Flags().StringVar(&webdavConfig.Username, "username", "", "WebDAV user")
	webdavConfigCmd.Flags().StringVar(&webdavConfig.Password, "password", "", "WebDAV password or app token")
	webdavConfigCmd.Flags().StringVar(&webdavConfig.RemotePath, "remote-path", "", "Bundle path on the share")

	webdavCmd.AddCommand(webdavConfigCmd, webdavClearCmd, webdavPushCmd, webdavPullCmd, webdavStatCmd)
}
