package cli

import (
	"github.com/spf13/cobra"
)

func newShareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "share",
		Short: "Show the share payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ShareResult
			if err := client.Get(cmd.Context(), "/api/v1/share", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newUpgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Show the payment link for the elite tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result CheckoutResult
			if err := client.Get(cmd.Context(), "/api/v1/billing/checkout", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Profile preferences",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SettingsResult
			if err := client.Get(cmd.Context(), "/api/v1/settings", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	var theme, language string
	set := &cobra.Command{
		Use:   "set",
		Short: "Update preferences; omitted flags are left unchanged",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{}
			if theme != "" {
				body["theme"] = theme
			}
			if language != "" {
				body["language"] = language
			}
			var result SettingsResult
			if err := client.Put(cmd.Context(), "/api/v1/settings", body, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
	set.Flags().StringVar(&theme, "theme", "", "Theme: dark or light")
	set.Flags().StringVar(&language, "language", "", "Language code")
	cmd.AddCommand(set)

	return cmd
}
