package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/nfrund/miniapp/internal/profile"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var (
		userJSON string
		locale   string
	)
	fs := afero.NewOsFs()

	c := &cobra.Command{
		Use:   "render",
		Short: "Print the profile projection for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userJSON == "" {
				return errors.New("--user-json is required")
			}
			user, err := loadUser(fs, userJSON)
			if err != nil {
				return fmt.Errorf("load user: %w", err)
			}

			catalog, err := profile.NewCatalog(locale)
			if err != nil {
				return err
			}
			labels := catalog.Labels(user.LanguageCode)
			p := profile.Project(*user, labels)

			premium := labels.No
			if p.Premium {
				premium = labels.Yes
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Name\t%s\n", p.DisplayName)
			fmt.Fprintf(tw, "Handle\t%s\n", p.Handle)
			if p.ShowAvatar {
				fmt.Fprintf(tw, "Avatar\t%s\n", p.AvatarURL)
			}
			fmt.Fprintf(tw, "Premium\t%s\n", premium)
			fmt.Fprintf(tw, "ID\t%s\n", p.ID)
			fmt.Fprintf(tw, "Locale\t%s\n", p.Locale)
			fmt.Fprintf(tw, "Can write\t%s\n", p.CanWrite)
			fmt.Fprintf(tw, "Account\t%s\n", p.AccountType)
			return tw.Flush()
		},
	}

	c.Flags().StringVar(&userJSON, "user-json", "", "file holding the unsafe user view as JSON")
	c.Flags().StringVar(&locale, "locale", "en", "fallback locale for labels")
	return c
}
