package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jmylchreest/yasem/internal/database"
	"github.com/jmylchreest/yasem/internal/models"
	"github.com/jmylchreest/yasem/internal/repository"
	"github.com/jmylchreest/yasem/internal/service"
	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Inspect stored device profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List device profiles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withProfileService(cmd.Context(), func(ctx context.Context, svc *service.ProfileService) error {
			profiles, err := svc.GetAll(ctx)
			if err != nil {
				return fmt.Errorf("listing profiles: %w", err)
			}
			return writeProfiles(cmd.OutOrStdout(), profiles)
		})
	},
}

var profilesScriptCmd = &cobra.Command{
	Use:   "script <id>",
	Short: "Print the emulated device script served to a profile's portal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProfileService(cmd.Context(), func(ctx context.Context, svc *service.ProfileService) error {
			script, err := svc.Script(ctx, args[0])
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), script)
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesScriptCmd)
}

// withProfileService opens the configured profile store for one command.
func withProfileService(ctx context.Context, fn func(context.Context, *service.ProfileService) error) error {
	return withDatabase(ctx, func(ctx context.Context, db *database.DB) error {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		return fn(ctx, service.NewProfileService(repository.NewProfileRepository(db.DB)))
	})
}

func writeProfiles(w io.Writer, profiles []*models.Profile) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFAMILY\tSUBMODEL\tPORTAL")
	for _, p := range profiles {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.ClassID, p.SubmodelName(), p.PortalURL())
	}
	return tw.Flush()
}
