package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// status: print device, session and connectivity state.
func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show device, session and connectivity state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			id, err := appCtx.Devices.DeviceID()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "device:    %s\n", id)
			fmt.Fprintf(out, "backend:   %s\n", appCtx.Config.BaseURL)

			online := appCtx.Prober.Probe(cmd.Context()) == nil
			fmt.Fprintf(out, "reachable: %t\n", online)

			user := appCtx.Session.User()
			if user == nil {
				fmt.Fprintln(out, "session:   logged out")
				return nil
			}
			fmt.Fprintf(out, "session:   %s\n", displayName(user))
			if user.KYC != nil {
				fmt.Fprintf(out, "kyc:       %s\n", user.KYC.Status)
			}
			if t := user.TrainingScheduleSubmit; t != nil {
				fmt.Fprintf(out, "training:  %s %s %s\n", t.Status, t.Date, t.Slot)
			}
			return nil
		},
	}
}

// route: print the onboarding screen for the current user.
func routeCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Print the screen the current user belongs on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if refresh && appCtx.Session.User() != nil {
				if _, err := appCtx.Session.RefreshProfile(cmd.Context()); err != nil {
					return err
				}
			}
			d := appCtx.Decide()
			fmt.Fprintf(cmd.OutOrStdout(), "%s (back: %t)\n", d.Screen, d.AllowBack)
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "fetch the profile before routing")
	return cmd
}
