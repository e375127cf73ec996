package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"servicepro/internal/domain"
)

// login: authenticate with phone or email and persist the session.
func loginCmd() *cobra.Command {
	var creds domain.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if creds.Phone == "" && creds.Email == "" {
				return errors.New("phone or email required (--phone, --email)")
			}
			user, err := appCtx.Session.Authenticate(cmd.Context(), creds)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", displayName(user))
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Phone, "phone", "", "registered phone number")
	cmd.Flags().StringVar(&creds.Email, "email", "", "registered email")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// logout: notify the backend and clear the local session.
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appCtx.Session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func displayName(u *domain.UserRecord) string {
	switch {
	case u == nil:
		return "(nobody)"
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	case u.Phone != "":
		return u.Phone
	default:
		return u.ID
	}
}
