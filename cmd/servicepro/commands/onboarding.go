package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"servicepro/internal/services/profile"
)

// profile: submit profile details.
func profileCmd() *cobra.Command {
	var (
		form  profile.ProfileForm
		photo string
	)
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Submit profile details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if form.Photo, err = optionalAttachment(photo); err != nil {
				return err
			}
			user, err := appCtx.Profile.UpdateProfile(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "profile saved for %s\n", displayName(user))
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "display name")
	cmd.Flags().StringVar(&form.DOB, "dob", "", "date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&form.Address, "address", "", "postal address")
	cmd.Flags().StringVar(&photo, "photo", "", "profile photo path")
	return cmd
}

// kyc: submit identity and bank details for review.
func kycCmd() *cobra.Command {
	var (
		form     profile.KYCForm
		document string
	)
	cmd := &cobra.Command{
		Use:   "kyc",
		Short: "Submit KYC details for review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if form.Document, err = optionalAttachment(document); err != nil {
				return err
			}
			user, err := appCtx.Profile.SubmitKYC(cmd.Context(), form)
			if err != nil {
				return err
			}
			status := "submitted"
			if user != nil && user.KYC != nil {
				status = string(user.KYC.Status)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "kyc %s\n", status)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.DocumentType, "doc-type", "", "identity document type")
	cmd.Flags().StringVar(&form.DocumentNumber, "doc-number", "", "identity document number")
	cmd.Flags().StringVar(&form.BankName, "bank", "", "bank name")
	cmd.Flags().StringVar(&form.AccountNumber, "account", "", "bank account number")
	cmd.Flags().StringVar(&form.IFSC, "ifsc", "", "bank branch code")
	cmd.Flags().StringVar(&document, "document", "", "scanned document path")
	_ = cmd.MarkFlagRequired("doc-type")
	_ = cmd.MarkFlagRequired("doc-number")
	return cmd
}

// training: request a training slot.
func trainingCmd() *cobra.Command {
	var date, slot string
	cmd := &cobra.Command{
		Use:   "training",
		Short: "Request a training slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := appCtx.Profile.ScheduleTraining(cmd.Context(), date, slot)
			if err != nil {
				return err
			}
			if user != nil && user.TrainingScheduleSubmit != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "training %s\n", user.TrainingScheduleSubmit.Status)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "training date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&slot, "slot", "", "time slot")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
