package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"portal/internal/application/orchestrators"
	"portal/internal/domain/signup"
)

func NewCmdSignup(rt *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup <activity> <email>",
		Short: "Sign a student up for an activity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.setupLogging(cmd, true); err != nil {
				return err
			}
			intent := signup.Intent{Activity: args[0], Email: args[1]}.Normalize()
			if err := intent.Validate(); err != nil {
				cmd.PrintErrln(err)
				return ExitError{2}
			}

			ctrl, err := rt.newController(orchestrators.AlwaysConfirm)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			cmd.PrintErrf("Signing up %s for %s...\n", intent.Email, intent.Activity)
			ok := ctrl.SubmitSignup(cmd.Context(), intent)
			banner := ctrl.View().Notification.Text
			if !ok {
				cmd.PrintErrln(banner)
				return ExitError{1}
			}
			msg := orchestrators.SignupSuccessMessage(intent.Email, intent.Activity)
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			// The refresh after a signup can replace the banner with a load failure.
			if banner != msg {
				cmd.PrintErrln(banner)
			}
			return nil
		},
	}
	return cmd
}
