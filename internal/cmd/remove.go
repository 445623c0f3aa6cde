package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"portal/internal/application/orchestrators"
)

// terminalConfirmer asks on out and reads one answer line from in.
// Only "y" and "yes" (any case) accept; EOF declines.
func terminalConfirmer(in io.Reader, out io.Writer) orchestrators.ConfirmerFunc {
	reader := bufio.NewReader(in)
	return func(_ context.Context, prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}

func NewCmdRemove(rt *rootState) *cobra.Command {
	var flags struct {
		yes bool
	}

	cmd := &cobra.Command{
		Use:     "remove <activity> <email>",
		Short:   "Remove a participant from an activity",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.setupLogging(cmd, true); err != nil {
				return err
			}
			activityName := args[0]
			email := strings.TrimSpace(args[1])
			if strings.TrimSpace(activityName) == "" || email == "" {
				cmd.PrintErrln(orchestrators.ErrMissingParticipant)
				return ExitError{2}
			}

			var confirmer orchestrators.Confirmer = terminalConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
			if flags.yes {
				confirmer = orchestrators.AlwaysConfirm
			}
			ctrl, err := rt.newController(confirmer)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			removed := ctrl.HandleRemoveParticipant(cmd.Context(), activityName, email)
			banner := ctrl.View().Notification.Text
			switch {
			case removed:
				msg := orchestrators.RemoveSuccessMessage(email, activityName)
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				if banner != msg {
					cmd.PrintErrln(banner)
				}
				return nil
			case banner == "":
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			default:
				cmd.PrintErrln(banner)
				return ExitError{1}
			}
		},
	}

	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
