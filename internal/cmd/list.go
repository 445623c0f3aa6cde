package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"portal/internal/application/orchestrators"
)

type ActivityEntry struct {
	Name            string   `json:"name"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	SpotsLeft       int      `json:"spots_left"`
	Participants    []string `json:"participants"`
}

func NewCmdList(rt *rootState) *cobra.Command {
	var flags struct {
		json bool
	}

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List activities in the order the service returns them",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.setupLogging(cmd, true); err != nil {
				return err
			}
			ctrl, err := rt.newController(orchestrators.AlwaysConfirm)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			if !flags.json {
				cmd.PrintErrln("Loading activities...")
			}
			if err := ctrl.LoadActivities(cmd.Context()); err != nil {
				cmd.PrintErrln(ctrl.View().Notification.Text)
				return ExitError{1}
			}
			view := ctrl.View()

			if flags.json {
				entries := make([]ActivityEntry, 0, len(view.Activities))
				for _, a := range view.Activities {
					entries = append(entries, ActivityEntry{
						Name:            a.Name,
						Schedule:        a.Schedule,
						MaxParticipants: a.MaxParticipants,
						SpotsLeft:       a.AvailableSpots(),
						Participants:    a.Participants,
					})
				}

				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetEscapeHTML(false)
				if isatty.IsTerminal(os.Stdout.Fd()) {
					encoder.SetIndent("", "  ")
				}
				if err := encoder.Encode(entries); err != nil {
					cmd.PrintErrf("failed to encode activities as json: %v\n", err)
					return ExitError{1}
				}
				return nil
			}

			out := cmd.OutOrStdout()
			if len(view.Activities) == 0 {
				fmt.Fprintln(out, "No activities found")
				return nil
			}
			for _, a := range view.Activities {
				if a.IsFull() {
					fmt.Fprintf(out, "%s (full)\n", a.Name)
				} else {
					fmt.Fprintf(out, "%s (%d spots left)\n", a.Name, a.AvailableSpots())
				}
				if a.Schedule != "" {
					fmt.Fprintf(out, "  %s\n", a.Schedule)
				}
				for _, p := range a.Participants {
					fmt.Fprintf(out, "  - %s\n", p)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.json, "json", false, "output as json")
	return cmd
}
