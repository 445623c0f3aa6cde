// Package cmd holds the portal command line.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"portal/internal/adapters/activitiesapi"
	emailAdapter "portal/internal/adapters/email"
	"portal/internal/application/orchestrators"
	"portal/internal/application/portal"
	"portal/internal/platform/config"
	"portal/internal/platform/logging"
)

// ExitError asks main to exit with Code without printing anything more.
type ExitError struct {
	Code int
}

func (e ExitError) Error() string {
	return fmt.Sprintf("exit with code %d", e.Code)
}

// rootState is shared by every subcommand once the root's PersistentPreRunE has run.
type rootState struct {
	cfg config.Config

	api       string
	logFormat string
	debug     bool
}

// NewCmdRoot builds the portal command tree.
func NewCmdRoot(version string) *cobra.Command {
	rt := &rootState{}
	rootCmd := &cobra.Command{
		Use:           "portal",
		Short:         "Mergington High School extracurricular activities portal",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if rt.api != "" {
				cfg.APIBaseURL = rt.api
			}
			if rt.logFormat != "" {
				cfg.LogFormat = rt.logFormat
			}
			rt.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&rt.api, "api", "", "activities service base URL (overrides PORTAL_API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&rt.logFormat, "log-format", "", "log format (auto, json, text or pretty)")
	rootCmd.PersistentFlags().BoolVar(&rt.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(NewCmdServe(rt))
	rootCmd.AddCommand(NewCmdList(rt))
	rootCmd.AddCommand(NewCmdSignup(rt))
	rootCmd.AddCommand(NewCmdRemove(rt))
	return rootCmd
}

// setupLogging installs the process logger on the command's stderr.
// One-shot commands only log warnings unless --debug is set.
func (rt *rootState) setupLogging(cmd *cobra.Command, quiet bool) (*slog.Logger, error) {
	level := slog.LevelInfo
	if quiet {
		level = slog.LevelWarn
	}
	if rt.debug {
		level = slog.LevelDebug
	}
	return logging.Setup(cmd.ErrOrStderr(), rt.cfg.LogFormat, level)
}

// mailer returns the confirmation email deps, or nil when email delivery is not configured.
func (rt *rootState) mailer() *orchestrators.SignupConfirmationDeps {
	if rt.cfg.ResendKey == "" {
		return nil
	}
	return &orchestrators.SignupConfirmationDeps{
		Sender:      emailAdapter.NewResendSender(rt.cfg.ResendKey, rt.cfg.EmailFrom),
		FromAddress: rt.cfg.EmailFrom,
		ReplyTo:     rt.cfg.ReplyTo,
	}
}

// newController builds a single-session controller against the configured service.
func (rt *rootState) newController(confirmer orchestrators.Confirmer) (*portal.Controller, error) {
	client, err := activitiesapi.New(rt.cfg.APIBaseURL)
	if err != nil {
		return nil, err
	}
	return portal.New(portal.Deps{
		Client:    client,
		Confirmer: confirmer,
		Mailer:    rt.mailer(),
	}), nil
}
