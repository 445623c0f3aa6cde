package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"portal/internal/adapters/activitiesapi"
	emailAdapter "portal/internal/adapters/email"
	web "portal/internal/adapters/http"
	"portal/internal/adapters/http/perf"
	"portal/internal/application/orchestrators"
)

const shutdownTimeout = 10 * time.Second

func NewCmdServe(rt *rootState) *cobra.Command {
	var flags struct {
		addr string
	}

	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Start the activities portal web server",
		Aliases: []string{"up"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := rt.setupLogging(cmd, false)
			if err != nil {
				return err
			}
			cfg := rt.cfg
			if flags.addr != "" {
				cfg.Addr = flags.addr
			}

			collector := perf.NewCollector(perf.DefaultRingSize)
			client, err := activitiesapi.New(cfg.APIBaseURL, activitiesapi.WithCollector(collector))
			if err != nil {
				return err
			}
			csrfKey, err := cfg.CSRFAuthKey()
			if err != nil {
				return err
			}

			mailer := rt.mailer()
			if mailer == nil {
				mailer = &orchestrators.SignupConfirmationDeps{
					Sender:      emailAdapter.NewNoopSender(),
					FromAddress: cfg.EmailFrom,
					ReplyTo:     cfg.ReplyTo,
				}
				if cfg.IsProduction() {
					logger.Warn("email_event", "event", "delivery_disabled", "reason", "PORTAL_RESEND_KEY is not set")
				}
			}

			handler := web.NewMux(web.Deps{
				Client:        client,
				Mailer:        mailer,
				Collector:     collector,
				CSRFKey:       csrfKey,
				SecureCookies: cfg.IsProduction(),
				RateLimit:     cfg.RateLimit,
				SessionTTL:    cfg.SessionTTL,
				SlowRequest:   cfg.SlowRequest(),
				AccessLogger:  logger,
			})
			defer web.Close()

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("serving http", "addr", cfg.Addr, "api", client.BaseURL(), "env", cfg.Env, "version", cmd.Root().Version)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", "", "address to listen on (overrides PORTAL_ADDR)")
	return cmd
}
