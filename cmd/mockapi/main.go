package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"servicepro/internal/domain"
	"servicepro/internal/mockapi"
)

func main() {
	var (
		addr     string
		phone    string
		email    string
		password string
		secret   string
		ttl      time.Duration
		jsonLogs bool
	)
	cmd := &cobra.Command{
		Use:          "mockapi",
		Short:        "In-memory servicepro backend for development",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.New()
			if jsonLogs {
				log.SetFormatter(&logrus.JSONFormatter{})
			}

			srv, err := mockapi.New(mockapi.Options{Secret: []byte(secret), TokenTTL: ttl, Log: log})
			if err != nil {
				return err
			}
			user, err := srv.AddUser(domain.UserRecord{Name: "Demo Provider", Phone: phone, Email: email}, password)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{"id": user.ID, "phone": phone, "email": email}).Info("seeded demo user")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			hs := &http.Server{Addr: addr, Handler: srv.Handler(), ReadHeaderTimeout: 5 * time.Second}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = hs.Shutdown(shutdownCtx)
			}()

			log.WithField("addr", addr).Info("mockapi listening")
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&phone, "phone", "9999999999", "demo user phone")
	cmd.Flags().StringVar(&email, "email", "demo@example.com", "demo user email")
	cmd.Flags().StringVar(&password, "password", "password", "demo user password")
	cmd.Flags().StringVar(&secret, "secret", "", "token signing secret (random when empty)")
	cmd.Flags().DurationVar(&ttl, "token-ttl", mockapi.DefaultTokenTTL, "issued token lifetime")
	cmd.Flags().BoolVar(&jsonLogs, "json-logs", false, "log as JSON")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
