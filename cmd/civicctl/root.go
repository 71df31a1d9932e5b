package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/civiclens/portal-client/internal/core/service"
	"github.com/civiclens/portal-client/internal/infrastructure/config"
	"github.com/civiclens/portal-client/internal/infrastructure/gateway"
	"github.com/civiclens/portal-client/internal/infrastructure/geo"
	"github.com/civiclens/portal-client/internal/infrastructure/storage"
	"github.com/civiclens/portal-client/internal/infrastructure/stream"
	"github.com/civiclens/portal-client/pkg/logger"
)

// app wires the client together: config, logger, gateway, session state
// and the locator. Built once per invocation in the root PersistentPreRunE.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	gw      *gateway.Client
	dialer  *stream.Dialer
	session *service.SessionService
	locator *geo.StaticLocator
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "civicctl",
		Short:         "Client for the CivicLens civic-issue reporting portal",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			a.log = logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

			timeout, err := time.ParseDuration(cfg.HTTPTimeout)
			if err != nil {
				return fmt.Errorf("invalid CIVIC_HTTP_TIMEOUT: %w", err)
			}

			sessionPath := cfg.SessionFile
			if sessionPath == "" {
				if sessionPath, err = storage.DefaultPath(); err != nil {
					return fmt.Errorf("resolve session path: %w", err)
				}
			}

			a.gw = gateway.New(cfg.APIBaseURL, timeout, a.log)
			a.dialer = stream.NewDialer(cfg.WSBaseURL, a.log)
			a.locator = geo.NewStaticLocator(cfg.LocationFix(), cfg.HighAccuracyFix())
			a.session = service.NewSessionService(a.gw, storage.NewFileStore(sessionPath), a.log)
			a.session.Rehydrate()
			return nil
		},
	}

	root.AddCommand(
		newSignupCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newForgotPasswordCmd(a),
		newResetPasswordCmd(a),
		newSubmitCmd(a),
		newStatusCmd(a),
		newVoteCmd(a),
		newReportsCmd(a),
		newWatchCmd(a),
		newAssignCmd(a),
		newSetStatusCmd(a),
		newDeleteCmd(a),
	)
	return root
}

// requireRole runs the route guard before a protected command. Advisory
// only: the server is the security boundary, this just routes politely.
func (a *app) requireRole(adminOnly bool) error {
	switch service.Authorize(a.session.Current(), adminOnly) {
	case service.RedirectAuth:
		return fmt.Errorf("not logged in, run `civicctl login` first")
	case service.RedirectHome:
		return fmt.Errorf("this command needs an admin session")
	}
	return nil
}
