package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"food-lens/api/internal/handle"
	"food-lens/api/internal/httpserver"
)

func newServeCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the web front-end",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensure(); err != nil {
				return err
			}
			defer func() { _ = app.log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, err := app.services()
			if err != nil {
				return err
			}

			var journal handle.Journal
			repo, db, err := app.journal(ctx)
			if err != nil {
				return err
			}
			if repo != nil {
				defer db.Close()
				journal = repo
			}

			cfg := app.cfg
			h := handle.New(svc.validator, svc.identifier, journal, handle.Options{
				UploadDir:      cfg.UploadDir,
				MaxFiles:       cfg.MaxFiles,
				MaxUploadBytes: cfg.MaxUploadBytes,
				RequestTimeout: cfg.RequestTimeout,
				Engine:         svc.engine.Name(),
				Model:          svc.engine.GetModel(),
			}, app.log)

			srv := httpserver.New(h, httpserver.Options{
				Addr:           ":" + cfg.Port,
				StaticDir:      cfg.StaticDir,
				CORSOrigins:    cfg.CORSOrigins,
				RequestTimeout: cfg.RequestTimeout,
				MaxUploadBytes: cfg.MaxUploadBytes,
			}, app.log)
			return srv.Run(ctx)
		},
	}
}
