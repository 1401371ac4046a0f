package main

import (
	"github.com/spf13/cobra"
	"github.com/username/rangepicker/internal/daemon"
	"go.uber.org/zap"
)

func watchCmd() *cobra.Command {
	var reload bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the session's today tag and availability current",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			p, err := openPicker(cfg)
			if err != nil {
				return err
			}
			if err := p.save(); err != nil {
				return err
			}

			d := daemon.NewDaemon(p.controller, p.source, p.sessions, daemon.Options{
				Schedule: cfg.Watch.GetSchedule(),
				Location: cfg.Picker.GetLocation(),
				Reload:   reload,
			}, logger)

			logger.Info("Starting watch daemon",
				zap.String("schedule", cfg.Watch.GetSchedule()),
				zap.String("state_file", cfg.Session.StateFile),
				zap.Bool("reload", reload))

			return d.Start()
		},
	}

	cmd.Flags().BoolVar(&reload, "reload", true, "Re-read availability sources on every run")

	return cmd
}
