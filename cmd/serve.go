package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abhisek/worksheetz/internal/server"
	"github.com/abhisek/worksheetz/internal/validate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the validation API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		addr := cfg.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		engineCfg, err := cfg.EngineConfig()
		if err != nil {
			return fmt.Errorf("engine config: %w", err)
		}
		engine, err := validate.New(engineCfg)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts := server.Options{Engine: engine, Registry: reg}

		if noRecord, _ := cmd.Flags().GetBool("no-record"); !noRecord {
			s, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer s.Close()
			opts.Runs = s.RunRepo()
		}

		srv, err := server.New(opts)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
	serveCmd.Flags().Bool("no-record", false, "Do not record verdicts in the run log")
}
