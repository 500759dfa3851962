package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mwantia/sftptest/config"
	"github.com/mwantia/sftptest/journal"
	"github.com/mwantia/sftptest/log"
	"github.com/mwantia/sftptest/node"
	"github.com/mwantia/sftptest/server"
	"github.com/spf13/cobra"
)

type serveFlags struct {
	config   string
	content  string
	host     string
	port     int
	logLevel string
	hostKey  string
}

func newServeCmd(stdout, stderr io.Writer) *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a YAML content document until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.config)
			if err != nil {
				return err
			}
			applyServeFlags(cmd, cfg, flags)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, stdout)
		},
	}

	cmd.Flags().StringVarP(&flags.config, "config", "c", "", "path to the config file")
	cmd.Flags().StringVar(&flags.content, "content", "", "YAML document to serve")
	cmd.Flags().StringVar(&flags.host, "host", "", "address to bind")
	cmd.Flags().IntVarP(&flags.port, "port", "p", 0, "port to bind, 0 picks a free one")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&flags.hostKey, "host-key", "", "PEM encoded host key, ephemeral when empty")

	return cmd
}

// applyServeFlags lets explicitly set flags win over file and environment.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config, flags serveFlags) {
	if cmd.Flags().Changed("content") {
		cfg.Content.File = flags.content
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = flags.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = flags.port
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if cmd.Flags().Changed("host-key") {
		cfg.Server.HostKeyFile = flags.hostKey
	}
}

func serve(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	level, err := log.Parse(cfg.Logging.Level)
	if err != nil {
		return err
	}

	logger := log.NewLogger("sftptest", level, cfg.Logging.File, false)
	logger.JSON = cfg.Logging.JSON
	logger.NoColor = cfg.Logging.NoColor

	root, err := loadContent(cfg.Content.File)
	if err != nil {
		return err
	}

	j, err := journal.New(cfg.Journal.Type, cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer j.Close()

	opts := []server.ServerOption{
		server.WithAddress(cfg.Server.Host, cfg.Server.Port),
		server.WithCredentials(cfg.Server.User, cfg.Server.Password),
		server.WithLogger(logger),
		server.WithJournal(j),
	}
	if cfg.Server.HostKeyFile != "" {
		opts = append(opts, server.WithHostKeyFile(cfg.Server.HostKeyFile))
	}

	srv, err := server.New(root, opts...)
	if err != nil {
		return err
	}
	if err := srv.Listen(); err != nil {
		return err
	}

	fmt.Fprintln(stdout, srv.URL())

	serveErr := srv.Serve(ctx)
	if err := srv.Close(); err != nil && serveErr == nil {
		serveErr = err
	}
	return serveErr
}

func loadContent(path string) (node.Node, error) {
	if path == "" {
		return node.NewMapping(), nil
	}

	root, err := node.FromYAMLFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load content '%s': %w", path, err)
	}
	return root, nil
}
