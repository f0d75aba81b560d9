package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/narvanalabs/signing-vault/pkg/config"
	"github.com/narvanalabs/signing-vault/pkg/logger"
	"github.com/narvanalabs/signing-vault/web/api"
	"github.com/spf13/cobra"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	baseURL    string
	token      string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "signinglog",
		Short:         "List and delete signing log entries of a signing vault",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultClientConfigPath(), "path to the client config file")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "url", "", "admin API base URL (or SIGNING_VAULT_URL)")
	cmd.PersistentFlags().StringVar(&opts.token, "token", "", "bearer token (or SIGNING_VAULT_TOKEN)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")

	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newDeleteCmd(opts))

	return cmd
}

// setup resolves the client configuration and builds the signing log client.
func (o *rootOptions) setup(cmd *cobra.Command) (*api.SigningLogClient, *logger.Logger, error) {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	log := logger.NewWithWriter(cmd.ErrOrStderr(), level, false).WithComponent("signinglog")

	fileCfg, err := config.LoadClient(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := fileCfg.Merge(o.baseURL, o.token)

	client, err := api.NewClient(cfg.BaseURL)
	if err != nil {
		return nil, nil, err
	}
	client = client.WithToken(cfg.Token)
	if cfg.Timeout > 0 {
		client = client.WithHTTPClient(&http.Client{Timeout: cfg.Timeout})
	}

	log.Debug("using admin API", "url", client.BaseURL(), "authenticated", cfg.Token != "")
	return api.NewSigningLogClient(client), log, nil
}
