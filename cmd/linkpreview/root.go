package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/user/linkpreview-service/internal/adapter/chromedp_fetcher"
	"github.com/user/linkpreview-service/internal/adapter/httpfetch"
	"github.com/user/linkpreview-service/internal/proxy"
	"github.com/user/linkpreview-service/internal/repository"
	"github.com/user/linkpreview-service/pkg/config"
	"go.uber.org/zap"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkpreview",
		Short: "Extract link preview metadata from web pages",
		Long: `linkpreview fetches a web page and resolves its title, description,
canonical URL, site name and image from Open Graph tags, meta tags and
plain HTML elements.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("env-file", ".env", "Path to an optional env file")

	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}
	return cfg, nil
}

// newAcquirer picks the document acquirer for cfg.FetchMode. The returned
// func releases browser resources and is always safe to call.
func newAcquirer(cfg *config.Config, l *zap.Logger) (repository.DocumentAcquirer, func(), error) {
	pm, err := proxy.NewManager(cfg.ProxyList(), cfg.UserAgentList())
	if err != nil {
		return nil, nil, fmt.Errorf("invalid proxy list: %w", err)
	}

	switch cfg.FetchMode {
	case config.FetchModeHTTP, "":
		return httpfetch.NewFetcher(pm, cfg.FetchTimeoutDuration(), cfg.MaxBodyBytes, l), func() {}, nil
	case config.FetchModeBrowser:
		f := chromedp_fetcher.NewChromedpFetcher(pm, cfg.FetchTimeoutDuration(), l)
		return f, f.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown FETCH_MODE %q", cfg.FetchMode)
	}
}
