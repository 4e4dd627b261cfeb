package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/linkpreview-service/internal/preview"
	"github.com/user/linkpreview-service/pkg/config"
	"github.com/user/linkpreview-service/pkg/logger"
	"github.com/user/linkpreview-service/pkg/utils"
	"go.uber.org/zap"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch one page and print its preview",
		Args:  cobra.ExactArgs(1),
		RunE:  runFetch,
	}
	cmd.Flags().Bool("json", false, "Print the preview as JSON")
	cmd.Flags().Bool("browser", false, "Render the page in headless Chrome before extracting")
	return cmd
}

func runFetch(cmd *cobra.Command, args []string) error {
	url := args[0]
	if _, err := utils.ValidateURL(url); err != nil {
		return fmt.Errorf("invalid URL %q: %w", url, err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if browser, _ := cmd.Flags().GetBool("browser"); browser {
		cfg.FetchMode = config.FetchModeBrowser
	}

	// Keep stdout for the preview itself.
	level := "warn"
	if cfg.LogLevel == "debug" {
		level = "debug"
	}
	l, err := logger.New(level)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	acquirer, release, err := newAcquirer(cfg, l)
	if err != nil {
		return err
	}
	defer release()

	p, err := preview.New(cmd.Context(), url, acquirer)
	if err != nil {
		l.Debug("preview failed", zap.String("url", url), zap.Error(err))
		return err
	}
	result := p.FetchPreview()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), result.String())
	return err
}
