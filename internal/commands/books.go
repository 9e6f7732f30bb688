package commands

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/books"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/config"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/logging"
)

// ledgerDir resolves the --dir flag to an absolute path.
func ledgerDir(cmd *cobra.Command) (string, error) {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}

// openBooks loads the configuration of the ledger named by --dir and opens it.
// Logs go to the command's stderr.
func openBooks(cmd *cobra.Command) (*books.Books, error) {
	root, err := ledgerDir(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadProject(root)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	b, err := books.Open(root, cfg, log)
	if err != nil {
		return nil, err
	}
	log.Debug("ledger opened", zap.String("root", root))
	return b, nil
}

// parseDate parses YYYY-MM-DD. An empty string means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: want YYYY-MM-DD", s)
	}
	return d, nil
}

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(s)
	if err != nil || y < 1900 || y > 9999 {
		return 0, fmt.Errorf("year %q: want four digits", s)
	}
	return y, nil
}
