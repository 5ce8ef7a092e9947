package cmd

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eslsoft/lingvo/internal/infrastructure/config"
	"github.com/eslsoft/lingvo/internal/infrastructure/server"
	"github.com/eslsoft/lingvo/internal/usecase/backup"
)

func tablesFromConfig(key string) []string {
	return normalizeTables(viper.GetStringSlice(key))
}

func normalizeTables(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	result := make([]string, 0, len(values))
	for _, value := range values {
		for _, name := range strings.Split(value, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			result = append(result, strings.ToLower(name))
		}
	}
	if len(result) == 0 {
		return nil
	}
	return lo.Uniq(result)
}

func bindFlagToViper(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// gzipByName turns compression on for paths ending in .gz.
func gzipByName(path string, enabled bool) bool {
	return enabled || (path != "-" && strings.HasSuffix(strings.ToLower(path), ".gz"))
}

func newBackupService(cfg *config.Config, batchSize int) (*backup.Service, error) {
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		return nil, fmt.Errorf("resolve database driver: %w", err)
	}
	dsn, err := cfg.DatabaseURL()
	if err != nil {
		return nil, fmt.Errorf("resolve database dsn: %w", err)
	}
	logger, err := server.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	return backup.NewService(driver, dsn,
		backup.WithBatchSize(batchSize),
		backup.WithLogger(logger.WithField("component", "backup")),
	)
}

// openBackupWriter returns stdout for "-" and a created file otherwise,
// gzip-wrapped when asked. close flushes and closes in order.
func openBackupWriter(path string, gz bool, stdout io.Writer) (io.Writer, func() error, error) {
	var (
		writer   = stdout
		closeFns []func() error
	)
	if path != "-" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create output directory: %w", err)
		}
		file, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("create backup file: %w", err)
		}
		writer = file
		closeFns = append(closeFns, file.Close)
	}
	if gz {
		gzw := gzip.NewWriter(writer)
		writer = gzw
		closeFns = append([]func() error{gzw.Close}, closeFns...)
	}
	return writer, closeAll(closeFns), nil
}

func openBackupReader(path string, gz bool, stdin io.Reader) (io.Reader, func() error, error) {
	var (
		reader   = stdin
		closeFns []func() error
	)
	if path != "-" {
		file, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, nil, fmt.Errorf("open backup file: %w", err)
		}
		reader = file
		closeFns = append(closeFns, file.Close)
	}
	if gz {
		gzr, err := gzip.NewReader(reader)
		if err != nil {
			_ = closeAll(closeFns)()
			return nil, nil, fmt.Errorf("open gzip reader: %w", err)
		}
		reader = gzr
		closeFns = append([]func() error{gzr.Close}, closeFns...)
	}
	return reader, closeAll(closeFns), nil
}

func closeAll(fns []func() error) func() error {
	return func() error {
		var first error
		for _, fn := range fns {
			if err := fn(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}
}
