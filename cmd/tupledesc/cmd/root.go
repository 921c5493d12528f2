package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tuannm99/tupledesc/internal"
	"github.com/tuannm99/tupledesc/internal/catalog"
)

var (
	cfgFile string
	config  *internal.Config
	cat     *catalog.Catalog
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tupledesc",
	Short: "Inspect and edit tuple schemas in a catalog",
	Long: `tupledesc manages the schema catalog of a fixed-width tuple store.

Every table maps to an ordered list of typed, optionally named fields.
Field types: INT32, INT64, BOOL, FLOAT64, STRING(n).`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml)")
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := internal.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	lvl, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl})))

	config = cfg
	cat = catalog.New()
	return loadCatalog()
}

func loadCatalog() error {
	path := config.Catalog.Path
	var err error
	switch config.Catalog.Format {
	case "yaml":
		var f *os.File
		f, err = os.Open(path)
		if err == nil {
			defer f.Close()
			err = cat.LoadYAML(f)
		}
	default:
		err = cat.Load(path)
	}

	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("catalog: starting empty", "path", path)
		return nil
	}
	return err
}

func saveCatalog() error {
	path := config.Catalog.Path
	if config.Catalog.Format != "yaml" {
		return cat.Save(path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := cat.ExportYAML(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("export catalog: %w", err)
	}
	return f.Close()
}
