package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"photocat/internal/app"
	"photocat/internal/catalog"
	"photocat/internal/config"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a PhotoApp. The caller must defer
// app.Close().
func newApp() (*app.PhotoApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewPhotoApp(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// printSink writes event messages to stdout and run failures to stderr.
func printSink() catalog.EventSink {
	return catalog.EventSinkFunc(func(e catalog.Event) {
		if e.Err != nil && e.Message != "" {
			fmt.Fprintf(os.Stderr, "%s: %v\n", e.Message, e.Err)
			return
		}
		if e.Message != "" {
			fmt.Println(e.Message)
		}
	})
}

var rootCmd = &cobra.Command{
	Use:   "photocat",
	Short: "Photo catalog manager",
}

// config command

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		fmt.Println("Add root folders to the config before running sync.")
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Roots:      %s\n", strings.Join(cfg.Roots, ", "))
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Batch Size: %d\n", cfg.Catalog.BatchSize)
		fmt.Printf("Cooldown:   %d min\n", cfg.Catalog.CooldownMinutes)
		fmt.Printf("Database:   %s (%s)\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Thumbnails: %s\n", cfg.Thumbnails.Type)
		return nil
	},
}

// sync command

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one catalog reconciliation pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Sync(printSink())
	},
}

// watch command

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run reconciliation passes on the configured cooldown until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		err = a.Watch(ctx, printSink())
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

// dups command

var dupsCmd = &cobra.Command{
	Use:   "dups",
	Short: "List duplicate assets by content hash",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		groups, err := a.FindDuplicates()
		if err != nil {
			return err
		}
		if len(groups) == 0 {
			fmt.Println("No duplicates found.")
			return nil
		}

		for i, group := range groups {
			fmt.Printf("Group %d (%s, %s each):\n", i+1,
				group[0].Hash[:16], humanize.Bytes(uint64(group[0].FileSize)))
			for _, asset := range group {
				fmt.Printf("  %s (created %s)\n", asset.FullPath(),
					asset.FileCreatedAt.Format("2006-01-02 15:04:05"))
			}
		}
		return nil
	},
}

// thumb command

var thumbOutput string

var thumbCmd = &cobra.Command{
	Use:   "thumb <image-path>",
	Short: "Export the stored thumbnail of a catalogued image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		absPath, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		data, err := a.Thumbnail(filepath.Dir(absPath), filepath.Base(absPath))
		if err != nil {
			return err
		}

		out := thumbOutput
		if out == "" {
			out = "thumb_" + filepath.Base(absPath)
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("writing thumbnail: %w", err)
		}
		fmt.Printf("Thumbnail written to %s (%s)\n", out, humanize.Bytes(uint64(len(data))))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	thumbCmd.Flags().StringVarP(&thumbOutput, "output", "o", "", "output file path")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(dupsCmd)
	rootCmd.AddCommand(thumbCmd)
}
