package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmllorens/cartero/app"
	"github.com/jmllorens/cartero/config"
	sentrypkg "github.com/jmllorens/cartero/internal/sentry"
	"github.com/jmllorens/cartero/log"
)

var (
	version       = "0.3.0"
	folderFlag    string
	mailboxesFlag bool
	multipleFlag  bool
	maskFlag      string
	rootCmd       = &cobra.Command{
		Use:   "cartero",
		Short: "cartero - browse directories and mailboxes, print the picked paths.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg := config.LoadConfig()
			if err := sentrypkg.Init(version, cfg.IsTelemetryEnabled()); err != nil {
				// Non-fatal: sentry failure should not prevent startup
				_ = err
			}
			defer sentrypkg.Flush()
			defer sentrypkg.RecoverPanic()

			log.Initialize()
			defer log.Close()

			if maskFlag != "" {
				if err := cfg.Set("mask", maskFlag); err != nil {
					return fmt.Errorf("invalid mask: %w", err)
				}
			}

			app.Version = version
			sentrypkg.SetContext(mailboxesFlag, multipleFlag)

			selected, err := app.Run(ctx, cfg, app.Options{
				File:      folderFlag,
				Mailboxes: mailboxesFlag,
				Multiple:  multipleFlag,
			})
			if err != nil {
				return err
			}
			// The picked paths are the program's output; everything else
			// stays off stdout so the result is pipeable.
			for _, f := range selected {
				fmt.Println(f)
			}
			return nil
		},
	}

	debugCmd = &cobra.Command{
		Use:   "debug",
		Short: "Print debug information like config paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize()
			defer log.Close()

			cfg := config.LoadConfig()

			configDir, err := config.GetConfigDir()
			if err != nil {
				return fmt.Errorf("failed to get config directory: %w", err)
			}
			configJson, _ := json.MarshalIndent(cfg, "", "  ")

			fmt.Printf("Config: %s\n%s\n", filepath.Join(configDir, config.ConfigFileName), configJson)

			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of cartero",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cartero version %s\n", version)
		},
	}
)

func init() {
	rootCmd.Flags().StringVarP(&folderFlag, "folder", "f", "",
		"Directory or file to start the browser at")
	rootCmd.Flags().BoolVar(&mailboxesFlag, "mailboxes", false,
		"Start on the mailbox list instead of a directory")
	rootCmd.Flags().BoolVar(&multipleFlag, "multiple", false,
		"Allow tagging several entries; all tagged paths are printed")
	rootCmd.Flags().StringVar(&maskFlag, "mask", "",
		"File mask to apply to directory listings for this run")

	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
