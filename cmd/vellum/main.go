package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vellum/internal/app"
	"vellum/internal/config"
)

var (
	version   = "0.2.0"
	cfgFile   string
	vaultPath string
	modelName string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vellum",
		Short: "AI assistant for your Markdown vault",
		Long: `Vellum is a terminal chat assistant that lives inside a folder of
Markdown notes. It reads, searches and drafts edits to your documents
through an LLM provider, and every mutation waits for your approval.`,
		SilenceUsage: true,
		RunE:         runApp,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/vellum/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&vaultPath, "vault", "", "vault directory (overrides the configured path)")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "", "model to use (overrides the configured model)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("vellum version %s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runApp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Version = version

	if vaultPath != "" {
		cfg.Vault.Path = vaultPath
	}
	if modelName != "" {
		cfg.Provider.Model = modelName
	}
	if cfg.Vault.Path == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.Vault.Path = wd
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	application, err := app.New(cfg, version)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	return application.Run()
}
