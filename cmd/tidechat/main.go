package main

import (
	"fmt"
	"os"

	"tidechat/internal/chat"
	"tidechat/internal/logging"
	"tidechat/internal/tui"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var (
	flagConfig string
	flagTheme  string
	flagLang   string
)

func loadConfig() (chat.Config, error) {
	_ = godotenv.Load()

	path := flagConfig
	if path == "" {
		path = chat.DefaultConfigPath()
	}
	cfg, err := chat.LoadConfig(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("TIDECHAT_ENDPOINT"); v != "" {
		cfg.EndpointURL = v
	}
	if v := os.Getenv("TIDECHAT_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if flagLang != "" {
		cfg.Language = flagLang
	} else if v := os.Getenv("TIDECHAT_LANG"); v != "" {
		cfg.Language = v
	}
	if flagTheme != "" {
		cfg.Theme = flagTheme
	}
	if cfg.StateDir == "" {
		cfg.StateDir = chat.DefaultStateRoot()
	}
	return cfg, nil
}

func openStore(cfg chat.Config) (*chat.Store, chat.Locale, *log.Logger, error) {
	loc := chat.LocaleFor(cfg.Language)
	logger := logging.Setup(cfg.StateDir, cfg.LogLevel)
	store, err := chat.Open(cfg.StateDir, loc, logger)
	return store, loc, logger, err
}

func main() {
	root := &cobra.Command{
		Use:     "tidechat",
		Short:   "Themed terminal chat client for a remote workflow endpoint",
		Long:    "tidechat is a themed terminal chat client. Conversations are kept locally;\nmessages are forwarded to a configured workflow endpoint and replies are\nrendered as markdown.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.EndpointURL == "" {
				return fmt.Errorf("no endpoint configured: set endpoint_url in %s or TIDECHAT_ENDPOINT", chat.DefaultConfigPath())
			}

			store, loc, logger, err := openStore(cfg)
			if err != nil {
				return err
			}
			client := chat.NewClient(cfg.EndpointURL, cfg.APIKey, loc, logger)

			p := tea.NewProgram(tui.New(store, client, tui.NewTheme(cfg.Theme)), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path")
	root.Flags().StringVar(&flagTheme, "theme", "", "theme: tide|ember|no-color")
	root.PersistentFlags().StringVar(&flagLang, "lang", "", "language: en|es")

	exportCmd := &cobra.Command{
		Use:   "export [dir]",
		Short: "Export the current conversation as a text file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, _, _, err := openStore(cfg)
			if err != nil {
				return err
			}
			dir := ""
			if len(args) > 0 {
				dir = args[0]
			}
			path, err := store.ExportToFile(store.Current(), dir)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
	root.AddCommand(exportCmd)

	backgroundCmd := &cobra.Command{
		Use:   "background [image file]",
		Short: "Set or clear the stored background image",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, _, _, err := openStore(cfg)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return store.ClearBackground()
			}
			uri, err := chat.EncodeBackgroundFile(args[0])
			if err != nil {
				return err
			}
			return store.SetBackground(uri)
		},
	}
	root.AddCommand(backgroundCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
