package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/avelasler/newsdesk/internal/config"
	"github.com/avelasler/newsdesk/internal/gateway"
	"github.com/avelasler/newsdesk/internal/logging"
	"github.com/avelasler/newsdesk/internal/news"
	"github.com/avelasler/newsdesk/internal/session"
	"github.com/avelasler/newsdesk/internal/tui"
	"github.com/avelasler/newsdesk/internal/view"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "newsdesk",
		Short: "Terminal client for the news portal",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClient()
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("api-url", defaults.GetString("api.base_url"), "Base URL of the collection store")
	cmd.PersistentFlags().String("session-path", defaults.GetString("session.path"), "Path of the persisted session file")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-path", defaults.GetString("log.path"), "Log file path (empty disables logging)")
	cmd.PersistentFlags().Int("page-size", defaults.GetInt("page.size"), "Articles per page")
	cmd.PersistentFlags().Int("preview-length", defaults.GetInt("preview.length"), "Preview length in characters")

	bindFlag(cmd, "api.base_url", "api-url")
	bindFlag(cmd, "session.path", "session-path")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "log.path", "log-path")
	bindFlag(cmd, "page.size", "page-size")
	bindFlag(cmd, "preview.length", "preview-length")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runClient() error {
	appConfig, err := config.LoadClient(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewFileLogger(appConfig.LogLevel, appConfig.LogPath)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	client, err := gateway.New(gateway.Config{
		BaseURL: appConfig.APIBaseURL,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	sessions, err := session.NewStore(appConfig.SessionPath)
	if err != nil {
		return err
	}

	comments, err := view.NewComments(view.CommentsConfig{
		Gateway:    client,
		Clock:      time.Now,
		IDProvider: news.NewTimestampIDProvider(time.Now),
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	editor, err := view.NewEditor(view.EditorConfig{
		Gateway: client,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	model := tui.NewModel(tui.ModelConfig{
		Gateway:  client,
		Session:  sessions,
		Comments: comments,
		Editor:   editor,
		Logger:   logger,
		Options: view.ListOptions{
			PageSize:      appConfig.PageSize,
			PreviewLength: appConfig.PreviewLength,
		},
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
