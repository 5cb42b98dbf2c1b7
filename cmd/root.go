package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/killallgit/backscroll/pkg/config"
	"github.com/killallgit/backscroll/pkg/history"
	"github.com/killallgit/backscroll/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "backscroll <server/target>",
	Short: "Scroll through chat history",
	Long: `Browse a conversation's history in the terminal. The view follows new
messages while at the bottom and loads older history as you scroll up.`,
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: initConfig,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := history.ParseKey(args[0])
		if err != nil {
			return err
		}

		live, _ := cmd.Flags().GetDuration("live")
		demo, _ := cmd.Flags().GetBool("demo")
		jump, _ := cmd.Flags().GetString("jump")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return RunApplication(ctx, &AppConfig{
			Config: config.Get(),
			Key:    key,
			Jump:   history.Hash(jump),
			Live:   live,
			Demo:   demo,
		})
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .backscroll/settings.yaml)")

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("history", "", "history database path, or :memory:")
	viper.BindPFlag("history.path", rootCmd.PersistentFlags().Lookup("history"))

	rootCmd.Flags().String("jump", "", "open scrolled to the message with this hash")
	rootCmd.Flags().Duration("live", 0, "append a generated message at this interval")
	rootCmd.Flags().Bool("demo", false, "seed generated history into an empty conversation and backfill from it")
	rootCmd.Flags().Bool("no-markdown", false, "render message text without markdown")
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if noMarkdown, _ := cmd.Flags().GetBool("no-markdown"); noMarkdown {
		cfg.Display.Markdown = false
	}

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.WithComponent("cmd").Debug("configuration loaded",
		"file", config.GetConfigFileUsed(),
		"history", cfg.History.Path,
		"started", time.Now().Format(time.RFC3339))
	return nil
}
