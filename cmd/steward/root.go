package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/steward/internal/client"
	"github.com/hyperengineering/steward/internal/config"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var (
	flagConfig  string
	flagBaseURL string
	flagProfile string
	jsonOutput  bool
	assumeYes   bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "steward",
	Short:         "Steward - agentic profile management console",
	Long:          "Operate agentic AI profiles: goals, memory, schedules, tasks, messaging, self-learning, and live monitoring.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if flagConfig != "" {
			cfg, err = config.LoadFromFile(flagConfig)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		if flagBaseURL != "" {
			cfg.API.BaseURL = flagBaseURL
		}
		initLogger(cfg.Log)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"Config file path (overrides STEWARD_CONFIG_PATH)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "",
		"Backend base URL (overrides config and STEWARD_BASE_URL)")
	rootCmd.PersistentFlags().StringVarP(&flagProfile, "profile", "p", "",
		"Agentic profile ID (overrides config default)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false,
		"Skip confirmation prompts")

	rootCmd.AddCommand(goalsCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(memoryCmd)
	rootCmd.AddCommand(knowledgeCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(schedulesCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(promptsCmd)
	rootCmd.AddCommand(messagesCmd)
	rootCmd.AddCommand(threadsCmd)
	rootCmd.AddCommand(learningCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(controlCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
}

func initLogger(lc config.LogConfig) {
	opts := &slog.HandlerOptions{Level: parseLogLevel(lc.Level)}
	var handler slog.Handler
	if lc.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// api builds the backend client from the loaded configuration.
func api() *client.Client {
	return client.New(cfg.API.BaseURL, client.StaticToken(cfg.API.Token),
		client.WithTimeout(time.Duration(cfg.API.Timeout)))
}

// profileID resolves the target profile from --profile or config.
func profileID() (string, error) {
	if flagProfile != "" {
		return flagProfile, nil
	}
	if cfg.Console.Profile != "" {
		return cfg.Console.Profile, nil
	}
	return "", fmt.Errorf("no profile selected: pass --profile or set console.profile")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
