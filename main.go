package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	loggerFactory = newLogger
)

var rootCmd = &cobra.Command{
	Use:   "trello-automation",
	Short: "Create Trello cards from free-form request text",
	Long: `Turns free-form business requests into Trello cards.

The text is sent to a Gemini model to extract a title, description, labels,
due date and priority; the card is then created on the configured board and
every run is recorded in the local automation log.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zap.ReplaceGlobals(loggerFactory())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ./config.toml)")

	rootCmd.AddCommand(serveCmd, createCardCmd, testConnectionCmd, listsCmd, labelsCmd, showLogCmd, showCardCmd)
}

func newLogger() *zap.Logger {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if levelStr == "" {
		levelStr = "debug"
	}
	level, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      true,
		Encoding:         "console",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}

// execute runs the CLI and flushes the logger whether or not the command failed.
func execute() error {
	err := rootCmd.Execute()
	_ = zap.L().Sync()
	return err
}
