package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gptchat/pkg/ai"
	"gptchat/pkg/chat"
	"gptchat/pkg/clipboard"
	"gptchat/pkg/config"
	"gptchat/pkg/logging"
	"gptchat/pkg/ui"
	"gptchat/pkg/version"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errNotTerminal = errors.New("gptchat needs an interactive terminal on stdout")

type options struct {
	configPath string
	apiKey     string
	org        string
	model      string
	logLevel   string
	theme      string
	dryRun     bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           version.AppName,
		Short:         "Chat with an OpenAI model from the terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts, os.Getenv)
			if err != nil {
				return err
			}
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errNotTerminal
			}
			return run(cmd.Context(), cfg)
		},
	}

	bindFlags(cmd, opts)
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func bindFlags(cmd *cobra.Command, opts *options) {
	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", config.GetConfigPath(), "path to the config file")
	flags.StringVar(&opts.apiKey, "api-key", "", "OpenAI API key (overrides config and "+config.EnvAPIKey+")")
	flags.StringVar(&opts.org, "org", "", "OpenAI organization id")
	flags.StringVar(&opts.model, "model", "", "model to chat with")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.StringVar(&opts.theme, "theme", "", "color theme: dark or light")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "answer locally without calling the API")
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.String())
		},
	}
}

// loadConfig layers the config file, environment and flags, in that order.
func loadConfig(cmd *cobra.Command, opts *options, getenv func(string) string) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyEnv(getenv)

	flags := cmd.Flags()
	if flags.Changed("api-key") {
		cfg.OpenAI.APIKey = opts.apiKey
	}
	if flags.Changed("org") {
		cfg.OpenAI.Organization = opts.org
	}
	if flags.Changed("model") {
		cfg.OpenAI.Model = opts.model
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("theme") {
		cfg.Theme = opts.theme
	}
	if opts.dryRun {
		cfg.LLMProvider = config.ProviderDryRun
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()

	logger, err := logging.Init(cfg)
	if err != nil {
		// Logging is best effort; the chat still works without a log file.
		logger.Warn("log_init_failed", "error", err)
	}

	provider, err := ai.GetProviderFromConfig(cfg)
	if err != nil {
		return err
	}

	timeout := time.Duration(cfg.OpenAI.APITimeoutSeconds) * time.Second
	dispatcher := chat.NewDispatcher(provider, cfg.OpenAI.Model, timeout)

	model := ui.NewModel(ui.Options{
		Context:       ctx,
		Session:       chat.NewSession(),
		Dispatcher:    dispatcher,
		Copier:        clipboard.New(os.Stdout),
		Theme:         cfg.Theme,
		TranscriptDir: cfg.TranscriptPath(),
	})

	slog.Info("app_start", "version", version.Summary(), "provider", cfg.LLMProvider, "model", cfg.OpenAI.Model)
	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running chat window: %w", err)
	}
	slog.Info("app_exit")
	return nil
}
