package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/shawkym/moragents-tui/pkg/catalog"
	"github.com/shawkym/moragents-tui/pkg/config"
	"github.com/shawkym/moragents-tui/pkg/conversation"
	"github.com/shawkym/moragents-tui/pkg/log"
	"github.com/shawkym/moragents-tui/pkg/message"
	"github.com/shawkym/moragents-tui/pkg/metrics"
	"github.com/shawkym/moragents-tui/pkg/render"
	"github.com/shawkym/moragents-tui/pkg/tui"
)

var (
	watchConfig    bool
	saveTranscript bool
	resumePath     string
	selectedAgent  string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat screen",
	Long: `Open the full-screen chat with the crypto-assistant agents.

When the conversation is empty, example prompts for every enabled agent are
shown; pick one with the arrow keys and enter to copy it into the input.
Press ctrl+k to manage X API credentials and f1 for all key bindings.

Examples:
  moragents chat                                  # Start a new conversation
  moragents chat --watch-config                   # Follow backend url changes
  moragents chat --resume ~/.moragents/transcripts/transcript-20260101-120000.json`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().BoolVar(&watchConfig, "watch-config", false, "Reload the config file when it changes")
	chatCmd.Flags().BoolVar(&saveTranscript, "save-transcript", true, "Save the conversation when the chat closes")
	chatCmd.Flags().StringVar(&resumePath, "resume", "", "Resume a saved transcript")
	chatCmd.Flags().StringVar(&selectedAgent, "agent", "", "Agent name shown in message headers (overrides config)")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, configPath, err := loadConfig()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a rotating file.
	closer, err := log.InitFileLogger(log.FileOptions{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	}, log.ParseLevel(cfg.Logging.Level))
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		m = metrics.NewMetrics(reg)
		exp, err := metrics.Listen(cfg.Metrics.Addr, reg)
		if err != nil {
			return err
		}
		go func() {
			if err := exp.Serve(); err != nil {
				log.WithError(err).Error("metrics server stopped")
			}
		}()
		defer func() {
			stopCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			_ = exp.Close(stopCtx)
		}()
	}

	cat := catalog.Default()
	if cfg.UI.CatalogFile != "" {
		cat, err = catalog.Load(cfg.UI.CatalogFile)
		if err != nil {
			return err
		}
	}

	renderer, err := render.New(render.Config{
		Style:    cfg.UI.MarkdownStyle,
		WordWrap: cfg.UI.WordWrap,
		Catalog:  cat,
	})
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	c := newClient(cfg, m)
	creds, store, err := openCredentials(cfg, c, m)
	if err != nil {
		return err
	}
	defer store.Close()

	agent := cfg.UI.SelectedAgent
	if selectedAgent != "" {
		agent = selectedAgent
	}

	chatID := uuid.NewString()
	startedAt := time.Now()
	var seed []message.ChatMessage
	if resumePath != "" {
		state, err := conversation.LoadState(resumePath)
		if err != nil {
			return err
		}
		seed = state.Messages
		if state.ChatID != "" {
			chatID = state.ChatID
		}
		if selectedAgent == "" && state.SelectedAgent != "" {
			agent = state.SelectedAgent
		}
		if !state.Metadata.StartedAt.IsZero() {
			startedAt = state.Metadata.StartedAt
		}
	}

	log.WithFields(map[string]interface{}{
		"chat_id":     chatID,
		"backend_url": cfg.Backend.URL,
		"resumed":     resumePath != "",
		"messages":    len(seed),
	}).Info("starting chat")

	model, err := tui.NewModel(tui.Options{
		Context:       ctx,
		Backend:       c,
		Credentials:   creds,
		Renderer:      renderer,
		Catalog:       cat,
		Metrics:       m,
		SelectedAgent: agent,
		ChatID:        chatID,
		Messages:      seed,
	})
	if err != nil {
		return err
	}
	p := tui.NewProgram(model)

	if watchConfig && configPath != "" {
		watcher, err := config.NewWatcher(configPath)
		if err != nil {
			log.WithError(err).Warn("failed to create config watcher")
		} else {
			watcher.OnChange(func(oldConfig, newConfig *config.Config) {
				log.WithFields(map[string]interface{}{
					"old_backend_url": oldConfig.Backend.URL,
					"new_backend_url": newConfig.Backend.URL,
				}).Info("configuration file changed")
				p.Send(tui.ConfigReloadedMsg{Config: newConfig})
			})
			go watcher.Start()
			defer watcher.Stop()
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			log.Info("terminated, closing chat")
			cancel()
			p.Quit()
		case <-ctx.Done():
		}
	}()

	messages, err := tui.Run(p)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	if saveTranscript && len(messages) > 0 {
		state := conversation.NewState(chatID, agent, messages, startedAt)
		path := filepath.Join(cfg.Storage.TranscriptDir, conversation.GenerateStateFileName())
		if err := state.Save(path); err != nil {
			log.WithError(err).Error("failed to save transcript")
			fmt.Fprintf(os.Stderr, "Warning: failed to save transcript: %v\n", err)
		} else {
			fmt.Printf("Transcript saved to %s\n", path)
		}
	}
	return nil
}
