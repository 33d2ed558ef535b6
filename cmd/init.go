package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shawkym/moragents-tui/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new moragents configuration",
	Long: `Create a new moragents configuration file interactively.
This command will guide you through pointing the client at a backend and
choosing where local state is kept.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringP("output", "o", defaultConfigPath(), "Output configuration file path")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".moragents.yaml"
	}
	return filepath.Join(home, ".moragents.yaml")
}

func section(title string) {
	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println("  " + title)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()
}

func runInit(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("╔═══════════════════════════════════════════════════╗")
	fmt.Println("║          moragents Configuration Setup            ║")
	fmt.Println("╚═══════════════════════════════════════════════════╝")
	fmt.Println()

	if _, err := os.Stat(outputPath); err == nil {
		fmt.Printf("⚠️  Configuration file '%s' already exists.\n", outputPath)
		if !promptYesNo(reader, "Overwrite?", false) {
			fmt.Println("❌ Canceled.")
			return nil
		}
		fmt.Println()
	}

	cfg := config.NewDefaultConfig()

	section("Backend")
	cfg.Backend.URL = promptString(reader, fmt.Sprintf("Backend URL (default: %s)", cfg.Backend.URL), cfg.Backend.URL)
	cfg.Backend.Timeout = time.Duration(promptInt(reader, "Request timeout (seconds)", int(cfg.Backend.Timeout/time.Second))) * time.Second

	section("Local Storage")
	cfg.Storage.CredentialsDB = promptString(reader, fmt.Sprintf("Credentials database (default: %s)", cfg.Storage.CredentialsDB), cfg.Storage.CredentialsDB)
	cfg.Storage.TranscriptDir = promptString(reader, fmt.Sprintf("Transcript directory (default: %s)", cfg.Storage.TranscriptDir), cfg.Storage.TranscriptDir)

	section("Display")
	cfg.UI.MarkdownStyle = promptChoice(reader, "Markdown style", []string{"dark", "light", "notty", "dracula", "tokyo-night"}, 1)
	cfg.UI.WordWrap = promptInt(reader, "Word wrap width", cfg.UI.WordWrap)

	section("Logging and Metrics")
	cfg.Logging.Level = promptChoice(reader, "Log level", []string{"debug", "info", "warn", "error"}, 2)
	cfg.Logging.File = promptString(reader, fmt.Sprintf("Log file (default: %s)", cfg.Logging.File), cfg.Logging.File)
	cfg.Metrics.Enabled = promptYesNo(reader, "Expose Prometheus metrics while chatting?", false)
	if cfg.Metrics.Enabled {
		cfg.Metrics.Addr = promptString(reader, fmt.Sprintf("Metrics address (default: %s)", cfg.Metrics.Addr), cfg.Metrics.Addr)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	section("Saving Configuration")

	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := cfg.SaveConfig(outputPath); err != nil {
		return err
	}

	fmt.Printf("✅ Configuration saved to: %s\n", outputPath)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Run: moragents doctor")
	fmt.Println("  2. Add X API keys: moragents credentials set")
	fmt.Println("  3. Start chatting: moragents chat")
	fmt.Println()

	return nil
}

func promptString(reader *bufio.Reader, prompt, defaultValue string) string {
	if defaultValue != "" {
		fmt.Printf("%s: ", prompt)
	} else {
		fmt.Printf("%s (leave empty to skip): ", prompt)
	}

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultValue
	}
	return input
}

func promptInt(reader *bufio.Reader, prompt string, defaultValue int) int {
	for {
		fmt.Printf("%s (default: %d): ", prompt, defaultValue)
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		if input == "" {
			return defaultValue
		}

		value, err := strconv.Atoi(input)
		if err != nil {
			fmt.Printf("  ❌ Invalid number. Please try again.\n")
			continue
		}
		return value
	}
}

func promptYesNo(reader *bufio.Reader, prompt string, defaultValue bool) bool {
	defaultStr := "y/N"
	if defaultValue {
		defaultStr = "Y/n"
	}

	for {
		fmt.Printf("%s [%s]: ", prompt, defaultStr)
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(strings.ToLower(input))

		if input == "" {
			return defaultValue
		}

		if input == "y" || input == "yes" {
			return true
		}
		if input == "n" || input == "no" {
			return false
		}

		fmt.Println("  ❌ Please answer 'y' or 'n'")
	}
}

func promptChoice(reader *bufio.Reader, prompt string, choices []string, defaultIndex int) string {
	for i, c := range choices {
		fmt.Printf("  %d. %s\n", i+1, c)
	}
	for {
		fmt.Printf("%s (1-%d, default: %d): ", prompt, len(choices), defaultIndex)
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		if input == "" {
			return choices[defaultIndex-1]
		}

		choice, err := strconv.Atoi(input)
		if err != nil || choice < 1 || choice > len(choices) {
			fmt.Printf("  ❌ Please select a number between 1 and %d\n", len(choices))
			continue
		}

		return choices[choice-1]
	}
}
