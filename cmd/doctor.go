package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shawkym/moragents-tui/internal/version"
	"github.com/shawkym/moragents-tui/pkg/catalog"
	"github.com/shawkym/moragents-tui/pkg/config"
	"github.com/shawkym/moragents-tui/pkg/conversation"
	"github.com/shawkym/moragents-tui/pkg/credentials"
)

type SystemCheck struct {
	Name    string `json:"name"`
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Icon    string `json:"icon,omitempty"`
}

type DoctorOutput struct {
	SystemEnvironment []SystemCheck `json:"system_environment"`
	Configuration     []SystemCheck `json:"configuration"`
	Backend           []SystemCheck `json:"backend"`
	LocalState        []SystemCheck `json:"local_state"`
	Summary           DoctorSummary `json:"summary"`
}

type DoctorSummary struct {
	BackendReachable bool     `json:"backend_reachable"`
	EnabledAgents    []string `json:"enabled_agents,omitempty"`
	CredentialStatus string   `json:"credential_status"`
	Ready            bool     `json:"ready"`
}

var (
	doctorJSON bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, backend reachability and local state",
	Long:  `Doctor checks your configuration, whether the backend answers, which agents it enables and whether stored X credentials are synced.`,
	Run:   runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Output results in JSON format")
}

func okCheck(name, msg string) SystemCheck {
	return SystemCheck{Name: name, Status: true, Message: msg, Icon: "✅"}
}

func failCheck(name, msg string) SystemCheck {
	return SystemCheck{Name: name, Status: false, Message: msg, Icon: "❌"}
}

func infoCheck(name, msg string) SystemCheck {
	return SystemCheck{Name: name, Status: false, Message: msg, Icon: "ℹ️"}
}

func runDoctor(cmd *cobra.Command, args []string) {
	output := DoctorOutput{
		SystemEnvironment: performSystemChecks(),
	}

	cfg, path, err := loadConfig()
	if err != nil {
		output.Configuration = []SystemCheck{failCheck("Config File", err.Error())}
		cfg = config.NewDefaultConfig()
	} else {
		output.Configuration = performConfigChecks(cfg, path)
	}

	backendChecks, agents := performBackendChecks(cfg)
	output.Backend = backendChecks
	localChecks, credStatus := performLocalStateChecks(cfg)
	output.LocalState = localChecks

	output.Summary = DoctorSummary{
		BackendReachable: backendChecks[0].Status,
		EnabledAgents:    agents,
		CredentialStatus: credStatus,
		Ready:            err == nil && backendChecks[0].Status,
	}

	if doctorJSON {
		jsonOutput, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating JSON output: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(jsonOutput))
	} else {
		printHumanReadableOutput(output)
	}
}

func printChecks(title string, checks []SystemCheck) {
	fmt.Println("\n" + title)
	fmt.Println(strings.Repeat("-", 61))
	for _, check := range checks {
		fmt.Printf("  %s %s: %s\n", check.Icon, check.Name, check.Message)
	}
	fmt.Println()
}

func printHumanReadableOutput(output DoctorOutput) {
	fmt.Println("\n🔍 moragents Doctor - System Health Check")
	fmt.Println(strings.Repeat("=", 61))

	printChecks("📋 SYSTEM ENVIRONMENT", output.SystemEnvironment)
	printChecks("⚙️  CONFIGURATION", output.Configuration)
	printChecks("🌐 BACKEND", output.Backend)
	printChecks("💾 LOCAL STATE", output.LocalState)

	fmt.Println("\n" + strings.Repeat("=", 61))
	fmt.Printf("\n📊 SUMMARY\n")
	fmt.Printf("   Enabled Agents:    %d\n", len(output.Summary.EnabledAgents))
	fmt.Printf("   X Credentials:     %s\n", output.Summary.CredentialStatus)

	fmt.Println()
	if output.Summary.Ready {
		fmt.Println("✨ moragents is ready! Run 'moragents chat' to start.")
	} else {
		fmt.Println("⚠️  The backend is not reachable. Check backend.url or pass --backend-url.")
	}
	fmt.Println()
}

func performSystemChecks() []SystemCheck {
	checks := []SystemCheck{
		okCheck("Go Runtime", fmt.Sprintf("%s (%s/%s)", runtime.Version(), runtime.GOOS, runtime.GOARCH)),
		okCheck("Client", version.UserAgent()),
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		checks = append(checks, okCheck("Home Directory", homeDir))
	} else {
		checks = append(checks, failCheck("Home Directory", err.Error()))
	}

	return checks
}

func performConfigChecks(cfg *config.Config, path string) []SystemCheck {
	checks := []SystemCheck{}

	if path != "" {
		checks = append(checks, okCheck("Config File", path))
	} else {
		checks = append(checks, infoCheck("Config File", "No config file (use 'moragents init' to create one), using defaults"))
	}

	checks = append(checks, okCheck("Backend URL", cfg.Backend.URL))

	if cfg.UI.CatalogFile != "" {
		if cat, err := catalog.Load(cfg.UI.CatalogFile); err != nil {
			checks = append(checks, failCheck("Agent Catalog", err.Error()))
		} else {
			checks = append(checks, okCheck("Agent Catalog", fmt.Sprintf("%d agents from %s", len(cat.IDs()), cfg.UI.CatalogFile)))
		}
	} else {
		checks = append(checks, okCheck("Agent Catalog", fmt.Sprintf("built-in (%d agents)", len(catalog.Default().IDs()))))
	}

	if cfg.Metrics.Enabled {
		checks = append(checks, okCheck("Metrics", "served on "+cfg.Metrics.Addr))
	} else {
		checks = append(checks, infoCheck("Metrics", "disabled"))
	}

	return checks
}

// performBackendChecks always returns the reachability check first.
func performBackendChecks(cfg *config.Config) ([]SystemCheck, []string) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
	defer cancel()

	agents, err := newClient(cfg, nil).AvailableAgents(ctx)
	if err != nil {
		return []SystemCheck{failCheck("Reachable", err.Error())}, nil
	}

	checks := []SystemCheck{okCheck("Reachable", cfg.Backend.URL)}
	if len(agents) == 0 {
		checks = append(checks, infoCheck("Enabled Agents", "none"))
	} else {
		checks = append(checks, okCheck("Enabled Agents", strings.Join(agents, ", ")))
	}
	return checks, agents
}

func performLocalStateChecks(cfg *config.Config) ([]SystemCheck, string) {
	checks := []SystemCheck{}
	credStatus := "unknown"

	svc, store, err := openCredentials(cfg, nil, nil)
	if err != nil {
		checks = append(checks, failCheck("Credentials DB", err.Error()))
	} else {
		defer store.Close()
		checks = append(checks, okCheck("Credentials DB", cfg.Storage.CredentialsDB))

		state, err := svc.Status(context.Background())
		switch {
		case err != nil:
			checks = append(checks, failCheck("Credential Sync", err.Error()))
		case state.Status == credentials.StatusNone:
			credStatus = "not set"
			checks = append(checks, infoCheck("Credential Sync", "no credentials saved yet"))
		case state.Status == credentials.StatusSynced:
			credStatus = string(state.Status)
			checks = append(checks, okCheck("Credential Sync", "synced with backend"))
		default:
			credStatus = string(state.Status)
			msg := string(state.Status) + " (run 'moragents credentials sync')"
			if state.LastError != "" {
				msg += ": " + state.LastError
			}
			checks = append(checks, failCheck("Credential Sync", msg))
		}
	}

	states, err := conversation.ListStates(cfg.Storage.TranscriptDir)
	if err != nil {
		checks = append(checks, failCheck("Transcripts", err.Error()))
	} else {
		checks = append(checks, okCheck("Transcripts", fmt.Sprintf("%d saved in %s", len(states), cfg.Storage.TranscriptDir)))
	}

	return checks, credStatus
}
