package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shawkym/moragents-tui/pkg/catalog"
	"github.com/shawkym/moragents-tui/pkg/log"
)

var (
	listAll  bool
	listJSON bool
)

// agentsCmd represents the agents command
var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Inspect the backend agents",
	Long: `Inspect the agents enabled on the backend and the example prompts
offered for each of them.

Examples:
  moragents agents list          # Agents enabled on the backend
  moragents agents list --all    # Every agent in the catalog
  moragents agents list --json   # Machine-readable output`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var agentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List enabled agents and their example prompts",
	RunE:  runAgentsList,
}

func init() {
	rootCmd.AddCommand(agentsCmd)
	agentsCmd.AddCommand(agentsListCmd)

	agentsListCmd.Flags().BoolVar(&listAll, "all", false, "List the whole catalog instead of querying the backend")
	agentsListCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}

// AgentListJSON represents an agent in JSON output
type AgentListJSON struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Title       string   `json:"title,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	Known       bool     `json:"known"`
}

func runAgentsList(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	cat := catalog.Default()
	if cfg.UI.CatalogFile != "" {
		if cat, err = catalog.Load(cfg.UI.CatalogFile); err != nil {
			return err
		}
	}

	ids := cat.IDs()
	if !listAll {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
		defer cancel()

		ids, err = newClient(cfg, nil).AvailableAgents(ctx)
		if err != nil {
			log.WithError(err).WithField("backend_url", cfg.Backend.URL).Error("failed to fetch available agents")
			return fmt.Errorf("failed to fetch available agents from %s: %w", cfg.Backend.URL, err)
		}
	}

	agents := make([]AgentListJSON, 0, len(ids))
	for _, id := range ids {
		entry := AgentListJSON{ID: id, Name: cat.DisplayName(id)}
		if a, ok := cat.Agent(id); ok {
			entry.Known = true
			entry.Description = a.Description
		}
		if opt, ok := cat.Option(id); ok {
			entry.Title = strings.TrimSpace(opt.Title + " " + opt.Icon)
			for _, ex := range opt.Examples {
				entry.Examples = append(entry.Examples, ex.Text)
			}
		}
		agents = append(agents, entry)
	}

	if listJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(agents)
	}

	title := "Enabled Agents"
	if listAll {
		title = "Agent Catalog"
	}
	fmt.Printf("\n%s\n", title)
	fmt.Println(strings.Repeat("=", 70))

	if len(agents) == 0 {
		fmt.Println("\nNo agents enabled.")
		fmt.Println()
		return nil
	}

	for _, a := range agents {
		fmt.Printf("\n%s (%s)\n", a.Name, a.ID)
		if a.Description != "" {
			fmt.Printf("   %s\n", a.Description)
		}
		if !a.Known {
			fmt.Println("   (not in catalog, no suggestions shown)")
			continue
		}
		if a.Title != "" {
			fmt.Printf("   Suggestions: %s\n", a.Title)
		}
		for _, ex := range a.Examples {
			fmt.Printf("     - %s\n", ex)
		}
	}
	fmt.Println()
	return nil
}
