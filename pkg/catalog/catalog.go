// Package catalog holds the static agent catalog: agent metadata and the
// prefilled example prompts shown for each enabled agent. A catalog is
// built once at startup and never mutated afterwards.
package catalog

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Example is a pre-authored prompt that steers users toward an agent.
type Example struct {
	Text  string `yaml:"text"`
	Agent string `yaml:"agent"`
}

// Option is the prefilled suggestion block for one agent.
type Option struct {
	Title    string    `yaml:"title"`
	Icon     string    `yaml:"icon"`
	Examples []Example `yaml:"examples"`
}

// Agent describes a backend agent.
type Agent struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Prefilled   Option `yaml:"prefilled"`
}

// Catalog is an immutable lookup table keyed by agent identifier.
type Catalog struct {
	agents map[string]Agent
	order  []string
}

// File is the on-disk catalog layout.
type File struct {
	Agents []Agent `yaml:"agents"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the compiled-in catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCat = New(builtinAgents)
	})
	return defaultCat
}

// New builds a catalog from a list of agents. Later duplicates replace
// earlier ones but keep the first position.
func New(agents []Agent) *Catalog {
	c := &Catalog{agents: make(map[string]Agent, len(agents))}
	for _, a := range agents {
		if _, exists := c.agents[a.ID]; !exists {
			c.order = append(c.order, a.ID)
		}
		c.agents[a.ID] = cloneAgent(a)
	}
	return c
}

// Load reads a YAML catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	for i, a := range f.Agents {
		if a.ID == "" {
			return nil, fmt.Errorf("catalog agent %d has an empty id", i)
		}
	}

	return New(f.Agents), nil
}

// Agent looks up an agent by identifier.
func (c *Catalog) Agent(id string) (Agent, bool) {
	a, ok := c.agents[id]
	if !ok {
		return Agent{}, false
	}
	return cloneAgent(a), true
}

// Option returns the prefilled block for an agent. Agents without
// examples have no option.
func (c *Catalog) Option(id string) (Option, bool) {
	a, ok := c.agents[id]
	if !ok || len(a.Prefilled.Examples) == 0 {
		return Option{}, false
	}
	return cloneAgent(a).Prefilled, true
}

// DisplayName returns the agent's human name, or "Undefined Agent".
func (c *Catalog) DisplayName(id string) string {
	if a, ok := c.agents[id]; ok && a.Name != "" {
		return a.Name
	}
	return "Undefined Agent"
}

// IDs returns agent identifiers in catalog order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// Section is a resolved prefilled block, ready to render.
type Section struct {
	AgentID string
	Option
}

// Sections resolves enabled agent ids to prefilled blocks, preserving the
// given order. Ids the catalog does not know are skipped.
func (c *Catalog) Sections(enabled []string) []Section {
	sections := make([]Section, 0, len(enabled))
	for _, id := range enabled {
		opt, ok := c.Option(id)
		if !ok {
			continue
		}
		sections = append(sections, Section{AgentID: id, Option: opt})
	}
	return sections
}

func cloneAgent(a Agent) Agent {
	a.Prefilled.Examples = append([]Example(nil), a.Prefilled.Examples...)
	return a
}
