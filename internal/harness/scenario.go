package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one replayed conversation.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Bot is the username commands may be addressed to.
	// Defaults to DefaultBot.
	Bot string `yaml:"bot,omitempty"`

	// Seed fixes random article picks.
	Seed uint64 `yaml:"seed,omitempty"`

	// Subjects is how many labels every attached image needs.
	// Defaults to 1.
	Subjects int `yaml:"subjects,omitempty"`

	// Setup seeds codices before the first message.
	Setup []SetupCodex `yaml:"setup,omitempty"`

	Steps []Step `yaml:"steps"`

	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// SetupCodex creates a codex and fills it. An empty Codex fills the
// global codex instead of creating one.
type SetupCodex struct {
	Chat     int64             `yaml:"chat"`
	Codex    string            `yaml:"codex"`
	Articles map[string]string `yaml:"articles,omitempty"`
}

// Step sends one message.
type Step struct {
	Chat int64 `yaml:"chat"`

	// Kind is "group" (default), "private" or "none".
	Kind string `yaml:"kind,omitempty"`

	Text string `yaml:"text"`

	// Image attaches a small valid picture.
	Image bool `yaml:"image,omitempty"`

	// Expect is checked against the exchange. If nil, anything goes.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes the outcome of a step. Unset fields are not checked.
type Expect struct {
	Handled  *bool  `yaml:"handled,omitempty"`
	Reply    string `yaml:"reply,omitempty"`
	Contains string `yaml:"contains,omitempty"`

	// Error is a substring of the error the handler returned.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the final state of a run.
type Assertion struct {
	Type string `yaml:"type"`

	Chat  int64  `yaml:"chat,omitempty"`
	Codex string `yaml:"codex,omitempty"`

	// Articles is the exact article set (codex_articles).
	Articles map[string]string `yaml:"articles,omitempty"`

	// Names is the exact codex list (codex_list).
	Names []string `yaml:"names,omitempty"`

	// Count is the expected number of handled steps (handled_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertCodexArticles = "codex_articles"
	AssertCodexList     = "codex_list"
	AssertHandledCount  = "handled_count"
)

// DefaultBot is the bot username scenarios run under unless they set one.
const DefaultBot = "testbot"

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so that typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if s.Subjects < 0 {
		return fmt.Errorf("subjects must be non-negative")
	}

	for i, step := range s.Steps {
		if step.Text == "" {
			return fmt.Errorf("steps[%d]: text is required", i)
		}
		switch step.Kind {
		case "", "group", "private", "none":
		default:
			return fmt.Errorf("steps[%d]: unknown chat kind %q", i, step.Kind)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}

	return nil
}

func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertCodexArticles:
		if a.Articles == nil {
			return fmt.Errorf("assertions[%d]: articles is required for codex_articles (use {} for none)", index)
		}
	case AssertCodexList:
		if a.Names == nil {
			return fmt.Errorf("assertions[%d]: names is required for codex_list (use [] for none)", index)
		}
	case AssertHandledCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for handled_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
