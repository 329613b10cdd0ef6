// Package app wires the wizard engine, storage and Telegram transport
// into a runnable bot.
package app

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/finflow/finflow-bot/core/config"
	coredatabase "github.com/finflow/finflow-bot/core/database"
	"github.com/finflow/finflow-bot/internal/wizard"
)

// WizardConfig narrows which article codes each wizard branch offers.
// Empty lists fall back to the built-in production ranges.
type WizardConfig struct {
	IncomeArticleCodes             []int `yaml:"income_article_codes" envconfig:"INCOME_ARTICLE_CODES"`
	ProjectOutcomeArticleCodes     []int `yaml:"project_outcome_article_codes" envconfig:"PROJECT_OUTCOME_ARTICLE_CODES"`
	FinancialOutcomeArticleCodes   []int `yaml:"financial_outcome_article_codes" envconfig:"FINANCIAL_OUTCOME_ARTICLE_CODES"`
	OperationalOutcomeArticleCodes []int `yaml:"operational_outcome_article_codes" envconfig:"OPERATIONAL_OUTCOME_ARTICLE_CODES"`
}

// Codes converts the configured lists into the engine's filter form.
func (w WizardConfig) Codes() wizard.Codes {
	return wizard.Codes{
		Income:             w.IncomeArticleCodes,
		ProjectOutcome:     w.ProjectOutcomeArticleCodes,
		FinancialOutcome:   w.FinancialOutcomeArticleCodes,
		OperationalOutcome: w.OperationalOutcomeArticleCodes,
	}
}

// Config aggregates core bot settings with the finance-specific ones.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Wizard   WizardConfig        `yaml:"wizard"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// LoadConfig reads configuration from a YAML file, then applies
// environment overrides.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	return &cfg, nil
}
