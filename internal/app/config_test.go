package app

import (
	"os"
	"path/filepath"
	"testing"
)

const testConfigYAML = `telegram:
  token: "123:abc"
  run_mode: longpoll
database:
  host: localhost
  port: "5432"
  user: finflow
  name: finflow
wizard:
  income_article_codes: [1, 2]
  project_outcome_article_codes: [3, 4]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, testConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.CoreConfig() == nil {
		t.Fatal("CoreConfig is nil")
	}
	if got := cfg.Core.Telegram.Token; got != "123:abc" {
		t.Errorf("token = %q", got)
	}
	if got := cfg.Database.Host; got != "localhost" {
		t.Errorf("database host = %q", got)
	}

	codes := cfg.Wizard.Codes()
	if len(codes.Income) != 2 || codes.Income[0] != 1 {
		t.Errorf("income codes = %v", codes.Income)
	}
	if len(codes.ProjectOutcome) != 2 || codes.ProjectOutcome[1] != 4 {
		t.Errorf("project outcome codes = %v", codes.ProjectOutcome)
	}
	if len(codes.FinancialOutcome) != 0 {
		t.Errorf("financial outcome codes = %v, want empty", codes.FinancialOutcome)
	}
}

func TestLoadConfigRejectsMissingToken(t *testing.T) {
	body := `telegram:
  run_mode: longpoll
`
	if _, err := LoadConfig(writeConfig(t, body)); err == nil {
		t.Fatal("expected error for missing token")
	}
}
