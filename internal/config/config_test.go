package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_BASE_URL", "")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()
	if cfg.LLMBaseURL != "https://api.openai.com/v1" {
		t.Errorf("LLMBaseURL = %q, want OpenAI default", cfg.LLMBaseURL)
	}
	if cfg.LLMModel != "gpt-4o-mini" {
		t.Errorf("LLMModel = %q, want gpt-4o-mini", cfg.LLMModel)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("GITHUB_API_URL", "https://github.internal/api")
	t.Setenv("LLM_MODEL", "gpt-4o")
	t.Setenv("LOG_FORMAT", "json")

	cfg := Load()
	if cfg.GitHubToken != "ghp_test" {
		t.Errorf("GitHubToken = %q", cfg.GitHubToken)
	}
	if cfg.GitHubAPIURL != "https://github.internal/api" {
		t.Errorf("GitHubAPIURL = %q", cfg.GitHubAPIURL)
	}
	if cfg.LLMModel != "gpt-4o" {
		t.Errorf("LLMModel = %q", cfg.LLMModel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q", cfg.LogFormat)
	}
}

func TestLoadTrimsSurrealURL(t *testing.T) {
	t.Setenv("SURREAL_URL", "ws://localhost:8000/rpc")

	cfg := Load()
	if cfg.SurrealURL != "ws://localhost:8000" {
		t.Errorf("SurrealURL = %q, want /rpc stripped", cfg.SurrealURL)
	}
}
