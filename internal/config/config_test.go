package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"CIFP_INPUT", "CIFP_DB", "CIFP_POSTGRES_DSN",
		"CIFP_BATCH_SIZE", "CIFP_AIRAC_CYCLE", "CIFP_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.InputPath != "FAACIFP18" {
		t.Errorf("InputPath = %q, want FAACIFP18", cfg.InputPath)
	}
	if cfg.DBPath != "navdata.sqlite" {
		t.Errorf("DBPath = %q, want navdata.sqlite", cfg.DBPath)
	}
	if cfg.BatchSize != 10000 {
		t.Errorf("BatchSize = %d, want 10000", cfg.BatchSize)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.PostgresDSN != "" || cfg.AiracCycle != "" {
		t.Errorf("PostgresDSN/AiracCycle = %q/%q, want empty", cfg.PostgresDSN, cfg.AiracCycle)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CIFP_INPUT", "/data/cifp/FAACIFP18")
	t.Setenv("CIFP_BATCH_SIZE", "500")
	t.Setenv("CIFP_AIRAC_CYCLE", "2513")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.InputPath != "/data/cifp/FAACIFP18" {
		t.Errorf("InputPath = %q", cfg.InputPath)
	}
	if cfg.BatchSize != 500 {
		t.Errorf("BatchSize = %d, want 500", cfg.BatchSize)
	}
	if cfg.AiracCycle != "2513" {
		t.Errorf("AiracCycle = %q, want 2513", cfg.AiracCycle)
	}
}

func TestLoadRejectsBadBatchSize(t *testing.T) {
	for _, v := range []string{"abc", "0", "-5"} {
		t.Setenv("CIFP_BATCH_SIZE", v)
		if _, err := Load(); err == nil {
			t.Errorf("Load with CIFP_BATCH_SIZE=%q should fail", v)
		}
	}
}
