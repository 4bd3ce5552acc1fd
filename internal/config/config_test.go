package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("TIDY_SEPARATOR", "")
	t.Setenv("PROFILE_WORKERS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Convert.Separator != "." {
		t.Errorf("expected default separator '.', got %q", cfg.Convert.Separator)
	}
	if cfg.Profiling.Workers != 4 {
		t.Errorf("expected default workers 4, got %d", cfg.Profiling.Workers)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("TIDY_SEPARATOR", "__")
	t.Setenv("PROFILE_WORKERS", "8")
	t.Setenv("MAX_UPLOAD_ROWS", "500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != "9000" || cfg.Convert.Separator != "__" ||
		cfg.Profiling.Workers != 8 || cfg.Server.MaxUploadRows != 500 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("PROFILE_WORKERS", "0")
	if _, err := Load(); err == nil {
		t.Fatal("zero workers should fail validation")
	}
}
