package config

import "testing"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/lumivault")
	t.Setenv("SUPABASE_PROJECT_ID", "testproj")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d", cfg.ServerPort)
	}
	if cfg.StorageBucket != "health_documents" {
		t.Errorf("StorageBucket = %q", cfg.StorageBucket)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("OpenAIModel = %q", cfg.OpenAIModel)
	}
	if cfg.UploadMaxRetries != 2 {
		t.Errorf("UploadMaxRetries = %d", cfg.UploadMaxRetries)
	}
	if !cfg.IsDev() {
		t.Error("default environment must be development")
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SUPABASE_PROJECT_ID", "testproj")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoadRequiresStorageTarget(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/lumivault")
	t.Setenv("SUPABASE_PROJECT_ID", "")
	t.Setenv("STORAGE_BASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without a storage target")
	}
}

// A missing model credential must not prevent startup.
func TestLoadToleratesMissingOpenAIKey(t *testing.T) {
	setRequired(t)
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OpenAIAPIKey != "" {
		t.Errorf("OpenAIAPIKey = %q", cfg.OpenAIAPIKey)
	}
}

func TestLoadStorageBaseURLAlone(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/lumivault")
	t.Setenv("SUPABASE_PROJECT_ID", "")
	t.Setenv("STORAGE_BASE_URL", "http://127.0.0.1:9000")

	if _, err := Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
}
