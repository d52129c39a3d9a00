package config

import (
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "host=localhost user=test password=test dbname=test port=5432 sslmode=disable")
	t.Setenv("ASP_SFTP_HOST", "sftp.asp.test")
	t.Setenv("ASP_SFTP_USER", "riae")
	t.Setenv("ASP_SFTP_PASSWORD", "secret")
	t.Setenv("ASP_SFTP_REMOTE_DIR", "/depot")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SFTPPort != 22 {
		t.Errorf("SFTPPort = %d, want 22", cfg.SFTPPort)
	}
	if cfg.UploadChunkSize != 700 {
		t.Errorf("UploadChunkSize = %d, want 700", cfg.UploadChunkSize)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
	}
	if cfg.IntakeConcurrency != 4 {
		t.Errorf("IntakeConcurrency = %d, want 4", cfg.IntakeConcurrency)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ASP_SFTP_PORT", "2222")
	t.Setenv("UPLOAD_CHUNK_SIZE", "100")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SFTPPort != 2222 {
		t.Errorf("SFTPPort = %d, want 2222", cfg.SFTPPort)
	}
	if cfg.UploadChunkSize != 100 {
		t.Errorf("UploadChunkSize = %d, want 100", cfg.UploadChunkSize)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ASP_SFTP_HOST", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing ASP_SFTP_HOST")
	}

	want := "Your environment is missing ASP_SFTP_HOST to run this command."
	if err.Error() != want {
		t.Fatalf("error = %q, want %q", err.Error(), want)
	}
}

func TestLoad_MissingCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ASP_SFTP_PASSWORD", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}

	want := "Your environment is missing ASP_SFTP_PASSWORD to run this command."
	if err.Error() != want {
		t.Fatalf("error = %q, want %q", err.Error(), want)
	}
}
