package main

import (
	"errors"
	"path/filepath"
	"testing"

	"audiomerge/internal/services"
	"audiomerge/internal/testsupport"
)

func TestLogsPrintsTail(t *testing.T) {
	env := setupCLITestEnv(t)
	logDir := filepath.Join(env.baseDir, "logs")
	env.cfg.Paths.LogDir = logDir
	writeTestConfig(t, env.configPath, env.cfg)
	testsupport.WriteText(t, filepath.Join(logDir, "audiomerge.log"), "one\ntwo\nthree\n")

	out, err := env.run(t, "logs", "-n", "2")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if out != "two\nthree\n" {
		t.Fatalf("logs output = %q", out)
	}
}

func TestLogsRequiresLogDir(t *testing.T) {
	env := setupCLITestEnv(t)
	_, err := env.run(t, "logs")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
