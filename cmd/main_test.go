package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// testBinary is the vprefs executable built by TestMain. Tests that need a
// real process, a scrubbed environment or a fresh HOME run it directly.
var testBinary string

// TestMain compiles vprefs into a temporary directory before any test runs
// and removes it afterwards.
func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "vprefs-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	testBinary = filepath.Join(tmpDir, "vprefs")
	cmd := exec.Command("go", "build", "-o", testBinary, ".")
	cmd.Dir = "."
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("failed to build test binary: " + string(out))
	}

	os.Exit(m.Run())
}

// runVprefs runs the binary with HOME pointed at home and no VPREFS_*
// variables inherited from the caller.
func runVprefs(t *testing.T, home string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	cmd := exec.Command(testBinary, args...)
	cmd.Dir = home
	cmd.Env = []string{"HOME=" + home, "PATH=" + os.Getenv("PATH")}

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	exitCode = 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if err != nil {
		t.Fatalf("failed to run vprefs: %v", err)
	}

	return outBuf.String(), errBuf.String(), exitCode
}

func TestMain_RunError(t *testing.T) {
	origRun := run
	origExit := osExit
	defer func() {
		run = origRun
		osExit = origExit
	}()

	var gotCode int
	osExit = func(code int) { gotCode = code }
	run = func() error { return fmt.Errorf("something went wrong") }

	origStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	main()

	w.Close()
	os.Stderr = origStderr

	var buf bytes.Buffer
	buf.ReadFrom(r)

	if gotCode != 1 {
		t.Errorf("expected exit code 1, got %d", gotCode)
	}
	if !strings.Contains(buf.String(), "something went wrong") {
		t.Errorf("expected error on stderr, got: %s", buf.String())
	}
}

func TestMain_RunSuccess(t *testing.T) {
	origRun := run
	origExit := osExit
	defer func() {
		run = origRun
		osExit = origExit
	}()

	var gotCode int = -1
	osExit = func(code int) { gotCode = code }
	run = func() error { return nil }

	main()

	if gotCode != -1 {
		t.Errorf("expected osExit not to be called, but got code %d", gotCode)
	}
}

func TestRun_HelpFlag(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"vprefs", "--help"}

	if err := run(); err != nil {
		t.Errorf("run(--help) returned error: %v", err)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"vprefs", "nonexistent-command-xyz"}

	if err := run(); err == nil {
		t.Error("run(unknown command) should return error")
	}
}

func TestHelp(t *testing.T) {
	stdout, _, exitCode := runVprefs(t, t.TempDir(), "--help")

	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", exitCode)
	}
	if !strings.Contains(stdout, "Available Commands:") {
		t.Errorf("expected help to list available commands, got: %s", stdout)
	}
	for _, name := range []string{"get", "set", "unset", "list", "path", "version"} {
		if !strings.Contains(stdout, name) {
			t.Errorf("expected command %q to be listed in help output", name)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	_, stderr, exitCode := runVprefs(t, t.TempDir(), "nonexistent-command")

	if exitCode == 0 {
		t.Error("expected non-zero exit code for unknown command")
	}
	if !strings.Contains(stderr, "unknown command") {
		t.Errorf("expected error about unknown command, got: %s", stderr)
	}
}

func TestSetGetPersistsUnderHome(t *testing.T) {
	home := t.TempDir()

	if _, stderr, code := runVprefs(t, home, "set", "theme", "dark"); code != 0 {
		t.Fatalf("set failed (exit %d): %s", code, stderr)
	}

	data, err := os.ReadFile(filepath.Join(home, ".vprefs", "settings.yaml"))
	if err != nil {
		t.Fatalf("settings file not written: %v", err)
	}
	if string(data) != "theme: dark\n" {
		t.Errorf("settings file = %q", data)
	}

	stdout, _, code := runVprefs(t, home, "get", "theme")
	if code != 0 || strings.TrimSpace(stdout) != "dark" {
		t.Errorf("get theme = %q (exit %d), want dark", stdout, code)
	}
}

func TestCorruptFileWarnsAndContinues(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, ".vprefs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte("- not\n- a mapping\n"), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runVprefs(t, home, "list")
	if code != 0 {
		t.Fatalf("list should continue past corrupt settings (exit %d): %s", code, stderr)
	}
	if !strings.Contains(stderr, "WARNING: Unknown problem while trying to access settings:") {
		t.Errorf("expected warning banner on stderr, got: %s", stderr)
	}
	if strings.TrimSpace(stdout) != "No settings" {
		t.Errorf("list output = %q, want No settings", stdout)
	}
}

func TestEphemeralLeavesNoFile(t *testing.T) {
	home := t.TempDir()

	stdout, stderr, code := runVprefs(t, home, "--ephemeral", "set", "theme=dark")
	if code != 0 {
		t.Fatalf("ephemeral set failed (exit %d): %s", code, stderr)
	}
	if !strings.Contains(stdout, "(ephemeral: not saved)") {
		t.Errorf("expected ephemeral notice, got: %s", stdout)
	}
	if _, err := os.Stat(filepath.Join(home, ".vprefs")); !os.IsNotExist(err) {
		t.Error("--ephemeral must not create the settings directory")
	}
}

func TestJSONEnvVar(t *testing.T) {
	home := t.TempDir()

	cmd := exec.Command(testBinary, "path")
	cmd.Dir = home
	cmd.Env = []string{"HOME=" + home, "VPREFS_JSON=1"}

	var outBuf bytes.Buffer
	cmd.Stdout = &outBuf
	if err := cmd.Run(); err != nil {
		t.Fatalf("path with VPREFS_JSON=1 failed: %v", err)
	}

	var result map[string]string
	if err := json.Unmarshal(outBuf.Bytes(), &result); err != nil {
		t.Fatalf("expected JSON output when VPREFS_JSON=1, got %q: %v", outBuf.String(), err)
	}
	if result["file"] != filepath.Join(home, ".vprefs", "settings.yaml") {
		t.Errorf("file = %q", result["file"])
	}
}

func TestHandEditedDateDoesNotBlockSet(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, ".vprefs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(path, []byte("lastOpened = 2024-01-02\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, stderr, code := runVprefs(t, home, "--format", "toml", "set", "theme", "dark"); code != 0 {
		t.Fatalf("set failed (exit %d): %s", code, stderr)
	}

	stdout, _, code := runVprefs(t, home, "--format", "toml", "get", "lastOpened")
	if code != 0 || !strings.HasPrefix(strings.TrimSpace(stdout), "2024-01-02") {
		t.Errorf("get lastOpened = %q (exit %d)", stdout, code)
	}
}
