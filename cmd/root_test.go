package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rhymu8354/Lurker/internal/app"
	"github.com/rhymu8354/Lurker/internal/config"
)

// lockedBuffer is written by the session goroutines while the test reads it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// executeRoot runs the root command with args and fresh flag values.
func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	rootDebug = false
	rootVerbosity = app.VerbosityUnset
	rootFormat = ""
	rootTransport = ""
	rootTrustFile = ""
	rootConfigPath = ""

	var out, errOut lockedBuffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestSetVersion(t *testing.T) {
	testVersion := "1.2.3-test"
	SetVersion(testVersion)

	if GetVersion() != testVersion {
		t.Errorf("Expected version to be %s, got %s", testVersion, GetVersion())
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Name() != "lurker" {
		t.Errorf("Expected name to be 'lurker', got %s", rootCmd.Name())
	}

	if rootCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}

	if !rootCmd.SilenceUsage || !rootCmd.SilenceErrors {
		t.Error("Expected SilenceUsage and SilenceErrors to be true")
	}

	for _, name := range []string{"config-path", "debug", "verbosity", "format", "transport", "trust-file"} {
		if rootCmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected flag --%s to be registered", name)
		}
	}
}

func TestSubcommands(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "version" {
			found = true
		}
	}
	if !found {
		t.Error("Expected subcommand version to be registered")
	}
}

func TestRootCommand_NoChannels(t *testing.T) {
	out, errOut, err := executeRoot(t)

	if !errors.Is(err, errNoChannels) {
		t.Fatalf("Expected errNoChannels, got %v", err)
	}
	if getExitCode(err) != ExitCodeError {
		t.Errorf("Expected exit code %d, got %d", ExitCodeError, getExitCode(err))
	}
	if !strings.Contains(errOut, "Lurker:0] error: no channels given") {
		t.Errorf("Expected error diagnostic on stderr. Got: %q", errOut)
	}
	if !strings.Contains(out+errOut, "lurker [flags] CHANNEL...") {
		t.Errorf("Expected usage text. Got: %q", out+errOut)
	}
}

func TestRootCommand_InvalidFlagValue(t *testing.T) {
	_, _, err := executeRoot(t, "--config-path", t.TempDir(), "--format", "xml", "dallas")

	if err == nil {
		t.Fatal("Expected an error for an unknown format")
	}
	if getExitCode(err) != ExitCodeUsage {
		t.Errorf("Expected exit code %d, got %d (%v)", ExitCodeUsage, getExitCode(err), err)
	}
}

func TestRootCommand_UnreadableTrustFile(t *testing.T) {
	dir := t.TempDir()
	trustFile := filepath.Join(dir, "missing.pem")

	_, errOut, err := executeRoot(t, "--config-path", dir, "--trust-file", trustFile, "dallas")

	if err != nil {
		t.Fatalf("Expected the session to end normally, got %v", err)
	}
	if !strings.Contains(errOut, "unable to open root CA certificates file '"+trustFile+"'") {
		t.Errorf("Expected trust file error on stderr. Got: %q", errOut)
	}
	if n := strings.Count(errOut, "] error: "); n != 1 {
		t.Errorf("Expected exactly one error diagnostic, got %d. Got: %q", n, errOut)
	}
	if !strings.Contains(errOut, "Lurker/TMI:1] warning: unable to create connection") {
		t.Errorf("Expected engine warning on stderr. Got: %q", errOut)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitCodeSuccess},
		{"no channels", errNoChannels, ExitCodeError},
		{"validation", fmt.Errorf("wrapped: %w", config.ValidationErrors{{Field: "x", Message: "bad"}}), ExitCodeUsage},
		{"configuration file", fmt.Errorf("wrapped: %w", &config.ConfigurationError{ErrorType: config.ErrorTypeParse}), ExitCodeUsage},
		{"other", errors.New("boom"), ExitCodeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getExitCode(tt.err); got != tt.want {
				t.Errorf("Expected exit code %d, got %d", tt.want, got)
			}
		})
	}
}
