package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func resetFlags() {
	verbosity = 0
	shutdownFlag = false
	killFlag = false
	exampleFlag = false
}

func TestExampleFlagPrintsConfig(t *testing.T) {
	resetFlags()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"-C"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Process web") {
		t.Errorf("expected example config in output, got: %s", buf.String())
	}
}

func TestMissingConfigPathIsError(t *testing.T) {
	resetFlags()
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error when no config path and no -C given")
	}
}

func TestHelpNeedsNoConfigPath(t *testing.T) {
	resetFlags()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"--help"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("expected --help to succeed without a config path, got: %v", err)
	}
}

func TestShutdownWithoutRunningInstanceIsNoop(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	configPath := dir + "/metasys.conf"
	if err := os.WriteFile(configPath, []byte("Process web /bin/true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"-s", configPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("expected shutdown of a non-running instance to be a no-op, got: %v", err)
	}
}
