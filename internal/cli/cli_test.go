package cli

import (
	"io"
	"testing"
)

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	if root.Use != "geoconv" {
		t.Errorf("Use = %q, want %q", root.Use, "geoconv")
	}
	if !root.SilenceUsage || !root.SilenceErrors {
		t.Error("root command should silence usage and errors, main reports them once")
	}
	if root.Version == "" {
		t.Error("root command has no version")
	}

	want := []string{"assemble", "render", "db", "move", "serve", "completion"}
	have := make(map[string]bool)
	for _, cmd := range root.Commands() {
		have[cmd.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestDBSubcommands(t *testing.T) {
	db := New(io.Discard, LogInfo).dbCommand()

	want := []string{"list", "show", "save", "delete", "export", "path"}
	have := make(map[string]bool)
	for _, cmd := range db.Commands() {
		have[cmd.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("db subcommand %q not registered", name)
		}
	}
}
