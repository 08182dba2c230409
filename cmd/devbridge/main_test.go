package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charlie0129/devbridge/pkg/version"
)

func TestCommandTree(t *testing.T) {
	cmd := NewCommand()

	want := []string{"daemon", "version", "model", "os-version", "battery", "watch", "status", "install", "uninstall"}
	for _, name := range want {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub.Name() != name {
			t.Errorf("command %q not registered: %v", name, err)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := NewCommand()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"version", "--daemon-socket", t.TempDir() + "/none.sock"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(out.String(), version.Version) {
		t.Errorf("output %q does not contain version", out.String())
	}
}

func TestLevelText(t *testing.T) {
	for _, level := range []int{0, 20, 50, 100} {
		if got := levelText(level); !strings.Contains(got, "%") {
			t.Errorf("levelText(%d) = %q", level, got)
		}
	}
}
