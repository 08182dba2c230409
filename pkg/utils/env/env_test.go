package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestString(t *testing.T) {
	t.Setenv(Prefix+"SOCKET", " /tmp/d.sock ")
	if got := String("SOCKET", "/var/run/devbridge.sock"); got != "/tmp/d.sock" {
		t.Errorf("String() = %q", got)
	}
	if got := String("UNSET_KEY", "fallback"); got != "fallback" {
		t.Errorf("String() = %q, want fallback", got)
	}
}

func TestBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{value: "", def: true, want: true},
		{value: "1", def: false, want: true},
		{value: "false", def: true, want: false},
		{value: "maybe", def: true, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(Prefix+"ALLOW_NON_ROOT", tt.value)
			if got := Bool("ALLOW_NON_ROOT", tt.def); got != tt.want {
				t.Errorf("Bool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindDotEnv(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ".env"), []byte("DEVBRIDGE_LOG_LEVEL=debug\n"), 0644); err != nil {
		t.Fatal(err)
	}
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(nested); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	got, err := findDotEnv()
	if err != nil {
		t.Fatal(err)
	}
	want, _ := filepath.EvalSymlinks(filepath.Join(root, ".env"))
	if resolved, _ := filepath.EvalSymlinks(got); resolved != want {
		t.Errorf("findDotEnv() = %q, want %q", got, want)
	}
}

func TestEnsureSkippedUnderTest(t *testing.T) {
	t.Setenv("GOTEST_LOAD_DOTENV", "")
	if err := Ensure(); err != nil {
		t.Fatal(err)
	}
	if LoadedPath() != "" {
		t.Errorf("LoadedPath() = %q, want empty under go test", LoadedPath())
	}
}
