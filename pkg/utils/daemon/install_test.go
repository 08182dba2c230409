package daemon

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	svc := service{
		path:     "/tmp/devbridge.service",
		template: "ExecStart=/path/to/devbridge daemon\n",
	}
	if got := svc.render("/usr/local/bin/devbridge"); got != "ExecStart=/usr/local/bin/devbridge daemon\n" {
		t.Errorf("render() = %q", got)
	}
}

func TestHostService(t *testing.T) {
	svc, err := hostService()
	if err != nil {
		t.Skipf("no init system support: %v", err)
	}
	if !strings.Contains(svc.template, exePlaceholder) {
		t.Error("service template does not reference the binary")
	}
	if svc.path == "" || len(svc.start) == 0 || len(svc.stop) == 0 {
		t.Errorf("incomplete service %+v", svc)
	}
}

func TestRun(t *testing.T) {
	if err := run(nil); err != nil {
		t.Errorf("run(nil) error: %v", err)
	}
	err := run([][]string{{"devbridge-command-that-does-not-exist"}})
	if err == nil {
		t.Error("expected error for missing command")
	}
}
