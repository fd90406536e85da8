package commands

import (
	"testing"

	"github.com/podbridge-dev/podbridge/pkg/intent"
)

func TestParsePortMappings(t *testing.T) {
	got, err := parsePortMappings([]string{"8080:80", "8443:443"})
	if err != nil {
		t.Fatalf("parsePortMappings: %v", err)
	}
	want := []intent.PortMapping{
		{ContainerPort: 8080, PodPort: 80},
		{ContainerPort: 8443, PodPort: 443},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("mapping[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParsePortMappings_BarePortMapsToItself(t *testing.T) {
	got, err := parsePortMappings([]string{"9000"})
	if err != nil {
		t.Fatalf("parsePortMappings: %v", err)
	}
	if len(got) != 1 || got[0] != (intent.PortMapping{ContainerPort: 9000, PodPort: 9000}) {
		t.Errorf("got %v, want [{9000 9000}]", got)
	}
}

func TestParsePortMappings_OrderPreserved(t *testing.T) {
	got, err := parsePortMappings([]string{"3:30", "1:10", "2:20"})
	if err != nil {
		t.Fatalf("parsePortMappings: %v", err)
	}
	wantLocal := []int{3, 1, 2}
	for i, m := range got {
		if m.ContainerPort != wantLocal[i] {
			t.Errorf("mapping[%d].ContainerPort = %d, want %d", i, m.ContainerPort, wantLocal[i])
		}
	}
}

func TestParsePortMappings_DuplicateLocalPort(t *testing.T) {
	if _, err := parsePortMappings([]string{"8080:80", "8080:443"}); err == nil {
		t.Fatal("expected duplicate local port error")
	}
}

func TestParsePortMappings_Invalid(t *testing.T) {
	for _, spec := range []string{"abc", "8080:abc", ":"} {
		if _, err := parsePortMappings([]string{spec}); err == nil {
			t.Errorf("parsePortMappings(%q): expected error", spec)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]string{
		"debug":   "DEBUG",
		"INFO":    "INFO",
		"warning": "WARN",
		"error":   "ERROR",
		"bogus":   "INFO",
	} {
		if got := parseLogLevel(in).String(); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
