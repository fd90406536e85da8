package bridge

import (
	"errors"
	"strings"
	"testing"

	"github.com/podbridge-dev/podbridge/pkg/k8s/workload"
)

func deployRef(name, container string) workload.Reference {
	return workload.Reference{
		Kind:      workload.KindDeployment,
		Name:      name,
		Namespace: "default",
		Container: container,
	}
}

func TestValidateTargets_NoPods(t *testing.T) {
	_, err := validateTargets(map[string][]string{}, deployRef("api", "api"))
	var notFound *NoPodsFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NoPodsFoundError, got %v", err)
	}
}

func TestValidateTargets_SinglePodNoIndex(t *testing.T) {
	targets := map[string][]string{
		"api-7d4b9c-x2x9f": {"api", "sidecar"},
	}
	useIndex, err := validateTargets(targets, deployRef("api", "api"))
	if err != nil {
		t.Fatalf("validateTargets: %v", err)
	}
	if useIndex {
		t.Error("single pod must not use indexed names")
	}
}

func TestValidateTargets_MultiplePodsUseIndex(t *testing.T) {
	targets := map[string][]string{
		"api-abc-1": {"api"},
		"api-abc-2": {"api"},
	}
	useIndex, err := validateTargets(targets, deployRef("api", "api"))
	if err != nil {
		t.Fatalf("validateTargets: %v", err)
	}
	if !useIndex {
		t.Error("multiple pods must use indexed names")
	}
}

func TestValidateTargets_WorkloadNameMismatch(t *testing.T) {
	targets := map[string][]string{
		"billing-7d4b9c-x2x9f": {"billing"},
		"checkout-5f6d7e-a1b2": {"checkout"},
	}
	_, err := validateTargets(targets, deployRef("api", "api"))
	var wnf *WorkloadNotFoundError
	if !errors.As(err, &wnf) {
		t.Fatalf("expected WorkloadNotFoundError, got %v", err)
	}
	// The error enumerates exactly the cleaned names, sorted.
	want := []string{"billing", "checkout"}
	if len(wnf.Available) != len(want) {
		t.Fatalf("available = %v, want %v", wnf.Available, want)
	}
	for i, name := range want {
		if wnf.Available[i] != name {
			t.Errorf("available[%d] = %q, want %q", i, wnf.Available[i], name)
		}
	}
	for _, name := range want {
		if !strings.Contains(wnf.Error(), name) {
			t.Errorf("error message %q missing available name %q", wnf.Error(), name)
		}
	}
}

func TestValidateTargets_PodKindSkipsNameCheck(t *testing.T) {
	// For a direct pod target the cleaned-name check does not apply.
	targets := map[string][]string{
		"api-7d4b9c-x2x9f": {"api"},
	}
	ref := workload.Reference{
		Kind:      workload.KindPod,
		Name:      "api-7d4b9c-x2x9f",
		Namespace: "default",
		Container: "api",
	}
	if _, err := validateTargets(targets, ref); err != nil {
		t.Fatalf("validateTargets: %v", err)
	}
}

func TestValidateTargets_ContainerMissing(t *testing.T) {
	targets := map[string][]string{
		"api-abc-1": {"api"},
		"api-abc-2": {"api"},
	}
	_, err := validateTargets(targets, deployRef("api", "nginx"))
	var cnf *ContainerTargetNotFoundError
	if !errors.As(err, &cnf) {
		t.Fatalf("expected ContainerTargetNotFoundError, got %v", err)
	}
	if cnf.Container != "nginx" {
		t.Errorf("container = %q, want nginx", cnf.Container)
	}
}

func TestValidateTargets_ContainerInAnyPodSuffices(t *testing.T) {
	// The container check runs over the union of all pods' containers.
	targets := map[string][]string{
		"api-abc-1": {"api"},
		"api-abc-2": {"api", "worker"},
	}
	if _, err := validateTargets(targets, deployRef("api", "worker")); err != nil {
		t.Fatalf("validateTargets: %v", err)
	}
}

func TestCleanWorkloadName(t *testing.T) {
	tests := []struct {
		pod  string
		want string
	}{
		{"api-7d4b9c-x2x9f", "api"},
		{"billing-service-5f6d7e-a1b2", "billing-service"},
		{"api-abc-1", "api"},
		{"api-abc", ""},
		{"api", ""},
	}
	for _, tt := range tests {
		if got := cleanWorkloadName(tt.pod); got != tt.want {
			t.Errorf("cleanWorkloadName(%q) = %q, want %q", tt.pod, got, tt.want)
		}
	}
}
