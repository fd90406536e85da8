package bridge

import (
	"strings"

	"github.com/podbridge-dev/podbridge/pkg/k8s/workload"
)

// validateTargets checks that a resolved target set can be bridged: it is
// non-empty, the requested workload name is actually backing one of the pods,
// and the target container exists somewhere in the set. It reports whether
// intent names need a disambiguating index, which is the case exactly when
// more than one pod was resolved.
func validateTargets(targets map[string][]string, ref workload.Reference) (useIndex bool, err error) {
	if len(targets) == 0 {
		return false, &NoPodsFoundError{Target: ref}
	}

	cleaned := make([]string, 0, len(targets))
	for _, pod := range workload.SortedPodNames(targets) {
		cleaned = append(cleaned, cleanWorkloadName(pod))
	}

	if ref.Kind != workload.KindPod && !contains(cleaned, ref.Name) {
		return false, &WorkloadNotFoundError{Kind: ref.Kind, Name: ref.Name, Available: cleaned}
	}

	found := false
	for _, containers := range targets {
		if contains(containers, ref.Container) {
			found = true
			break
		}
	}
	if !found {
		return false, &ContainerTargetNotFoundError{Container: ref.Container}
	}

	return len(targets) > 1, nil
}

// cleanWorkloadName strips the trailing two dash-delimited segments from a pod
// name, undoing the replica-set hash and pod suffix the cluster appends
// (api-7d4b9c-x2x9f → api).
func cleanWorkloadName(podName string) string {
	parts := strings.Split(podName, "-")
	if len(parts) <= 2 {
		return ""
	}
	return strings.Join(parts[:len(parts)-2], "-")
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
