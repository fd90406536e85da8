package bridge

import (
	"fmt"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/podbridge-dev/podbridge/pkg/k8s/workload"
)

// isNotFound reports whether err is a Kubernetes NotFound, unwrapping as needed.
func isNotFound(err error) bool {
	return apierrors.IsNotFound(err)
}

// NoPodsFoundError is returned when target resolution yields no pods.
type NoPodsFoundError struct {
	Target workload.Reference
}

func (e *NoPodsFoundError) Error() string {
	return fmt.Sprintf("could not find any pod to bridge for %s in namespace %s", e.Target, e.Target.Namespace)
}

// WorkloadNotFoundError is returned when the requested workload name is not
// among the names derived from the resolved pods. Available lists the derived
// names so the operator can see what would match.
type WorkloadNotFoundError struct {
	Kind      workload.Kind
	Name      string
	Available []string
}

func (e *WorkloadNotFoundError) Error() string {
	return fmt.Sprintf("could not find %s/%s to bridge, available %s: %s",
		e.Kind, e.Name, e.Kind, strings.Join(e.Available, ", "))
}

// ContainerTargetNotFoundError is returned when the requested target container
// is not present in any resolved pod.
type ContainerTargetNotFoundError struct {
	Container string
}

func (e *ContainerTargetNotFoundError) Error() string {
	return fmt.Sprintf("could not find container %q to bridge", e.Container)
}

// TimeoutExceededError is returned when the convergence budget runs out before
// every intent reports established. Intents created so far are left in place
// for inspection or removal.
type TimeoutExceededError struct {
	Seconds int
}

func (e *TimeoutExceededError) Error() string {
	return fmt.Sprintf("timeout of %ds for bridging operation exceeded", e.Seconds)
}
