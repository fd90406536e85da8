// Package bridge implements the orchestration engine: resolving which pods to
// bridge, validating the target set, submitting one bridge intent per pod and
// driving the cluster to a converged state, plus best-effort teardown.
package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"k8s.io/client-go/kubernetes"

	"github.com/podbridge-dev/podbridge/pkg/docker"
	"github.com/podbridge-dev/podbridge/pkg/intent"
	"github.com/podbridge-dev/podbridge/pkg/interact"
	"github.com/podbridge-dev/podbridge/pkg/k8s/workload"
)

// Request describes one bridge invocation.
type Request struct {
	// LocalContainer is the name of the local Docker container traffic is
	// routed to.
	LocalContainer string
	// Ports maps local container ports to pod ports, in CLI order. Container
	// ports are unique.
	Ports []intent.PortMapping
	// Target identifies the workload and container to bridge against.
	Target workload.Reference
	// Namespace the target workload lives in.
	Namespace string
	// SyncDownDirs are extra pod directories to sync into the local
	// container, on top of the service account secret path.
	SyncDownDirs []string
	// HandleProbes makes the controller answer the pod's probes while bridged.
	HandleProbes bool
	// TimeoutSeconds bounds the wait for convergence. Zero waits forever.
	TimeoutSeconds int
}

// Operator drives bridge and unbridge operations against the cluster and the
// local container runtime.
type Operator struct {
	Docker  docker.Inspector
	Kube    kubernetes.Interface
	Store   intent.Store
	Printer interact.Printer

	// Network is the Docker network bridged containers are attached to.
	// Defaults to docker.DefaultNetwork.
	Network string
	// Clock overrides the inter-poll sleep; nil means real time.
	Clock Clock
}

func (o *Operator) network() string {
	if o.Network != "" {
		return o.Network
	}
	return docker.DefaultNetwork
}

func (o *Operator) printer() interact.Printer {
	if o.Printer != nil {
		return o.Printer
	}
	return interact.Discard()
}

// Bridge establishes bridges from every pod backing the request's target to
// the local container and blocks until all of them are observed established
// or the timeout budget runs out. Intents created before a failure are left
// in place for the operator to inspect or remove.
func (o *Operator) Bridge(ctx context.Context, req Request) error {
	destinationIP, err := docker.NetworkAddress(ctx, o.Docker, req.LocalContainer, o.network())
	if err != nil {
		return err
	}

	targets, err := req.Target.Resolve(ctx, o.Kube)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", req.Target, err)
	}
	useIndex, err := validateTargets(targets, req.Target)
	if err != nil {
		return err
	}

	// The service account secret path always leads the sync-down set;
	// computed once per request and shared by all of its intents.
	syncDownDirs := append([]string{intent.ServiceAccountTokenDir}, req.SyncDownDirs...)

	ports := make([]string, len(req.Ports))
	for i, m := range req.Ports {
		ports[i] = m.String()
	}

	baseName := fmt.Sprintf("%s-to-%s.%s.%s", req.LocalContainer, req.Namespace, req.Target.Kind, req.Target.Name)
	labels := map[string]string{
		intent.LabelLocalContainer: req.LocalContainer,
		intent.LabelSession:        intent.NewSessionID(),
	}

	submitted := make([]*intent.BridgeIntent, 0, len(targets))
	for idx, pod := range workload.SortedPodNames(targets) {
		name := baseName
		if useIndex {
			name = fmt.Sprintf("%s-%d", baseName, idx)
		}
		slog.Info("Creating bridge", "pod", pod, "intent", name)
		created, err := o.Store.Create(ctx, &intent.BridgeIntent{
			Name:                name,
			DestinationIP:       destinationIP,
			TargetPod:           pod,
			TargetNamespace:     req.Namespace,
			TargetContainer:     req.Target.Container,
			PortMappings:        ports,
			SyncDownDirectories: syncDownDirs,
			HandleProbes:        req.HandleProbes,
			Labels:              labels,
		})
		if err != nil {
			return err
		}
		submitted = append(submitted, created)
	}

	slog.Info("Waiting for bridges to become active", "count", len(submitted))
	tracked := make([]string, len(submitted))
	for i, in := range submitted {
		tracked[i] = in.ID
	}
	p := o.printer()
	err = awaitEstablished(ctx, o.Store, tracked, req.TimeoutSeconds, func(converged, total int) {
		p.Info(fmt.Sprintf("Bridge established (%d/%d)", converged, total))
	}, o.Clock)
	if err != nil {
		return err
	}

	p.Success("All bridges established")
	for _, in := range submitted {
		for _, m := range req.Ports {
			p.Info(fmt.Sprintf("Bridge for pod %s in namespace %s on port %d to local container %s on port %d",
				in.TargetPod, in.TargetNamespace, m.PodPort, req.LocalContainer, m.ContainerPort))
		}
	}
	return nil
}

// Unbridge removes the named bridge intent. Deleting an intent that is
// already gone is not a failure.
func (o *Operator) Unbridge(ctx context.Context, name string) error {
	if err := o.Store.Delete(ctx, name); err != nil {
		if isNotFound(err) {
			slog.Debug("Bridge already removed", "name", name)
			return nil
		}
		return err
	}
	slog.Info("Bridge removed", "name", name)
	return nil
}

// UnbridgeAll removes every current bridge intent. A failure deleting one
// intent does not stop the remaining deletions; all failures are aggregated
// into the returned error.
func (o *Operator) UnbridgeAll(ctx context.Context) error {
	intents, err := o.Store.List(ctx)
	if err != nil {
		return err
	}
	var failed []string
	for _, in := range intents {
		slog.Info("Removing bridge", "name", in.Name)
		if err := o.Store.Delete(ctx, in.Name); err != nil && !isNotFound(err) {
			slog.Warn("Failed to remove bridge", "name", in.Name, "error", err)
			failed = append(failed, in.Name)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to remove %d of %d bridges: %s", len(failed), len(intents), strings.Join(failed, ", "))
	}
	return nil
}
