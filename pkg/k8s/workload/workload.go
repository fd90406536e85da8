// Package workload resolves a workload reference (deployment/statefulset/
// daemonset/pod plus target container) to the concrete set of pods backing it.
package workload

import (
	"context"
	"fmt"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// Kind identifies the workload type of a Reference.
type Kind string

const (
	KindPod         Kind = "pod"
	KindDeployment  Kind = "deployment"
	KindStatefulSet Kind = "statefulset"
	KindDaemonSet   Kind = "daemonset"
)

// UnsupportedKindError is returned when a reference names a workload type
// podbridge cannot resolve.
type UnsupportedKindError struct {
	Kind string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported workload type %q (supported: pod, deployment, statefulset, daemonset)", e.Kind)
}

// Reference identifies what to bridge against: the workload triad plus the
// target container. Immutable once parsed.
type Reference struct {
	Kind      Kind
	Name      string
	Namespace string
	Container string
}

// Parse parses a `type/name/container` target path into a Reference.
// The container segment may itself contain slashes; only the first two
// separators split.
func Parse(target, namespace string) (Reference, error) {
	parts := strings.SplitN(target, "/", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Reference{}, fmt.Errorf("invalid target %q: expected type/name/container", target)
	}
	kind := Kind(strings.ToLower(parts[0]))
	switch kind {
	case KindPod, KindDeployment, KindStatefulSet, KindDaemonSet:
	default:
		return Reference{}, &UnsupportedKindError{Kind: parts[0]}
	}
	return Reference{
		Kind:      kind,
		Name:      parts[1],
		Namespace: namespace,
		Container: parts[2],
	}, nil
}

// String renders the reference in its `type/name/container` form.
func (r Reference) String() string {
	return fmt.Sprintf("%s/%s/%s", r.Kind, r.Name, r.Container)
}

// resolver is one resolution strategy: a named pod, or all pods backing a
// managed workload. Call sites never branch on the kind string themselves.
type resolver interface {
	resolve(ctx context.Context, client kubernetes.Interface, ref Reference) (map[string][]string, error)
}

func (r Reference) strategy() resolver {
	if r.Kind == KindPod {
		return podStrategy{}
	}
	return selectorStrategy{}
}

// Resolve returns the pods eligible for bridging as a mapping from pod name
// to the pod's container names. API errors (including NotFound) propagate
// unchanged; no retries happen at this layer.
func (r Reference) Resolve(ctx context.Context, client kubernetes.Interface) (map[string][]string, error) {
	return r.strategy().resolve(ctx, client, r)
}

// podStrategy resolves the single named pod directly.
type podStrategy struct{}

func (podStrategy) resolve(ctx context.Context, client kubernetes.Interface, ref Reference) (map[string][]string, error) {
	pod, err := client.CoreV1().Pods(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return nil, err
	}
	return map[string][]string{pod.Name: containerNames(pod)}, nil
}

// selectorStrategy resolves all pods currently backing a managed workload by
// reading the workload's label selector and listing pods with it.
type selectorStrategy struct{}

func (selectorStrategy) resolve(ctx context.Context, client kubernetes.Interface, ref Reference) (map[string][]string, error) {
	selector, err := workloadSelector(ctx, client, ref)
	if err != nil {
		return nil, err
	}
	labelSelector, err := metav1.LabelSelectorAsSelector(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector on %s/%s: %w", ref.Kind, ref.Name, err)
	}
	pods, err := client.CoreV1().Pods(ref.Namespace).List(ctx, metav1.ListOptions{
		LabelSelector: labelSelector.String(),
	})
	if err != nil {
		return nil, err
	}
	targets := make(map[string][]string, len(pods.Items))
	for i := range pods.Items {
		targets[pods.Items[i].Name] = containerNames(&pods.Items[i])
	}
	return targets, nil
}

func workloadSelector(ctx context.Context, client kubernetes.Interface, ref Reference) (*metav1.LabelSelector, error) {
	switch ref.Kind {
	case KindDeployment:
		deploy, err := client.AppsV1().Deployments(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
		if err != nil {
			return nil, err
		}
		return deploy.Spec.Selector, nil
	case KindStatefulSet:
		sts, err := client.AppsV1().StatefulSets(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
		if err != nil {
			return nil, err
		}
		return sts.Spec.Selector, nil
	case KindDaemonSet:
		ds, err := client.AppsV1().DaemonSets(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
		if err != nil {
			return nil, err
		}
		return ds.Spec.Selector, nil
	default:
		return nil, &UnsupportedKindError{Kind: string(ref.Kind)}
	}
}

func containerNames(pod *corev1.Pod) []string {
	names := make([]string, 0, len(pod.Spec.Containers))
	for _, c := range pod.Spec.Containers {
		names = append(names, c.Name)
	}
	return names
}

// SortedPodNames returns the pod names of a resolved target set in a stable
// order. Bridge names are indexed by position, so iteration order must be
// deterministic across runs.
func SortedPodNames(targets map[string][]string) []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
