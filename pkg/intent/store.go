package intent

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
)

// GroupVersionResource locates the BridgeIntent custom resource.
var GroupVersionResource = schema.GroupVersionResource{
	Group:    "podbridge.dev",
	Version:  "v1",
	Resource: "bridgeintents",
}

// Kind is the CRD kind name.
const Kind = "BridgeIntent"

// Store is the cluster-side intent store. Create returns the intent with its
// cluster-assigned ID; List returns every intent with its observed
// establishment state; Delete removes one intent by name.
type Store interface {
	Create(ctx context.Context, in *BridgeIntent) (*BridgeIntent, error)
	List(ctx context.Context) ([]BridgeIntent, error)
	Delete(ctx context.Context, name string) error
}

// ClusterStore implements Store against the BridgeIntent CRD in the operator
// namespace using the dynamic client.
type ClusterStore struct {
	client    dynamic.Interface
	namespace string
}

// NewClusterStore returns a ClusterStore scoped to the given operator namespace.
func NewClusterStore(client dynamic.Interface, namespace string) *ClusterStore {
	return &ClusterStore{client: client, namespace: namespace}
}

func (s *ClusterStore) Create(ctx context.Context, in *BridgeIntent) (*BridgeIntent, error) {
	obj := toUnstructured(in, s.namespace)
	created, err := s.client.Resource(GroupVersionResource).Namespace(s.namespace).Create(ctx, obj, metav1.CreateOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create bridge intent %s: %w", in.Name, err)
	}
	out := *in
	out.ID = string(created.GetUID())
	return &out, nil
}

func (s *ClusterStore) List(ctx context.Context) ([]BridgeIntent, error) {
	list, err := s.client.Resource(GroupVersionResource).Namespace(s.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list bridge intents: %w", err)
	}
	intents := make([]BridgeIntent, 0, len(list.Items))
	for i := range list.Items {
		intents = append(intents, fromUnstructured(&list.Items[i]))
	}
	return intents, nil
}

func (s *ClusterStore) Delete(ctx context.Context, name string) error {
	err := s.client.Resource(GroupVersionResource).Namespace(s.namespace).Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete bridge intent %s: %w", name, err)
	}
	return nil
}

func toUnstructured(in *BridgeIntent, namespace string) *unstructured.Unstructured {
	ports := make([]any, len(in.PortMappings))
	for i, p := range in.PortMappings {
		ports[i] = p
	}
	dirs := make([]any, len(in.SyncDownDirectories))
	for i, d := range in.SyncDownDirectories {
		dirs[i] = d
	}
	labels := make(map[string]any, len(in.Labels))
	for k, v := range in.Labels {
		labels[k] = v
	}

	return &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": GroupVersionResource.Group + "/" + GroupVersionResource.Version,
		"kind":       Kind,
		"metadata": map[string]any{
			"name":      in.Name,
			"namespace": namespace,
			"labels":    labels,
		},
		"spec": map[string]any{
			"destinationIP":       in.DestinationIP,
			"targetPod":           in.TargetPod,
			"targetNamespace":     in.TargetNamespace,
			"targetContainer":     in.TargetContainer,
			"portMappings":        ports,
			"syncDownDirectories": dirs,
			"handleProbes":        in.HandleProbes,
		},
	}}
}

func fromUnstructured(obj *unstructured.Unstructured) BridgeIntent {
	in := BridgeIntent{
		ID:     string(obj.GetUID()),
		Name:   obj.GetName(),
		Labels: obj.GetLabels(),
	}
	in.DestinationIP, _, _ = unstructured.NestedString(obj.Object, "spec", "destinationIP")
	in.TargetPod, _, _ = unstructured.NestedString(obj.Object, "spec", "targetPod")
	in.TargetNamespace, _, _ = unstructured.NestedString(obj.Object, "spec", "targetNamespace")
	in.TargetContainer, _, _ = unstructured.NestedString(obj.Object, "spec", "targetContainer")
	in.PortMappings, _, _ = unstructured.NestedStringSlice(obj.Object, "spec", "portMappings")
	in.SyncDownDirectories, _, _ = unstructured.NestedStringSlice(obj.Object, "spec", "syncDownDirectories")
	in.HandleProbes, _, _ = unstructured.NestedBool(obj.Object, "spec", "handleProbes")
	// A missing status means the controller hasn't reconciled yet: not
	// established, never an error.
	in.Established, _, _ = unstructured.NestedBool(obj.Object, "status", "established")
	return in
}
