package intent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	k8stesting "k8s.io/client-go/testing"
)

func newFakeStore(t *testing.T, objects ...runtime.Object) *ClusterStore {
	t.Helper()
	client := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(
		runtime.NewScheme(),
		map[schema.GroupVersionResource]string{GroupVersionResource: Kind + "List"},
		objects...,
	)
	// The real API server assigns a UID on create; the fake tracker does not.
	client.PrependReactor("create", GroupVersionResource.Resource, func(action k8stesting.Action) (bool, runtime.Object, error) {
		obj := action.(k8stesting.CreateAction).GetObject().(*unstructured.Unstructured)
		if obj.GetUID() == "" {
			obj.SetUID(types.UID("uid-" + obj.GetName()))
		}
		return false, nil, nil
	})
	return NewClusterStore(client, "podbridge")
}

func sampleIntent() *BridgeIntent {
	return &BridgeIntent{
		Name:                "web-to-default.deployment.api",
		DestinationIP:       "10.99.0.5",
		TargetPod:           "api-abc-1",
		TargetNamespace:     "default",
		TargetContainer:     "api",
		PortMappings:        []string{"8080:80", "8443:443"},
		SyncDownDirectories: []string{ServiceAccountTokenDir, "/app/config"},
		HandleProbes:        true,
		Labels: map[string]string{
			LabelLocalContainer: "web",
			LabelSession:        "session-1",
		},
	}
}

func TestClusterStore_CreateAssignsClusterID(t *testing.T) {
	store := newFakeStore(t)

	created, err := store.Create(context.Background(), sampleIntent())
	require.NoError(t, err)
	assert.Equal(t, "uid-web-to-default.deployment.api", created.ID)
	// The input record stays untouched; ownership passes to the cluster.
	assert.Equal(t, "web-to-default.deployment.api", created.Name)
}

func TestClusterStore_CreateListRoundTrip(t *testing.T) {
	store := newFakeStore(t)

	in := sampleIntent()
	_, err := store.Create(context.Background(), in)
	require.NoError(t, err)

	listed, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)

	got := listed[0]
	assert.Equal(t, in.Name, got.Name)
	assert.Equal(t, in.DestinationIP, got.DestinationIP)
	assert.Equal(t, in.TargetPod, got.TargetPod)
	assert.Equal(t, in.TargetNamespace, got.TargetNamespace)
	assert.Equal(t, in.TargetContainer, got.TargetContainer)
	assert.Equal(t, in.PortMappings, got.PortMappings)
	assert.Equal(t, in.SyncDownDirectories, got.SyncDownDirectories)
	assert.True(t, got.HandleProbes)
	assert.Equal(t, "web", got.Labels[LabelLocalContainer])
	// No controller has reconciled yet: missing status means not established.
	assert.False(t, got.Established)
}

func TestClusterStore_ListReadsEstablishedStatus(t *testing.T) {
	obj := toUnstructured(sampleIntent(), "podbridge")
	obj.SetUID("uid-1")
	require.NoError(t, unstructured.SetNestedField(obj.Object, true, "status", "established"))

	store := newFakeStore(t, obj)

	listed, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].Established)
	assert.Equal(t, "uid-1", listed[0].ID)
}

func TestClusterStore_Delete(t *testing.T) {
	obj := toUnstructured(sampleIntent(), "podbridge")
	store := newFakeStore(t, obj)

	require.NoError(t, store.Delete(context.Background(), sampleIntent().Name))

	listed, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestClusterStore_DeleteMissingIsNotFound(t *testing.T) {
	store := newFakeStore(t)

	err := store.Delete(context.Background(), "no-such-intent")
	require.Error(t, err)
	assert.True(t, apierrors.IsNotFound(err), "wrapped NotFound must stay detectable")
}

func TestPortMappingString(t *testing.T) {
	m := PortMapping{ContainerPort: 8080, PodPort: 80}
	assert.Equal(t, "8080:80", m.String())
}

func TestNewSessionID_Unique(t *testing.T) {
	assert.NotEqual(t, NewSessionID(), NewSessionID())
}
