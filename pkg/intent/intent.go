// Package intent defines the BridgeIntent custom resource as seen by the
// client and the store used to create, list and delete intents in the
// cluster. The cluster-side controller owns reconciliation; this package only
// submits intents and reads their observed establishment state.
package intent

import (
	"fmt"

	"github.com/segmentio/ksuid"
)

// ServiceAccountTokenDir is the in-pod path of the service account secret.
// Every bridge intent syncs this directory down to the local container so the
// bridged process keeps its cluster identity.
const ServiceAccountTokenDir = "/var/run/secrets/kubernetes.io/serviceaccount"

const (
	// LabelLocalContainer records which local container an intent routes to.
	LabelLocalContainer = "podbridge.dev/local-container"
	// LabelSession correlates all intents created by one bridge invocation.
	LabelSession = "podbridge.dev/session"
)

// PortMapping maps a local container port to a pod port.
type PortMapping struct {
	ContainerPort int
	PodPort       int
}

// String renders the mapping in the wire form `container:pod`.
func (m PortMapping) String() string {
	return fmt.Sprintf("%d:%d", m.ContainerPort, m.PodPort)
}

// BridgeIntent is one requested traffic bridge for a single target pod.
// The client constructs it without an ID; the cluster assigns the ID on
// creation and thereafter owns the record.
type BridgeIntent struct {
	// ID is the cluster-assigned identifier (object UID). Empty until the
	// intent has been submitted.
	ID string
	// Name is the client-chosen resource name, unique per target pod.
	Name string
	// DestinationIP is the local container's address on the bridge network.
	DestinationIP string

	TargetPod       string
	TargetNamespace string
	TargetContainer string

	// PortMappings holds `container:pod` port strings in request order.
	PortMappings []string
	// SyncDownDirectories always starts with ServiceAccountTokenDir.
	SyncDownDirectories []string
	// HandleProbes makes the controller answer the pod's probes while bridged.
	HandleProbes bool

	// Labels carry client bookkeeping (local container, session).
	Labels map[string]string

	// Established is the cluster-observed state: true once the controller has
	// the bridge carrying traffic.
	Established bool
}

// NewSessionID returns a fresh correlation ID for one bridge invocation.
func NewSessionID() string {
	return ksuid.New().String()
}
