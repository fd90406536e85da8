// Package docker queries the local container runtime for the attributes a
// bridge needs, chiefly the container's address on the podbridge network.
package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
)

// DefaultNetwork is the Docker network joined by bridged local containers.
const DefaultNetwork = "podbridge"

// ContainerNotFoundError is returned when the named local container does not exist.
type ContainerNotFoundError struct {
	Container string
}

func (e *ContainerNotFoundError) Error() string {
	return fmt.Sprintf("could not find local container %q", e.Container)
}

// NetworkNotAttachedError is returned when the container exists but is not
// attached to the bridge network.
type NetworkNotAttachedError struct {
	Container string
	Network   string
}

func (e *NetworkNotAttachedError) Error() string {
	return fmt.Sprintf("local container %q is not attached to network %q — did you run 'podbridge up'?", e.Container, e.Network)
}

// Inspector is the slice of the Docker API this package needs. The real
// *client.Client satisfies it; tests provide a fake.
type Inspector interface {
	ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error)
}

// NewClient returns a Docker API client configured from the environment.
func NewClient() (*client.Client, error) {
	c, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return c, nil
}

// NetworkAddress returns the container's IP address on the named network.
func NetworkAddress(ctx context.Context, api Inspector, containerName, networkName string) (string, error) {
	info, err := api.ContainerInspect(ctx, containerName)
	if err != nil {
		if client.IsErrNotFound(err) {
			return "", &ContainerNotFoundError{Container: containerName}
		}
		return "", fmt.Errorf("failed to inspect container %s: %w", containerName, err)
	}
	if info.NetworkSettings == nil {
		return "", &NetworkNotAttachedError{Container: containerName, Network: networkName}
	}
	endpoint, ok := info.NetworkSettings.Networks[networkName]
	if !ok || endpoint == nil || endpoint.IPAddress == "" {
		return "", &NetworkNotAttachedError{Container: containerName, Network: networkName}
	}
	return endpoint.IPAddress, nil
}
