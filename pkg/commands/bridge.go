package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/docker/go-connections/nat"
	"github.com/urfave/cli/v3"

	"github.com/podbridge-dev/podbridge/pkg/bridge"
	"github.com/podbridge-dev/podbridge/pkg/docker"
	"github.com/podbridge-dev/podbridge/pkg/intent"
	"github.com/podbridge-dev/podbridge/pkg/interact"
	"github.com/podbridge-dev/podbridge/pkg/k8s/kube"
	"github.com/podbridge-dev/podbridge/pkg/k8s/workload"
)

// Bridge returns the CLI command that establishes bridges from a workload's
// pods to a local container.
func Bridge() *cli.Command {
	return &cli.Command{
		Name:      "bridge",
		Usage:     "Bridge traffic from a Kubernetes workload to a local container",
		ArgsUsage: "CONTAINER",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "target",
				Aliases:  []string{"t"},
				Usage:    "Bridge target as type/name/container (e.g. deployment/api/api)",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port mapping localPort:podPort (repeatable)",
			},
			&cli.StringFlag{
				Name:    "namespace",
				Aliases: []string{"n"},
				Usage:   "Namespace of the target workload (defaults to the kubeconfig namespace)",
				Sources: cli.EnvVars("PODBRIDGE_NAMESPACE"),
			},
			&cli.StringSliceFlag{
				Name:  "sync-down",
				Usage: "Additional pod directory to sync into the local container (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "no-probe-handling",
				Usage: "Do not answer the pod's probes while the bridge is active",
			},
			&cli.IntFlag{
				Name:  "timeout",
				Usage: "Seconds to wait for all bridges to establish (0 = wait forever)",
			},
		}, clusterFlags()...),
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "container",
				UsageText: "Name of the local container to route traffic to",
				Config:    cli.StringConfig{TrimSpace: true},
			},
		},
		Action: runBridge,
	}
}

func runBridge(ctx context.Context, c *cli.Command) error {
	container := c.StringArg("container")
	if container == "" {
		return fmt.Errorf("missing CONTAINER argument")
	}

	namespace := c.String("namespace")
	if namespace == "" {
		namespace = kube.CurrentNamespace()
	}

	target, err := workload.Parse(c.String("target"), namespace)
	if err != nil {
		return err
	}

	ports, err := parsePortMappings(c.StringSlice("port"))
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		return fmt.Errorf("at least one --port mapping is required")
	}

	op, err := newOperator(c)
	if err != nil {
		return err
	}

	req := bridge.Request{
		LocalContainer: container,
		Ports:          ports,
		Target:         target,
		Namespace:      namespace,
		SyncDownDirs:   c.StringSlice("sync-down"),
		HandleProbes:   !c.Bool("no-probe-handling"),
		TimeoutSeconds: c.Int("timeout"),
	}
	return op.Bridge(ctx, req)
}

// parsePortMappings parses localPort:podPort specs. A bare port maps to
// itself. Local ports must be unique across the request.
func parsePortMappings(specs []string) ([]intent.PortMapping, error) {
	mappings := make([]intent.PortMapping, 0, len(specs))
	seen := make(map[int]bool, len(specs))
	for _, spec := range specs {
		parsed, err := nat.ParsePortSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid port mapping %q: %w", spec, err)
		}
		for _, pm := range parsed {
			podPort := pm.Port.Int()
			localPort := podPort
			if pm.Binding.HostPort != "" {
				localPort, err = nat.ParsePort(pm.Binding.HostPort)
				if err != nil {
					return nil, fmt.Errorf("invalid local port in %q: %w", spec, err)
				}
			}
			if seen[localPort] {
				return nil, fmt.Errorf("duplicate local port %d in port mappings", localPort)
			}
			seen[localPort] = true
			mappings = append(mappings, intent.PortMapping{ContainerPort: localPort, PodPort: podPort})
		}
	}
	return mappings, nil
}

// newOperator assembles a bridge.Operator from the root command's flags.
func newOperator(c *cli.Command) (*bridge.Operator, error) {
	kubeCfg := kube.Config{Context: c.String("kube-context")}

	clientset, err := kube.NewClientset(kubeCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	dynClient, err := kube.NewDynamicClient(kubeCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}
	dockerClient, err := docker.NewClient()
	if err != nil {
		return nil, err
	}

	return &bridge.Operator{
		Docker:  dockerClient,
		Kube:    clientset,
		Store:   intent.NewClusterStore(dynClient, c.String("operator-namespace")),
		Printer: interact.NewPrinter(os.Stdout),
		Network: c.String("network"),
	}, nil
}
