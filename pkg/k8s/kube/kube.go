// Package kube resolves Kubernetes client configuration and builds the
// typed and dynamic clients podbridge uses.
package kube

import (
	"log/slog"
	"time"

	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// apiTimeout bounds every Kubernetes API request so the CLI does not hang
// when the API server is unreachable.
const apiTimeout = 10 * time.Second

// Config holds optional overrides for out-of-cluster kubeconfig resolution.
type Config struct {
	// Context overrides the current kubectl context. Ignored in-cluster.
	Context string
	// Namespace overrides the default namespace from the kubeconfig. Ignored in-cluster.
	Namespace string
}

// RestConfig resolves a *rest.Config, trying in-cluster config first and
// falling back to the default kubeconfig.
func RestConfig(cfg Config) (*rest.Config, error) {
	config, err := rest.InClusterConfig()
	if err != nil {
		overrides := &clientcmd.ConfigOverrides{}
		if cfg.Context != "" {
			overrides.CurrentContext = cfg.Context
		}
		if cfg.Namespace != "" {
			overrides.Context.Namespace = cfg.Namespace
		}

		loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
		kubeConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides)

		if raw, rawErr := kubeConfig.RawConfig(); rawErr == nil {
			slog.Debug("Using kubectl context", "context", raw.CurrentContext)
		}

		config, err = kubeConfig.ClientConfig()
		if err != nil {
			return nil, err
		}
	}

	if config.Timeout == 0 {
		config.Timeout = apiTimeout
	}

	return config, nil
}

// NewClientset builds a typed Kubernetes clientset using RestConfig.
func NewClientset(cfg Config) (kubernetes.Interface, error) {
	config, err := RestConfig(cfg)
	if err != nil {
		return nil, err
	}
	return kubernetes.NewForConfig(config)
}

// NewDynamicClient builds a dynamic client using RestConfig, used for the
// BridgeIntent custom resource.
func NewDynamicClient(cfg Config) (dynamic.Interface, error) {
	config, err := RestConfig(cfg)
	if err != nil {
		return nil, err
	}
	return dynamic.NewForConfig(config)
}

// CurrentNamespace returns the namespace of the active kubeconfig context,
// falling back to "default".
func CurrentNamespace() string {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	kubeConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, &clientcmd.ConfigOverrides{})
	ns, _, err := kubeConfig.Namespace()
	if err != nil || ns == "" {
		return "default"
	}
	return ns
}
