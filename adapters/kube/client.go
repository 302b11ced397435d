// Package kube wraps client-go for everything spokeops does against a
// cluster API server: server-side apply, namespace and secret management,
// workload waits, and the Argo CD chart install. Credential acquisition is
// not handled here; provider drivers produce kubeconfig bytes and hand
// them to this package.
package kube

import (
	"context"
	"fmt"
	"os"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// DefaultUserAgent identifies this tool against the API server.
const DefaultUserAgent = "spokeops"

const (
	defaultQPS   float32 = 20
	defaultBurst         = 50
)

// Client bundles the typed clientset with the REST config it was built
// from. The dynamic client and REST mapper used by apply are derived from
// RESTConfig on demand.
type Client struct {
	RESTConfig *rest.Config
	Clientset  kubernetes.Interface
}

// Options tunes client construction. Zero values pick the defaults above.
type Options struct {
	UserAgent string
	QPS       float32
	Burst     int
}

// NewClientFromKubeconfig constructs a Client from kubeconfig bytes.
func NewClientFromKubeconfig(_ context.Context, kubeconfig []byte, opts *Options) (*Client, error) {
	if len(kubeconfig) == 0 {
		return nil, fmt.Errorf("kubeconfig is empty")
	}
	cfg, err := clientcmd.RESTConfigFromKubeConfig(kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("build REST config from kubeconfig: %w", err)
	}
	return NewClientFromRESTConfig(cfg, opts)
}

// NewClientFromKubeconfigPath constructs a Client from a kubeconfig file.
func NewClientFromKubeconfigPath(ctx context.Context, path string, opts *Options) (*Client, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read kubeconfig file: %w", err)
	}
	return NewClientFromKubeconfig(ctx, data, opts)
}

// NewClientFromRESTConfig constructs a Client from an existing rest.Config,
// applying the user agent and rate limiter settings.
func NewClientFromRESTConfig(cfg *rest.Config, opts *Options) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("REST config is nil")
	}
	ua, qps, burst := DefaultUserAgent, defaultQPS, defaultBurst
	if opts != nil {
		if opts.UserAgent != "" {
			ua = opts.UserAgent
		}
		if opts.QPS > 0 {
			qps = opts.QPS
		}
		if opts.Burst > 0 {
			burst = opts.Burst
		}
	}
	cfg.QPS = qps
	cfg.Burst = burst
	rest.AddUserAgent(cfg, ua)

	cs, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("build clientset: %w", err)
	}
	return &Client{RESTConfig: cfg, Clientset: cs}, nil
}
