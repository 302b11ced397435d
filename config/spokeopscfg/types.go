// Package spokeopscfg defines the configuration schema (structs) for
// spokeops.yml. This package is intended for YAML -> struct deserialization.
// Loading helpers and validations are implemented separately.
package spokeopscfg

// Root is the root structure of spokeops.yml.
type Root struct {
	Version  string   `yaml:"version"`
	Name     string   `yaml:"name"`
	DBURL    string   `yaml:"dbURL,omitempty"` // state store URL, default "file:"
	Provider Provider `yaml:"provider"`
	Hub      Hub      `yaml:"hub"`
	Spokes   []Spoke  `yaml:"spokes"`
	Repo     Repo     `yaml:"repo"`
	App      App      `yaml:"app"`
}

// Provider represents infrastructure provider configuration.
type Provider struct {
	Name     string            `yaml:"name"`
	Driver   string            `yaml:"driver"`   // e.g., "aks", "static"
	Settings map[string]string `yaml:"settings"` // provider-specific settings
}

// Hub represents the management cluster running ArgoCD.
type Hub struct {
	Name          string   `yaml:"name"`
	ResourceGroup string   `yaml:"resourceGroup"`
	Namespace     string   `yaml:"namespace"` // ArgoCD namespace, default "argocd"
	Identity      Identity `yaml:"identity"`
}

// Identity is the user-assigned managed identity ArgoCD federates with.
type Identity struct {
	Name          string `yaml:"name"`
	ResourceGroup string `yaml:"resourceGroup"` // defaults to hub resourceGroup
}

// Spoke represents one workload cluster to register with the hub.
type Spoke struct {
	Name          string `yaml:"name"`
	ResourceGroup string `yaml:"resourceGroup"`
	Environment   string `yaml:"environment"` // GitOps overlay, e.g. "dev"
	Kubeconfig    string `yaml:"kubeconfig"`  // static driver only
}

// Repo points the bootstrap ApplicationSet at the GitOps repository.
type Repo struct {
	URL           string `yaml:"url"`
	Revision      string `yaml:"revision"`      // default "main"
	BootstrapPath string `yaml:"bootstrapPath"` // default "argo/spoke-bootstrap/overlays"
}

// App describes the demo verification workload.
type App struct {
	Name      string            `yaml:"name"`      // default "nginx-demo"
	Namespace string            `yaml:"namespace"` // default "demo-app"
	Image     string            `yaml:"image"`     // default "nginx:1.25"
	Replicas  int32             `yaml:"replicas"`  // default 3
	Requests  map[string]string `yaml:"requests,omitempty"`
	Limits    map[string]string `yaml:"limits,omitempty"`
}
