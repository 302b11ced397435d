package spokeopscfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML file from the given path, applies defaults, and
// validates the result.
func Load(path string) (*Root, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return LoadBytes(data)
}

// LoadBytes deserializes YAML bytes, applies defaults, and validates.
func LoadBytes(data []byte) (*Root, error) {
	var cfg Root
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills optional fields with their documented defaults.
func (r *Root) ApplyDefaults() {
	if r.Hub.Namespace == "" {
		r.Hub.Namespace = "argocd"
	}
	if r.Hub.Identity.ResourceGroup == "" {
		r.Hub.Identity.ResourceGroup = r.Hub.ResourceGroup
	}
	if r.Repo.Revision == "" {
		r.Repo.Revision = "main"
	}
	if r.Repo.BootstrapPath == "" {
		r.Repo.BootstrapPath = "argo/spoke-bootstrap/overlays"
	}
	if r.App.Name == "" {
		r.App.Name = "nginx-demo"
	}
	if r.App.Namespace == "" {
		r.App.Namespace = "demo-app"
	}
	if r.App.Image == "" {
		r.App.Image = "nginx:1.25"
	}
	if r.App.Replicas == 0 {
		r.App.Replicas = 3
	}
	if r.App.Requests == nil {
		r.App.Requests = map[string]string{"cpu": "100m", "memory": "128Mi"}
	}
	if r.App.Limits == nil {
		r.App.Limits = map[string]string{"cpu": "250m", "memory": "256Mi"}
	}
}
