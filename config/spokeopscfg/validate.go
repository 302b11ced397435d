package spokeopscfg

import (
	"fmt"

	"github.com/spokeops/spokeops/internal/naming"
)

// Validate performs semantic validation on the configuration tree.
func (r *Root) Validate() error {
	if r.Version != "v1" {
		return fmt.Errorf("version: unsupported value %q (expected v1)", r.Version)
	}
	if r.Name == "" {
		return fmt.Errorf("name: must not be empty")
	}
	if r.Provider.Driver == "" {
		return fmt.Errorf("provider.driver: must not be empty")
	}
	if err := r.Hub.validate(); err != nil {
		return fmt.Errorf("hub: %w", err)
	}
	if err := r.validateSpokes(); err != nil {
		return err
	}
	if err := r.App.validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	return nil
}

func (h *Hub) validate() error {
	if err := naming.ValidateClusterName(h.Name); err != nil {
		return err
	}
	if err := naming.ValidateNamespaceName(h.Namespace); err != nil {
		return fmt.Errorf("namespace: %w", err)
	}
	return nil
}

func (r *Root) validateSpokes() error {
	seen := make(map[string]struct{}, len(r.Spokes))
	for i, s := range r.Spokes {
		if err := naming.ValidateClusterName(s.Name); err != nil {
			return fmt.Errorf("spokes[%d].name: %w", i, err)
		}
		if _, exists := seen[s.Name]; exists {
			return fmt.Errorf("spokes[%d].name: duplicate spoke name %q", i, s.Name)
		}
		seen[s.Name] = struct{}{}
		if err := naming.ValidateEnvironmentName(s.Environment); err != nil {
			return fmt.Errorf("spokes[%d].environment: %w", i, err)
		}
		if s.ResourceGroup != "" && s.Kubeconfig != "" {
			return fmt.Errorf("spokes[%d]: resourceGroup and kubeconfig cannot be specified together", i)
		}
	}
	return nil
}

func (a *App) validate() error {
	if err := naming.ValidateClusterName(a.Name); err != nil {
		return fmt.Errorf("name: %w", err)
	}
	if err := naming.ValidateNamespaceName(a.Namespace); err != nil {
		return fmt.Errorf("namespace: %w", err)
	}
	if a.Replicas < 1 {
		return fmt.Errorf("replicas: must be >= 1")
	}
	return nil
}
