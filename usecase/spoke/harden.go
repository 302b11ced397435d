package spoke

import (
	"context"
	"fmt"

	"github.com/spokeops/spokeops/domain/model"
)

// HardenInput represents a command to disable local accounts on a spoke.
type HardenInput struct {
	// Name of the spoke cluster. Required.
	Name string `json:"name"`
}

// HardenOutput represents the response of a spoke hardening.
type HardenOutput struct {
	SpokeName string             `json:"spoke_name"`
	Cluster   *model.ClusterInfo `json:"cluster"`
}

// Harden disables local accounts on the spoke cluster so that only Entra ID
// principals can obtain credentials. Admin kubeconfigs issued before the
// change keep working until their certificates rotate; registrations should
// use login credentials from here on.
func (u *UseCase) Harden(ctx context.Context, in *HardenInput) (*HardenOutput, error) {
	if in == nil || in.Name == "" {
		return nil, model.ErrSpokeInvalid
	}

	s, err := u.byName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	info, err := u.ClusterPort.HardenCluster(ctx, s.Target())
	if err != nil {
		return nil, fmt.Errorf("harden spoke cluster %s: %w", s.Name, err)
	}
	return &HardenOutput{SpokeName: s.Name, Cluster: info}, nil
}
