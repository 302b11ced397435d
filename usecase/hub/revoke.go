package hub

import (
	"context"
	"errors"
	"fmt"

	"github.com/spokeops/spokeops/domain/model"
)

// RevokeInput represents a command to remove the hub identity's role
// assignments from spoke clusters.
type RevokeInput struct {
	// SpokeNames limits the revoke to these spokes; empty revokes all.
	SpokeNames []string `json:"spoke_names,omitempty"`
}

// RevokeSpokeResult reports the assignments removed from one spoke.
type RevokeSpokeResult struct {
	SpokeName string `json:"spoke_name"`
	Scope     string `json:"scope"`
	Removed   int    `json:"removed"`
}

// RevokeOutput represents the response of a hub revoke.
type RevokeOutput struct {
	Identity *model.Identity      `json:"identity,omitempty"`
	Spokes   []*RevokeSpokeResult `json:"spokes"`
	Removed  int                  `json:"removed"`
}

// Revoke removes the hub identity's role assignments at each spoke scope.
// A missing identity means there is nothing to revoke and succeeds with
// zero removals. The identity and its federated credentials are left in
// place; deleting them belongs to infrastructure teardown.
func (u *UseCase) Revoke(ctx context.Context, in *RevokeInput) (*RevokeOutput, error) {
	if in == nil {
		in = &RevokeInput{}
	}

	h, err := u.hub(ctx)
	if err != nil {
		return nil, err
	}
	spec, err := identitySpec(h)
	if err != nil {
		return nil, err
	}

	identity, err := u.IdentityPort.GetIdentity(ctx, spec)
	if err != nil {
		if errors.Is(err, model.ErrIdentityNotFound) {
			return &RevokeOutput{}, nil
		}
		return nil, fmt.Errorf("get identity %s: %w", spec.Name, err)
	}

	spokes, err := u.spokes(ctx, in.SpokeNames)
	if err != nil {
		return nil, err
	}

	out := &RevokeOutput{Identity: identity}
	for _, s := range spokes {
		sInfo, err := u.ClusterPort.ClusterInfo(ctx, s.Target())
		if err != nil {
			return nil, fmt.Errorf("inspect spoke cluster %s: %w", s.Name, err)
		}
		if sInfo.ResourceID == "" {
			continue
		}
		removed, err := u.IdentityPort.RevokeRoles(ctx, identity, sInfo.ResourceID)
		if err != nil {
			return nil, fmt.Errorf("revoke roles on spoke %s: %w", s.Name, err)
		}
		out.Spokes = append(out.Spokes, &RevokeSpokeResult{
			SpokeName: s.Name,
			Scope:     sInfo.ResourceID,
			Removed:   removed,
		})
		out.Removed += removed
	}
	return out, nil
}
