package app

import (
	"context"
	"time"
)

// DestroyInput represents a command to tear down the demo workload.
// Interactive confirmation is the caller's concern.
type DestroyInput struct {
	AppName   string `json:"app_name,omitempty"`
	SpokeName string `json:"spoke_name,omitempty"`
	Login     string `json:"login,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
	TenantID  string `json:"tenant_id,omitempty"`
	// NoWait returns as soon as the namespace delete is accepted instead of
	// waiting for termination to finish.
	NoWait bool `json:"no_wait,omitempty"`
	// Timeout bounds the termination wait; zero uses 5 minutes.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// DestroyOutput represents the result of a teardown.
type DestroyOutput struct {
	AppName   string `json:"app_name"`
	SpokeName string `json:"spoke_name"`
	Namespace string `json:"namespace"`
	// Waited reports whether termination completed before returning.
	Waited bool `json:"waited"`
}

// Destroy deletes the app namespace, removing the Deployment and Service
// with it. Unless NoWait is set it blocks until the namespace is gone, so a
// subsequent deploy can recreate it immediately.
func (u *UseCase) Destroy(ctx context.Context, in *DestroyInput) (*DestroyOutput, error) {
	if in == nil {
		in = &DestroyInput{}
	}

	a, err := u.app(ctx, in.AppName)
	if err != nil {
		return nil, err
	}
	target, err := u.target(ctx, in.SpokeName)
	if err != nil {
		return nil, err
	}
	cli, err := u.targetClient(ctx, target, in.Login, in.ClientID, in.TenantID)
	if err != nil {
		return nil, err
	}

	out := &DestroyOutput{AppName: a.Name, SpokeName: target.Name, Namespace: a.Namespace}
	if in.NoWait {
		if err := cli.DeleteNamespace(ctx, a.Namespace); err != nil {
			return nil, err
		}
		return out, nil
	}
	if err := cli.DeleteNamespaceAndWait(ctx, a.Namespace, in.Timeout); err != nil {
		return nil, err
	}
	out.Waited = true
	return out, nil
}
