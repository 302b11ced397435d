package app

import (
	"context"
	"fmt"
	"time"

	"github.com/spokeops/spokeops/adapters/kube"
)

// DeployInput represents a command to deploy the demo workload.
type DeployInput struct {
	// AppName selects the app; empty uses the configured one.
	AppName string `json:"app_name,omitempty"`
	// SpokeName selects the target cluster; empty uses the first spoke.
	SpokeName string `json:"spoke_name,omitempty"`
	// Login selects credentials; empty uses admin credentials.
	Login    string `json:"login,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
	// Timeout bounds the rollout wait; zero uses 5 minutes.
	Timeout time.Duration `json:"timeout,omitempty"`
	// LBAttempts and LBInterval tune the external address wait; zero uses
	// 30 attempts at 10s.
	LBAttempts int           `json:"lb_attempts,omitempty"`
	LBInterval time.Duration `json:"lb_interval,omitempty"`
	// SkipWait applies the objects without waiting for rollout.
	SkipWait bool `json:"skip_wait,omitempty"`
}

// DeployOutput represents the result of a deployment.
type DeployOutput struct {
	AppName    string                 `json:"app_name"`
	SpokeName  string                 `json:"spoke_name"`
	Namespace  string                 `json:"namespace"`
	Applied    int                    `json:"applied"`
	Deployment *kube.DeploymentStatus `json:"deployment,omitempty"`
	ExternalIP string                 `json:"external_ip,omitempty"`
	Hostname   string                 `json:"hostname,omitempty"`
	URL        string                 `json:"url,omitempty"`
}

// Deploy renders the app objects, applies them to the target cluster via
// server-side apply, then waits for the Deployment to become available and
// the Service to receive an external address.
func (u *UseCase) Deploy(ctx context.Context, in *DeployInput) (*DeployOutput, error) {
	if in == nil {
		in = &DeployInput{}
	}

	a, err := u.app(ctx, in.AppName)
	if err != nil {
		return nil, err
	}
	target, err := u.target(ctx, in.SpokeName)
	if err != nil {
		return nil, err
	}

	objs, err := kube.BuildWorkloadObjects(a)
	if err != nil {
		return nil, fmt.Errorf("build app objects: %w", err)
	}

	cli, err := u.targetClient(ctx, target, in.Login, in.ClientID, in.TenantID)
	if err != nil {
		return nil, err
	}
	if err := cli.ApplyObjects(ctx, objs, &kube.ApplyOptions{ForceConflicts: true}); err != nil {
		return nil, fmt.Errorf("apply app objects: %w", err)
	}

	out := &DeployOutput{
		AppName:   a.Name,
		SpokeName: target.Name,
		Namespace: a.Namespace,
		Applied:   len(objs),
	}
	if in.SkipWait {
		return out, nil
	}

	if err := cli.WaitDeploymentAvailable(ctx, a.Namespace, a.Name, in.Timeout); err != nil {
		return nil, err
	}
	st, err := cli.GetDeploymentStatus(ctx, a.Namespace, a.Name)
	if err != nil {
		return nil, err
	}
	out.Deployment = st

	ip, hostname, err := cli.WaitServiceExternalIP(ctx, a.Namespace, a.Name, in.LBAttempts, in.LBInterval)
	if err != nil {
		return nil, err
	}
	out.ExternalIP = ip
	out.Hostname = hostname
	out.URL = endpointURL(ip, hostname)
	return out, nil
}

// endpointURL renders the HTTP endpoint from the LoadBalancer address,
// preferring the hostname when both are set.
func endpointURL(ip, hostname string) string {
	switch {
	case hostname != "":
		return "http://" + hostname
	case ip != "":
		return "http://" + ip
	}
	return ""
}
