package app

import (
	"context"

	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/spokeops/spokeops/adapters/kube"
)

// StatusInput represents a query for the demo workload state.
type StatusInput struct {
	AppName   string `json:"app_name,omitempty"`
	SpokeName string `json:"spoke_name,omitempty"`
	Login     string `json:"login,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
	TenantID  string `json:"tenant_id,omitempty"`
}

// StatusOutput represents the observed state of the demo workload.
type StatusOutput struct {
	AppName   string `json:"app_name"`
	SpokeName string `json:"spoke_name"`
	Namespace string `json:"namespace"`
	// Deployed reports whether the Deployment exists on the target cluster.
	Deployed   bool                   `json:"deployed"`
	Deployment *kube.DeploymentStatus `json:"deployment,omitempty"`
	ExternalIP string                 `json:"external_ip,omitempty"`
	Hostname   string                 `json:"hostname,omitempty"`
	URL        string                 `json:"url,omitempty"`
}

// Status reports Deployment readiness and the Service endpoint without
// mutating anything. A missing Deployment is not an error.
func (u *UseCase) Status(ctx context.Context, in *StatusInput) (*StatusOutput, error) {
	if in == nil {
		in = &StatusInput{}
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

	out := &StatusOutput{
		AppName:   a.Name,
		SpokeName: target.Name,
		Namespace: a.Namespace,
	}

	st, err := cli.GetDeploymentStatus(ctx, a.Namespace, a.Name)
	if err != nil {
		if apierrors.IsNotFound(err) {
			return out, nil
		}
		return nil, err
	}
	out.Deployed = true
	out.Deployment = st

	ip, hostname, err := cli.ServiceExternalIP(ctx, a.Namespace, a.Name)
	if err != nil && !apierrors.IsNotFound(err) {
		return nil, err
	}
	out.ExternalIP = ip
	out.Hostname = hostname
	out.URL = endpointURL(ip, hostname)
	return out, nil
}
