package aks

import (
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerservice/armcontainerservice/v4"
	"github.com/spokeops/spokeops/domain/model"
)

func TestToClusterInfo(t *testing.T) {
	mc := &armcontainerservice.ManagedCluster{
		Name:     to.Ptr("spoke-dev"),
		ID:       to.Ptr("/subscriptions/sub/resourceGroups/rg/providers/Microsoft.ContainerService/managedClusters/spoke-dev"),
		Location: to.Ptr("westeurope"),
		Properties: &armcontainerservice.ManagedClusterProperties{
			Fqdn:                 to.Ptr("spoke-dev.hcp.westeurope.azmk8s.io"),
			KubernetesVersion:    to.Ptr("1.29.4"),
			ProvisioningState:    to.Ptr("Succeeded"),
			DisableLocalAccounts: to.Ptr(true),
			OidcIssuerProfile: &armcontainerservice.ManagedClusterOIDCIssuerProfile{
				Enabled:   to.Ptr(true),
				IssuerURL: to.Ptr("https://westeurope.oic.prod-aks.azure.com/t/i/"),
			},
			AADProfile: &armcontainerservice.ManagedClusterAADProfile{Managed: to.Ptr(true)},
		},
	}

	info := toClusterInfo(mc)
	if info.Name != "spoke-dev" || info.Location != "westeurope" {
		t.Errorf("info = %+v", info)
	}
	if info.FQDN != "spoke-dev.hcp.westeurope.azmk8s.io" {
		t.Errorf("fqdn = %q", info.FQDN)
	}
	if info.LocalAccounts {
		t.Error("local accounts reported enabled for hardened cluster")
	}
	if info.OIDCIssuerURL != "https://westeurope.oic.prod-aks.azure.com/t/i/" {
		t.Errorf("oidc issuer = %q", info.OIDCIssuerURL)
	}
	if !info.AADEnabled {
		t.Error("aad not reported enabled")
	}
	if info.ProvisioningState != "Succeeded" {
		t.Errorf("provisioning state = %q", info.ProvisioningState)
	}
}

func TestToClusterInfoPrefersPrivateFQDN(t *testing.T) {
	mc := &armcontainerservice.ManagedCluster{
		Properties: &armcontainerservice.ManagedClusterProperties{
			Fqdn:        to.Ptr("public.azmk8s.io"),
			PrivateFQDN: to.Ptr("private.azmk8s.io"),
		},
	}
	if info := toClusterInfo(mc); info.FQDN != "private.azmk8s.io" {
		t.Errorf("fqdn = %q, want the private FQDN", info.FQDN)
	}
}

func TestToClusterInfoDefaults(t *testing.T) {
	info := toClusterInfo(nil)
	if !info.LocalAccounts {
		t.Error("nil cluster should default to local accounts enabled")
	}

	info = toClusterInfo(&armcontainerservice.ManagedCluster{
		Properties: &armcontainerservice.ManagedClusterProperties{
			OidcIssuerProfile: &armcontainerservice.ManagedClusterOIDCIssuerProfile{
				Enabled:   to.Ptr(false),
				IssuerURL: to.Ptr("https://should-be-ignored/"),
			},
		},
	})
	if info.OIDCIssuerURL != "" {
		t.Errorf("oidc issuer = %q, want empty when profile disabled", info.OIDCIssuerURL)
	}
	if !info.LocalAccounts {
		t.Error("unset DisableLocalAccounts should report local accounts enabled")
	}
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name    string
		target  *model.ClusterTarget
		wantErr bool
	}{
		{"nil target", nil, true},
		{"missing name", &model.ClusterTarget{ResourceGroup: "rg"}, true},
		{"missing resource group", &model.ClusterTarget{Name: "spoke-dev"}, true},
		{"ok", &model.ClusterTarget{Name: "spoke-dev", ResourceGroup: "rg"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rg, name, err := resolveTarget(tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveTarget() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (rg != "rg" || name != "spoke-dev") {
				t.Errorf("resolveTarget() = %q, %q", rg, name)
			}
		})
	}
}

func TestKubeconfigFromCredentials(t *testing.T) {
	if _, err := kubeconfigFromCredentials(armcontainerservice.CredentialResults{}, "spoke-dev"); err == nil {
		t.Error("expected error for empty credential results")
	}

	raw := []byte("apiVersion: v1\nkind: Config\n")
	results := armcontainerservice.CredentialResults{
		Kubeconfigs: []*armcontainerservice.CredentialResult{{Value: raw}},
	}
	got, err := kubeconfigFromCredentials(results, "spoke-dev")
	if err != nil {
		t.Fatalf("kubeconfigFromCredentials() error = %v", err)
	}
	if string(got) != string(raw) {
		t.Errorf("kubeconfigFromCredentials() = %q", got)
	}
}
