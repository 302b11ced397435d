package kubeconfig

import (
	"fmt"

	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// AKSAADServerAppID is the well-known Entra ID application of the AKS AAD
// server. kubelogin requests tokens for this audience.
const AKSAADServerAppID = "6dae42f8-4368-4678-94ff-3960e28e3630"

const execAPIVersion = "client.authentication.k8s.io/v1beta1"

const kubeloginInstallHint = `kubelogin is required to authenticate against AAD-enabled clusters.
Find it at: https://github.com/Azure/kubelogin`

// ConvertOptions controls the exec plugin rewrite.
type ConvertOptions struct {
	// Login selects the kubelogin login mode: azurecli, workloadidentity,
	// msi, spn, interactive, or devicecode.
	Login string
	// ClientID narrows msi logins to a user-assigned identity and is required
	// for spn logins.
	ClientID string
	// TenantID is required for spn and interactive logins. When empty it is
	// recovered from the entry being converted if present.
	TenantID string
	// ServerID overrides the AAD server application ID.
	ServerID string
}

// ConvertToKubelogin rewrites AAD auth entries of cfg to use the kubelogin
// exec plugin with the selected login mode, like
// `kubelogin convert-kubeconfig -l <mode>`. Entries using client certificates
// or tokens are left untouched. Returns the number of entries converted.
//
// Non-interactive modes read their Azure settings from the ambient
// environment at token time (AZURE_CLIENT_ID, AZURE_TENANT_ID,
// AZURE_FEDERATED_TOKEN_FILE, AZURE_AUTHORITY_HOST for workloadidentity;
// AAD_SERVICE_PRINCIPAL_CLIENT_SECRET for spn).
func ConvertToKubelogin(cfg *clientcmdapi.Config, opts ConvertOptions) (int, error) {
	if cfg == nil {
		return 0, fmt.Errorf("kubeconfig is nil")
	}
	switch opts.Login {
	case "azurecli", "workloadidentity", "msi", "spn", "interactive", "devicecode":
	case "":
		return 0, fmt.Errorf("login mode is required")
	default:
		return 0, fmt.Errorf("unsupported login mode %q", opts.Login)
	}
	serverID := opts.ServerID
	if serverID == "" {
		serverID = AKSAADServerAppID
	}

	converted := 0
	for name, auth := range cfg.AuthInfos {
		if auth == nil || !isAADAuth(auth) {
			continue
		}
		tenantID := opts.TenantID
		if tenantID == "" {
			tenantID = tenantFromAuth(auth)
		}

		args := []string{"get-token", "--login", opts.Login, "--server-id", serverID}
		switch opts.Login {
		case "spn":
			if opts.ClientID == "" {
				return converted, fmt.Errorf("spn login requires a client ID")
			}
			if tenantID == "" {
				return converted, fmt.Errorf("spn login requires a tenant ID")
			}
			args = append(args, "--client-id", opts.ClientID, "--tenant-id", tenantID)
		case "msi":
			if opts.ClientID != "" {
				args = append(args, "--client-id", opts.ClientID)
			}
		case "interactive", "devicecode":
			if tenantID != "" {
				args = append(args, "--tenant-id", tenantID)
			}
		}

		cfg.AuthInfos[name] = &clientcmdapi.AuthInfo{
			Exec: &clientcmdapi.ExecConfig{
				APIVersion:      execAPIVersion,
				Command:         "kubelogin",
				Args:            args,
				InstallHint:     kubeloginInstallHint,
				InteractiveMode: clientcmdapi.IfAvailableExecInteractiveMode,
			},
		}
		converted++
	}
	return converted, nil
}

// isAADAuth reports whether the auth entry authenticates through AAD, i.e.
// via the legacy azure auth-provider or an existing kubelogin exec config.
// Certificate and static-token entries (admin credentials) are not AAD.
func isAADAuth(auth *clientcmdapi.AuthInfo) bool {
	if auth.AuthProvider != nil && auth.AuthProvider.Name == "azure" {
		return true
	}
	if auth.Exec != nil && auth.Exec.Command == "kubelogin" {
		return true
	}
	return false
}

// tenantFromAuth recovers a tenant ID from the entry being converted.
func tenantFromAuth(auth *clientcmdapi.AuthInfo) string {
	if auth.AuthProvider != nil {
		if v := auth.AuthProvider.Config["tenant-id"]; v != "" {
			return v
		}
	}
	if auth.Exec != nil {
		for i, a := range auth.Exec.Args {
			if a == "--tenant-id" && i+1 < len(auth.Exec.Args) {
				return auth.Exec.Args[i+1]
			}
		}
	}
	return ""
}
