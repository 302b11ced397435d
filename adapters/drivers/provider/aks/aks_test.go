package aks

import "testing"

func TestNewCredentialValidation(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]string
	}{
		{
			name:     "client_secret missing parameters",
			settings: map[string]string{keyAuthMethod: "client_secret", keyTenantID: "t"},
		},
		{
			name:     "unsupported method",
			settings: map[string]string{keyAuthMethod: "carrier_pigeon"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			get := func(k string) string { return tt.settings[k] }
			if _, err := newCredential(get); err == nil {
				t.Error("newCredential() expected error")
			}
		})
	}
}

func TestNewCredentialClientSecret(t *testing.T) {
	get := func(k string) string {
		return map[string]string{
			keyAuthMethod:   "client_secret",
			keyTenantID:     "00000000-0000-0000-0000-000000000000",
			keyClientID:     "11111111-1111-1111-1111-111111111111",
			keyClientSecret: "s3cr3t",
		}[k]
	}
	cred, err := newCredential(get)
	if err != nil {
		t.Fatalf("newCredential() error = %v", err)
	}
	if cred == nil {
		t.Error("newCredential() returned nil credential")
	}
}
