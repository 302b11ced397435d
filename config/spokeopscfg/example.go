package spokeopscfg

import "fmt"

// ExampleYAML returns a scaffold spokeops.yml for `spokeops init`.
func ExampleYAML(fleetName string) string {
	return fmt.Sprintf(`version: v1
name: %s
provider:
  driver: aks
  settings:
    AZURE_SUBSCRIPTION_ID: 00000000-0000-0000-0000-000000000000
    AZURE_AUTH_METHOD: azure_cli
hub:
  name: hub-aks
  resourceGroup: rg-hub
  namespace: argocd
  identity:
    name: id-argocd-hub
spokes:
  - name: spoke-dev
    resourceGroup: rg-spoke-dev
    environment: dev
  - name: spoke-prod
    resourceGroup: rg-spoke-prod
    environment: prod
repo:
  url: https://github.com/example/fleet-gitops.git
  revision: main
  bootstrapPath: argo/spoke-bootstrap/overlays
app:
  name: nginx-demo
  namespace: demo-app
  image: nginx:1.25
  replicas: 3
`, fleetName)
}
