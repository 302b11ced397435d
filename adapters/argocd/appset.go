package argocd

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
)

// BootstrapApplicationSetName is the name of the fleet bootstrap ApplicationSet.
const BootstrapApplicationSetName = "spoke-bootstrap"

// BootstrapSpec describes the GitOps source driving the spoke fleet.
type BootstrapSpec struct {
	// RepoURL is the Git repository holding the bootstrap overlays.
	RepoURL string
	// Revision is the target revision. Defaults to "main".
	Revision string
	// BootstrapPath is the overlay parent directory; the per-spoke overlay
	// is selected by appending the cluster-environment label value.
	// Defaults to "argo/spoke-bootstrap/overlays".
	BootstrapPath string
	// Namespace is the Argo CD control plane namespace on the hub.
	// Defaults to "argocd".
	Namespace string
	// Project is the Argo CD project. Defaults to "default".
	Project string
	// DestinationNamespace is the default namespace for overlay resources
	// that do not set one. Defaults to "argocd".
	DestinationNamespace string
}

func (s *BootstrapSpec) defaults() {
	if s.Revision == "" {
		s.Revision = "main"
	}
	if s.BootstrapPath == "" {
		s.BootstrapPath = "argo/spoke-bootstrap/overlays"
	}
	if s.Namespace == "" {
		s.Namespace = "argocd"
	}
	if s.Project == "" {
		s.Project = "default"
	}
	if s.DestinationNamespace == "" {
		s.DestinationNamespace = "argocd"
	}
}

// BuildBootstrapApplicationSet renders the spoke-bootstrap ApplicationSet.
// Its cluster generator matches every cluster secret labeled
// environment=spoke and stamps one Application per spoke, sourcing the
// overlay directory named by the spoke's cluster-environment label.
func BuildBootstrapApplicationSet(spec BootstrapSpec) (*ApplicationSet, error) {
	if spec.RepoURL == "" {
		return nil, fmt.Errorf("repo URL is required")
	}
	spec.defaults()

	overlayPath := strings.TrimSuffix(spec.BootstrapPath, "/") +
		"/{{metadata.labels." + ClusterEnvironmentLabel + "}}"

	return &ApplicationSet{
		TypeMeta: metav1.TypeMeta{APIVersion: APIVersion, Kind: "ApplicationSet"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      BootstrapApplicationSetName,
			Namespace: spec.Namespace,
		},
		Spec: ApplicationSetSpec{
			Generators: []ApplicationSetGenerator{{
				Clusters: &ClusterGenerator{
					Selector: metav1.LabelSelector{
						MatchLabels: map[string]string{EnvironmentLabel: EnvironmentSpoke},
					},
				},
			}},
			Template: ApplicationSetTemplate{
				ApplicationSetTemplateMeta: ApplicationSetTemplateMeta{
					Name: "{{name}}-bootstrap",
					Labels: map[string]string{
						ClusterEnvironmentLabel: "{{metadata.labels." + ClusterEnvironmentLabel + "}}",
					},
				},
				Spec: ApplicationSpec{
					Project: spec.Project,
					Source: &ApplicationSource{
						RepoURL:        spec.RepoURL,
						Path:           overlayPath,
						TargetRevision: spec.Revision,
					},
					Destination: ApplicationDestination{
						Server:    "{{server}}",
						Namespace: spec.DestinationNamespace,
					},
					SyncPolicy: &SyncPolicy{
						Automated:   &SyncPolicyAutomated{Prune: true, SelfHeal: true},
						SyncOptions: []string{"CreateNamespace=true"},
						Retry: &RetryStrategy{
							Limit:   5,
							Backoff: &Backoff{Duration: "5s", Factor: 2, MaxDuration: "3m"},
						},
					},
				},
			},
		},
	}, nil
}

// templateVar matches {{name}}, {{server}}, {{metadata.labels.key}} and the
// like. The cluster generator uses flat parameter substitution, not Go
// templates.
var templateVar = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.\-/]+)\s*\}\}`)

// MaterializeApplications reimplements the cluster generator's semantics:
// it selects the cluster entries matching each generator's label selector
// and stamps the template once per match, substituting {{name}},
// {{server}}, {{metadata.labels.<k>}} and {{metadata.annotations.<k>}}.
// Unresolved parameters are preserved verbatim, matching the controller.
// Argo CD's controller performs the authoritative rendering; this exists
// for preview output and tests.
func MaterializeApplications(appset *ApplicationSet, clusters []*ClusterEntry) ([]*Application, error) {
	if appset == nil {
		return nil, fmt.Errorf("applicationset is nil")
	}

	var apps []*Application
	for gi := range appset.Spec.Generators {
		gen := appset.Spec.Generators[gi].Clusters
		if gen == nil {
			continue
		}
		selector, err := metav1.LabelSelectorAsSelector(&gen.Selector)
		if err != nil {
			return nil, fmt.Errorf("generator %d selector: %w", gi, err)
		}
		for _, entry := range clusters {
			if entry == nil || !selector.Matches(labels.Set(entry.Labels)) {
				continue
			}
			app, err := stampTemplate(&appset.Spec.Template, appset.Namespace, entry)
			if err != nil {
				return nil, fmt.Errorf("render application for cluster %s: %w", entry.Name, err)
			}
			apps = append(apps, app)
		}
	}
	return apps, nil
}

// stampTemplate substitutes one cluster's parameters into the template.
// Substitution happens on the template's JSON form so every string field
// is covered uniformly.
func stampTemplate(tpl *ApplicationSetTemplate, namespace string, entry *ClusterEntry) (*Application, error) {
	raw, err := json.Marshal(tpl)
	if err != nil {
		return nil, fmt.Errorf("marshal template: %w", err)
	}

	rendered := templateVar.ReplaceAllStringFunc(string(raw), func(token string) string {
		key := strings.TrimSpace(templateVar.FindStringSubmatch(token)[1])
		if v, ok := lookupParam(key, entry); ok {
			return jsonEscape(v)
		}
		return token
	})

	var stamped ApplicationSetTemplate
	if err := json.Unmarshal([]byte(rendered), &stamped); err != nil {
		return nil, fmt.Errorf("unmarshal rendered template: %w", err)
	}

	app := &Application{
		TypeMeta: metav1.TypeMeta{APIVersion: APIVersion, Kind: "Application"},
		ObjectMeta: metav1.ObjectMeta{
			Name:        stamped.Name,
			Namespace:   namespace,
			Labels:      stamped.Labels,
			Annotations: stamped.Annotations,
			Finalizers:  stamped.Finalizers,
		},
		Spec: stamped.Spec,
	}
	if stamped.Namespace != "" {
		app.ObjectMeta.Namespace = stamped.Namespace
	}
	return app, nil
}

// lookupParam resolves a cluster generator parameter name.
func lookupParam(key string, entry *ClusterEntry) (string, bool) {
	switch {
	case key == "name":
		return entry.Name, true
	case key == "server":
		return entry.Server, true
	case strings.HasPrefix(key, "metadata.labels."):
		v, ok := entry.Labels[strings.TrimPrefix(key, "metadata.labels.")]
		return v, ok
	case strings.HasPrefix(key, "metadata.annotations."):
		v, ok := entry.Annotations[strings.TrimPrefix(key, "metadata.annotations.")]
		return v, ok
	}
	return "", false
}

// jsonEscape escapes a substitution value for splicing into a JSON string.
func jsonEscape(s string) string {
	b, _ := json.Marshal(s)
	return string(b[1 : len(b)-1])
}
