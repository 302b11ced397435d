// Package argocd provides a typed subset of the argoproj.io/v1alpha1 API
// sufficient to register spoke clusters and drive the spoke-bootstrap
// ApplicationSet, without depending on the Argo CD module tree.
package argocd

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// GroupVersion is the API group version of the Argo CD resources.
var GroupVersion = schema.GroupVersion{Group: "argoproj.io", Version: "v1alpha1"}

const (
	// APIVersion is the full apiVersion string for TypeMeta.
	APIVersion = "argoproj.io/v1alpha1"

	// SecretTypeLabel marks a Secret as an Argo CD cluster secret.
	SecretTypeLabel = "argocd.argoproj.io/secret-type"
	// SecretTypeCluster is the SecretTypeLabel value for cluster secrets.
	SecretTypeCluster = "cluster"

	// EnvironmentLabel marks fleet membership on cluster secrets.
	// The value EnvironmentSpoke is what the bootstrap ApplicationSet's
	// cluster generator selects on. These keys are wire contract with the
	// GitOps repository layout and must not change.
	EnvironmentLabel = "environment"
	// EnvironmentSpoke is the EnvironmentLabel value for spoke clusters.
	EnvironmentSpoke = "spoke"
	// ClusterEnvironmentLabel picks the overlay directory (dev, stg, prd...).
	ClusterEnvironmentLabel = "cluster-environment"
)

// ApplicationSet generates one Application per matched cluster.
type ApplicationSet struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata"`
	Spec              ApplicationSetSpec `json:"spec"`
}

func (in *ApplicationSet) DeepCopyObject() runtime.Object {
	if in == nil {
		return nil
	}
	out := new(ApplicationSet)
	in.DeepCopyInto(out)
	return out
}

func (in *ApplicationSet) DeepCopyInto(out *ApplicationSet) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
}

// ApplicationSetList is a list of ApplicationSet resources.
type ApplicationSetList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []ApplicationSet `json:"items"`
}

func (in *ApplicationSetList) DeepCopyObject() runtime.Object {
	if in == nil {
		return nil
	}
	out := new(ApplicationSetList)
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]ApplicationSet, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
	return out
}

// ApplicationSetSpec holds the generators and the Application template.
type ApplicationSetSpec struct {
	// GoTemplate switches template rendering to Go templates. The flat
	// {{var}} substitution used here leaves it false.
	GoTemplate bool                      `json:"goTemplate,omitempty"`
	Generators []ApplicationSetGenerator `json:"generators"`
	Template   ApplicationSetTemplate    `json:"template"`
	SyncPolicy *ApplicationSetSyncPolicy `json:"syncPolicy,omitempty"`
}

func (in *ApplicationSetSpec) DeepCopyInto(out *ApplicationSetSpec) {
	*out = *in
	if in.Generators != nil {
		out.Generators = make([]ApplicationSetGenerator, len(in.Generators))
		for i := range in.Generators {
			in.Generators[i].DeepCopyInto(&out.Generators[i])
		}
	}
	in.Template.DeepCopyInto(&out.Template)
	if in.SyncPolicy != nil {
		out.SyncPolicy = new(ApplicationSetSyncPolicy)
		*out.SyncPolicy = *in.SyncPolicy
	}
}

// ApplicationSetSyncPolicy controls resource handling when the set is deleted.
type ApplicationSetSyncPolicy struct {
	PreserveResourcesOnDeletion bool `json:"preserveResourcesOnDeletion,omitempty"`
}

// ApplicationSetGenerator names exactly one generator. Only the cluster
// generator is modeled; it is the one the spoke fleet uses.
type ApplicationSetGenerator struct {
	Clusters *ClusterGenerator `json:"clusters,omitempty"`
}

func (in *ApplicationSetGenerator) DeepCopyInto(out *ApplicationSetGenerator) {
	*out = *in
	if in.Clusters != nil {
		out.Clusters = new(ClusterGenerator)
		in.Clusters.DeepCopyInto(out.Clusters)
	}
}

// ClusterGenerator selects registered cluster secrets by label and emits
// the template once per match with {{name}}, {{server}} and
// {{metadata.labels.<key>}} parameters.
type ClusterGenerator struct {
	Selector metav1.LabelSelector `json:"selector,omitempty"`
	Values   map[string]string    `json:"values,omitempty"`
}

func (in *ClusterGenerator) DeepCopyInto(out *ClusterGenerator) {
	*out = *in
	in.Selector.DeepCopyInto(&out.Selector)
	if in.Values != nil {
		out.Values = make(map[string]string, len(in.Values))
		for k, v := range in.Values {
			out.Values[k] = v
		}
	}
}

// ApplicationSetTemplate is the Application template stamped per cluster.
type ApplicationSetTemplate struct {
	ApplicationSetTemplateMeta `json:"metadata"`
	Spec                       ApplicationSpec `json:"spec"`
}

func (in *ApplicationSetTemplate) DeepCopyInto(out *ApplicationSetTemplate) {
	*out = *in
	in.ApplicationSetTemplateMeta.DeepCopyInto(&out.ApplicationSetTemplateMeta)
	in.Spec.DeepCopyInto(&out.Spec)
}

// ApplicationSetTemplateMeta is the metadata template for generated Applications.
type ApplicationSetTemplateMeta struct {
	Name        string            `json:"name,omitempty"`
	Namespace   string            `json:"namespace,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
	Finalizers  []string          `json:"finalizers,omitempty"`
}

func (in *ApplicationSetTemplateMeta) DeepCopyInto(out *ApplicationSetTemplateMeta) {
	*out = *in
	if in.Labels != nil {
		out.Labels = make(map[string]string, len(in.Labels))
		for k, v := range in.Labels {
			out.Labels[k] = v
		}
	}
	if in.Annotations != nil {
		out.Annotations = make(map[string]string, len(in.Annotations))
		for k, v := range in.Annotations {
			out.Annotations[k] = v
		}
	}
	if in.Finalizers != nil {
		out.Finalizers = make([]string, len(in.Finalizers))
		copy(out.Finalizers, in.Finalizers)
	}
}

// Application is a single Argo CD application.
type Application struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata"`
	Spec              ApplicationSpec   `json:"spec"`
	Status            ApplicationStatus `json:"status,omitempty"`
}

func (in *Application) DeepCopyObject() runtime.Object {
	if in == nil {
		return nil
	}
	out := new(Application)
	in.DeepCopyInto(out)
	return out
}

func (in *Application) DeepCopyInto(out *Application) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	out.Status = in.Status
}

// ApplicationList is a list of Application resources.
type ApplicationList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Application `json:"items"`
}

func (in *ApplicationList) DeepCopyObject() runtime.Object {
	if in == nil {
		return nil
	}
	out := new(ApplicationList)
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]Application, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
	return out
}

// ApplicationSpec is the desired state of an Application.
type ApplicationSpec struct {
	Source      *ApplicationSource     `json:"source,omitempty"`
	Destination ApplicationDestination `json:"destination"`
	Project     string                 `json:"project"`
	SyncPolicy  *SyncPolicy            `json:"syncPolicy,omitempty"`
}

func (in *ApplicationSpec) DeepCopyInto(out *ApplicationSpec) {
	*out = *in
	if in.Source != nil {
		out.Source = new(ApplicationSource)
		*out.Source = *in.Source
	}
	out.Destination = in.Destination
	if in.SyncPolicy != nil {
		out.SyncPolicy = new(SyncPolicy)
		in.SyncPolicy.DeepCopyInto(out.SyncPolicy)
	}
}

// ApplicationSource points at a directory in a Git repository.
type ApplicationSource struct {
	RepoURL        string `json:"repoURL"`
	Path           string `json:"path,omitempty"`
	TargetRevision string `json:"targetRevision,omitempty"`
}

// ApplicationDestination is the target cluster and namespace.
type ApplicationDestination struct {
	Server    string `json:"server,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Name      string `json:"name,omitempty"`
}

// SyncPolicy controls when and how a sync is performed.
type SyncPolicy struct {
	Automated   *SyncPolicyAutomated `json:"automated,omitempty"`
	SyncOptions []string             `json:"syncOptions,omitempty"`
	Retry       *RetryStrategy       `json:"retry,omitempty"`
}

func (in *SyncPolicy) DeepCopyInto(out *SyncPolicy) {
	*out = *in
	if in.Automated != nil {
		out.Automated = new(SyncPolicyAutomated)
		*out.Automated = *in.Automated
	}
	if in.SyncOptions != nil {
		out.SyncOptions = make([]string, len(in.SyncOptions))
		copy(out.SyncOptions, in.SyncOptions)
	}
	if in.Retry != nil {
		out.Retry = new(RetryStrategy)
		in.Retry.DeepCopyInto(out.Retry)
	}
}

// SyncPolicyAutomated keeps applications synced to the target revision.
type SyncPolicyAutomated struct {
	Prune    bool `json:"prune,omitempty"`
	SelfHeal bool `json:"selfHeal,omitempty"`
}

// RetryStrategy controls failed sync retries.
type RetryStrategy struct {
	Limit   int64    `json:"limit,omitempty"`
	Backoff *Backoff `json:"backoff,omitempty"`
}

func (in *RetryStrategy) DeepCopyInto(out *RetryStrategy) {
	*out = *in
	if in.Backoff != nil {
		out.Backoff = new(Backoff)
		*out.Backoff = *in.Backoff
	}
}

// Backoff specifies sync retry backoff parameters.
type Backoff struct {
	Duration    string `json:"duration,omitempty"`
	Factor      int64  `json:"factor,omitempty"`
	MaxDuration string `json:"maxDuration,omitempty"`
}

// ApplicationStatus carries the health and sync summary.
type ApplicationStatus struct {
	Health HealthStatus `json:"health,omitempty"`
	Sync   SyncStatus   `json:"sync,omitempty"`
}

// HealthStatus is the application health summary.
type HealthStatus struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// SyncStatus is the application sync summary.
type SyncStatus struct {
	Status   string `json:"status,omitempty"`
	Revision string `json:"revision,omitempty"`
}
