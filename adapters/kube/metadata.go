package kube

// Centralized label keys used by the kube adapter.
// Keep these constants stable; changes are API-visible in clusters.
const (
	LabelAppK8sName      = "app.kubernetes.io/name"
	LabelAppK8sInstance  = "app.kubernetes.io/instance"
	LabelAppK8sManagedBy = "app.kubernetes.io/managed-by"

	LabelAppSelector = "app"

	// ManagedByValue is stamped on every object this tool applies.
	ManagedByValue = "spokeops"
)
