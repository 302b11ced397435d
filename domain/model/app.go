package model

import "time"

// App represents a demo workload deployed to a cluster for end-to-end
// verification: a Deployment plus a LoadBalancer Service in its own namespace.
type App struct {
	ID        string
	Name      string
	Namespace string
	Image     string
	Replicas  int32
	// Requests/Limits hold pod resource quantities keyed by "cpu"/"memory".
	Requests  map[string]string
	Limits    map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}
