package model

import "time"

// Provider represents an infrastructure provider (e.g., AKS).
type Provider struct {
	ID        string
	Name      string
	Driver    string // e.g., "aks", "static"
	Settings  map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}
