package rdb

import (
	"encoding/json"
	"time"
)

// ProviderRecord is the RDB persistence model for domain Provider.
// Table name: providers
type ProviderRecord struct {
	ID        string    `gorm:"primaryKey;type:text;not null"`
	Name      string    `gorm:"type:text;not null"`
	Driver    string    `gorm:"type:text;not null"`
	Settings  string    `gorm:"type:text"` // JSON encoded map[string]string
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ProviderRecord) TableName() string { return "providers" }

// HubRecord persistence model
type HubRecord struct {
	ID                    string    `gorm:"primaryKey;type:text;not null"`
	Name                  string    `gorm:"type:text;not null"`
	ProviderID            string    `gorm:"type:text;not null"` // references Provider
	ResourceGroup         string    `gorm:"type:text;not null"`
	Namespace             string    `gorm:"type:text"`
	IdentityName          string    `gorm:"type:text"`
	IdentityResourceGroup string    `gorm:"type:text"`
	CreatedAt             time.Time `gorm:"not null"`
	UpdatedAt             time.Time `gorm:"not null"`
}

func (HubRecord) TableName() string { return "hubs" }

// SpokeRecord persistence model
type SpokeRecord struct {
	ID            string    `gorm:"primaryKey;type:text;not null"`
	Name          string    `gorm:"type:text;not null;uniqueIndex"`
	ProviderID    string    `gorm:"type:text;not null"` // references Provider
	ResourceGroup string    `gorm:"type:text"`
	Environment   string    `gorm:"type:text;not null"`
	Kubeconfig    string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (SpokeRecord) TableName() string { return "spokes" }

// AppRecord persistence model
type AppRecord struct {
	ID        string    `gorm:"primaryKey;type:text;not null"`
	Name      string    `gorm:"type:text;not null"`
	Namespace string    `gorm:"type:text;not null"`
	Image     string    `gorm:"type:text;not null"`
	Replicas  int32     `gorm:"not null"`
	Requests  string    `gorm:"type:text"` // JSON encoded map[string]string
	Limits    string    `gorm:"type:text"` // JSON encoded map[string]string
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (AppRecord) TableName() string { return "apps" }

func encodeMap(m map[string]string) string {
	if len(m) == 0 {
		return ""
	}
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}

func decodeMap(s string) map[string]string {
	if s == "" {
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	return m
}
