package aks

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resourcegraph/armresourcegraph"
	"github.com/spokeops/spokeops/domain/model"
)

// ClusterList discovers managed clusters in the provider subscription using
// Azure Resource Graph. An optional tag filter narrows the result set.
func (d *driver) ClusterList(ctx context.Context, opts ...model.ListClustersOption) (clusters []*model.DiscoveredCluster, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterList")
	defer func() { cleanup(err) }()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	o := &model.ListClustersOptions{}
	for _, opt := range opts {
		opt(o)
	}

	client, err := armresourcegraph.NewClient(d.TokenCredential, nil)
	if err != nil {
		return nil, fmt.Errorf("create resource graph client: %w", err)
	}

	query := `Resources
| where type == "microsoft.containerservice/managedclusters"`
	if o.TagKey != "" {
		query += fmt.Sprintf("\n| where tags[\"%s\"] == \"%s\"", o.TagKey, o.TagValue)
	}
	query += "\n| project name, resourceGroup, location, id"

	result, err := client.Resources(ctx, armresourcegraph.QueryRequest{
		Query:         to.Ptr(query),
		Subscriptions: []*string{to.Ptr(d.AzureSubscriptionId)},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("query resource graph: %w", err)
	}

	return parseDiscoveredClusters(result.Data), nil
}

// parseDiscoveredClusters handles both result shapes the resource graph API
// returns: a table with a "rows" key and a plain object array.
func parseDiscoveredClusters(data any) []*model.DiscoveredCluster {
	var clusters []*model.DiscoveredCluster
	switch v := data.(type) {
	case map[string]interface{}:
		rows, ok := v["rows"].([]interface{})
		if !ok {
			return nil
		}
		for _, row := range rows {
			cols, ok := row.([]interface{})
			if !ok || len(cols) < 4 {
				continue
			}
			c := &model.DiscoveredCluster{}
			c.Name, _ = cols[0].(string)
			c.ResourceGroup, _ = cols[1].(string)
			c.Location, _ = cols[2].(string)
			c.ResourceID, _ = cols[3].(string)
			if c.Name != "" {
				clusters = append(clusters, c)
			}
		}
	case []interface{}:
		for _, row := range v {
			m, ok := row.(map[string]interface{})
			if !ok {
				continue
			}
			c := &model.DiscoveredCluster{}
			c.Name, _ = m["name"].(string)
			c.ResourceGroup, _ = m["resourceGroup"].(string)
			c.Location, _ = m["location"].(string)
			c.ResourceID, _ = m["id"].(string)
			if c.Name != "" {
				clusters = append(clusters, c)
			}
		}
	}
	return clusters
}
