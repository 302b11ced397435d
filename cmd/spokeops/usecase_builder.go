package main

import (
	"github.com/spf13/cobra"
	providerdrv "github.com/spokeops/spokeops/adapters/drivers/provider"
	"github.com/spokeops/spokeops/usecase/app"
	"github.com/spokeops/spokeops/usecase/bootstrap"
	"github.com/spokeops/spokeops/usecase/hub"
	"github.com/spokeops/spokeops/usecase/spoke"
)

// buildHubUseCase creates hub use case with required repositories and ports.
func buildHubUseCase(cmd *cobra.Command) (*hub.UseCase, error) {
	repos, err := buildHubRepos(cmd)
	if err != nil {
		return nil, err
	}
	return &hub.UseCase{
		Repos:        repos,
		ClusterPort:  providerdrv.GetClusterPort(repos.Provider),
		IdentityPort: providerdrv.GetIdentityPort(repos.Provider),
	}, nil
}

// buildSpokeUseCase creates spoke use case with required repositories and ports.
func buildSpokeUseCase(cmd *cobra.Command) (*spoke.UseCase, error) {
	repos, err := buildSpokeRepos(cmd)
	if err != nil {
		return nil, err
	}
	return &spoke.UseCase{
		Repos:        repos,
		ClusterPort:  providerdrv.GetClusterPort(repos.Provider),
		IdentityPort: providerdrv.GetIdentityPort(repos.Provider),
	}, nil
}

// buildAppUseCase creates app use case with required repositories and ports.
func buildAppUseCase(cmd *cobra.Command) (*app.UseCase, error) {
	repos, err := buildAppRepos(cmd)
	if err != nil {
		return nil, err
	}
	return &app.UseCase{
		Repos:       repos,
		ClusterPort: providerdrv.GetClusterPort(repos.Provider),
	}, nil
}

// buildBootstrapUseCase creates bootstrap use case with required repositories and ports.
func buildBootstrapUseCase(cmd *cobra.Command) (*bootstrap.UseCase, error) {
	repos, err := buildBootstrapRepos(cmd)
	if err != nil {
		return nil, err
	}
	return &bootstrap.UseCase{
		Repos:        repos,
		ClusterPort:  providerdrv.GetClusterPort(repos.Provider),
		IdentityPort: providerdrv.GetIdentityPort(repos.Provider),
	}, nil
}
