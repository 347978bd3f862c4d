package services

import (
	portsrepo "github.com/ralmosara/NetSuiteClone-sub001/internal/core/ports/repositories"
	portssvc "github.com/ralmosara/NetSuiteClone-sub001/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Document = NewDocumentService(repos.DocumentRepo)
	container.Lifecycle = NewLifecycleService(repos.DocumentRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.DocumentSvcFacade  = (*documentService)(nil)
	_ portssvc.LifecycleSvcFacade = (*lifecycleService)(nil)
)
