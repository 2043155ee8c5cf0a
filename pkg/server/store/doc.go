// Package store provides storage abstractions for the feedbox server.
//
// Endpoints and business rules talk to these interfaces so they can be
// tested against mocks or an in-memory database.
//
// # Available Stores
//
//   - UsersStore: accounts and credentials
//   - ProjectsStore: projects and their soft-delete flag
//   - FormsStore: forms and their soft-delete flag
//   - RecordsStore: append-only feedback records and their aggregates
//   - HealthStore: database connectivity
//
// # Usage
//
//	projects := gorm.NewProjectsStore(db)
//	p, err := projects.FetchProject(ctx, id)
//	if errors.Is(err, store.ErrNotFound) {
//	    // Handle not found
//	}
package store
