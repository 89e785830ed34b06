package surrealcms

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// Router builds the HTTP route table. Exposed separately from Run so tests
// can serve it with httptest without binding a real port.
//
// # API Endpoints
//
// Health check:
//
//	GET  /health, /api/health                     - Service health status
//
// Authentication:
//
//	POST /api/auth/signup                         - Register new user account
//	POST /api/auth/signin                         - Authenticate existing user
//	POST /api/auth/signout                        - End user session
//	GET  /api/auth/me                             - Get current authenticated user
//	POST /api/auth/refresh                        - Refresh authentication token
//
// Users:
//
//	POST   /api/users                             - Create new user
//	GET    /api/users/{id}                        - Get user by ID
//	PUT    /api/users/{id}                        - Update user details
//	DELETE /api/users/{id}                        - Delete user account
//
// Projects:
//
//	POST   /api/projects                          - Create new project
//	GET    /api/projects/{id}                     - Get project by ID
//	PUT    /api/projects/{id}                     - Update project details
//	DELETE /api/projects/{id}                     - Delete project and all content
//	GET    /api/users/{userId}/projects           - List user's projects
//
// Pages:
//
//	POST   /api/pages                             - Create new page
//	GET    /api/pages/{id}                        - Get page by ID
//	PUT    /api/pages/{id}                        - Update page
//	DELETE /api/pages/{id}                        - Delete page
//	GET    /api/projects/{projectId}/pages        - List project pages
//
// Blocks (structural edits against a page's stored content):
//
//	GET    /api/pages/{pageId}/blocks             - Decoded blocks with database references resolved
//	POST   /api/pages/{pageId}/blocks             - Insert block
//	PUT    /api/pages/{pageId}/blocks/{blockId}   - Replace block payload
//	DELETE /api/pages/{pageId}/blocks/{blockId}   - Remove block
//	POST   /api/pages/{pageId}/blocks/{blockId}/move - Move block up or down
//
// Databases:
//
//	POST   /api/databases                         - Create new database
//	GET    /api/databases/{id}                    - Get database by ID
//	PUT    /api/databases/{id}                    - Update database
//	DELETE /api/databases/{id}                    - Delete database (entries stay as orphans)
//	GET    /api/projects/{projectId}/databases    - List project databases
//
// Properties (schema edits against a database's stored schema):
//
//	GET    /api/databases/{databaseId}/properties - Ordered property list
//	POST   /api/databases/{databaseId}/properties - Add property
//	PUT    /api/databases/{databaseId}/properties/{propertyId}      - Update property
//	DELETE /api/databases/{databaseId}/properties/{propertyId}      - Remove property
//	POST   /api/databases/{databaseId}/properties/{propertyId}/move - Move property
//
// Entries:
//
//	POST   /api/databases/{databaseId}/entries    - Create entry (advisory validation)
//	GET    /api/databases/{databaseId}/entries    - List entries, ?q= filters by text
//	GET    /api/databases/{databaseId}/entries/new - Empty value map for a fresh entry
//	GET    /api/entries/{id}                      - Get entry by ID
//	PUT    /api/entries/{id}                      - Update entry (advisory validation)
//	DELETE /api/entries/{id}                      - Delete entry
//
// Assets:
//
//	POST   /api/assets                            - Register uploaded asset
//	GET    /api/assets/{id}                       - Get asset by ID
//	DELETE /api/assets/{id}                       - Remove asset record
//	GET    /api/projects/{projectId}/assets       - List project assets
func (a *App) Router() *mux.Router {
	router := mux.NewRouter()

	// API routes
	api := router.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", a.handleHealth).Methods("GET")

	// Auth routes
	api.HandleFunc("/auth/signup", a.handleSignUp).Methods("POST")
	api.HandleFunc("/auth/signin", a.handleSignIn).Methods("POST")
	api.HandleFunc("/auth/signout", a.handleSignOut).Methods("POST")
	api.HandleFunc("/auth/me", a.handleGetCurrentUser).Methods("GET")
	api.HandleFunc("/auth/refresh", a.handleRefreshToken).Methods("POST")

	// User routes
	api.HandleFunc("/users", a.handleCreateUser).Methods("POST")
	api.HandleFunc("/users/{id}", a.handleGetUser).Methods("GET")
	api.HandleFunc("/users/{id}", a.handleUpdateUser).Methods("PUT")
	api.HandleFunc("/users/{id}", a.handleDeleteUser).Methods("DELETE")

	// Project routes
	api.HandleFunc("/projects", a.handleCreateProject).Methods("POST")
	api.HandleFunc("/projects/{id}", a.handleGetProject).Methods("GET")
	api.HandleFunc("/projects/{id}", a.handleUpdateProject).Methods("PUT")
	api.HandleFunc("/projects/{id}", a.handleDeleteProject).Methods("DELETE")
	api.HandleFunc("/users/{userId}/projects", a.handleListProjects).Methods("GET")

	// Page routes
	api.HandleFunc("/pages", a.handleCreatePage).Methods("POST")
	api.HandleFunc("/pages/{id}", a.handleGetPage).Methods("GET")
	api.HandleFunc("/pages/{id}", a.handleUpdatePage).Methods("PUT")
	api.HandleFunc("/pages/{id}", a.handleDeletePage).Methods("DELETE")
	api.HandleFunc("/projects/{projectId}/pages", a.handleListPages).Methods("GET")

	// Block routes
	api.HandleFunc("/pages/{pageId}/blocks", a.handleListBlocks).Methods("GET")
	api.HandleFunc("/pages/{pageId}/blocks", a.handleInsertBlock).Methods("POST")
	api.HandleFunc("/pages/{pageId}/blocks/{blockId}", a.handleUpdateBlock).Methods("PUT")
	api.HandleFunc("/pages/{pageId}/blocks/{blockId}", a.handleDeleteBlock).Methods("DELETE")
	api.HandleFunc("/pages/{pageId}/blocks/{blockId}/move", a.handleMoveBlock).Methods("POST")

	// Database routes
	api.HandleFunc("/databases", a.handleCreateDatabase).Methods("POST")
	api.HandleFunc("/databases/{id}", a.handleGetDatabase).Methods("GET")
	api.HandleFunc("/databases/{id}", a.handleUpdateDatabase).Methods("PUT")
	api.HandleFunc("/databases/{id}", a.handleDeleteDatabase).Methods("DELETE")
	api.HandleFunc("/projects/{projectId}/databases", a.handleListDatabases).Methods("GET")

	// Property routes
	api.HandleFunc("/databases/{databaseId}/properties", a.handleListProperties).Methods("GET")
	api.HandleFunc("/databases/{databaseId}/properties", a.handleAddProperty).Methods("POST")
	api.HandleFunc("/databases/{databaseId}/properties/{propertyId}", a.handleUpdateProperty).Methods("PUT")
	api.HandleFunc("/databases/{databaseId}/properties/{propertyId}", a.handleDeleteProperty).Methods("DELETE")
	api.HandleFunc("/databases/{databaseId}/properties/{propertyId}/move", a.handleMoveProperty).Methods("POST")

	// Entry routes
	api.HandleFunc("/databases/{databaseId}/entries", a.handleCreateEntry).Methods("POST")
	api.HandleFunc("/databases/{databaseId}/entries", a.handleListEntries).Methods("GET")
	api.HandleFunc("/databases/{databaseId}/entries/new", a.handleNewEntry).Methods("GET")
	api.HandleFunc("/entries/{id}", a.handleGetEntry).Methods("GET")
	api.HandleFunc("/entries/{id}", a.handleUpdateEntry).Methods("PUT")
	api.HandleFunc("/entries/{id}", a.handleDeleteEntry).Methods("DELETE")

	// Asset routes
	api.HandleFunc("/assets", a.handleRegisterAsset).Methods("POST")
	api.HandleFunc("/assets/{id}", a.handleGetAsset).Methods("GET")
	api.HandleFunc("/assets/{id}", a.handleDeleteAsset).Methods("DELETE")
	api.HandleFunc("/projects/{projectId}/assets", a.handleListAssets).Methods("GET")

	// Health check route (outside of /api prefix)
	router.HandleFunc("/health", a.handleHealth).Methods("GET")

	return router
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails. On cancellation it shuts down gracefully, allowing up
// to 5 seconds for in-flight requests to complete.
//
// When the application is configured with a CQRS store and a positive
// SyncInterval, Run also starts the continuous background sync loop, which
// stops with the same context.
func (a *App) Run(ctx context.Context, cmd *RunCommand) error {
	router := a.Router()

	addr := fmt.Sprintf(":%s", a.config.ServerPort)
	log.Info().Str("addr", addr).Str("mode", string(a.config.MigrationMode)).Msg("starting surrealcms server")

	if a.cqrs != nil && a.config.SyncInterval > 0 {
		go a.cqrs.StartContinuousSync(ctx, a.config.SyncInterval)
		log.Info().Dur("interval", a.config.SyncInterval).Msg("continuous sync started")
	}

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
