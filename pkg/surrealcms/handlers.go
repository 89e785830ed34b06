package surrealcms

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/surrealdb/surrealcms/pkg/models"
)

// CRUD handlers for the records themselves. Endpoints that open up the
// stored content strings (blocks, properties, entries) live in
// editor_handlers.go.
//
// pathID and decodeBody carry the steps every record handler repeats and
// write the 400 response themselves, so the handlers only spell out the
// store call and the success shape.

// pathID parses the named mux path variable with the given typed-ID
// parser. On failure it answers 400 and reports false.
func pathID[ID any](w http.ResponseWriter, r *http.Request, name, label string, parse func(string) (ID, error)) (ID, bool) {
	id, err := parse(mux.Vars(r)[name])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid "+label)
		return id, false
	}
	return id, true
}

// decodeBody unmarshals the request body into dst, answering 400 when the
// JSON does not parse.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

// User handlers

// handleCreateUser creates a user account from the JSON payload. The store
// assigns the ID and timestamps, so any caller-provided values for those
// are taken as-is only when non-zero.
func (a *App) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if !decodeBody(w, r, &user) {
		return
	}

	if err := a.store.CreateUser(r.Context(), &user); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (a *App) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "user ID", models.ParseUserID)
	if !ok {
		return
	}

	user, err := a.store.GetUser(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// handleUpdateUser replaces the stored user with the payload. The ID always
// comes from the path; an ID in the body is overwritten.
func (a *App) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "user ID", models.ParseUserID)
	if !ok {
		return
	}
	var user models.User
	if !decodeBody(w, r, &user) {
		return
	}
	user.ID = id

	if err := a.store.UpdateUser(r.Context(), &user); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (a *App) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "user ID", models.ParseUserID)
	if !ok {
		return
	}

	if err := a.store.DeleteUser(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Project handlers

func (a *App) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if !decodeBody(w, r, &project) {
		return
	}

	if err := a.store.CreateProject(r.Context(), &project); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, project)
}

func (a *App) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "project ID", models.ParseProjectID)
	if !ok {
		return
	}

	project, err := a.store.GetProject(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if project == nil {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}
	respondJSON(w, http.StatusOK, project)
}

func (a *App) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "project ID", models.ParseProjectID)
	if !ok {
		return
	}
	var project models.Project
	if !decodeBody(w, r, &project) {
		return
	}
	project.ID = id

	if err := a.store.UpdateProject(r.Context(), &project); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, project)
}

// handleDeleteProject tears down the project and everything under it: its
// pages, its databases with their entries, and its asset records.
func (a *App) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "project ID", models.ParseProjectID)
	if !ok {
		return
	}

	if err := a.store.DeleteProject(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (a *App) handleListProjects(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId", "user ID", models.ParseUserID)
	if !ok {
		return
	}

	projects, err := a.store.ListProjects(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

// Page handlers

func (a *App) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	var page models.Page
	if !decodeBody(w, r, &page) {
		return
	}

	if err := a.store.CreatePage(r.Context(), &page); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, page)
}

func (a *App) handleGetPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "page ID", models.ParsePageID)
	if !ok {
		return
	}

	page, err := a.store.GetPage(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if page == nil {
		respondError(w, http.StatusNotFound, "Page not found")
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// handleUpdatePage replaces the whole page record, Content string included.
// Callers editing individual blocks should use the block endpoints instead,
// which reserialize the content server side.
func (a *App) handleUpdatePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "page ID", models.ParsePageID)
	if !ok {
		return
	}
	var page models.Page
	if !decodeBody(w, r, &page) {
		return
	}
	page.ID = id

	log.Debug().Stringer("id", page.ID).Str("title", page.Title).Msg("updating page")

	if err := a.store.UpdatePage(r.Context(), &page); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (a *App) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "page ID", models.ParsePageID)
	if !ok {
		return
	}

	if err := a.store.DeletePage(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (a *App) handleListPages(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "projectId", "project ID", models.ParseProjectID)
	if !ok {
		return
	}

	pages, err := a.store.ListPages(r.Context(), projectID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, pages)
}

// Database handlers

func (a *App) handleCreateDatabase(w http.ResponseWriter, r *http.Request) {
	var database models.Database
	if !decodeBody(w, r, &database) {
		return
	}

	if err := a.store.CreateDatabase(r.Context(), &database); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, database)
}

func (a *App) handleGetDatabase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "database ID", models.ParseDatabaseID)
	if !ok {
		return
	}

	database, err := a.store.GetDatabase(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if database == nil {
		respondError(w, http.StatusNotFound, "Database not found")
		return
	}
	respondJSON(w, http.StatusOK, database)
}

func (a *App) handleUpdateDatabase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "database ID", models.ParseDatabaseID)
	if !ok {
		return
	}
	var database models.Database
	if !decodeBody(w, r, &database) {
		return
	}
	database.ID = id

	if err := a.store.UpdateDatabase(r.Context(), &database); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, database)
}

// handleDeleteDatabase removes the database record only; its entries stay
// behind as orphans.
func (a *App) handleDeleteDatabase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "database ID", models.ParseDatabaseID)
	if !ok {
		return
	}

	if err := a.store.DeleteDatabase(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (a *App) handleListDatabases(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "projectId", "project ID", models.ParseProjectID)
	if !ok {
		return
	}

	databases, err := a.store.ListDatabases(r.Context(), projectID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, databases)
}

// Asset handlers. Uploads happen against the external storage collaborator;
// these endpoints only manage the records pointing at the uploaded files.

func (a *App) handleRegisterAsset(w http.ResponseWriter, r *http.Request) {
	var asset models.Asset
	if !decodeBody(w, r, &asset) {
		return
	}

	if err := a.store.CreateAsset(r.Context(), &asset); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, asset)
}

func (a *App) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "asset ID", models.ParseAssetID)
	if !ok {
		return
	}

	asset, err := a.store.GetAsset(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if asset == nil {
		respondError(w, http.StatusNotFound, "Asset not found")
		return
	}
	respondJSON(w, http.StatusOK, asset)
}

func (a *App) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "asset ID", models.ParseAssetID)
	if !ok {
		return
	}

	if err := a.store.DeleteAsset(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (a *App) handleListAssets(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "projectId", "project ID", models.ParseProjectID)
	if !ok {
		return
	}

	assets, err := a.store.ListAssets(r.Context(), projectID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, assets)
}

// respondJSON sends a JSON response with the given status and payload. A
// nil payload produces an empty body, which is how DELETE handlers answer
// 204.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_, _ = w.Write(response)
	}
}

// respondError sends a standardized JSON error response:
//
//	{"error": "error message here"}
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// handleHealth reports service status, the current migration mode, and the
// server time. Accessible at both /health and /api/health so monitoring
// setups with either convention work.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"mode":   a.config.MigrationMode,
		"time":   time.Now().Unix(),
	})
}
