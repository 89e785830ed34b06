package surrealcms

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/surrealdb/surrealcms/pkg/client"
	"github.com/surrealdb/surrealcms/pkg/content"
	"github.com/surrealdb/surrealcms/pkg/editor"
	"github.com/surrealdb/surrealcms/pkg/models"
)

// Handlers for the endpoints that open up the stored content strings. Each
// write loads the owning record, applies one edit through the editor or
// content package, and persists the reserialized string, so the opaque
// fields never leave this file half-updated.

// fetchPage loads the page addressed by the pageId path variable, writing
// the error response and returning nil when that fails.
func (a *App) fetchPage(w http.ResponseWriter, r *http.Request) *models.Page {
	id, err := models.ParsePageID(mux.Vars(r)["pageId"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid page ID")
		return nil
	}

	page, err := a.store.GetPage(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return nil
	}
	if page == nil {
		respondError(w, http.StatusNotFound, "Page not found")
		return nil
	}
	return page
}

// fetchDatabase does the same for the databaseId path variable.
func (a *App) fetchDatabase(w http.ResponseWriter, r *http.Request) *models.Database {
	id, err := models.ParseDatabaseID(mux.Vars(r)["databaseId"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid database ID")
		return nil
	}

	database, err := a.store.GetDatabase(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return nil
	}
	if database == nil {
		respondError(w, http.StatusNotFound, "Database not found")
		return nil
	}
	return database
}

// savePageBlocks serializes the editor state back onto the page and
// persists it, writing the error response and returning false on failure.
func (a *App) savePageBlocks(w http.ResponseWriter, r *http.Request, page *models.Page, ed *editor.BlockEditor) bool {
	raw, err := ed.Save()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return false
	}
	page.Content = raw

	if err := a.store.UpdatePage(r.Context(), page); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return false
	}
	return true
}

// saveDatabaseSchema serializes the schema editor state back onto the
// database and persists it.
func (a *App) saveDatabaseSchema(w http.ResponseWriter, r *http.Request, database *models.Database, se *editor.SchemaEditor) bool {
	raw, err := se.Save()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return false
	}
	database.Schema = raw

	if err := a.store.UpdateDatabase(r.Context(), database); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return false
	}
	return true
}

// databaseNameLookup resolves database IDs to display names for reference
// annotation. Unparseable IDs and store errors report not-found rather than
// failing the page read.
func (a *App) databaseNameLookup(r *http.Request) func(id string) (string, bool) {
	return func(id string) (string, bool) {
		databaseID, err := models.ParseDatabaseID(id)
		if err != nil {
			return "", false
		}
		database, err := a.store.GetDatabase(r.Context(), databaseID)
		if err != nil || database == nil {
			return "", false
		}
		return database.Name, true
	}
}

// Block handlers

// handleListBlocks returns a page's decoded block sequence together with
// the resolution of every database_reference block. Malformed stored
// content degrades to the single-empty-text-block default rather than
// failing the read.
func (a *App) handleListBlocks(w http.ResponseWriter, r *http.Request) {
	page := a.fetchPage(w, r)
	if page == nil {
		return
	}

	blocks := content.UnmarshalBlocksOrDefault(page.Content)
	refs := editor.AnnotateReferences(blocks, a.databaseNameLookup(r))

	respondJSON(w, http.StatusOK, client.PageBlocksResponse{
		Blocks:     blocks,
		References: refs,
	})
}

func (a *App) handleInsertBlock(w http.ResponseWriter, r *http.Request) {
	var req client.InsertBlockRequest
	if !decodeBody(w, r, &req) {
		return
	}

	page := a.fetchPage(w, r)
	if page == nil {
		return
	}

	ed := editor.LoadBlockEditor(page.Content)
	block, err := ed.Insert(req.Type, req.After)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !a.savePageBlocks(w, r, page, ed) {
		return
	}

	respondJSON(w, http.StatusCreated, block)
}

func (a *App) handleUpdateBlock(w http.ResponseWriter, r *http.Request) {
	blockID := content.BlockID(mux.Vars(r)["blockId"])

	var req client.UpdateBlockRequest
	if !decodeBody(w, r, &req) {
		return
	}

	payload, err := content.DecodeContent(req.Type, req.Content)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page := a.fetchPage(w, r)
	if page == nil {
		return
	}

	ed := editor.LoadBlockEditor(page.Content)
	if err := ed.Update(blockID, payload); err != nil {
		if errors.Is(err, editor.ErrBlockNotFound) {
			respondError(w, http.StatusNotFound, "Block not found")
		} else {
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if !a.savePageBlocks(w, r, page, ed) {
		return
	}

	for _, b := range ed.Blocks() {
		if b.ID == blockID {
			respondJSON(w, http.StatusOK, b)
			return
		}
	}
	respondError(w, http.StatusInternalServerError, "updated block missing from sequence")
}

func (a *App) handleDeleteBlock(w http.ResponseWriter, r *http.Request) {
	blockID := content.BlockID(mux.Vars(r)["blockId"])

	page := a.fetchPage(w, r)
	if page == nil {
		return
	}

	ed := editor.LoadBlockEditor(page.Content)
	if err := ed.Remove(blockID); err != nil {
		if errors.Is(err, editor.ErrBlockNotFound) {
			respondError(w, http.StatusNotFound, "Block not found")
		} else {
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if !a.savePageBlocks(w, r, page, ed) {
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (a *App) handleMoveBlock(w http.ResponseWriter, r *http.Request) {
	blockID := content.BlockID(mux.Vars(r)["blockId"])

	var req client.MoveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	page := a.fetchPage(w, r)
	if page == nil {
		return
	}

	ed := editor.LoadBlockEditor(page.Content)
	moved, err := ed.Move(blockID, req.Direction)
	if err != nil {
		if errors.Is(err, editor.ErrBlockNotFound) {
			respondError(w, http.StatusNotFound, "Block not found")
		} else {
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	// Boundary moves change nothing, so skip the write
	if moved && !a.savePageBlocks(w, r, page, ed) {
		return
	}

	respondJSON(w, http.StatusOK, client.MoveResponse{Moved: moved})
}

// Property handlers

// handleListProperties returns a database's ordered property list. A
// malformed stored schema degrades to the empty list.
func (a *App) handleListProperties(w http.ResponseWriter, r *http.Request) {
	database := a.fetchDatabase(w, r)
	if database == nil {
		return
	}

	respondJSON(w, http.StatusOK, content.UnmarshalPropertiesOrDefault(database.Schema))
}

func (a *App) handleAddProperty(w http.ResponseWriter, r *http.Request) {
	var req client.AddPropertyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	database := a.fetchDatabase(w, r)
	if database == nil {
		return
	}

	se := editor.LoadSchemaEditor(database.Schema)
	property, err := se.AddProperty(req.Name, req.Type)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !a.saveDatabaseSchema(w, r, database, se) {
		return
	}

	respondJSON(w, http.StatusCreated, property)
}

func (a *App) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	propertyID := content.PropertyID(mux.Vars(r)["propertyId"])

	var property content.Property
	if !decodeBody(w, r, &property) {
		return
	}
	property.ID = propertyID

	database := a.fetchDatabase(w, r)
	if database == nil {
		return
	}

	se := editor.LoadSchemaEditor(database.Schema)
	if err := se.UpdateProperty(property); err != nil {
		if errors.Is(err, editor.ErrPropertyNotFound) {
			respondError(w, http.StatusNotFound, "Property not found")
		} else {
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if !a.saveDatabaseSchema(w, r, database, se) {
		return
	}

	respondJSON(w, http.StatusOK, property)
}

func (a *App) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	propertyID := content.PropertyID(mux.Vars(r)["propertyId"])

	database := a.fetchDatabase(w, r)
	if database == nil {
		return
	}

	se := editor.LoadSchemaEditor(database.Schema)
	if err := se.RemoveProperty(propertyID); err != nil {
		if errors.Is(err, editor.ErrPropertyNotFound) {
			respondError(w, http.StatusNotFound, "Property not found")
		} else {
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if !a.saveDatabaseSchema(w, r, database, se) {
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (a *App) handleMoveProperty(w http.ResponseWriter, r *http.Request) {
	propertyID := content.PropertyID(mux.Vars(r)["propertyId"])

	var req client.MoveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	database := a.fetchDatabase(w, r)
	if database == nil {
		return
	}

	se := editor.LoadSchemaEditor(database.Schema)
	moved, err := se.MoveProperty(propertyID, req.Direction)
	if err != nil {
		if errors.Is(err, editor.ErrPropertyNotFound) {
			respondError(w, http.StatusNotFound, "Property not found")
		} else {
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if moved && !a.saveDatabaseSchema(w, r, database, se) {
		return
	}

	respondJSON(w, http.StatusOK, client.MoveResponse{Moved: moved})
}

// Entry handlers

// handleCreateEntry persists a new entry and reports advisory validation.
// Required properties that are missing or empty are listed in the response
// but never block the save; drafts are first-class.
func (a *App) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req client.SaveEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Data == nil {
		req.Data = map[string]any{}
	}

	database := a.fetchDatabase(w, r)
	if database == nil {
		return
	}

	schema := content.UnmarshalPropertiesOrDefault(database.Schema)
	failing := content.ValidateEntry(schema, req.Data)

	raw, err := content.MarshalEntryData(req.Data)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry := &models.Entry{
		DatabaseID: database.ID,
		Data:       raw,
	}

	if err := a.store.CreateEntry(r.Context(), entry); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, client.EntrySaveResult{
		Entry:      entry,
		Validation: failing,
	})
}

// handleListEntries lists a database's entries. With ?q= it filters to
// entries whose string-valued properties contain the query, case
// insensitively; an empty query matches everything.
func (a *App) handleListEntries(w http.ResponseWriter, r *http.Request) {
	database := a.fetchDatabase(w, r)
	if database == nil {
		return
	}

	entries, err := a.store.ListEntries(r.Context(), database.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if query := r.URL.Query().Get("q"); query != "" {
		schema := content.UnmarshalPropertiesOrDefault(database.Schema)
		matched := make([]*models.Entry, 0, len(entries))
		for _, entry := range entries {
			data := content.UnmarshalEntryDataOrDefault(entry.Data)
			if editor.MatchEntry(schema, data, query) {
				matched = append(matched, entry)
			}
		}
		entries = matched
	}

	respondJSON(w, http.StatusOK, entries)
}

// handleNewEntry returns the value map a fresh entry starts from, one zero
// value per schema property, without persisting anything.
func (a *App) handleNewEntry(w http.ResponseWriter, r *http.Request) {
	database := a.fetchDatabase(w, r)
	if database == nil {
		return
	}

	schema := content.UnmarshalPropertiesOrDefault(database.Schema)
	data, err := content.BuildEmptyEntry(schema)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, client.EntrySkeleton{Data: data})
}

func (a *App) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "entry ID", models.ParseEntryID)
	if !ok {
		return
	}

	entry, err := a.store.GetEntry(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entry == nil {
		respondError(w, http.StatusNotFound, "Entry not found")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (a *App) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "entry ID", models.ParseEntryID)
	if !ok {
		return
	}

	var req client.SaveEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Data == nil {
		req.Data = map[string]any{}
	}

	ctx := r.Context()
	entry, err := a.store.GetEntry(ctx, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entry == nil {
		respondError(w, http.StatusNotFound, "Entry not found")
		return
	}

	// Validation needs the schema; if the owning database is gone the
	// entry is orphaned and saves without advisory checks.
	var schema []content.Property
	if database, err := a.store.GetDatabase(ctx, entry.DatabaseID); err == nil && database != nil {
		schema = content.UnmarshalPropertiesOrDefault(database.Schema)
	}
	failing := content.ValidateEntry(schema, req.Data)

	raw, err := content.MarshalEntryData(req.Data)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	entry.Data = raw

	if err := a.store.UpdateEntry(ctx, entry); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, client.EntrySaveResult{
		Entry:      entry,
		Validation: failing,
	})
}

func (a *App) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "entry ID", models.ParseEntryID)
	if !ok {
		return
	}

	if err := a.store.DeleteEntry(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
