// Package client provides a typed HTTP client for the surrealcms API.
//
// The client mirrors the server's endpoint structure: project, page,
// database, entry, and asset CRUD plus the block and property editing
// endpoints that run the editors server-side. Request and response bodies
// reuse the same [github.com/surrealdb/surrealcms/pkg/models] and
// [github.com/surrealdb/surrealcms/pkg/content] types as the server, so the
// wire formats round-trip without a parallel set of DTOs.
//
// Authentication is token-based: SignUp and SignIn store the returned
// bearer token on the client and every subsequent request carries it in the
// Authorization header. Every method takes a context, so a caller that goes
// away cancels its in-flight requests instead of leaking them.
//
// Errors follow the server's contract: any 4xx/5xx response surfaces as an
// error carrying the status and body, and the caller's in-memory state is
// untouched, leaving it free to retry the same call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/surrealdb/surrealcms/pkg/content"
	"github.com/surrealdb/surrealcms/pkg/editor"
	"github.com/surrealdb/surrealcms/pkg/models"
)

// Client provides strongly-typed access to the surrealcms REST API.
//
// Client instances are safe for concurrent use by multiple goroutines once
// authenticated; SetAuthToken itself is not synchronized.
type Client struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
}

// NewClient creates a new surrealcms API client.
//
// The baseURL should include the protocol and host (e.g.
// "http://localhost:8080") without a trailing slash or API path prefix.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetAuthToken sets the bearer token sent with every request.
func (c *Client) SetAuthToken(token string) {
	c.authToken = token
}

// doRequest performs an HTTP request with proper headers
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	return c.httpClient.Do(req)
}

// decodeResponse decodes the JSON response into the target struct
func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if target != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Health checks the health status of the server
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// User management

// CreateUser creates a new user
func (c *Client) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/users", user)
	if err != nil {
		return nil, err
	}

	var result models.User
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GetUser retrieves a user by ID
func (c *Client) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/users/%s", id), nil)
	if err != nil {
		return nil, err
	}

	var result models.User
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// UpdateUser updates an existing user
func (c *Client) UpdateUser(ctx context.Context, user *models.User) (*models.User, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/users/%s", user.ID), user)
	if err != nil {
		return nil, err
	}

	var result models.User
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteUser deletes a user
func (c *Client) DeleteUser(ctx context.Context, id models.UserID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%s", id), nil)
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}

// Project management

// CreateProject creates a new project
func (c *Client) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/projects", project)
	if err != nil {
		return nil, err
	}

	var result models.Project
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GetProject retrieves a project by ID
func (c *Client) GetProject(ctx context.Context, id models.ProjectID) (*models.Project, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/projects/%s", id), nil)
	if err != nil {
		return nil, err
	}

	var result models.Project
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// UpdateProject updates an existing project
func (c *Client) UpdateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/projects/%s", project.ID), project)
	if err != nil {
		return nil, err
	}

	var result models.Project
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteProject deletes a project together with its pages, databases,
// entries, and assets
func (c *Client) DeleteProject(ctx context.Context, id models.ProjectID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/projects/%s", id), nil)
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}

// ListProjects lists all projects owned by a user
func (c *Client) ListProjects(ctx context.Context, userID models.UserID) ([]*models.Project, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/users/%s/projects", userID), nil)
	if err != nil {
		return nil, err
	}

	var result []*models.Project
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// Page management

// CreatePage creates a new page
func (c *Client) CreatePage(ctx context.Context, page *models.Page) (*models.Page, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/pages", page)
	if err != nil {
		return nil, err
	}

	var result models.Page
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GetPage retrieves a page by ID
func (c *Client) GetPage(ctx context.Context, id models.PageID) (*models.Page, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/pages/%s", id), nil)
	if err != nil {
		return nil, err
	}

	var result models.Page
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// UpdatePage updates an existing page
func (c *Client) UpdatePage(ctx context.Context, page *models.Page) (*models.Page, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/pages/%s", page.ID), page)
	if err != nil {
		return nil, err
	}

	var result models.Page
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeletePage deletes a page
func (c *Client) DeletePage(ctx context.Context, id models.PageID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/pages/%s", id), nil)
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}

// ListPages lists all pages in a project
func (c *Client) ListPages(ctx context.Context, projectID models.ProjectID) ([]*models.Page, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/projects/%s/pages", projectID), nil)
	if err != nil {
		return nil, err
	}

	var result []*models.Page
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// Block editing
//
// The block endpoints run the block editor server-side: each call loads the
// page, applies one structural edit, and saves the reserialized content.
// The client therefore never patches the content string itself.

// InsertBlockRequest asks for a new block of the given type. After is the
// position the block is inserted after; nil appends at the end.
type InsertBlockRequest struct {
	Type  content.BlockType `json:"type"`
	After *int              `json:"after,omitempty"`
}

// UpdateBlockRequest replaces one block's payload. Content is decoded
// according to Type on the server.
type UpdateBlockRequest struct {
	Type    content.BlockType `json:"type"`
	Content json.RawMessage   `json:"content"`
}

// MoveRequest moves a block or property one step up or down.
type MoveRequest struct {
	Direction editor.Direction `json:"direction"`
}

// MoveResponse reports whether a move changed anything. Boundary moves
// return false without error.
type MoveResponse struct {
	Moved bool `json:"moved"`
}

// PageBlocksResponse carries a page's decoded block sequence together with
// the resolution of its database_reference blocks.
type PageBlocksResponse struct {
	Blocks     []content.Block      `json:"blocks"`
	References []editor.DatabaseRef `json:"references"`
}

// ListBlocks retrieves a page's block sequence with database references
// resolved
func (c *Client) ListBlocks(ctx context.Context, pageID models.PageID) (*PageBlocksResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/pages/%s/blocks", pageID), nil)
	if err != nil {
		return nil, err
	}

	var result PageBlocksResponse
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// InsertBlock inserts a new block of the given type after the given
// position (nil appends) and returns it with its default payload
func (c *Client) InsertBlock(ctx context.Context, pageID models.PageID, t content.BlockType, after *int) (*content.Block, error) {
	req := InsertBlockRequest{Type: t, After: after}
	resp, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/pages/%s/blocks", pageID), req)
	if err != nil {
		return nil, err
	}

	var result content.Block
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// UpdateBlock replaces one block's payload
func (c *Client) UpdateBlock(ctx context.Context, pageID models.PageID, blockID content.BlockID, payload content.BlockContent) (*content.Block, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal block content: %w", err)
	}
	req := UpdateBlockRequest{Type: payload.BlockType(), Content: raw}

	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/pages/%s/blocks/%s", pageID, blockID), req)
	if err != nil {
		return nil, err
	}

	var result content.Block
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteBlock removes a block from its page
func (c *Client) DeleteBlock(ctx context.Context, pageID models.PageID, blockID content.BlockID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/pages/%s/blocks/%s", pageID, blockID), nil)
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}

// MoveBlock swaps a block with its neighbor in the given direction and
// reports whether anything moved
func (c *Client) MoveBlock(ctx context.Context, pageID models.PageID, blockID content.BlockID, dir editor.Direction) (bool, error) {
	req := MoveRequest{Direction: dir}
	resp, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/pages/%s/blocks/%s/move", pageID, blockID), req)
	if err != nil {
		return false, err
	}

	var result MoveResponse
	if err := decodeResponse(resp, &result); err != nil {
		return false, err
	}

	return result.Moved, nil
}

// Database management

// CreateDatabase creates a new user-defined database
func (c *Client) CreateDatabase(ctx context.Context, database *models.Database) (*models.Database, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/databases", database)
	if err != nil {
		return nil, err
	}

	var result models.Database
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GetDatabase retrieves a database by ID
func (c *Client) GetDatabase(ctx context.Context, id models.DatabaseID) (*models.Database, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/databases/%s", id), nil)
	if err != nil {
		return nil, err
	}

	var result models.Database
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// UpdateDatabase updates an existing database
func (c *Client) UpdateDatabase(ctx context.Context, database *models.Database) (*models.Database, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/databases/%s", database.ID), database)
	if err != nil {
		return nil, err
	}

	var result models.Database
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteDatabase deletes a database; its entries are left in place
func (c *Client) DeleteDatabase(ctx context.Context, id models.DatabaseID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/databases/%s", id), nil)
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}

// ListDatabases lists all databases in a project
func (c *Client) ListDatabases(ctx context.Context, projectID models.ProjectID) ([]*models.Database, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/projects/%s/databases", projectID), nil)
	if err != nil {
		return nil, err
	}

	var result []*models.Database
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// Property editing
//
// Like the block endpoints, the property endpoints run the schema editor
// server-side against the database's stored schema string.

// AddPropertyRequest appends a property of the given type to a database
// schema.
type AddPropertyRequest struct {
	Name string               `json:"name"`
	Type content.PropertyType `json:"type"`
}

// ListProperties retrieves a database's ordered property list
func (c *Client) ListProperties(ctx context.Context, databaseID models.DatabaseID) ([]content.Property, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/databases/%s/properties", databaseID), nil)
	if err != nil {
		return nil, err
	}

	var result []content.Property
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// AddProperty appends a new property to a database schema
func (c *Client) AddProperty(ctx context.Context, databaseID models.DatabaseID, name string, t content.PropertyType) (*content.Property, error) {
	req := AddPropertyRequest{Name: name, Type: t}
	resp, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/databases/%s/properties", databaseID), req)
	if err != nil {
		return nil, err
	}

	var result content.Property
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// UpdateProperty replaces a property definition. Renaming a property
// orphans entry values stored under the old name.
func (c *Client) UpdateProperty(ctx context.Context, databaseID models.DatabaseID, property content.Property) (*content.Property, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/databases/%s/properties/%s", databaseID, property.ID), property)
	if err != nil {
		return nil, err
	}

	var result content.Property
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteProperty removes a property from a database schema
func (c *Client) DeleteProperty(ctx context.Context, databaseID models.DatabaseID, propertyID content.PropertyID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/databases/%s/properties/%s", databaseID, propertyID), nil)
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}

// MoveProperty swaps a property with its neighbor in the given direction
// and reports whether anything moved
func (c *Client) MoveProperty(ctx context.Context, databaseID models.DatabaseID, propertyID content.PropertyID, dir editor.Direction) (bool, error) {
	req := MoveRequest{Direction: dir}
	resp, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/databases/%s/properties/%s/move", databaseID, propertyID), req)
	if err != nil {
		return false, err
	}

	var result MoveResponse
	if err := decodeResponse(resp, &result); err != nil {
		return false, err
	}

	return result.Moved, nil
}

// Entry management

// SaveEntryRequest carries an entry's property-name to value mapping.
type SaveEntryRequest struct {
	Data map[string]any `json:"data"`
}

// EntrySaveResult is the server's answer to an entry write: the persisted
// entry plus the IDs of required properties that failed validation. The
// save succeeds regardless; validation is advisory.
type EntrySaveResult struct {
	Entry      *models.Entry        `json:"entry"`
	Validation []content.PropertyID `json:"validation,omitempty"`
}

// EntrySkeleton is a fresh entry's starting value map, one zero value per
// schema property.
type EntrySkeleton struct {
	Data map[string]any `json:"data"`
}

// CreateEntry creates an entry in a database and returns it together with
// any advisory validation failures
func (c *Client) CreateEntry(ctx context.Context, databaseID models.DatabaseID, data map[string]any) (*EntrySaveResult, error) {
	req := SaveEntryRequest{Data: data}
	resp, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/databases/%s/entries", databaseID), req)
	if err != nil {
		return nil, err
	}

	var result EntrySaveResult
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// NewEntry returns the empty value map a fresh entry starts from without
// persisting anything
func (c *Client) NewEntry(ctx context.Context, databaseID models.DatabaseID) (map[string]any, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/databases/%s/entries/new", databaseID), nil)
	if err != nil {
		return nil, err
	}

	var result EntrySkeleton
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result.Data, nil
}

// GetEntry retrieves an entry by ID
func (c *Client) GetEntry(ctx context.Context, id models.EntryID) (*models.Entry, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/entries/%s", id), nil)
	if err != nil {
		return nil, err
	}

	var result models.Entry
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// UpdateEntry replaces an entry's data and returns it together with any
// advisory validation failures
func (c *Client) UpdateEntry(ctx context.Context, id models.EntryID, data map[string]any) (*EntrySaveResult, error) {
	req := SaveEntryRequest{Data: data}
	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/entries/%s", id), req)
	if err != nil {
		return nil, err
	}

	var result EntrySaveResult
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteEntry deletes an entry
func (c *Client) DeleteEntry(ctx context.Context, id models.EntryID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/entries/%s", id), nil)
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}

// ListEntries lists a database's entries, optionally filtered by a
// free-text query over string-valued properties
func (c *Client) ListEntries(ctx context.Context, databaseID models.DatabaseID, query string) ([]*models.Entry, error) {
	path := fmt.Sprintf("/api/databases/%s/entries", databaseID)
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var result []*models.Entry
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// Asset management

// RegisterAsset records an asset already uploaded through the external
// storage collaborator
func (c *Client) RegisterAsset(ctx context.Context, asset *models.Asset) (*models.Asset, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/assets", asset)
	if err != nil {
		return nil, err
	}

	var result models.Asset
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GetAsset retrieves an asset by ID
func (c *Client) GetAsset(ctx context.Context, id models.AssetID) (*models.Asset, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/assets/%s", id), nil)
	if err != nil {
		return nil, err
	}

	var result models.Asset
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteAsset removes an asset record
func (c *Client) DeleteAsset(ctx context.Context, id models.AssetID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/assets/%s", id), nil)
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}

// ListAssets lists all assets registered in a project
func (c *Client) ListAssets(ctx context.Context, projectID models.ProjectID) ([]*models.Asset, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/projects/%s/assets", projectID), nil)
	if err != nil {
		return nil, err
	}

	var result []*models.Asset
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}
