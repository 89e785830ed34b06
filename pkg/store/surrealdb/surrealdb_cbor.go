// Package surrealdb provides the SurrealDB implementation of the
// [github.com/surrealdb/surrealcms/pkg/store.Store] interface using native
// SurrealQL, without an ORM translation layer.
//
// # CBOR Marshaling Strategy
//
// The store wires the surrealcbor codec into the connection so that Go types
// round-trip in the binary format SurrealDB uses internally:
//
//   - Content models marshal directly to SurrealDB records
//   - Typed IDs (models.UserID, models.ProjectID, ...) convert to RecordIDs
//     automatically via their MarshalCBOR implementations
//   - time.Time values use SurrealDB's native datetime format
//
// No wrapper types sit between the application models and the database. The
// same structs that GORM persists to PostgreSQL are stored here unchanged:
// foreign key fields marshal to RecordIDs, and the extra GORM bookkeeping
// fields are harmless in a schema-flexible table. Queries always use $param
// placeholders with typed IDs as values, never string interpolation.
//
// # Relationships
//
// Ownership and containment are recorded twice. The foreign key field on the
// record supports WHERE queries that stay compatible with the PostgreSQL
// schema, and a RELATE edge (user->owns->projects, projects->contains->pages)
// supports graph traversal. Project and page listings traverse the graph;
// database, entry and asset listings filter on the foreign key field.
//
// # Deletes and Transactions
//
// Unlike the PostgreSQL store this store deletes records for real rather
// than marking them. Project teardown, the one delete that spans tables,
// runs as a multi-statement transaction inside a single Query call, which is
// how SurrealDB scopes atomicity: a BEGIN/COMMIT pair only holds together
// statements submitted in the same RPC request.
//
// # CQRS Role
//
// The ListModified*IDs methods answer timestamp-range queries over
// created_at/updated_at, so this store can serve as either side of a
// cqrs.CQRSStore migration. Change tracking tables are a PostgreSQL
// feature; when SurrealDB is the primary store, synchronization falls back
// to timestamp mode.
package surrealdb

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/surrealdb/surrealcms/pkg/models"
	"github.com/surrealdb/surrealcms/pkg/store"
	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/surrealcbor"
)

// SurrealStoreCBOR implements the Store interface on a SurrealDB connection
// configured with the surrealcbor codec.
//
// The codec matters: SurrealDB speaks CBOR internally, and the default Go
// marshaling produces datetime and RecordID encodings it rejects. With
// surrealcbor installed on the connection, time.Time and the typed IDs
// marshal into exactly the forms SurrealQL parameters expect.
type SurrealStoreCBOR struct {
	db       *surrealdb.DB
	ns       string
	database string
}

// NewSurrealStoreCBOR connects to SurrealDB over WebSocket and returns a
// ready-to-use store. The connection is configured manually rather than via
// FromEndpointURLString so the surrealcbor codec can be installed before the
// first message is exchanged.
func NewSurrealStoreCBOR(wsURL, namespace, database, username, password string) (store.Store, error) {
	ctx := context.Background()

	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	conf := connection.NewConfig(u)

	// Install surrealcbor for proper time.Time and RecordID handling.
	codec := surrealcbor.New()
	conf.Marshaler = codec
	conf.Unmarshaler = codec

	conn := gorillaws.New(conf)

	db, err := surrealdb.FromConnection(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if username != "" && password != "" {
		if _, err := db.SignIn(ctx, map[string]any{
			"user": username,
			"pass": password,
		}); err != nil {
			return nil, fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err := db.Use(ctx, namespace, database); err != nil {
		return nil, fmt.Errorf("failed to use namespace/database: %w", err)
	}

	return &SurrealStoreCBOR{
		db:       db,
		ns:       namespace,
		database: database,
	}, nil
}

// Migrate is a no-op. SurrealDB creates tables implicitly when the first
// record is inserted and infers field types from the data, so there is no
// schema to set up. Keeping the method allows the CQRS store to run
// migrations against both backends without special cases.
func (s *SurrealStoreCBOR) Migrate(ctx context.Context) error {
	return nil
}

// Close closes the database connection.
func (s *SurrealStoreCBOR) Close() error {
	return s.db.Close(context.Background())
}

// handleNotFoundCBOR maps the SDK's "no rows" errors to nil so callers get
// the (nil, nil) miss contract instead of an error.
func handleNotFoundCBOR(err error) error {
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "Expected a single or multiple results but got 0") ||
			strings.Contains(errStr, "cannot unmarshal array into Go value") {
			return nil
		}
	}
	return err
}

// User operations

func (s *SurrealStoreCBOR) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = models.NewUserID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = time.Now()
	}

	_, err := surrealdb.Create[models.User](ctx, s.db, "users", user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *SurrealStoreCBOR) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	rid := id.RecordID()
	user, err := surrealdb.Select[models.User](ctx, s.db, rid)
	if err != nil {
		if handleNotFoundCBOR(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *SurrealStoreCBOR) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := "SELECT * FROM users WHERE email = $email"
	params := map[string]any{
		"email": email,
	}
	result, err := surrealdb.Query[[]models.User](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if result != nil && len(*result) > 0 && len((*result)[0].Result) > 0 {
		return &(*result)[0].Result[0], nil
	}
	return nil, nil
}

func (s *SurrealStoreCBOR) UpdateUser(ctx context.Context, user *models.User) error {
	rid := user.ID.RecordID()
	user.UpdatedAt = time.Now()

	_, err := surrealdb.Update[models.User](ctx, s.db, rid, user)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (s *SurrealStoreCBOR) DeleteUser(ctx context.Context, id models.UserID) error {
	rid := id.RecordID()
	_, err := surrealdb.Delete[models.User](ctx, s.db, rid)
	return err
}

// Project operations

func (s *SurrealStoreCBOR) CreateProject(ctx context.Context, project *models.Project) error {
	if project.ID.IsZero() {
		project.ID = models.NewProjectID()
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now()
	}
	if project.UpdatedAt.IsZero() {
		project.UpdatedAt = time.Now()
	}

	// The OwnerID field is stored as a RecordID thanks to UserID's MarshalCBOR.
	_, err := surrealdb.Create[models.Project](ctx, s.db, "projects", project)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	// Graph edge for traversal queries: user->owns->project.
	relateQuery := "RELATE $user->owns->$project"
	params := map[string]any{
		"user":    project.OwnerID.RecordID(),
		"project": project.ID.RecordID(),
	}
	if _, err := surrealdb.Query[any](ctx, s.db, relateQuery, params); err != nil {
		return fmt.Errorf("failed to create ownership relationship: %w", err)
	}

	return nil
}

func (s *SurrealStoreCBOR) GetProject(ctx context.Context, id models.ProjectID) (*models.Project, error) {
	rid := id.RecordID()
	project, err := surrealdb.Select[models.Project](ctx, s.db, rid)
	if err != nil {
		if handleNotFoundCBOR(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

func (s *SurrealStoreCBOR) UpdateProject(ctx context.Context, project *models.Project) error {
	rid := project.ID.RecordID()
	project.UpdatedAt = time.Now()

	_, err := surrealdb.Update[models.Project](ctx, s.db, rid, project)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

// DeleteProject removes the project and everything under it: entries of its
// databases, the databases, its pages and its assets. The statements run as
// one transaction inside a single Query call so a partial failure cannot
// leave orphaned children behind.
func (s *SurrealStoreCBOR) DeleteProject(ctx context.Context, id models.ProjectID) error {
	query := `BEGIN TRANSACTION;
		DELETE entries WHERE database_id IN (SELECT VALUE id FROM databases WHERE project_id = $project);
		DELETE databases WHERE project_id = $project;
		DELETE pages WHERE project_id = $project;
		DELETE assets WHERE project_id = $project;
		DELETE $project;
		COMMIT TRANSACTION;`
	params := map[string]any{
		"project": id.RecordID(),
	}
	if _, err := surrealdb.Query[any](ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (s *SurrealStoreCBOR) ListProjects(ctx context.Context, ownerID models.UserID) ([]*models.Project, error) {
	// Graph traversal: from the user, follow owns edges to projects.
	// The .* retrieves all fields of the project, not just the ID.
	query := "SELECT ->owns->projects.* FROM $user"
	params := map[string]any{
		"user": ownerID.RecordID(),
	}

	type Result struct {
		Projects []*models.Project `json:"->owns->projects"`
	}
	result, err := surrealdb.Query[[]Result](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := []*models.Project{}
	if result != nil && len(*result) > 0 && len((*result)[0].Result) > 0 {
		projects = append(projects, (*result)[0].Result[0].Projects...)
	}

	// Traversal order is unspecified, so order by creation time here.
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.Before(projects[j].CreatedAt)
	})
	return projects, nil
}

// Page operations

func (s *SurrealStoreCBOR) CreatePage(ctx context.Context, page *models.Page) error {
	if page.ID.IsZero() {
		page.ID = models.NewPageID()
	}
	if page.CreatedAt.IsZero() {
		page.CreatedAt = time.Now()
	}
	if page.UpdatedAt.IsZero() {
		page.UpdatedAt = time.Now()
	}

	_, err := surrealdb.Create[models.Page](ctx, s.db, "pages", page)
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}

	// Graph edge for traversal queries: project->contains->page.
	relateQuery := "RELATE $project->contains->$page"
	params := map[string]any{
		"project": page.ProjectID.RecordID(),
		"page":    page.ID.RecordID(),
	}
	if _, err := surrealdb.Query[any](ctx, s.db, relateQuery, params); err != nil {
		return fmt.Errorf("failed to create containment relationship: %w", err)
	}

	return nil
}

func (s *SurrealStoreCBOR) GetPage(ctx context.Context, id models.PageID) (*models.Page, error) {
	rid := id.RecordID()
	page, err := surrealdb.Select[models.Page](ctx, s.db, rid)
	if err != nil {
		if handleNotFoundCBOR(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	return page, nil
}

func (s *SurrealStoreCBOR) UpdatePage(ctx context.Context, page *models.Page) error {
	rid := page.ID.RecordID()
	page.UpdatedAt = time.Now()

	_, err := surrealdb.Update[models.Page](ctx, s.db, rid, page)
	if err != nil {
		return fmt.Errorf("failed to update page: %w", err)
	}
	return nil
}

func (s *SurrealStoreCBOR) DeletePage(ctx context.Context, id models.PageID) error {
	rid := id.RecordID()
	_, err := surrealdb.Delete[models.Page](ctx, s.db, rid)
	return err
}

func (s *SurrealStoreCBOR) ListPages(ctx context.Context, projectID models.ProjectID) ([]*models.Page, error) {
	query := "SELECT ->contains->pages.* FROM $project"
	params := map[string]any{
		"project": projectID.RecordID(),
	}

	type Result struct {
		Pages []*models.Page `json:"->contains->pages"`
	}
	result, err := surrealdb.Query[[]Result](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	pages := []*models.Page{}
	if result != nil && len(*result) > 0 && len((*result)[0].Result) > 0 {
		pages = append(pages, (*result)[0].Result[0].Pages...)
	}

	sort.Slice(pages, func(i, j int) bool {
		return pages[i].CreatedAt.Before(pages[j].CreatedAt)
	})
	return pages, nil
}

// Database operations

func (s *SurrealStoreCBOR) CreateDatabase(ctx context.Context, database *models.Database) error {
	if database.ID.IsZero() {
		database.ID = models.NewDatabaseID()
	}
	if database.CreatedAt.IsZero() {
		database.CreatedAt = time.Now()
	}
	if database.UpdatedAt.IsZero() {
		database.UpdatedAt = time.Now()
	}

	_, err := surrealdb.Create[models.Database](ctx, s.db, "databases", database)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	return nil
}

func (s *SurrealStoreCBOR) GetDatabase(ctx context.Context, id models.DatabaseID) (*models.Database, error) {
	rid := id.RecordID()
	database, err := surrealdb.Select[models.Database](ctx, s.db, rid)
	if err != nil {
		if handleNotFoundCBOR(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get database: %w", err)
	}
	return database, nil
}

func (s *SurrealStoreCBOR) UpdateDatabase(ctx context.Context, database *models.Database) error {
	rid := database.ID.RecordID()
	database.UpdatedAt = time.Now()

	_, err := surrealdb.Update[models.Database](ctx, s.db, rid, database)
	if err != nil {
		return fmt.Errorf("failed to update database: %w", err)
	}
	return nil
}

// DeleteDatabase removes only the database record; entries keep their
// database_id and stay selectable as orphans.
func (s *SurrealStoreCBOR) DeleteDatabase(ctx context.Context, id models.DatabaseID) error {
	rid := id.RecordID()
	_, err := surrealdb.Delete[models.Database](ctx, s.db, rid)
	return err
}

func (s *SurrealStoreCBOR) ListDatabases(ctx context.Context, projectID models.ProjectID) ([]*models.Database, error) {
	// Foreign key filter instead of graph traversal; project_id is stored
	// as a RecordID so the typed ID works directly as the parameter.
	query := "SELECT * FROM databases WHERE project_id = $project ORDER BY created_at"
	vars := map[string]any{
		"project": projectID,
	}
	result, err := surrealdb.Query[[]models.Database](ctx, s.db, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}

	databases := []*models.Database{}
	if result != nil && len(*result) > 0 {
		for i := range (*result)[0].Result {
			databases = append(databases, &(*result)[0].Result[i])
		}
	}
	return databases, nil
}

// Entry operations

func (s *SurrealStoreCBOR) CreateEntry(ctx context.Context, entry *models.Entry) error {
	if entry.ID.IsZero() {
		entry.ID = models.NewEntryID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now()
	}

	_, err := surrealdb.Create[models.Entry](ctx, s.db, "entries", entry)
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	return nil
}

func (s *SurrealStoreCBOR) GetEntry(ctx context.Context, id models.EntryID) (*models.Entry, error) {
	rid := id.RecordID()
	entry, err := surrealdb.Select[models.Entry](ctx, s.db, rid)
	if err != nil {
		if handleNotFoundCBOR(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return entry, nil
}

func (s *SurrealStoreCBOR) UpdateEntry(ctx context.Context, entry *models.Entry) error {
	rid := entry.ID.RecordID()
	entry.UpdatedAt = time.Now()

	_, err := surrealdb.Update[models.Entry](ctx, s.db, rid, entry)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return nil
}

func (s *SurrealStoreCBOR) DeleteEntry(ctx context.Context, id models.EntryID) error {
	rid := id.RecordID()
	_, err := surrealdb.Delete[models.Entry](ctx, s.db, rid)
	return err
}

func (s *SurrealStoreCBOR) ListEntries(ctx context.Context, databaseID models.DatabaseID) ([]*models.Entry, error) {
	query := "SELECT * FROM entries WHERE database_id = $database ORDER BY created_at"
	vars := map[string]any{
		"database": databaseID,
	}
	result, err := surrealdb.Query[[]models.Entry](ctx, s.db, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	entries := []*models.Entry{}
	if result != nil && len(*result) > 0 {
		for i := range (*result)[0].Result {
			entries = append(entries, &(*result)[0].Result[i])
		}
	}
	return entries, nil
}

// Asset operations

func (s *SurrealStoreCBOR) CreateAsset(ctx context.Context, asset *models.Asset) error {
	if asset.ID.IsZero() {
		asset.ID = models.NewAssetID()
	}
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now()
	}
	if asset.UpdatedAt.IsZero() {
		asset.UpdatedAt = time.Now()
	}

	_, err := surrealdb.Create[models.Asset](ctx, s.db, "assets", asset)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

func (s *SurrealStoreCBOR) GetAsset(ctx context.Context, id models.AssetID) (*models.Asset, error) {
	rid := id.RecordID()
	asset, err := surrealdb.Select[models.Asset](ctx, s.db, rid)
	if err != nil {
		if handleNotFoundCBOR(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return asset, nil
}

func (s *SurrealStoreCBOR) UpdateAsset(ctx context.Context, asset *models.Asset) error {
	rid := asset.ID.RecordID()
	asset.UpdatedAt = time.Now()

	_, err := surrealdb.Update[models.Asset](ctx, s.db, rid, asset)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	return nil
}

func (s *SurrealStoreCBOR) DeleteAsset(ctx context.Context, id models.AssetID) error {
	rid := id.RecordID()
	_, err := surrealdb.Delete[models.Asset](ctx, s.db, rid)
	return err
}

func (s *SurrealStoreCBOR) ListAssets(ctx context.Context, projectID models.ProjectID) ([]*models.Asset, error) {
	query := "SELECT * FROM assets WHERE project_id = $project ORDER BY created_at"
	vars := map[string]any{
		"project": projectID,
	}
	result, err := surrealdb.Query[[]models.Asset](ctx, s.db, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	assets := []*models.Asset{}
	if result != nil && len(*result) > 0 {
		for i := range (*result)[0].Result {
			assets = append(assets, &(*result)[0].Result[i])
		}
	}
	return assets, nil
}

// Timestamp-based change detection for CQRS synchronization. Each query is
// parameterized to avoid timezone formatting issues; the range is
// [since, until).

func (s *SurrealStoreCBOR) ListModifiedUserIDs(ctx context.Context, since, until time.Time) ([]models.UserID, error) {
	query := `SELECT id FROM users
		WHERE (created_at >= $since AND created_at < $until)
		OR (updated_at >= $since AND updated_at < $until)`
	params := map[string]any{
		"since": since,
		"until": until,
	}

	result, err := surrealdb.Query[[]struct {
		ID models.UserID `json:"id"`
	}](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list modified user IDs: %w", err)
	}

	ids := []models.UserID{}
	if result != nil && len(*result) > 0 {
		for _, record := range (*result)[0].Result {
			ids = append(ids, record.ID)
		}
	}
	return ids, nil
}

func (s *SurrealStoreCBOR) ListModifiedProjectIDs(ctx context.Context, since, until time.Time) ([]models.ProjectID, error) {
	query := `SELECT id FROM projects
		WHERE (created_at >= $since AND created_at < $until)
		OR (updated_at >= $since AND updated_at < $until)`
	params := map[string]any{
		"since": since,
		"until": until,
	}

	result, err := surrealdb.Query[[]struct {
		ID models.ProjectID `json:"id"`
	}](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list modified project IDs: %w", err)
	}

	ids := []models.ProjectID{}
	if result != nil && len(*result) > 0 {
		for _, record := range (*result)[0].Result {
			ids = append(ids, record.ID)
		}
	}
	return ids, nil
}

func (s *SurrealStoreCBOR) ListModifiedPageIDs(ctx context.Context, since, until time.Time) ([]models.PageID, error) {
	query := `SELECT id FROM pages
		WHERE (created_at >= $since AND created_at < $until)
		OR (updated_at >= $since AND updated_at < $until)`
	params := map[string]any{
		"since": since,
		"until": until,
	}

	result, err := surrealdb.Query[[]struct {
		ID models.PageID `json:"id"`
	}](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list modified page IDs: %w", err)
	}

	ids := []models.PageID{}
	if result != nil && len(*result) > 0 {
		for _, record := range (*result)[0].Result {
			ids = append(ids, record.ID)
		}
	}
	return ids, nil
}

func (s *SurrealStoreCBOR) ListModifiedDatabaseIDs(ctx context.Context, since, until time.Time) ([]models.DatabaseID, error) {
	query := `SELECT id FROM databases
		WHERE (created_at >= $since AND created_at < $until)
		OR (updated_at >= $since AND updated_at < $until)`
	params := map[string]any{
		"since": since,
		"until": until,
	}

	result, err := surrealdb.Query[[]struct {
		ID models.DatabaseID `json:"id"`
	}](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list modified database IDs: %w", err)
	}

	ids := []models.DatabaseID{}
	if result != nil && len(*result) > 0 {
		for _, record := range (*result)[0].Result {
			ids = append(ids, record.ID)
		}
	}
	return ids, nil
}

func (s *SurrealStoreCBOR) ListModifiedEntryIDs(ctx context.Context, since, until time.Time) ([]models.EntryID, error) {
	query := `SELECT id FROM entries
		WHERE (created_at >= $since AND created_at < $until)
		OR (updated_at >= $since AND updated_at < $until)`
	params := map[string]any{
		"since": since,
		"until": until,
	}

	result, err := surrealdb.Query[[]struct {
		ID models.EntryID `json:"id"`
	}](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list modified entry IDs: %w", err)
	}

	ids := []models.EntryID{}
	if result != nil && len(*result) > 0 {
		for _, record := range (*result)[0].Result {
			ids = append(ids, record.ID)
		}
	}
	return ids, nil
}

func (s *SurrealStoreCBOR) ListModifiedAssetIDs(ctx context.Context, since, until time.Time) ([]models.AssetID, error) {
	query := `SELECT id FROM assets
		WHERE (created_at >= $since AND created_at < $until)
		OR (updated_at >= $since AND updated_at < $until)`
	params := map[string]any{
		"since": since,
		"until": until,
	}

	result, err := surrealdb.Query[[]struct {
		ID models.AssetID `json:"id"`
	}](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list modified asset IDs: %w", err)
	}

	ids := []models.AssetID{}
	if result != nil && len(*result) > 0 {
		for _, record := range (*result)[0].Result {
			ids = append(ids, record.ID)
		}
	}
	return ids, nil
}
