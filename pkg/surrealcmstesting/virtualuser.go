// Package surrealcmstesting provides virtual users for end-to-end testing of
// the surrealcms API under realistic editing workloads.
//
// A [VirtualUser] is a stateful simulated author. It signs up through the
// public auth endpoints, then builds projects, pages, block sequences,
// structured databases, and assets through
// [github.com/surrealdb/surrealcms/pkg/client.Client], keeping a local mirror
// of everything it created and deleted. The mirror is what makes migration
// testing meaningful: after content has been copied or synchronized between
// backends, [VirtualUser.VerifyAllData] replays the user's expectations
// against the API and reports the first divergence.
//
// Behavior is deterministic per user. The RNG is seeded with the user index,
// so a failing scenario replays identically given the same index and server
// state. Even-indexed users are biased toward creating content while
// odd-indexed users delete more aggressively, which spreads coverage across
// code paths when many virtual users run concurrently.
//
// Typical usage:
//
//	vu := surrealcmstesting.NewVirtualUser(0, "http://localhost:8080")
//	if err := vu.RunScenario(ctx); err != nil {
//		t.Fatal(err)
//	}
package surrealcmstesting

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/surrealdb/surrealcms/pkg/client"
	"github.com/surrealdb/surrealcms/pkg/content"
	"github.com/surrealdb/surrealcms/pkg/editor"
	"github.com/surrealdb/surrealcms/pkg/models"
)

// VirtualUser simulates one author working against a running surrealcms
// server. Every piece of content the user creates is tracked locally, as are
// the IDs of everything it deletes, so the server state can be checked
// against the user's own record at any point, including after a backend
// migration.
type VirtualUser struct {
	Index    int // Virtual user index (0, 1, 2...) - NOT the account ID
	Name     string
	Email    string
	Password string
	Client   *client.Client
	RNG      *rand.Rand // Deterministic random number generator seeded with Index

	// Session state
	User           *models.User    // Currently authenticated account
	CurrentProject *models.Project // Currently active project
	CurrentPage    *models.Page    // Currently active page
	AuthToken      string          // Current session token

	// Tracking data created by this user
	Projects  []*models.Project
	Pages     map[models.ProjectID][]*models.Page
	Blocks    map[models.PageID][]content.Block
	Databases map[models.ProjectID][]*models.Database
	Entries   map[models.DatabaseID][]*models.Entry
	Assets    map[models.ProjectID][]*models.Asset

	// Track deleted items for verification
	DeletedProjects  []models.ProjectID
	DeletedPages     []models.PageID
	DeletedBlocks    []content.BlockID
	DeletedDatabases []models.DatabaseID
	DeletedEntries   []models.EntryID

	mu sync.RWMutex
}

// NewVirtualUser creates a virtual user with its own client
func NewVirtualUser(index int, baseURL string) *VirtualUser {
	// Use the user index as seed for deterministic random behavior
	rng := rand.New(rand.NewSource(int64(index)))

	// Use a timestamp to ensure unique emails across test runs
	timestamp := time.Now().UnixNano()

	return &VirtualUser{
		Index:            index,
		Name:             fmt.Sprintf("Virtual User %d", index),
		Email:            fmt.Sprintf("user%d-%d@test.com", index, timestamp),
		Password:         fmt.Sprintf("password%d", index),
		Client:           client.NewClient(baseURL),
		RNG:              rng,
		Pages:            make(map[models.ProjectID][]*models.Page),
		Blocks:           make(map[models.PageID][]content.Block),
		Databases:        make(map[models.ProjectID][]*models.Database),
		Entries:          make(map[models.DatabaseID][]*models.Entry),
		Assets:           make(map[models.ProjectID][]*models.Asset),
		DeletedProjects:  make([]models.ProjectID, 0),
		DeletedPages:     make([]models.PageID, 0),
		DeletedBlocks:    make([]content.BlockID, 0),
		DeletedDatabases: make([]models.DatabaseID, 0),
		DeletedEntries:   make([]models.EntryID, 0),
	}
}

// SignUp creates an account for this virtual user
func (vu *VirtualUser) SignUp(ctx context.Context) error {
	authResp, err := vu.Client.SignUp(ctx, vu.Email, vu.Password, vu.Name)
	if err != nil {
		return fmt.Errorf("virtual user %d signup failed: %w", vu.Index, err)
	}

	vu.mu.Lock()
	vu.User = authResp.User
	vu.AuthToken = authResp.Token
	vu.mu.Unlock()

	return nil
}

// SignIn authenticates this virtual user
func (vu *VirtualUser) SignIn(ctx context.Context) error {
	authResp, err := vu.Client.SignIn(ctx, vu.Email, vu.Password)
	if err != nil {
		return fmt.Errorf("virtual user %d signin failed: %w", vu.Index, err)
	}

	vu.mu.Lock()
	vu.User = authResp.User
	vu.AuthToken = authResp.Token
	vu.mu.Unlock()

	return nil
}

// SignOut ends the current session
func (vu *VirtualUser) SignOut(ctx context.Context) error {
	if err := vu.Client.SignOut(ctx); err != nil {
		return fmt.Errorf("virtual user %d signout failed: %w", vu.Index, err)
	}

	vu.mu.Lock()
	vu.User = nil
	vu.AuthToken = ""
	vu.CurrentProject = nil
	vu.CurrentPage = nil
	vu.mu.Unlock()

	return nil
}

// CreateProject creates a new project and sets it as current
func (vu *VirtualUser) CreateProject(ctx context.Context, name string) (*models.Project, error) {
	project := &models.Project{
		Name:    name,
		OwnerID: vu.User.ID,
	}

	created, err := vu.Client.CreateProject(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("virtual user %d failed to create project: %w", vu.Index, err)
	}

	vu.mu.Lock()
	vu.Projects = append(vu.Projects, created)
	vu.CurrentProject = created
	vu.mu.Unlock()

	return created, nil
}

// SwitchProject switches to a different project
func (vu *VirtualUser) SwitchProject(ctx context.Context, projectID models.ProjectID) error {
	project, err := vu.Client.GetProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("virtual user %d failed to switch project: %w", vu.Index, err)
	}

	vu.mu.Lock()
	vu.CurrentProject = project
	vu.CurrentPage = nil // Clear current page when switching project
	vu.mu.Unlock()

	return nil
}

// UpdateProject renames a project and refreshes the local copy
func (vu *VirtualUser) UpdateProject(ctx context.Context, project *models.Project, newName string) error {
	project.Name = newName
	updated, err := vu.Client.UpdateProject(ctx, project)
	if err != nil {
		return fmt.Errorf("virtual user %d failed to update project: %w", vu.Index, err)
	}

	vu.mu.Lock()
	for i, p := range vu.Projects {
		if p.ID == updated.ID {
			vu.Projects[i] = updated
			break
		}
	}
	if vu.CurrentProject != nil && vu.CurrentProject.ID == updated.ID {
		vu.CurrentProject = updated
	}
	vu.mu.Unlock()

	return nil
}

// DeleteProject deletes a project and prunes everything tracked under it.
// The server cascades to pages, databases, entries, and assets, so the
// tracked children move to the deleted lists for later verification.
func (vu *VirtualUser) DeleteProject(ctx context.Context, projectID models.ProjectID) error {
	if err := vu.Client.DeleteProject(ctx, projectID); err != nil {
		return fmt.Errorf("virtual user %d failed to delete project: %w", vu.Index, err)
	}

	vu.mu.Lock()
	defer vu.mu.Unlock()

	for _, page := range vu.Pages[projectID] {
		vu.DeletedPages = append(vu.DeletedPages, page.ID)
		delete(vu.Blocks, page.ID)
	}
	delete(vu.Pages, projectID)

	for _, database := range vu.Databases[projectID] {
		vu.DeletedDatabases = append(vu.DeletedDatabases, database.ID)
		for _, entry := range vu.Entries[database.ID] {
			vu.DeletedEntries = append(vu.DeletedEntries, entry.ID)
		}
		delete(vu.Entries, database.ID)
	}
	delete(vu.Databases, projectID)
	delete(vu.Assets, projectID)

	remaining := make([]*models.Project, 0, len(vu.Projects))
	for _, p := range vu.Projects {
		if p.ID != projectID {
			remaining = append(remaining, p)
		}
	}
	vu.Projects = remaining
	vu.DeletedProjects = append(vu.DeletedProjects, projectID)

	if vu.CurrentProject != nil && vu.CurrentProject.ID == projectID {
		vu.CurrentProject = nil
		vu.CurrentPage = nil
	}

	return nil
}

// CreatePage creates a new page in the current project and sets it as current
func (vu *VirtualUser) CreatePage(ctx context.Context, title string) (*models.Page, error) {
	vu.mu.RLock()
	if vu.CurrentProject == nil {
		vu.mu.RUnlock()
		return nil, fmt.Errorf("virtual user %d has no current project", vu.Index)
	}
	projectID := vu.CurrentProject.ID
	vu.mu.RUnlock()

	return vu.CreatePageInProject(ctx, projectID, title)
}

// CreatePageInProject creates a page in a specific project
func (vu *VirtualUser) CreatePageInProject(ctx context.Context, projectID models.ProjectID, title string) (*models.Page, error) {
	page := &models.Page{
		ProjectID: projectID,
		Title:     title,
	}

	created, err := vu.Client.CreatePage(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("virtual user %d failed to create page: %w", vu.Index, err)
	}

	vu.mu.Lock()
	vu.Pages[projectID] = append(vu.Pages[projectID], created)
	vu.CurrentPage = created
	vu.mu.Unlock()

	return created, nil
}

// SwitchPage switches to a different page, following it into its project
// when the page lives outside the current one
func (vu *VirtualUser) SwitchPage(ctx context.Context, pageID models.PageID) error {
	page, err := vu.Client.GetPage(ctx, pageID)
	if err != nil {
		return fmt.Errorf("virtual user %d failed to switch page: %w", vu.Index, err)
	}

	if vu.CurrentProject == nil || page.ProjectID != vu.CurrentProject.ID {
		if err := vu.SwitchProject(ctx, page.ProjectID); err != nil {
			return err
		}
	}

	vu.mu.Lock()
	vu.CurrentPage = page
	vu.mu.Unlock()

	return nil
}

// UpdatePage retitles a page and refreshes the local copy
func (vu *VirtualUser) UpdatePage(ctx context.Context, page *models.Page, newTitle string) error {
	page.Title = newTitle
	updated, err := vu.Client.UpdatePage(ctx, page)
	if err != nil {
		return fmt.Errorf("virtual user %d failed to update page: %w", vu.Index, err)
	}

	vu.mu.Lock()
	for i, p := range vu.Pages[updated.ProjectID] {
		if p.ID == updated.ID {
			vu.Pages[updated.ProjectID][i] = updated
			break
		}
	}
	if vu.CurrentPage != nil && vu.CurrentPage.ID == updated.ID {
		vu.CurrentPage = updated
	}
	vu.mu.Unlock()

	return nil
}

// DeletePage deletes a tracked page
func (vu *VirtualUser) DeletePage(ctx context.Context, pageID models.PageID) error {
	vu.mu.RLock()
	var projectID models.ProjectID
	found := false
	for pid, pages := range vu.Pages {
		for _, p := range pages {
			if p.ID == pageID {
				projectID = pid
				found = true
				break
			}
		}
		if found {
			break
		}
	}
	vu.mu.RUnlock()

	if !found {
		return fmt.Errorf("virtual user %d does not track page %s", vu.Index, pageID)
	}

	if err := vu.Client.DeletePage(ctx, pageID); err != nil {
		return fmt.Errorf("virtual user %d failed to delete page: %w", vu.Index, err)
	}

	vu.mu.Lock()
	pages := vu.Pages[projectID]
	remaining := make([]*models.Page, 0, len(pages))
	for _, p := range pages {
		if p.ID != pageID {
			remaining = append(remaining, p)
		}
	}
	vu.Pages[projectID] = remaining
	delete(vu.Blocks, pageID)
	vu.DeletedPages = append(vu.DeletedPages, pageID)
	if vu.CurrentPage != nil && vu.CurrentPage.ID == pageID {
		vu.CurrentPage = nil
	}
	vu.mu.Unlock()

	return nil
}

// InsertBlock inserts a block through the editing endpoint and returns the
// block as placed in the sequence
func (vu *VirtualUser) InsertBlock(ctx context.Context, pageID models.PageID, blockType content.BlockType, after *int) (*content.Block, error) {
	block, err := vu.Client.InsertBlock(ctx, pageID, blockType, after)
	if err != nil {
		return nil, fmt.Errorf("virtual user %d failed to insert block: %w", vu.Index, err)
	}

	// The first insert also persists the starter block a fresh page is
	// seeded with, so reload the sequence rather than appending locally.
	if err := vu.refreshBlocks(ctx, pageID); err != nil {
		return nil, err
	}

	return block, nil
}

// UpdateBlockText replaces a block's payload with plain text
func (vu *VirtualUser) UpdateBlockText(ctx context.Context, pageID models.PageID, blockID content.BlockID, text string) error {
	if _, err := vu.Client.UpdateBlock(ctx, pageID, blockID, content.TextContent{Text: text}); err != nil {
		return fmt.Errorf("virtual user %d failed to update block: %w", vu.Index, err)
	}
	return vu.refreshBlocks(ctx, pageID)
}

// MoveRandomBlock nudges a randomly chosen block one step up or down and
// reports whether the sequence actually changed. Moves against the sequence
// boundary are no-ops on the server, mirrored here.
func (vu *VirtualUser) MoveRandomBlock(ctx context.Context, pageID models.PageID) (bool, error) {
	vu.mu.RLock()
	blocks := vu.Blocks[pageID]
	vu.mu.RUnlock()

	if len(blocks) < 2 {
		return false, nil // Nothing to move
	}

	blockID := blocks[vu.RNG.Intn(len(blocks))].ID
	dir := editor.DirectionUp
	if vu.RNG.Float32() < 0.5 {
		dir = editor.DirectionDown
	}

	moved, err := vu.Client.MoveBlock(ctx, pageID, blockID, dir)
	if err != nil {
		return false, fmt.Errorf("virtual user %d failed to move block: %w", vu.Index, err)
	}

	if moved {
		if err := vu.refreshBlocks(ctx, pageID); err != nil {
			return false, err
		}
	}

	return moved, nil
}

// DeleteBlock removes a block from a page
func (vu *VirtualUser) DeleteBlock(ctx context.Context, pageID models.PageID, blockID content.BlockID) error {
	if err := vu.Client.DeleteBlock(ctx, pageID, blockID); err != nil {
		return fmt.Errorf("virtual user %d failed to delete block: %w", vu.Index, err)
	}

	vu.mu.Lock()
	vu.DeletedBlocks = append(vu.DeletedBlocks, blockID)
	vu.mu.Unlock()

	return vu.refreshBlocks(ctx, pageID)
}

// refreshBlocks reloads the tracked block sequence for a page. Insert and
// move reassign positions server-side, so the local mirror is refreshed
// after every structural edit instead of being patched in place.
func (vu *VirtualUser) refreshBlocks(ctx context.Context, pageID models.PageID) error {
	resp, err := vu.Client.ListBlocks(ctx, pageID)
	if err != nil {
		return fmt.Errorf("virtual user %d failed to list blocks: %w", vu.Index, err)
	}

	vu.mu.Lock()
	vu.Blocks[pageID] = resp.Blocks
	vu.mu.Unlock()

	return nil
}

// CreateDatabase creates a structured database in the current project
func (vu *VirtualUser) CreateDatabase(ctx context.Context, name string) (*models.Database, error) {
	vu.mu.RLock()
	if vu.CurrentProject == nil {
		vu.mu.RUnlock()
		return nil, fmt.Errorf("virtual user %d has no current project", vu.Index)
	}
	projectID := vu.CurrentProject.ID
	vu.mu.RUnlock()

	database := &models.Database{
		ProjectID:   projectID,
		Name:        name,
		DefaultView: models.ViewTable,
	}

	created, err := vu.Client.CreateDatabase(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("virtual user %d failed to create database: %w", vu.Index, err)
	}

	vu.mu.Lock()
	vu.Databases[projectID] = append(vu.Databases[projectID], created)
	vu.mu.Unlock()

	return created, nil
}

// AddProperty appends a property to a database schema
func (vu *VirtualUser) AddProperty(ctx context.Context, databaseID models.DatabaseID, name string, propertyType content.PropertyType) (*content.Property, error) {
	property, err := vu.Client.AddProperty(ctx, databaseID, name, propertyType)
	if err != nil {
		return nil, fmt.Errorf("virtual user %d failed to add property: %w", vu.Index, err)
	}
	return property, nil
}

// CreateEntry adds an entry to a database. Entries failing required-property
// validation are still persisted as drafts, so the entry is tracked either
// way.
func (vu *VirtualUser) CreateEntry(ctx context.Context, databaseID models.DatabaseID, data map[string]any) (*models.Entry, error) {
	result, err := vu.Client.CreateEntry(ctx, databaseID, data)
	if err != nil {
		return nil, fmt.Errorf("virtual user %d failed to create entry: %w", vu.Index, err)
	}

	vu.mu.Lock()
	vu.Entries[databaseID] = append(vu.Entries[databaseID], result.Entry)
	vu.mu.Unlock()

	return result.Entry, nil
}

// UpdateEntry replaces an entry's value map
func (vu *VirtualUser) UpdateEntry(ctx context.Context, entryID models.EntryID, data map[string]any) error {
	if _, err := vu.Client.UpdateEntry(ctx, entryID, data); err != nil {
		return fmt.Errorf("virtual user %d failed to update entry: %w", vu.Index, err)
	}
	return nil
}

// DeleteEntry removes an entry from a database
func (vu *VirtualUser) DeleteEntry(ctx context.Context, databaseID models.DatabaseID, entryID models.EntryID) error {
	if err := vu.Client.DeleteEntry(ctx, entryID); err != nil {
		return fmt.Errorf("virtual user %d failed to delete entry: %w", vu.Index, err)
	}

	vu.mu.Lock()
	entries := vu.Entries[databaseID]
	remaining := make([]*models.Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID != entryID {
			remaining = append(remaining, e)
		}
	}
	vu.Entries[databaseID] = remaining
	vu.DeletedEntries = append(vu.DeletedEntries, entryID)
	vu.mu.Unlock()

	return nil
}

// RegisterAsset records an uploaded file in the current project
func (vu *VirtualUser) RegisterAsset(ctx context.Context, name string) (*models.Asset, error) {
	vu.mu.RLock()
	if vu.CurrentProject == nil {
		vu.mu.RUnlock()
		return nil, fmt.Errorf("virtual user %d has no current project", vu.Index)
	}
	projectID := vu.CurrentProject.ID
	vu.mu.RUnlock()

	asset := &models.Asset{
		ProjectID:   projectID,
		Name:        name,
		URL:         fmt.Sprintf("https://cdn.test/%s/%s", projectID, name),
		ContentType: "image/png",
		Size:        int64(vu.RNG.Intn(1 << 20)),
	}

	created, err := vu.Client.RegisterAsset(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("virtual user %d failed to register asset: %w", vu.Index, err)
	}

	vu.mu.Lock()
	vu.Assets[projectID] = append(vu.Assets[projectID], created)
	vu.mu.Unlock()

	return created, nil
}

// GetCurrentState returns the current session state of the virtual user
func (vu *VirtualUser) GetCurrentState() (user *models.User, project *models.Project, page *models.Page) {
	vu.mu.RLock()
	defer vu.mu.RUnlock()
	return vu.User, vu.CurrentProject, vu.CurrentPage
}

// VerifyAllData checks that everything this user created is still served by
// the API and everything it deleted stays gone. Pages never touched through
// the block endpoints are expected to serve the single starter block.
func (vu *VirtualUser) VerifyAllData(ctx context.Context) error {
	currentUser, err := vu.Client.GetCurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("virtual user %d failed to get current user: %w", vu.Index, err)
	}
	if currentUser.ID != vu.User.ID {
		return fmt.Errorf("virtual user %d ID mismatch: expected %s, got %s", vu.Index, vu.User.ID, currentUser.ID)
	}

	projects, err := vu.Client.ListProjects(ctx, vu.User.ID)
	if err != nil {
		return fmt.Errorf("virtual user %d failed to list projects: %w", vu.Index, err)
	}
	if len(projects) != len(vu.Projects) {
		return fmt.Errorf("virtual user %d project count mismatch: expected %d, got %d", vu.Index, len(vu.Projects), len(projects))
	}

	// Verify deleted data is gone
	for _, deletedID := range vu.DeletedProjects {
		project, err := vu.Client.GetProject(ctx, deletedID)
		if err == nil && project != nil {
			return fmt.Errorf("virtual user %d: deleted project %s still exists", vu.Index, deletedID)
		}
	}
	for _, deletedID := range vu.DeletedPages {
		page, err := vu.Client.GetPage(ctx, deletedID)
		if err == nil && page != nil {
			return fmt.Errorf("virtual user %d: deleted page %s still exists", vu.Index, deletedID)
		}
	}
	for _, deletedID := range vu.DeletedDatabases {
		database, err := vu.Client.GetDatabase(ctx, deletedID)
		if err == nil && database != nil {
			return fmt.Errorf("virtual user %d: deleted database %s still exists", vu.Index, deletedID)
		}
	}
	for _, deletedID := range vu.DeletedEntries {
		entry, err := vu.Client.GetEntry(ctx, deletedID)
		if err == nil && entry != nil {
			return fmt.Errorf("virtual user %d: deleted entry %s still exists", vu.Index, deletedID)
		}
	}

	deletedBlocks := make(map[content.BlockID]bool, len(vu.DeletedBlocks))
	for _, id := range vu.DeletedBlocks {
		deletedBlocks[id] = true
	}

	// Verify surviving content project by project
	for _, project := range vu.Projects {
		pages, err := vu.Client.ListPages(ctx, project.ID)
		if err != nil {
			return fmt.Errorf("virtual user %d failed to list pages in project %s: %w", vu.Index, project.ID, err)
		}
		expectedPages := vu.Pages[project.ID]
		if len(pages) != len(expectedPages) {
			return fmt.Errorf("virtual user %d page count mismatch in project %s: expected %d, got %d",
				vu.Index, project.ID, len(expectedPages), len(pages))
		}

		for _, page := range expectedPages {
			resp, err := vu.Client.ListBlocks(ctx, page.ID)
			if err != nil {
				return fmt.Errorf("virtual user %d failed to list blocks in page %s: %w", vu.Index, page.ID, err)
			}

			want := 1
			if expected, edited := vu.Blocks[page.ID]; edited {
				want = len(expected)
			}
			if len(resp.Blocks) != want {
				return fmt.Errorf("virtual user %d block count mismatch in page %s: expected %d, got %d",
					vu.Index, page.ID, want, len(resp.Blocks))
			}

			for _, block := range resp.Blocks {
				if deletedBlocks[block.ID] {
					return fmt.Errorf("virtual user %d: deleted block %s still present in page %s", vu.Index, block.ID, page.ID)
				}
			}
		}

		databases, err := vu.Client.ListDatabases(ctx, project.ID)
		if err != nil {
			return fmt.Errorf("virtual user %d failed to list databases in project %s: %w", vu.Index, project.ID, err)
		}
		expectedDatabases := vu.Databases[project.ID]
		if len(databases) != len(expectedDatabases) {
			return fmt.Errorf("virtual user %d database count mismatch in project %s: expected %d, got %d",
				vu.Index, project.ID, len(expectedDatabases), len(databases))
		}

		for _, database := range expectedDatabases {
			entries, err := vu.Client.ListEntries(ctx, database.ID, "")
			if err != nil {
				return fmt.Errorf("virtual user %d failed to list entries in database %s: %w", vu.Index, database.ID, err)
			}
			expectedEntries := vu.Entries[database.ID]
			if len(entries) != len(expectedEntries) {
				return fmt.Errorf("virtual user %d entry count mismatch in database %s: expected %d, got %d",
					vu.Index, database.ID, len(expectedEntries), len(entries))
			}
		}

		assets, err := vu.Client.ListAssets(ctx, project.ID)
		if err != nil {
			return fmt.Errorf("virtual user %d failed to list assets in project %s: %w", vu.Index, project.ID, err)
		}
		expectedAssets := vu.Assets[project.ID]
		if len(assets) != len(expectedAssets) {
			return fmt.Errorf("virtual user %d asset count mismatch in project %s: expected %d, got %d",
				vu.Index, project.ID, len(expectedAssets), len(assets))
		}
	}

	return nil
}

// RunScenario executes a complete authoring session for this virtual user
func (vu *VirtualUser) RunScenario(ctx context.Context) error {
	// Sign up
	if err := vu.SignUp(ctx); err != nil {
		return err
	}

	// Deterministic behavior based on user index.
	// Even-indexed users mostly build content, odd-indexed users churn
	// through more deletions.
	createBias := vu.Index%2 == 0

	numProjects := vu.RNG.Intn(3) + 1
	for i := 0; i < numProjects; i++ {
		project, err := vu.CreateProject(ctx, fmt.Sprintf("Project %d-%d", vu.Index, i))
		if err != nil {
			return err
		}

		// Sometimes rename the project (30% chance)
		if vu.RNG.Float32() < 0.3 {
			newName := fmt.Sprintf("Renamed Project %d-%d", vu.Index, i)
			if err := vu.UpdateProject(ctx, project, newName); err != nil {
				return err
			}
		}

		// Create pages in the current project
		numPages := vu.RNG.Intn(4) + 1
		for j := 0; j < numPages; j++ {
			page, err := vu.CreatePage(ctx, fmt.Sprintf("Page %d-%d-%d", vu.Index, i, j))
			if err != nil {
				return err
			}

			// Sometimes retitle the page (25% chance)
			if vu.RNG.Float32() < 0.25 {
				newTitle := fmt.Sprintf("Renamed Page %d-%d-%d", vu.Index, i, j)
				if err := vu.UpdatePage(ctx, page, newTitle); err != nil {
					return err
				}
			}

			// Build the page's block sequence
			numBlocks := vu.RNG.Intn(6) + 1
			for k := 0; k < numBlocks; k++ {
				blockType := content.BlockTypeText
				if vu.RNG.Float32() < 0.3 {
					blockType = content.BlockTypeHeading
				}

				block, err := vu.InsertBlock(ctx, page.ID, blockType, nil)
				if err != nil {
					return err
				}

				// Sometimes rewrite the block (35% chance)
				if vu.RNG.Float32() < 0.35 {
					text := fmt.Sprintf("Block %d-%d-%d-%d revision %d", vu.Index, i, j, k, vu.RNG.Intn(100))
					if err := vu.UpdateBlockText(ctx, page.ID, block.ID, text); err != nil {
						return err
					}
				}

				// Sometimes delete the block (15% chance for odd indices, 5% for even)
				deleteChance := float32(0.05)
				if !createBias {
					deleteChance = 0.15
				}
				if vu.RNG.Float32() < deleteChance && len(vu.Blocks[page.ID]) > 1 {
					if err := vu.DeleteBlock(ctx, page.ID, block.ID); err != nil {
						return err
					}
				}
			}

			// Sometimes shuffle the sequence (30% chance)
			if vu.RNG.Float32() < 0.3 {
				if _, err := vu.MoveRandomBlock(ctx, page.ID); err != nil {
					return err
				}
			}

			// Sometimes delete the page (10% chance for odd indices, never for even)
			if !createBias && vu.RNG.Float32() < 0.1 && len(vu.Pages[project.ID]) > 1 {
				if err := vu.DeletePage(ctx, page.ID); err != nil {
					return err
				}
			}
		}

		// Every project gets one structured database with a small schema
		database, err := vu.CreateDatabase(ctx, fmt.Sprintf("Tracker %d-%d", vu.Index, i))
		if err != nil {
			return err
		}
		if _, err := vu.AddProperty(ctx, database.ID, "Title", content.PropertyTypeText); err != nil {
			return err
		}
		if _, err := vu.AddProperty(ctx, database.ID, "Done", content.PropertyTypeCheckbox); err != nil {
			return err
		}

		numEntries := vu.RNG.Intn(4) + 1
		for k := 0; k < numEntries; k++ {
			entry, err := vu.CreateEntry(ctx, database.ID, map[string]any{
				"Title": fmt.Sprintf("Task %d-%d-%d", vu.Index, i, k),
				"Done":  vu.RNG.Float32() < 0.5,
			})
			if err != nil {
				return err
			}

			// Sometimes rework the entry (25% chance)
			if vu.RNG.Float32() < 0.25 {
				err := vu.UpdateEntry(ctx, entry.ID, map[string]any{
					"Title": fmt.Sprintf("Task %d-%d-%d revision %d", vu.Index, i, k, vu.RNG.Intn(100)),
					"Done":  true,
				})
				if err != nil {
					return err
				}
			}

			// Sometimes delete the entry (10% chance for odd indices only)
			if !createBias && vu.RNG.Float32() < 0.1 {
				if err := vu.DeleteEntry(ctx, database.ID, entry.ID); err != nil {
					return err
				}
			}
		}

		// Sometimes register an asset (40% chance)
		if vu.RNG.Float32() < 0.4 {
			if _, err := vu.RegisterAsset(ctx, fmt.Sprintf("upload-%d-%d.png", vu.Index, i)); err != nil {
				return err
			}
		}

		// Sometimes switch back to a previous project (30% chance)
		if i > 0 && vu.RNG.Float32() < 0.3 {
			previous := vu.Projects[vu.RNG.Intn(len(vu.Projects))]
			if err := vu.SwitchProject(ctx, previous.ID); err != nil {
				return err
			}
		}

		// Sometimes delete the whole project (5% chance for odd indices only)
		if !createBias && vu.RNG.Float32() < 0.05 && len(vu.Projects) > 1 && i < numProjects-1 {
			if err := vu.DeleteProject(ctx, project.ID); err != nil {
				return err
			}
		}
	}

	// Verify all surviving data is present and deleted data is gone
	return vu.VerifyAllData(ctx)
}
