package surrealcms_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surrealdb/surrealcms/pkg/client"
	"github.com/surrealdb/surrealcms/pkg/content"
	"github.com/surrealdb/surrealcms/pkg/editor"
	"github.com/surrealdb/surrealcms/pkg/models"
	"github.com/surrealdb/surrealcms/pkg/surrealcms"
	"github.com/surrealdb/surrealcms/pkg/store/cqrs"
	"github.com/surrealdb/surrealcms/pkg/store/memory"
)

// newTestApp serves the full route table from an in-memory store and returns
// the application together with a client pointed at it.
func newTestApp(t *testing.T) (*surrealcms.App, *client.Client) {
	t.Helper()

	app := surrealcms.NewWithStore(&surrealcms.Config{
		MigrationMode: cqrs.ModeSingle,
		ServerPort:    "0",
	}, memory.NewMemoryStore())

	server := httptest.NewServer(app.Router())
	t.Cleanup(server.Close)

	return app, client.NewClient(server.URL)
}

func newTestClient(t *testing.T) *client.Client {
	t.Helper()
	_, c := newTestApp(t)
	return c
}

func createUser(t *testing.T, c *client.Client, email string) *models.User {
	t.Helper()
	user, err := c.CreateUser(context.Background(), &models.User{
		Email: email,
		Name:  "Test User",
	})
	require.NoError(t, err)
	require.False(t, user.ID.IsZero())
	return user
}

func createProject(t *testing.T, c *client.Client, ownerID models.UserID, name string) *models.Project {
	t.Helper()
	project, err := c.CreateProject(context.Background(), &models.Project{
		Name:    name,
		OwnerID: ownerID,
	})
	require.NoError(t, err)
	require.False(t, project.ID.IsZero())
	return project
}

func createPage(t *testing.T, c *client.Client, projectID models.ProjectID, title string) *models.Page {
	t.Helper()
	page, err := c.CreatePage(context.Background(), &models.Page{
		ProjectID: projectID,
		Title:     title,
	})
	require.NoError(t, err)
	require.False(t, page.ID.IsZero())
	return page
}

func createDatabase(t *testing.T, c *client.Client, projectID models.ProjectID, name string) *models.Database {
	t.Helper()
	database, err := c.CreateDatabase(context.Background(), &models.Database{
		ProjectID: projectID,
		Name:      name,
	})
	require.NoError(t, err)
	require.False(t, database.ID.IsZero())
	return database
}

func TestHealth(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	health, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "single", health["mode"])
}

func TestAuthFlow(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	auth, err := c.SignUp(ctx, "author@example.com", "password123", "Author")
	require.NoError(t, err)
	require.NotEmpty(t, auth.Token)
	require.NotNil(t, auth.User)
	assert.Equal(t, "author@example.com", auth.User.Email)

	me, err := c.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, me.ID)

	// Refreshing rotates the token and invalidates the old one.
	refreshed, err := c.RefreshToken(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.Token)
	assert.NotEqual(t, auth.Token, refreshed.Token)

	c.SetAuthToken(auth.Token)
	_, err = c.GetCurrentUser(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")

	c.SetAuthToken(refreshed.Token)
	me, err = c.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, me.ID)

	require.NoError(t, c.SignOut(ctx))
	_, err = c.GetCurrentUser(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")

	// Signing back in issues a fresh session for the same account.
	again, err := c.SignIn(ctx, "author@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, again.User.ID)

	_, err = c.SignIn(ctx, "nobody@example.com", "password123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
}

func TestUserEndpoints(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	user := createUser(t, c, "crud@example.com")

	got, err := c.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "crud@example.com", got.Email)

	got.Name = "Renamed"
	updated, err := c.UpdateUser(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	require.NoError(t, c.DeleteUser(ctx, user.ID))

	_, err = c.GetUser(ctx, user.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=404")
}

func TestProjectEndpoints(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	user := createUser(t, c, "owner@example.com")
	project := createProject(t, c, user.ID, "Marketing Site")

	got, err := c.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Marketing Site", got.Name)
	assert.Equal(t, user.ID, got.OwnerID)

	got.Description = "Public website content"
	updated, err := c.UpdateProject(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Public website content", updated.Description)

	projects, err := c.ListProjects(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, project.ID, projects[0].ID)

	require.NoError(t, c.DeleteProject(ctx, project.ID))

	_, err = c.GetProject(ctx, project.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=404")
}

func TestPageBlockLifecycle(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	user := createUser(t, c, "editor@example.com")
	project := createProject(t, c, user.ID, "Docs")
	page := createPage(t, c, project.ID, "Getting Started")

	// A page created without content serves the single empty text block.
	resp, err := c.ListBlocks(ctx, page.ID)
	require.NoError(t, err)
	require.Len(t, resp.Blocks, 1)
	assert.Equal(t, content.BlockTypeText, resp.Blocks[0].Type)
	assert.Empty(t, resp.References)

	heading, err := c.InsertBlock(ctx, page.ID, content.BlockTypeHeading, nil)
	require.NoError(t, err)
	assert.Equal(t, content.BlockTypeHeading, heading.Type)
	assert.Equal(t, content.HeadingContent{Level: 1}, heading.Content)

	// The first structural edit persisted the default text block too.
	resp, err = c.ListBlocks(ctx, page.ID)
	require.NoError(t, err)
	require.Len(t, resp.Blocks, 2)
	textID := resp.Blocks[0].ID
	assert.Equal(t, heading.ID, resp.Blocks[1].ID)
	assert.Equal(t, 1, resp.Blocks[1].Position)

	updated, err := c.UpdateBlock(ctx, page.ID, heading.ID, content.HeadingContent{
		Text:  "Installation",
		Level: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, heading.ID, updated.ID)
	assert.Equal(t, content.HeadingContent{Text: "Installation", Level: 2}, updated.Content)

	moved, err := c.MoveBlock(ctx, page.ID, heading.ID, editor.DirectionUp)
	require.NoError(t, err)
	assert.True(t, moved)

	resp, err = c.ListBlocks(ctx, page.ID)
	require.NoError(t, err)
	require.Len(t, resp.Blocks, 2)
	assert.Equal(t, heading.ID, resp.Blocks[0].ID)
	assert.Equal(t, textID, resp.Blocks[1].ID)

	// A block already at the top stays put.
	moved, err = c.MoveBlock(ctx, page.ID, heading.ID, editor.DirectionUp)
	require.NoError(t, err)
	assert.False(t, moved)

	// Insert after an explicit position.
	after := 0
	divider, err := c.InsertBlock(ctx, page.ID, content.BlockTypeDivider, &after)
	require.NoError(t, err)
	assert.Equal(t, 1, divider.Position)

	require.NoError(t, c.DeleteBlock(ctx, page.ID, textID))

	resp, err = c.ListBlocks(ctx, page.ID)
	require.NoError(t, err)
	require.Len(t, resp.Blocks, 2)
	assert.Equal(t, heading.ID, resp.Blocks[0].ID)
	assert.Equal(t, divider.ID, resp.Blocks[1].ID)

	_, err = c.InsertBlock(ctx, page.ID, content.BlockType("callout"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=400")

	_, err = c.UpdateBlock(ctx, page.ID, heading.ID, content.HeadingContent{Level: 9})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=400")

	_, err = c.UpdateBlock(ctx, page.ID, content.BlockID("missing"), content.HeadingContent{Level: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=404")
}

func TestBlockReferenceResolution(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	user := createUser(t, c, "refs@example.com")
	project := createProject(t, c, user.ID, "Knowledge Base")
	page := createPage(t, c, project.ID, "Overview")
	database := createDatabase(t, c, project.ID, "Tasks")

	refBlock, err := c.InsertBlock(ctx, page.ID, content.BlockTypeDatabaseReference, nil)
	require.NoError(t, err)

	// Unresolved placeholder: no database selected yet.
	resp, err := c.ListBlocks(ctx, page.ID)
	require.NoError(t, err)
	require.Len(t, resp.References, 1)
	assert.Equal(t, refBlock.ID, resp.References[0].BlockID)
	assert.Empty(t, resp.References[0].DatabaseID)
	assert.False(t, resp.References[0].Found)

	_, err = c.UpdateBlock(ctx, page.ID, refBlock.ID, content.DatabaseReferenceContent{
		DatabaseID: database.ID.String(),
		ViewType:   content.RefViewTable,
	})
	require.NoError(t, err)

	resp, err = c.ListBlocks(ctx, page.ID)
	require.NoError(t, err)
	require.Len(t, resp.References, 1)
	assert.True(t, resp.References[0].Found)
	assert.Equal(t, "Tasks", resp.References[0].Name)
	assert.Equal(t, database.ID.String(), resp.References[0].DatabaseID)

	// Deleting the database degrades the reference to not-found instead of
	// breaking the page.
	require.NoError(t, c.DeleteDatabase(ctx, database.ID))

	resp, err = c.ListBlocks(ctx, page.ID)
	require.NoError(t, err)
	require.Len(t, resp.References, 1)
	assert.False(t, resp.References[0].Found)
	assert.Empty(t, resp.References[0].Name)
	assert.Equal(t, database.ID.String(), resp.References[0].DatabaseID)
}

func TestSchemaPropertyEndpoints(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	user := createUser(t, c, "schema@example.com")
	project := createProject(t, c, user.ID, "CRM")
	database := createDatabase(t, c, project.ID, "Contacts")

	props, err := c.ListProperties(ctx, database.ID)
	require.NoError(t, err)
	assert.Empty(t, props)

	name, err := c.AddProperty(ctx, database.ID, "Name", content.PropertyTypeText)
	require.NoError(t, err)
	assert.NotEmpty(t, name.ID)
	assert.Equal(t, content.PropertyTypeText, name.Type)

	status, err := c.AddProperty(ctx, database.ID, "Status", content.PropertyTypeSelect)
	require.NoError(t, err)

	status.Required = true
	status.Options = []string{"lead", "customer"}
	updated, err := c.UpdateProperty(ctx, database.ID, *status)
	require.NoError(t, err)
	assert.True(t, updated.Required)
	assert.Equal(t, []string{"lead", "customer"}, updated.Options)

	moved, err := c.MoveProperty(ctx, database.ID, status.ID, editor.DirectionUp)
	require.NoError(t, err)
	assert.True(t, moved)

	props, err = c.ListProperties(ctx, database.ID)
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, status.ID, props[0].ID)
	assert.Equal(t, name.ID, props[1].ID)

	moved, err = c.MoveProperty(ctx, database.ID, status.ID, editor.DirectionUp)
	require.NoError(t, err)
	assert.False(t, moved)

	require.NoError(t, c.DeleteProperty(ctx, database.ID, name.ID))

	props, err = c.ListProperties(ctx, database.ID)
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "Status", props[0].Name)

	_, err = c.AddProperty(ctx, database.ID, "Location", content.PropertyType("geo"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=400")

	err = c.DeleteProperty(ctx, database.ID, content.PropertyID("missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=404")
}

func TestEntryEndpoints(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	user := createUser(t, c, "entries@example.com")
	project := createProject(t, c, user.ID, "Blog")
	database := createDatabase(t, c, project.ID, "Posts")

	title, err := c.AddProperty(ctx, database.ID, "Title", content.PropertyTypeText)
	require.NoError(t, err)
	title.Required = true
	_, err = c.UpdateProperty(ctx, database.ID, *title)
	require.NoError(t, err)

	_, err = c.AddProperty(ctx, database.ID, "Views", content.PropertyTypeNumber)
	require.NoError(t, err)

	// A fresh entry starts from one zero value per property.
	skeleton, err := c.NewEntry(ctx, database.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Title": "", "Views": float64(0)}, skeleton)

	// Saving without the required title succeeds but reports it.
	draft, err := c.CreateEntry(ctx, database.ID, map[string]any{"Views": 3})
	require.NoError(t, err)
	require.NotNil(t, draft.Entry)
	assert.Equal(t, []content.PropertyID{title.ID}, draft.Validation)

	complete, err := c.CreateEntry(ctx, database.ID, map[string]any{
		"Title": "Launch plan",
		"Views": 120,
	})
	require.NoError(t, err)
	assert.Empty(t, complete.Validation)

	got, err := c.GetEntry(ctx, complete.Entry.ID)
	require.NoError(t, err)
	data := content.UnmarshalEntryDataOrDefault(got.Data)
	assert.Equal(t, "Launch plan", data["Title"])

	saved, err := c.UpdateEntry(ctx, complete.Entry.ID, map[string]any{
		"Title": "Launch retrospective",
		"Views": 121,
	})
	require.NoError(t, err)
	assert.Empty(t, saved.Validation)
	data = content.UnmarshalEntryDataOrDefault(saved.Entry.Data)
	assert.Equal(t, "Launch retrospective", data["Title"])

	// Blanking the required title is allowed and flagged on the way out.
	saved, err = c.UpdateEntry(ctx, complete.Entry.ID, map[string]any{"Title": "  "})
	require.NoError(t, err)
	assert.Equal(t, []content.PropertyID{title.ID}, saved.Validation)

	entries, err := c.ListEntries(ctx, database.ID, "")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	require.NoError(t, c.DeleteEntry(ctx, draft.Entry.ID))

	entries, err = c.ListEntries(ctx, database.ID, "")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = c.GetEntry(ctx, draft.Entry.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=404")
}

func TestEntrySearch(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	user := createUser(t, c, "search@example.com")
	project := createProject(t, c, user.ID, "Blog")
	database := createDatabase(t, c, project.ID, "Posts")

	_, err := c.AddProperty(ctx, database.ID, "Title", content.PropertyTypeText)
	require.NoError(t, err)
	_, err = c.AddProperty(ctx, database.ID, "Views", content.PropertyTypeNumber)
	require.NoError(t, err)

	launch, err := c.CreateEntry(ctx, database.ID, map[string]any{"Title": "Launch plan", "Views": 42})
	require.NoError(t, err)
	_, err = c.CreateEntry(ctx, database.ID, map[string]any{"Title": "Retro notes", "Views": 7})
	require.NoError(t, err)

	// Matching is case-insensitive and limited to string-valued properties.
	entries, err := c.ListEntries(ctx, database.ID, "LAUNCH")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, launch.Entry.ID, entries[0].ID)

	entries, err = c.ListEntries(ctx, database.ID, "42")
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = c.ListEntries(ctx, database.ID, "nothing matches this")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAssetEndpoints(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	user := createUser(t, c, "assets@example.com")
	project := createProject(t, c, user.ID, "Media")

	asset, err := c.RegisterAsset(ctx, &models.Asset{
		ProjectID:   project.ID,
		Name:        "logo.png",
		URL:         "https://cdn.example.com/logo.png",
		ContentType: "image/png",
		Size:        2048,
	})
	require.NoError(t, err)
	require.False(t, asset.ID.IsZero())

	got, err := c.GetAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, "logo.png", got.Name)
	assert.Equal(t, "https://cdn.example.com/logo.png", got.URL)

	assets, err := c.ListAssets(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, assets, 1)

	require.NoError(t, c.DeleteAsset(ctx, asset.ID))

	_, err = c.GetAsset(ctx, asset.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=404")
}

func TestDeleteProjectCascades(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	user := createUser(t, c, "cascade@example.com")
	project := createProject(t, c, user.ID, "Doomed")
	page := createPage(t, c, project.ID, "Page")
	database := createDatabase(t, c, project.ID, "Records")

	entry, err := c.CreateEntry(ctx, database.ID, map[string]any{})
	require.NoError(t, err)

	asset, err := c.RegisterAsset(ctx, &models.Asset{
		ProjectID: project.ID,
		Name:      "file.pdf",
		URL:       "https://cdn.example.com/file.pdf",
	})
	require.NoError(t, err)

	require.NoError(t, c.DeleteProject(ctx, project.ID))

	for _, check := range []func() error{
		func() error { _, err := c.GetPage(ctx, page.ID); return err },
		func() error { _, err := c.GetDatabase(ctx, database.ID); return err },
		func() error { _, err := c.GetEntry(ctx, entry.Entry.ID); return err },
		func() error { _, err := c.GetAsset(ctx, asset.ID); return err },
	} {
		err := check()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status=404")
	}
}

func TestReadOnlyModeRejectsWrites(t *testing.T) {
	ctx := context.Background()
	app, c := newTestApp(t)

	user := createUser(t, c, "frozen@example.com")
	project := createProject(t, c, user.ID, "Existing")
	page := createPage(t, c, project.ID, "Existing Page")

	app.SetReadOnly(true)

	_, err := c.CreateProject(ctx, &models.Project{Name: "Blocked", OwnerID: user.ID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only mode")

	// Editor endpoints hit the same wall when they persist.
	_, err = c.InsertBlock(ctx, page.ID, content.BlockTypeText, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only mode")

	// Reads keep working while writes are frozen.
	got, err := c.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Existing", got.Name)

	app.SetReadOnly(false)

	_, err = c.CreateProject(ctx, &models.Project{Name: "Unblocked", OwnerID: user.ID})
	require.NoError(t, err)
}
