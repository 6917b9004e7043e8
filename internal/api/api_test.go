package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/changcookbook/backend/internal/api"
	"github.com/changcookbook/backend/internal/importer"
	"github.com/changcookbook/backend/internal/models"
	"github.com/changcookbook/backend/internal/router"
	"github.com/changcookbook/backend/internal/service"
)

type testApp struct {
	db         *gorm.DB
	engine     *gin.Engine
	adminToken string
	userToken  string
	user       *models.User
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Invitation{},
		&models.Category{}, &models.Chef{}, &models.Tag{},
		&models.Recipe{}, &models.Ingredient{}, &models.Instruction{},
		&models.Nutrition{}, &models.RecipeTag{},
	))

	require.NoError(t, db.Create(&models.Category{ID: "main-course", Name: "Main Course"}).Error)
	require.NoError(t, db.Create(&models.Category{ID: "desserts", Name: "Desserts"}).Error)

	authService := service.NewAuthService(db, "test-secret")
	recipeService := service.NewRecipeService(db)
	categoryService := service.NewCategoryService(db, nil)
	invitationService := service.NewInvitationService(db, authService, "test-secret")
	imp := importer.NewImporter(db)

	engine := router.Setup(router.Deps{
		DB:   db,
		Auth: authService,

		AuthHandler:       api.NewAuthHandler(authService),
		RecipeHandler:     api.NewRecipeHandler(recipeService, authService),
		CategoryHandler:   api.NewCategoryHandler(categoryService),
		InvitationHandler: api.NewInvitationHandler(invitationService),
		AdminHandler:      api.NewAdminHandler(db, imp, recipeService, categoryService),
		UploadHandler:     api.NewUploadHandler(nil),
	})

	ctx := context.Background()
	admin, err := authService.EnsureAdminUser(ctx, "admin@example.com", "supersecret")
	require.NoError(t, err)
	adminToken, err := authService.GenerateToken(admin)
	require.NoError(t, err)

	user, userToken, err := authService.Register(ctx, "Maria Chang", "maria@example.com", "password123")
	require.NoError(t, err)

	return &testApp{
		db:         db,
		engine:     engine,
		adminToken: adminToken,
		userToken:  userToken,
		user:       user,
	}
}

func (app *testApp) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)
	return w
}

func (app *testApp) createRecipe(t *testing.T, title string) map[string]any {
	t.Helper()
	w := app.request(t, http.MethodPost, "/api/v1/recipes", app.userToken, gin.H{
		"title":        title,
		"category":     "main-course",
		"difficulty":   "easy",
		"prepTime":     10,
		"cookTime":     20,
		"servings":     2,
		"ingredients":  []gin.H{{"item": "rice", "amount": "1 cup"}},
		"instructions": []string{"Cook the rice"},
		"tags":         []string{"simple"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var view map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	return view
}

func TestHealth(t *testing.T) {
	app := setupApp(t)
	w := app.request(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	app := setupApp(t)

	w := app.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "New Chef", "email": "new@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "new@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	w = app.request(t, http.MethodGet, "/api/v1/auth/me", resp.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	app := setupApp(t)
	w := app.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "maria@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecipeCRUD(t *testing.T) {
	app := setupApp(t)

	view := app.createRecipe(t, "Test Noodles")
	id := view["id"].(string)
	assert.Equal(t, "test-noodles", view["slug"])
	assert.Equal(t, "Maria Chang", view["chef"].(map[string]any)["name"])

	w := app.request(t, http.MethodGet, "/api/v1/recipes/"+id, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.request(t, http.MethodGet, "/api/v1/recipes/slug/test-noodles", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.request(t, http.MethodGet, "/api/v1/recipes?category=main-course", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Recipes    []map[string]any `json:"recipes"`
		TotalCount int64            `json:"totalCount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.EqualValues(t, 1, list.TotalCount)

	w = app.request(t, http.MethodDelete, "/api/v1/recipes/"+id, app.userToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.request(t, http.MethodGet, "/api/v1/recipes/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeWriteRequiresAuth(t *testing.T) {
	app := setupApp(t)
	w := app.request(t, http.MethodPost, "/api/v1/recipes", "", gin.H{"title": "Nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecipeDeleteRequiresOwnership(t *testing.T) {
	app := setupApp(t)
	view := app.createRecipe(t, "Owned Noodles")
	id := view["id"].(string)

	w := app.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "Other", "email": "other@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = app.request(t, http.MethodDelete, "/api/v1/recipes/"+id, resp.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminGate(t *testing.T) {
	app := setupApp(t)

	w := app.request(t, http.MethodGet, "/api/v1/admin/dashboard", app.userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.request(t, http.MethodGet, "/api/v1/admin/dashboard", app.adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminFeatureAndHero(t *testing.T) {
	app := setupApp(t)
	view := app.createRecipe(t, "Hero Dish")
	id := view["id"].(string)

	w := app.request(t, http.MethodPost, "/api/v1/admin/recipes/"+id+"/feature", app.adminToken, gin.H{"enabled": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.request(t, http.MethodPost, "/api/v1/admin/recipes/"+id+"/hero", app.adminToken, gin.H{"enabled": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.request(t, http.MethodGet, "/api/v1/recipes/hero", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var hero map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hero))
	assert.Equal(t, id, hero["id"])
}

func TestCategories(t *testing.T) {
	app := setupApp(t)

	w := app.request(t, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Categories []map[string]any `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Categories, 2)

	w = app.request(t, http.MethodPost, "/api/v1/admin/categories", app.adminToken, gin.H{
		"id": "soups", "name": "Soups", "description": "Warm bowls", "emoji": "🍲",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = app.request(t, http.MethodPost, "/api/v1/admin/categories", app.userToken, gin.H{
		"id": "more", "name": "More", "description": "x", "emoji": "✨",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestInvitationFlow(t *testing.T) {
	app := setupApp(t)

	w := app.request(t, http.MethodPost, "/api/v1/admin/invitations", app.adminToken, gin.H{
		"email": "invited@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Token)

	w = app.request(t, http.MethodGet, "/api/v1/invitations/verify/"+created.Token, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.request(t, http.MethodPost, "/api/v1/invitations/accept/"+created.Token, "", gin.H{
		"name": "Invited Chef", "password": "password123", "confirmPassword": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Token is single use.
	w = app.request(t, http.MethodGet, "/api/v1/invitations/verify/"+created.Token, "", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func migrateDoc() string {
	return `{
		"recipes": [{
			"id": "mango-sticky-rice-001",
			"title": "Mango Sticky Rice",
			"category": "desserts",
			"chef": {"name": "Ana"},
			"prepTime": 20,
			"cookTime": 25,
			"servings": 4,
			"ingredients": [{"item": "sticky rice", "amount": "1 cup"}],
			"instructions": ["Steam the rice", "Slice the mango"],
			"tags": ["thai", "sweet"]
		}],
		"categories": [{
			"id": "desserts",
			"name": "Desserts",
			"description": "Sweet treats",
			"emoji": "🍰",
			"count": 1
		}]
	}`
}

func (app *testApp) uploadMigration(t *testing.T, token, doc string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("jsonFile", "recipes.json")
	require.NoError(t, err)
	_, err = part.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/migrate", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)
	return w
}

func TestAdminMigrate(t *testing.T) {
	app := setupApp(t)

	w := app.uploadMigration(t, app.adminToken, migrateDoc())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Message string `json:"message"`
		Results struct {
			Recipes    int      `json:"recipes"`
			Categories int      `json:"categories"`
			Chefs      int      `json:"chefs"`
			Skipped    int      `json:"skipped"`
			Errors     []string `json:"errors"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Migration completed", resp.Message)
	assert.Equal(t, 1, resp.Results.Recipes)
	assert.Equal(t, 1, resp.Results.Categories)
	assert.Equal(t, 1, resp.Results.Chefs)
	assert.Empty(t, resp.Results.Errors)

	// Re-running the same document only skips.
	w = app.uploadMigration(t, app.adminToken, migrateDoc())
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Results.Recipes)
	assert.Equal(t, 1, resp.Results.Skipped)

	w = app.request(t, http.MethodGet, "/api/v1/recipes/slug/mango-sticky-rice", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminMigrateRejectsMalformedDocument(t *testing.T) {
	app := setupApp(t)

	w := app.uploadMigration(t, app.adminToken, "{not json")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "invalid JSON format"), w.Body.String())
}

func TestAdminMigrateRequiresAdmin(t *testing.T) {
	app := setupApp(t)

	w := app.uploadMigration(t, app.userToken, migrateDoc())
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.uploadMigration(t, "", migrateDoc())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
