package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"restaurant-menu-api/config"
	"restaurant-menu-api/handlers"
	"restaurant-menu-api/middleware"
	"restaurant-menu-api/models"
	"restaurant-menu-api/routes"
	"restaurant-menu-api/seed"
	"restaurant-menu-api/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testAPI struct {
	router  *gin.Engine
	store   *store.Store
	manager string
	viewer  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	s, err := store.Open(config.DatabaseConfig{
		Name:         filepath.Join(t.TempDir(), "api.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		BusyTimeout:  5 * time.Second,
		LogLevel:     "silent",
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Sync(context.Background(), store.SyncOptions{Force: true}))

	auth := middleware.NewAuth(config.AuthConfig{Secret: "handler-test-secret-key", TokenTTL: time.Hour})
	r := gin.New()
	routes.SetupRoutes(r, handlers.New(s, auth, zerolog.Nop()), auth)

	manager, err := auth.GenerateToken(&models.User{ID: 1, Email: "boss@example.com", Role: models.RoleManager})
	require.NoError(t, err)
	viewer, err := auth.GenerateToken(&models.User{ID: 2, Email: "guest@example.com", Role: models.RoleViewer})
	require.NoError(t, err)

	return &testAPI{router: r, store: s, manager: manager, viewer: viewer}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Error string `json:"error"`
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode[map[string]any](t, w)["status"])
}

func TestCatalogReadsArePublic(t *testing.T) {
	api := newTestAPI(t)
	_, err := seed.Load(context.Background(), api.store)
	require.NoError(t, err)

	w := api.do(t, http.MethodGet, "/api/restaurants", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[struct {
		Count       int                 `json:"count"`
		Restaurants []models.Restaurant `json:"restaurants"`
	}](t, w)
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, "AppleBees", body.Restaurants[0].Name)

	w = api.do(t, http.MethodGet, "/api/restaurants?cuisine=Hotpot", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "LittleSheep")
	assert.NotContains(t, w.Body.String(), "AppleBees")
}

func TestWritesRequireManager(t *testing.T) {
	api := newTestAPI(t)
	body := gin.H{"name": "AppleBees", "location": "Texas", "cuisine": "FastFood"}

	w := api.do(t, http.MethodPost, "/api/restaurants", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodPost, "/api/restaurants", body, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodPost, "/api/restaurants", body, api.viewer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPost, "/api/restaurants", body, api.manager)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Restaurant models.Restaurant `json:"restaurant"`
	}](t, w)
	assert.NotZero(t, created.Restaurant.ID)
	assert.Equal(t, "Texas", created.Restaurant.Location)
}

func TestGetMissingRecordIsNotFound(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/restaurants/99", "/api/menus/99", "/api/items/99", "/api/menus/99/items"} {
		w := api.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}

	w := api.do(t, http.MethodGet, "/api/items/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownIncludeIsBadRequest(t *testing.T) {
	api := newTestAPI(t)
	require.NoError(t, api.store.Items.Create(context.Background(), &models.Item{Name: "Pizza"}))

	w := api.do(t, http.MethodGet, "/api/items?include=Ingredients", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	msg := decode[errorBody](t, w).Error
	assert.Contains(t, msg, "Ingredients")
	assert.Contains(t, msg, "Menus")
}

func TestMenuItemsKeepInsertionOrder(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	menu := &models.Menu{Name: "Lunch"}
	require.NoError(t, api.store.Menus.Create(ctx, menu))
	soup := &models.Item{Name: "egusi soup", Price: 10.95}
	burger := &models.Item{Name: "hamburger", Price: 6.49}
	require.NoError(t, api.store.Items.Create(ctx, soup))
	require.NoError(t, api.store.Items.Create(ctx, burger))

	path := fmt.Sprintf("/api/menus/%d/items", menu.ID)
	w := api.do(t, http.MethodPost, path, gin.H{"ids": []uint{burger.ID, soup.ID}}, api.manager)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, fmt.Sprintf("/api/menus/%d?include=Items", menu.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[struct {
		Menu models.Menu `json:"menu"`
	}](t, w)
	require.Len(t, got.Menu.Items, 2)
	assert.Equal(t, "hamburger", got.Menu.Items[0].Name)
	assert.Equal(t, "egusi soup", got.Menu.Items[1].Name)

	w = api.do(t, http.MethodDelete, path, gin.H{"ids": []uint{burger.ID}}, api.manager)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["removed"])

	w = api.do(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, int(decode[map[string]any](t, w)["count"].(float64)))
}

func TestAddMissingItemIsUnprocessable(t *testing.T) {
	api := newTestAPI(t)
	menu := &models.Menu{Name: "Dinner"}
	require.NoError(t, api.store.Menus.Create(context.Background(), menu))

	w := api.do(t, http.MethodPost, fmt.Sprintf("/api/menus/%d/items", menu.ID), gin.H{"ids": []uint{42}}, api.manager)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = api.do(t, http.MethodPost, fmt.Sprintf("/api/menus/%d/items", menu.ID), gin.H{"ids": []uint{}}, api.manager)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateMenu(t *testing.T) {
	api := newTestAPI(t)
	restaurant := &models.Restaurant{Name: "AppleBees"}
	require.NoError(t, api.store.Restaurants.Create(context.Background(), restaurant))

	w := api.do(t, http.MethodPost, "/api/menus", gin.H{"title": "Breakfast", "restaurant_id": restaurant.ID}, api.manager)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Menu models.Menu `json:"menu"`
	}](t, w)
	assert.Equal(t, "Breakfast", created.Menu.Name)
	require.NotNil(t, created.Menu.RestaurantID)
	assert.Equal(t, restaurant.ID, *created.Menu.RestaurantID)

	w = api.do(t, http.MethodPost, "/api/menus", gin.H{"name": "Orphan", "restaurant_id": 404}, api.manager)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = api.do(t, http.MethodPost, "/api/menus", gin.H{}, api.manager)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, fmt.Sprintf("/api/restaurants/%d/menus", restaurant.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Breakfast")
}

func TestUpdateMenu(t *testing.T) {
	api := newTestAPI(t)
	menu := &models.Menu{Name: "Lunch"}
	require.NoError(t, api.store.Menus.Create(context.Background(), menu))
	path := fmt.Sprintf("/api/menus/%d", menu.ID)

	w := api.do(t, http.MethodPut, path, gin.H{"title": "Brunch"}, api.manager)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[struct {
		Menu models.Menu `json:"menu"`
	}](t, w)
	assert.Equal(t, "Brunch", updated.Menu.Name)

	w = api.do(t, http.MethodPut, path, gin.H{"colour": "red"}, api.manager)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPut, path, gin.H{"id": 7}, api.manager)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPut, "/api/menus/999", gin.H{"name": "Ghost"}, api.manager)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListItemsFiltersVegetarian(t *testing.T) {
	api := newTestAPI(t)
	_, err := seed.Load(context.Background(), api.store)
	require.NoError(t, err)

	w := api.do(t, http.MethodGet, "/api/items?vegetarian=true", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Items []models.Item `json:"items"`
	}](t, w)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "bhindi masala", body.Items[0].Name)
}

func TestListRestaurantsFiltersTextThatLooksBoolean(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()
	require.NoError(t, api.store.Restaurants.Create(ctx, &models.Restaurant{Name: "true", Cuisine: "Diner"}))
	require.NoError(t, api.store.Restaurants.Create(ctx, &models.Restaurant{Name: "AppleBees", Cuisine: "FastFood"}))

	w := api.do(t, http.MethodGet, "/api/restaurants?name=true", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode[struct {
		Restaurants []models.Restaurant `json:"restaurants"`
	}](t, w)
	require.Len(t, body.Restaurants, 1)
	assert.Equal(t, "Diner", body.Restaurants[0].Cuisine)

	w = api.do(t, http.MethodGet, "/api/items?vegetarian=maybe", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateItemRejectsLongName(t *testing.T) {
	api := newTestAPI(t)
	name := string(bytes.Repeat([]byte("x"), 256))

	w := api.do(t, http.MethodPost, "/api/items", gin.H{"name": name, "price": 1}, api.manager)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Error, "name")
}

func TestDeleteRestaurantKeepsMenus(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()
	restaurant := &models.Restaurant{Name: "LittleSheep"}
	require.NoError(t, api.store.Restaurants.Create(ctx, restaurant))
	menu := &models.Menu{Name: "Hotpot", RestaurantID: &restaurant.ID}
	require.NoError(t, api.store.Menus.Create(ctx, menu))

	w := api.do(t, http.MethodDelete, fmt.Sprintf("/api/restaurants/%d", restaurant.ID), nil, api.manager)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, fmt.Sprintf("/api/menus/%d", menu.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[struct {
		Menu models.Menu `json:"menu"`
	}](t, w)
	assert.Nil(t, got.Menu.RestaurantID)
}

func TestRegisterLoginProfile(t *testing.T) {
	api := newTestAPI(t)
	creds := gin.H{"name": "Ada", "email": "ada@example.com", "password": "secret123", "role": "manager"}

	w := api.do(t, http.MethodPost, "/api/auth/register", creds, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodPost, "/api/auth/register", creds, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, "/api/auth/register",
		gin.H{"name": "Eve", "email": "eve@example.com", "password": "secret123", "role": "admin"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "ada@example.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "ada@example.com", "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[struct {
		Token string `json:"token"`
	}](t, w).Token
	require.NotEmpty(t, token)

	w = api.do(t, http.MethodGet, "/api/profile", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[struct {
		User models.User `json:"user"`
	}](t, w)
	assert.Equal(t, "ada@example.com", profile.User.Email)
	assert.Equal(t, models.RoleManager, profile.User.Role)

	w = api.do(t, http.MethodPost, "/api/items", gin.H{"name": "Pizza", "price": 8}, token)
	assert.Equal(t, http.StatusCreated, w.Code)
}
