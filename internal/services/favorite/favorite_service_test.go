package favorite

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/artswap-api/internal/config"
	"github.com/rajivgeraev/artswap-api/internal/middleware"
	"github.com/rajivgeraev/artswap-api/internal/models"
	"github.com/rajivgeraev/artswap-api/internal/repository"
)

type favKey struct {
	user uuid.UUID
	art  uuid.UUID
}

type mockFavorites struct {
	items map[favKey]bool
}

func (m *mockFavorites) Add(_ context.Context, userID, artID uuid.UUID) error {
	m.items[favKey{userID, artID}] = true
	return nil
}

func (m *mockFavorites) Remove(_ context.Context, userID, artID uuid.UUID) error {
	key := favKey{userID, artID}
	if !m.items[key] {
		return repository.ErrNotFound
	}
	delete(m.items, key)
	return nil
}

func (m *mockFavorites) Exists(_ context.Context, userID, artID uuid.UUID) (bool, error) {
	return m.items[favKey{userID, artID}], nil
}

func (m *mockFavorites) ListArtworks(_ context.Context, userID uuid.UUID) ([]models.Artwork, error) {
	var out []models.Artwork
	for key := range m.items {
		if key.user == userID {
			out = append(out, models.Artwork{ID: key.art})
		}
	}
	return out, nil
}

type mockArtworks struct {
	items map[uuid.UUID]*models.Artwork
}

func (m *mockArtworks) Create(_ context.Context, art *models.Artwork) error {
	art.ID = uuid.New()
	m.items[art.ID] = art
	return nil
}

func (m *mockArtworks) GetByID(_ context.Context, id uuid.UUID) (*models.Artwork, error) {
	art, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return art, nil
}

func (m *mockArtworks) ListByOwner(_ context.Context, _ uuid.UUID) ([]models.Artwork, error) {
	return nil, nil
}

func (m *mockArtworks) ListRecent(_ context.Context, _ int) ([]models.Artwork, error) {
	return nil, nil
}

func fakeAuth(userID uuid.UUID) fiber.Handler {
	return func(c fiber.Ctx) error {
		c.Locals(middleware.UserIDKey, userID.String())
		return c.Next()
	}
}

type fixture struct {
	favorites *mockFavorites
	artworks  *mockArtworks
	user      uuid.UUID
	art       uuid.UUID
}

func newFixture(t *testing.T) (*fixture, *fiber.App) {
	t.Helper()

	f := &fixture{
		favorites: &mockFavorites{items: map[favKey]bool{}},
		artworks:  &mockArtworks{items: map[uuid.UUID]*models.Artwork{}},
		user:      uuid.New(),
	}

	art := &models.Artwork{Title: "Sunset"}
	require.NoError(t, f.artworks.Create(context.Background(), art))
	f.art = art.ID

	cfg := &config.Config{JWTSecret: "test-secret"}
	svc := NewFavoriteService(cfg, f.favorites, f.artworks)

	app := fiber.New()
	svc.SetupRoutes(app, fakeAuth(f.user))
	return f, app
}

func addRequest(t *testing.T, artID string) *http.Request {
	t.Helper()

	body, err := json.Marshal(map[string]string{"art_id": artID})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/favorites/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAddToFavorites(t *testing.T) {
	f, app := newFixture(t)

	resp, err := app.Test(addRequest(t, f.art.String()))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, f.favorites.items[favKey{f.user, f.art}])
}

func TestAddToFavorites_Idempotent(t *testing.T) {
	f, app := newFixture(t)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(addRequest(t, f.art.String()))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	require.Len(t, f.favorites.items, 1)
}

func TestAddToFavorites_UnknownArtwork(t *testing.T) {
	f, app := newFixture(t)

	resp, err := app.Test(addRequest(t, uuid.New().String()))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Empty(t, f.favorites.items)
}

func TestAddToFavorites_MissingID(t *testing.T) {
	_, app := newFixture(t)

	resp, err := app.Test(addRequest(t, ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRemoveFromFavorites(t *testing.T) {
	f, app := newFixture(t)
	f.favorites.items[favKey{f.user, f.art}] = true

	req := httptest.NewRequest(http.MethodDelete, "/api/favorites/"+f.art.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, f.favorites.items)
}

func TestRemoveFromFavorites_NotFavorited(t *testing.T) {
	f, app := newFixture(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/favorites/"+f.art.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCheckFavorite(t *testing.T) {
	f, app := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/favorites/"+f.art.String()+"/check", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, false, decodeBody(t, resp)["is_favorite"])

	f.favorites.items[favKey{f.user, f.art}] = true

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/favorites/"+f.art.String()+"/check", nil))
	require.NoError(t, err)
	require.Equal(t, true, decodeBody(t, resp)["is_favorite"])
}

func TestGetFavorites(t *testing.T) {
	f, app := newFixture(t)
	f.favorites.items[favKey{f.user, f.art}] = true
	f.favorites.items[favKey{uuid.New(), f.art}] = true

	req := httptest.NewRequest(http.MethodGet, "/api/favorites/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(1), decodeBody(t, resp)["count"])
}
