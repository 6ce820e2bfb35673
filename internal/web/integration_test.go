package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/atozbnb/internal/auth"
	"github.com/vbonduro/atozbnb/internal/db"
	"github.com/vbonduro/atozbnb/internal/photostore"
	"github.com/vbonduro/atozbnb/internal/service"
	"github.com/vbonduro/atozbnb/internal/store"
	"github.com/vbonduro/atozbnb/internal/web"
)

// minimalPNG is the PNG signature padded with zeros; http.DetectContentType
// identifies PNG from the leading signature bytes.
var minimalPNG = func() []byte {
	b := make([]byte, 64)
	copy(b, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	return b
}()

// memPhotoStore is a simple in-memory implementation of photostore.PhotoStore.
type memPhotoStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	mimes   map[string]string
	counter int
}

func newMemPhotoStore() *memPhotoStore {
	return &memPhotoStore{
		data:  make(map[string][]byte),
		mimes: make(map[string]string),
	}
}

func (m *memPhotoStore) Save(_ context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	key := fmt.Sprintf("%s_%d%s", prefix, m.counter, photostore.ExtFor(mimeType))
	m.data[key] = data
	m.mimes[key] = mimeType
	return key, nil
}

func (m *memPhotoStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, "", photostore.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), m.mimes[key], nil
}

func (m *memPhotoStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	delete(m.mimes, key)
	return nil
}

// newTestServer sets up a real web.Server backed by in-memory SQLite.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database, err := db.OpenForTesting()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := store.NewUserStore(database)
	spots := store.NewSpotStore(database)

	srv, err := web.NewServer(
		service.NewSpotService(spots, store.NewSpotImageStore(database), users, newMemPhotoStore(), logger),
		service.NewReviewService(store.NewReviewStore(database), spots, logger),
		service.NewUserService(users, logger),
		auth.NewTokens("test-secret", time.Hour),
		web.Options{CORSOrigins: []string{"https://app.example.com"}},
		logger,
	)
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		_ = database.Close()
	})
	return ts
}

// apiClient is a cookie-aware HTTP client that echoes the CSRF cookie.
type apiClient struct {
	t    *testing.T
	base string
	http *http.Client
	csrf string
}

func newAPIClient(t *testing.T, ts *httptest.Server) *apiClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := &apiClient{t: t, base: ts.URL, http: &http.Client{Jar: jar}}

	var body map[string]string
	resp := c.do(http.MethodGet, "/api/csrf/restore", nil, &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c.csrf = body[auth.CSRFHeader]
	require.NotEmpty(t, c.csrf)

	u, _ := url.Parse(ts.URL)
	var cookie string
	for _, ck := range jar.Cookies(u) {
		if ck.Name == auth.CSRFCookie {
			cookie = ck.Value
		}
	}
	require.Equal(t, c.csrf, cookie)
	return c
}

func (c *apiClient) do(method, path string, in any, out any) *http.Response {
	c.t.Helper()
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		require.NoError(c.t, err)
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.base+path, body)
	require.NoError(c.t, err)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *apiClient) send(req *http.Request, out any) *http.Response {
	c.t.Helper()
	if c.csrf != "" {
		req.Header.Set(auth.CSRFHeader, c.csrf)
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	if out != nil && len(data) > 0 {
		require.NoError(c.t, json.Unmarshal(data, out), string(data))
	}
	return resp
}

type userBody struct {
	User *struct {
		ID        int64  `json:"id"`
		Email     string `json:"email"`
		Username  string `json:"username"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"user"`
}

type errBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

type spotBody struct {
	Spot struct {
		ID           int64    `json:"id"`
		OwnerID      int64    `json:"ownerId"`
		Name         string   `json:"name"`
		AvgRating    *float64 `json:"avgRating"`
		NumReviews   int      `json:"numReviews"`
		PreviewImage string   `json:"previewImage"`
		Owner        *struct {
			ID        int64  `json:"id"`
			FirstName string `json:"firstName"`
		} `json:"Owner"`
		SpotImages []struct {
			ID      int64  `json:"id"`
			URL     string `json:"url"`
			Preview bool   `json:"preview"`
		} `json:"SpotImages"`
	} `json:"spot"`
}

func (c *apiClient) signup(username string) int64 {
	c.t.Helper()
	var out userBody
	resp := c.do(http.MethodPost, "/api/users", map[string]string{
		"email":     username + "@user.io",
		"username":  username,
		"firstName": username,
		"lastName":  "Tester",
		"password":  "password",
	}, &out)
	require.Equal(c.t, http.StatusCreated, resp.StatusCode)
	require.NotNil(c.t, out.User)
	return out.User.ID
}

func spotPayload(name string) map[string]any {
	return map[string]any{
		"address":     "123 Disney Lane",
		"city":        "San Francisco",
		"state":       "California",
		"country":     "United States of America",
		"lat":         37.76,
		"lng":         -122.47,
		"name":        name,
		"description": "Place where web developers are created",
		"price":       123,
	}
}

func (c *apiClient) createSpot(name string) int64 {
	c.t.Helper()
	var out spotBody
	resp := c.do(http.MethodPost, "/api/spots", spotPayload(name), &out)
	require.Equal(c.t, http.StatusCreated, resp.StatusCode)
	return out.Spot.ID
}

func TestIntegration_SessionLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ts := newTestServer(t)
	c := newAPIClient(t, ts)

	var session userBody
	c.do(http.MethodGet, "/api/session", nil, &session)
	assert.Nil(t, session.User)

	id := c.signup("demo")

	c.do(http.MethodGet, "/api/session", nil, &session)
	require.NotNil(t, session.User)
	assert.Equal(t, id, session.User.ID)

	resp := c.do(http.MethodDelete, "/api/session", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	session = userBody{}
	c.do(http.MethodGet, "/api/session", nil, &session)
	assert.Nil(t, session.User)

	var failed errBody
	resp = c.do(http.MethodPost, "/api/session", map[string]string{"credential": "demo", "password": "nope"}, &failed)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", failed.Message)

	resp = c.do(http.MethodPost, "/api/session", map[string]string{"credential": "demo@user.io", "password": "password"}, &session)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, session.User)
	assert.Equal(t, id, session.User.ID)
}

func TestIntegration_SignupConflictAndValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ts := newTestServer(t)
	c := newAPIClient(t, ts)
	c.signup("demo")

	var out errBody
	resp := c.do(http.MethodPost, "/api/users", map[string]string{
		"email": "demo@user.io", "username": "another", "firstName": "A", "lastName": "B", "password": "password",
	}, &out)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "User with that email already exists", out.Errors["email"])

	out = errBody{}
	resp = c.do(http.MethodPost, "/api/users", map[string]string{
		"email": "bad", "username": "abc", "firstName": "A", "lastName": "B", "password": "password",
	}, &out)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, out.Errors, "email")
	assert.Contains(t, out.Errors, "username")
}

func TestIntegration_CSRFRequired(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ts := newTestServer(t)
	c := newAPIClient(t, ts)
	c.csrf = "tampered"

	resp := c.do(http.MethodPost, "/api/session", map[string]string{"credential": "demo", "password": "password"}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestIntegration_SpotLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ts := newTestServer(t)
	owner := newAPIClient(t, ts)
	ownerID := owner.signup("owner")

	var unauth errBody
	anon := newAPIClient(t, ts)
	resp := anon.do(http.MethodPost, "/api/spots", spotPayload("Loft"), &unauth)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Authentication required", unauth.Message)

	spotID := owner.createSpot("Loft")

	var image struct {
		ID      int64  `json:"id"`
		URL     string `json:"url"`
		Preview bool   `json:"preview"`
	}
	resp = owner.do(http.MethodPost, fmt.Sprintf("/api/spots/%d/images", spotID),
		map[string]any{"url": "https://example.com/front.png", "preview": true}, &image)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, image.Preview)

	var detail spotBody
	resp = anon.do(http.MethodGet, fmt.Sprintf("/api/spots/%d", spotID), nil, &detail)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ownerID, detail.Spot.OwnerID)
	require.NotNil(t, detail.Spot.Owner)
	assert.Equal(t, "owner", detail.Spot.Owner.FirstName)
	assert.Equal(t, "https://example.com/front.png", detail.Spot.PreviewImage)
	assert.Nil(t, detail.Spot.AvgRating)
	require.Len(t, detail.Spot.SpotImages, 1)

	var list struct {
		Spots []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"Spots"`
	}
	anon.do(http.MethodGet, "/api/spots", nil, &list)
	require.Len(t, list.Spots, 1)
	assert.Equal(t, spotID, list.Spots[0].ID)

	intruder := newAPIClient(t, ts)
	intruder.signup("intruder")
	var forbidden errBody
	resp = intruder.do(http.MethodPut, fmt.Sprintf("/api/spots/%d", spotID), spotPayload("Mine now"), &forbidden)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Forbidden", forbidden.Message)

	var updated spotBody
	resp = owner.do(http.MethodPut, fmt.Sprintf("/api/spots/%d", spotID), spotPayload("Penthouse"), &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Penthouse", updated.Spot.Name)

	var invalid errBody
	bad := spotPayload("Penthouse")
	bad["price"] = 0
	resp = owner.do(http.MethodPut, fmt.Sprintf("/api/spots/%d", spotID), bad, &invalid)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Price per day must be a positive number", invalid.Errors["price"])

	resp = owner.do(http.MethodDelete, fmt.Sprintf("/api/spots/%d", spotID), nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var missing errBody
	resp = anon.do(http.MethodGet, fmt.Sprintf("/api/spots/%d", spotID), nil, &missing)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Spot couldn't be found", missing.Message)
}

func TestIntegration_UploadImage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ts := newTestServer(t)
	owner := newAPIClient(t, ts)
	owner.signup("owner")
	spotID := owner.createSpot("Loft")

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("image", "front.png")
	require.NoError(t, err)
	_, err = fw.Write(minimalPNG)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("preview", "true"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/api/spots/%d/images", ts.URL, spotID), body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var image struct {
		URL     string `json:"url"`
		Preview bool   `json:"preview"`
	}
	resp := owner.send(req, &image)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, strings.HasPrefix(image.URL, service.ImageURLPrefix))
	assert.True(t, image.Preview)

	got, err := http.Get(ts.URL + image.URL)
	require.NoError(t, err)
	defer func() { _ = got.Body.Close() }()
	assert.Equal(t, http.StatusOK, got.StatusCode)
	assert.Equal(t, "image/png", got.Header.Get("Content-Type"))
	data, err := io.ReadAll(got.Body)
	require.NoError(t, err)
	assert.Equal(t, minimalPNG, data)

	missing, err := http.Get(ts.URL + "/images/nothing.png")
	require.NoError(t, err)
	_ = missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestIntegration_Reviews(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ts := newTestServer(t)
	owner := newAPIClient(t, ts)
	owner.signup("owner")
	spotID := owner.createSpot("Loft")
	reviewsPath := fmt.Sprintf("/api/spots/%d/reviews", spotID)

	var forbidden errBody
	resp := owner.do(http.MethodPost, reviewsPath, map[string]any{"review": "My own place is lovely", "stars": 5}, &forbidden)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	guest := newAPIClient(t, ts)
	guestID := guest.signup("guest")

	var review struct {
		ID     int64  `json:"id"`
		UserID int64  `json:"userId"`
		Body   string `json:"review"`
		Stars  int    `json:"stars"`
		User   *struct {
			FirstName string `json:"firstName"`
		} `json:"User"`
	}
	resp = guest.do(http.MethodPost, reviewsPath, map[string]any{"review": "Quiet and spotless place", "stars": 4}, &review)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, guestID, review.UserID)
	require.NotNil(t, review.User)
	assert.Equal(t, "guest", review.User.FirstName)

	var conflict errBody
	resp = guest.do(http.MethodPost, reviewsPath, map[string]any{"review": "Trying a second time", "stars": 2}, &conflict)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "User already has a review for this spot", conflict.Message)

	var list struct {
		Reviews []struct {
			ID int64 `json:"id"`
		} `json:"Reviews"`
	}
	guest.do(http.MethodGet, reviewsPath, nil, &list)
	require.Len(t, list.Reviews, 1)

	var detail spotBody
	guest.do(http.MethodGet, fmt.Sprintf("/api/spots/%d", spotID), nil, &detail)
	require.NotNil(t, detail.Spot.AvgRating)
	assert.InDelta(t, 4.0, *detail.Spot.AvgRating, 0.001)
	assert.Equal(t, 1, detail.Spot.NumReviews)

	resp = owner.do(http.MethodDelete, fmt.Sprintf("/api/reviews/%d", review.ID), nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = guest.do(http.MethodDelete, fmt.Sprintf("/api/reviews/%d", review.ID), nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var missing errBody
	resp = guest.do(http.MethodDelete, fmt.Sprintf("/api/reviews/%d", review.ID), nil, &missing)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Review couldn't be found", missing.Message)
}

func TestIntegration_GetUserByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ts := newTestServer(t)
	c := newAPIClient(t, ts)
	c.signup("first")
	secondID := newAPIClient(t, ts).signup("second")

	var out userBody
	resp := c.do(http.MethodGet, fmt.Sprintf("/api/users/%d", secondID), nil, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, out.User)
	assert.Equal(t, secondID, out.User.ID)
	assert.Equal(t, "second", out.User.FirstName)
	assert.Empty(t, out.User.Email)

	resp = c.do(http.MethodGet, "/api/users/9999", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestIntegration_SecurityHeadersAndCORS(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/spots", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))

	unknown, err := http.Get(ts.URL + "/api/nothing-here")
	require.NoError(t, err)
	_ = unknown.Body.Close()
	assert.Equal(t, http.StatusNotFound, unknown.StatusCode)
}
