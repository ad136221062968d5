package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/sitepages/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritesWithoutSessionAreRejected(t *testing.T) {
	r, gdb := newTestEngine(t, Options{})

	seed := db.Page{Title: "About", Slug: "about", Content: "<p>a</p>", IsPublished: true}
	require.NoError(t, gdb.Create(&seed).Error)

	cases := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodPost, "/api/pages", map[string]string{"title": "New", "slug": "new"}},
		{http.MethodPut, fmt.Sprintf("/api/pages/%d", seed.ID), map[string]string{"title": "X", "slug": "x"}},
		{http.MethodPut, fmt.Sprintf("/api/pages/%d/content", seed.ID), map[string]string{"content": "changed"}},
		{http.MethodDelete, fmt.Sprintf("/api/pages/%d", seed.ID), nil},
	}

	for _, tc := range cases {
		w := doRequest(r, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "Authentication required", errorMessage(t, w))
	}

	// a forged cookie is no better than none
	forged := &http.Cookie{Name: "test_session", Value: "not-a-signed-value"}
	w := doRequest(r, http.MethodPost, "/api/pages", map[string]string{"title": "New", "slug": "new"}, forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	require.NoError(t, gdb.Model(&db.Page{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var stored db.Page
	require.NoError(t, gdb.First(&stored, seed.ID).Error)
	assert.Equal(t, "About", stored.Title)
	assert.Equal(t, "<p>a</p>", stored.Content)
}

func TestCreatePagePublishesByDefault(t *testing.T) {
	r, _ := newTestEngine(t, Options{})
	session := login(t, r)

	w := doRequest(r, http.MethodPost, "/api/pages", map[string]interface{}{
		"title":           "Contact",
		"slug":            "contact",
		"content":         "<p>hi</p>",
		"metaDescription": "Reach us",
		"isPublished":     false,
	}, session)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var page db.Page
	decodeJSON(t, w, &page)
	assert.NotZero(t, page.ID)
	assert.Equal(t, "Contact", page.Title)
	assert.Equal(t, "contact", page.Slug)
	assert.Equal(t, "<p>hi</p>", page.Content)
	assert.Equal(t, "Reach us", page.MetaDescription)
	assert.True(t, page.IsPublished)
	assert.False(t, page.CreatedAt.IsZero())
	assert.True(t, page.CreatedAt.Equal(page.UpdatedAt))

	var raw map[string]interface{}
	decodeJSON(t, w, &raw)
	for _, key := range []string{"id", "title", "slug", "content", "meta_description", "is_published", "created_at", "updated_at"} {
		assert.Contains(t, raw, key)
	}
}

func TestCreatePageDefaultsOptionalFields(t *testing.T) {
	r, _ := newTestEngine(t, Options{})
	session := login(t, r)

	w := doRequest(r, http.MethodPost, "/api/pages", map[string]string{"title": "Bare", "slug": "bare"}, session)
	require.Equal(t, http.StatusCreated, w.Code)

	var page db.Page
	decodeJSON(t, w, &page)
	assert.Equal(t, "", page.Content)
	assert.Equal(t, "", page.MetaDescription)
}

func TestCreatePageValidation(t *testing.T) {
	r, gdb := newTestEngine(t, Options{})
	session := login(t, r)

	cases := []struct {
		name string
		body interface{}
	}{
		{"missing title", map[string]string{"slug": "x"}},
		{"missing slug", map[string]string{"title": "X"}},
		{"blank slug", map[string]string{"title": "X", "slug": "   "}},
		{"malformed json", "{"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/api/pages", tc.body, session)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Title and slug are required", errorMessage(t, w))
		})
	}

	var count int64
	require.NoError(t, gdb.Model(&db.Page{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreatePageDuplicateSlug(t *testing.T) {
	r, gdb := newTestEngine(t, Options{})
	session := login(t, r)

	first := doRequest(r, http.MethodPost, "/api/pages", map[string]string{"title": "One", "slug": "dup"}, session)
	require.Equal(t, http.StatusCreated, first.Code)

	second := doRequest(r, http.MethodPost, "/api/pages", map[string]string{"title": "Two", "slug": "dup"}, session)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, "A page with this slug already exists", errorMessage(t, second))

	var count int64
	require.NoError(t, gdb.Model(&db.Page{}).Where("slug = ?", "dup").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetPageByID(t *testing.T) {
	r, gdb := newTestEngine(t, Options{})

	page := db.Page{Title: "Home", Slug: "home", IsPublished: true}
	require.NoError(t, gdb.Create(&page).Error)

	w := doRequest(r, http.MethodGet, fmt.Sprintf("/api/pages/%d", page.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got db.Page
	decodeJSON(t, w, &got)
	assert.Equal(t, page.ID, got.ID)
	assert.Equal(t, "home", got.Slug)

	missing := doRequest(r, http.MethodGet, "/api/pages/9999", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, "Page not found", errorMessage(t, missing))

	bad := doRequest(r, http.MethodGet, "/api/pages/abc", nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Equal(t, "Invalid page id", errorMessage(t, bad))
}

func TestGetPageBySlugIsCaseSensitive(t *testing.T) {
	r, gdb := newTestEngine(t, Options{})
	require.NoError(t, gdb.Create(&db.Page{Title: "About", Slug: "about", IsPublished: false}).Error)

	w := doRequest(r, http.MethodGet, "/api/pages/slug/about", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got db.Page
	decodeJSON(t, w, &got)
	assert.Equal(t, "About", got.Title)
	// the API exposes drafts, only the public renderer hides them
	assert.False(t, got.IsPublished)

	upper := doRequest(r, http.MethodGet, "/api/pages/slug/About", nil)
	assert.Equal(t, http.StatusNotFound, upper.Code)
}

func TestListPagesNewestFirst(t *testing.T) {
	r, _ := newTestEngine(t, Options{})

	empty := doRequest(r, http.MethodGet, "/api/pages", nil)
	require.Equal(t, http.StatusOK, empty.Code)
	assert.JSONEq(t, "[]", empty.Body.String())

	session := login(t, r)
	for _, slug := range []string{"first", "second", "third"} {
		w := doRequest(r, http.MethodPost, "/api/pages", map[string]string{"title": slug, "slug": slug}, session)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doRequest(r, http.MethodGet, "/api/pages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pages []db.Page
	decodeJSON(t, w, &pages)
	require.Len(t, pages, 3)
	assert.Equal(t, "third", pages[0].Slug)
	assert.Equal(t, "second", pages[1].Slug)
	assert.Equal(t, "first", pages[2].Slug)
}

func TestUpdatePage(t *testing.T) {
	r, gdb := newTestEngine(t, Options{})
	session := login(t, r)

	created := doRequest(r, http.MethodPost, "/api/pages", map[string]string{"title": "Contact", "slug": "contact"}, session)
	require.Equal(t, http.StatusCreated, created.Code)
	var page db.Page
	decodeJSON(t, created, &page)

	require.NoError(t, gdb.Create(&db.Page{Title: "Other", Slug: "other", IsPublished: true}).Error)
	path := fmt.Sprintf("/api/pages/%d", page.ID)

	t.Run("unpublish", func(t *testing.T) {
		w := doRequest(r, http.MethodPut, path, map[string]interface{}{
			"title":           "Contact us",
			"slug":            "contact",
			"content":         "<p>new</p>",
			"metaDescription": "desc",
			"isPublished":     false,
		}, session)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got db.Page
		decodeJSON(t, w, &got)
		assert.Equal(t, "Contact us", got.Title)
		assert.Equal(t, "<p>new</p>", got.Content)
		assert.Equal(t, "desc", got.MetaDescription)
		assert.False(t, got.IsPublished)
		assert.True(t, got.CreatedAt.Equal(page.CreatedAt))
		assert.False(t, got.UpdatedAt.Before(page.UpdatedAt))
	})

	t.Run("absent isPublished republishes", func(t *testing.T) {
		w := doRequest(r, http.MethodPut, path, map[string]string{"title": "Contact", "slug": "contact"}, session)
		require.Equal(t, http.StatusOK, w.Code)
		var got db.Page
		decodeJSON(t, w, &got)
		assert.True(t, got.IsPublished)
		assert.Equal(t, "", got.Content)
	})

	t.Run("slug of another page", func(t *testing.T) {
		w := doRequest(r, http.MethodPut, path, map[string]string{"title": "Contact", "slug": "other"}, session)
		assert.Equal(t, http.StatusConflict, w.Code)

		var stored db.Page
		require.NoError(t, gdb.First(&stored, page.ID).Error)
		assert.Equal(t, "contact", stored.Slug)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := doRequest(r, http.MethodPut, path, map[string]string{"title": ""}, session)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown page", func(t *testing.T) {
		w := doRequest(r, http.MethodPut, "/api/pages/9999", map[string]string{"title": "X", "slug": "x"}, session)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := doRequest(r, http.MethodPut, "/api/pages/abc", map[string]string{"title": "X", "slug": "x"}, session)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdatePageContent(t *testing.T) {
	r, gdb := newTestEngine(t, Options{})
	session := login(t, r)

	page := db.Page{Title: "About", Slug: "about", Content: "<p>old</p>", MetaDescription: "keep", IsPublished: false}
	require.NoError(t, gdb.Create(&page).Error)
	path := fmt.Sprintf("/api/pages/%d/content", page.ID)

	missing := doRequest(r, http.MethodPut, path, map[string]string{}, session)
	assert.Equal(t, http.StatusBadRequest, missing.Code)
	assert.Equal(t, "Content is required", errorMessage(t, missing))

	w := doRequest(r, http.MethodPut, path, map[string]string{"content": "<h1>new</h1>"}, session)
	require.Equal(t, http.StatusOK, w.Code)
	var got db.Page
	decodeJSON(t, w, &got)
	assert.Equal(t, "<h1>new</h1>", got.Content)
	assert.Equal(t, "About", got.Title)
	assert.Equal(t, "keep", got.MetaDescription)
	assert.False(t, got.IsPublished)

	cleared := doRequest(r, http.MethodPut, path, map[string]string{"content": ""}, session)
	require.Equal(t, http.StatusOK, cleared.Code)
	decodeJSON(t, cleared, &got)
	assert.Equal(t, "", got.Content)

	unknown := doRequest(r, http.MethodPut, "/api/pages/9999/content", map[string]string{"content": "x"}, session)
	assert.Equal(t, http.StatusNotFound, unknown.Code)
}

func TestDeletePage(t *testing.T) {
	r, gdb := newTestEngine(t, Options{})
	session := login(t, r)

	page := db.Page{Title: "Gone", Slug: "gone", IsPublished: true}
	require.NoError(t, gdb.Create(&page).Error)
	path := fmt.Sprintf("/api/pages/%d", page.ID)

	w := doRequest(r, http.MethodDelete, path, nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Page deleted successfully"}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, doRequest(r, http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(r, http.MethodDelete, path, nil, session).Code)

	var count int64
	require.NoError(t, gdb.Unscoped().Model(&db.Page{}).Count(&count).Error)
	assert.Zero(t, count)
}
