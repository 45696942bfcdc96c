package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCategory(t *testing.T, app *fiber.App, adminToken, name string) map[string]any {
	t.Helper()

	status, body := request(t, app, http.MethodPost, "/api/categories", map[string]any{
		"name": name,
	}, adminToken)
	require.Equal(t, http.StatusCreated, status, "create category %q: %v", name, body)
	return data(t, body)
}

func TestCategoryMutationsRequireAdmin(t *testing.T) {
	s, app := newTestServer(t)
	userToken := registerUser(t, app, "regular")
	adminToken := makeAdmin(t, s, app, "boss")
	created := createCategory(t, app, adminToken, "Existing")
	id := fmt.Sprintf("%v", created["id"])

	for _, tc := range []struct {
		method, path string
		body         any
	}{
		{http.MethodPost, "/api/categories", map[string]any{"name": "New"}},
		{http.MethodPut, "/api/categories/" + id, map[string]any{"name": "Renamed"}},
		{http.MethodDelete, "/api/categories/" + id, nil},
	} {
		status, body := request(t, app, tc.method, tc.path, tc.body, "")
		assert.Equal(t, http.StatusUnauthorized, status, "%s %s anonymous", tc.method, tc.path)

		status, body = request(t, app, tc.method, tc.path, tc.body, userToken)
		assert.Equal(t, http.StatusForbidden, status, "%s %s non-admin", tc.method, tc.path)
		assert.Equal(t, "Admin role required", body["error"])
	}
}

func TestCreateCategory(t *testing.T) {
	s, app := newTestServer(t)
	adminToken := makeAdmin(t, s, app, "boss")

	created := createCategory(t, app, adminToken, "Web Development")
	assert.Equal(t, "web-development", created["slug"])
	assert.Equal(t, "#007bff", created["color"])
	assert.Equal(t, true, created["isActive"])

	// duplicate name conflicts
	status, body := request(t, app, http.MethodPost, "/api/categories", map[string]any{
		"name": "Web Development",
	}, adminToken)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Category with this name already exists", body["error"])

	// bad color is a field error
	status, _ = request(t, app, http.MethodPost, "/api/categories", map[string]any{
		"name":  "Colored",
		"color": "blue",
	}, adminToken)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestListCategories(t *testing.T) {
	s, app := newTestServer(t)
	adminToken := makeAdmin(t, s, app, "boss")

	createCategory(t, app, adminToken, "Zebra")
	createCategory(t, app, adminToken, "Alpha")
	hidden := createCategory(t, app, adminToken, "Hidden")

	id := fmt.Sprintf("%v", hidden["id"])
	status, _ := request(t, app, http.MethodPut, "/api/categories/"+id, map[string]any{
		"isActive": false,
	}, adminToken)
	require.Equal(t, http.StatusOK, status)

	// default listing is active-only, name ascending, no auth needed
	status, body := request(t, app, http.MethodGet, "/api/categories", nil, "")
	require.Equal(t, http.StatusOK, status)
	list := body["data"].([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].(map[string]any)["name"])
	assert.Equal(t, "Zebra", list[1].(map[string]any)["name"])

	status, body = request(t, app, http.MethodGet, "/api/categories?includeInactive=true", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].([]any), 3)
}

func TestGetCategoryWithPostsCount(t *testing.T) {
	s, app := newTestServer(t)
	adminToken := makeAdmin(t, s, app, "boss")
	category := createCategory(t, app, adminToken, "Counted")
	categoryID := category["id"].(float64)

	for i := 0; i < 2; i++ {
		status, body := request(t, app, http.MethodPost, "/api/posts", map[string]any{
			"title":       fmt.Sprintf("Post %d", i),
			"content":     "content",
			"category":    categoryID,
			"isPublished": true,
		}, adminToken)
		require.Equal(t, http.StatusCreated, status, "%v", body)
	}
	// drafts are not counted on the detail view
	status, body := request(t, app, http.MethodPost, "/api/posts", map[string]any{
		"title":    "Draft",
		"content":  "content",
		"category": categoryID,
	}, adminToken)
	require.Equal(t, http.StatusCreated, status, "%v", body)

	status, body = request(t, app, http.MethodGet, fmt.Sprintf("/api/categories/%v", categoryID), nil, "")
	require.Equal(t, http.StatusOK, status)
	detail := data(t, body)
	assert.Equal(t, "Counted", detail["name"])
	assert.Equal(t, float64(2), detail["postsCount"])

	status, _ = request(t, app, http.MethodGet, "/api/categories/9999", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUpdateCategoryRename(t *testing.T) {
	s, app := newTestServer(t)
	adminToken := makeAdmin(t, s, app, "boss")
	category := createCategory(t, app, adminToken, "Old Name")
	id := fmt.Sprintf("%v", category["id"])

	status, body := request(t, app, http.MethodPut, "/api/categories/"+id, map[string]any{
		"name": "Fresh Name",
	}, adminToken)
	require.Equal(t, http.StatusOK, status)
	updated := data(t, body)
	assert.Equal(t, "Fresh Name", updated["name"])
	assert.Equal(t, "fresh-name", updated["slug"])
}

func TestDeleteCategory(t *testing.T) {
	s, app := newTestServer(t)
	adminToken := makeAdmin(t, s, app, "boss")

	empty := createCategory(t, app, adminToken, "Empty")
	busy := createCategory(t, app, adminToken, "Busy")

	status, body := request(t, app, http.MethodPost, "/api/posts", map[string]any{
		"title":    "Occupant",
		"content":  "content",
		"category": busy["id"],
	}, adminToken)
	require.Equal(t, http.StatusCreated, status, "%v", body)

	status, body = request(t, app, http.MethodDelete, fmt.Sprintf("/api/categories/%v", busy["id"]), nil, adminToken)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Cannot delete category. It has 1 associated posts.", body["error"])

	status, _ = request(t, app, http.MethodDelete, fmt.Sprintf("/api/categories/%v", empty["id"]), nil, adminToken)
	assert.Equal(t, http.StatusOK, status)

	status, _ = request(t, app, http.MethodGet, fmt.Sprintf("/api/categories/%v", empty["id"]), nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}
