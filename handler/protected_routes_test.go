// handler/protected_routes_test.go
package handler_test

import (
	"encoding/json"
	"go-crop-api/model"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileEndpoints(t *testing.T) {
	env := newTestEnv()
	resp := env.signup(t, "a@b.com", "secret123")

	t.Run("requires a bearer token", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/users/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/users/me", "not.a.jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("returns the caller's profile", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/users/me", resp.AccessToken, nil)
		assert.Equal(t, http.StatusOK, rr.Code)

		var user model.User
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
		assert.Equal(t, "a@b.com", user.Email)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("updates name and avatar", func(t *testing.T) {
		rr := env.do(t, http.MethodPut, "/users/me", resp.AccessToken, map[string]string{
			"name":       "Alice",
			"avatar_url": "https://img.example/alice.png",
		})
		assert.Equal(t, http.StatusOK, rr.Code)

		var user model.User
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
		assert.Equal(t, "Alice", user.Name)
		assert.Equal(t, "https://img.example/alice.png", user.AvatarURL)
	})
}

func TestAdminEndpoints(t *testing.T) {
	env := newTestEnv()
	userResp := env.signup(t, "user@b.com", "secret123")
	adminResp := env.signup(t, "admin@b.com", "secret123")
	env.userRepo.setRole(adminResp.User.ID, model.RoleAdmin)

	// The role claim is baked into the access token; log in again after the
	// promotion to obtain an admin-scoped token.
	rr := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "admin@b.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, rr.Code)
	var admin model.AuthResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &admin))

	t.Run("plain users cannot list users", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/users", userResp.AccessToken, nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("admins can list users", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/users", admin.AccessToken, nil)
		assert.Equal(t, http.StatusOK, rr.Code)

		var users []*model.User
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &users))
		assert.Len(t, users, 2)
	})

	t.Run("admins can change a role", func(t *testing.T) {
		rr := env.do(t, http.MethodPut, "/users/role", admin.AccessToken, map[string]interface{}{
			"user_id": userResp.User.ID,
			"role":    "moderator",
		})
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		rr := env.do(t, http.MethodPut, "/users/role", admin.AccessToken, map[string]interface{}{
			"user_id": userResp.User.ID,
			"role":    "superuser",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCropAndCaseEndpoints(t *testing.T) {
	env := newTestEnv()
	owner := env.signup(t, "farmer@b.com", "secret123")
	other := env.signup(t, "other@b.com", "secret123")
	adminResp := env.signup(t, "admin@b.com", "secret123")
	env.userRepo.setRole(adminResp.User.ID, model.RoleAdmin)

	rr := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "admin@b.com",
		"password": "secret123",
	})
	var admin model.AuthResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &admin))

	t.Run("only admins create crops", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/crops", owner.AccessToken, map[string]interface{}{
			"name":             "Wheat",
			"days_to_maturity": 120,
		})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	var wheat model.Crop
	t.Run("admin creates a crop", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/crops", admin.AccessToken, map[string]interface{}{
			"name":             "Wheat",
			"variety":          "Hard Red",
			"season":           "spring",
			"days_to_maturity": 120,
		})
		assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &wheat))

		dup := env.do(t, http.MethodPost, "/crops", admin.AccessToken, map[string]interface{}{
			"name":             "Wheat",
			"days_to_maturity": 120,
		})
		assert.Equal(t, http.StatusConflict, dup.Code)
	})

	var created model.CropCase
	t.Run("owner creates a case", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/cases", owner.AccessToken, map[string]interface{}{
			"crop_id":       wheat.ID,
			"title":         "North field wheat",
			"area_hectares": 12.5,
			"start_date":    "2026-03-15",
		})
		assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
		assert.Equal(t, model.CaseStatusDraft, created.Status)
	})

	t.Run("case referencing an unknown crop fails", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/cases", owner.AccessToken, map[string]interface{}{
			"crop_id":       999,
			"title":         "Ghost crop",
			"area_hectares": 1.0,
			"start_date":    "2026-03-15",
		})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("listing is scoped to the owner", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/cases", other.AccessToken, nil)
		assert.Equal(t, http.StatusOK, rr.Code)

		var cases []*model.CropCase
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cases))
		assert.Empty(t, cases)
	})

	t.Run("non-owner cannot update", func(t *testing.T) {
		rr := env.do(t, http.MethodPut, "/cases/1", other.AccessToken, map[string]interface{}{
			"status": "active",
		})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("owner updates status", func(t *testing.T) {
		rr := env.do(t, http.MethodPut, "/cases/1", owner.AccessToken, map[string]interface{}{
			"status": "active",
		})
		assert.Equal(t, http.StatusOK, rr.Code)

		var updated model.CropCase
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
		assert.Equal(t, model.CaseStatusActive, updated.Status)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		first := env.do(t, http.MethodDelete, "/cases/1", owner.AccessToken, nil)
		assert.Equal(t, http.StatusNoContent, first.Code)

		second := env.do(t, http.MethodDelete, "/cases/1", owner.AccessToken, nil)
		assert.Equal(t, http.StatusNoContent, second.Code)
	})
}
