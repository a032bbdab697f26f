package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/clubhub/backend/internal/models"
)

func TestUsersEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	_, adminToken := createTestUser(t, env.db, "users-admin", "users-admin@campus.test", "password123", models.UserRoleAdmin)
	member, memberToken := createTestUser(t, env.db, "users-member", "users-member@campus.test", "password123", models.UserRoleMember)

	t.Run("GET /api/users/ admin lists users with pagination", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/users/?page=1&limit=2", nil, authHeaders(adminToken))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)
		if _, ok := body["pagination"].(map[string]any); !ok {
			t.Fatalf("expected pagination object in list response")
		}
	})

	t.Run("GET /api/users/ filters by search term", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/users/?search=users-member", nil, authHeaders(adminToken))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)
		data := body["data"].([]any)
		if len(data) != 1 {
			t.Fatalf("expected exactly one match, got %d", len(data))
		}
	})

	t.Run("GET /api/users/ non-admin is forbidden", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/users/", nil, authHeaders(memberToken))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusForbidden)
		assertEnvelopeError(t, body, "admin access required")
	})

	t.Run("GET /api/users/:id returns user for admin", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, fmt.Sprintf("/api/users/%s", member.ID), nil, authHeaders(adminToken))
		assertStatus(t, resp, http.StatusOK)
	})

	t.Run("GET /api/users/:id not found", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/users/00000000-0000-0000-0000-000000000000", nil, authHeaders(adminToken))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusNotFound)
		assertEnvelopeError(t, body, "user not found")
	})

	t.Run("POST /api/users/ admin creates a user with role", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/users/", map[string]any{
			"username": "created-leader",
			"email":    "created-leader@campus.test",
			"password": "password123",
			"role":     "leader",
		}, authHeaders(adminToken))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusCreated)
		data := body["data"].(map[string]any)
		if data["role"] != string(models.UserRoleLeader) {
			t.Fatalf("expected role leader, got %v", data["role"])
		}
	})

	t.Run("POST /api/users/ rejects unknown role", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/users/", map[string]any{
			"username": "bad-role",
			"email":    "bad-role@campus.test",
			"password": "password123",
			"role":     "president",
		}, authHeaders(adminToken))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusBadRequest)
		assertEnvelopeError(t, body, "invalid role")
	})

	t.Run("PUT /api/users/:id admin changes role and active flag", func(t *testing.T) {
		victim, _ := createTestUser(t, env.db, "users-promote", "users-promote@campus.test", "password123", models.UserRoleUser)
		resp := performJSONRequest(t, env.app, http.MethodPut, fmt.Sprintf("/api/users/%s", victim.ID), map[string]any{
			"role":     "leader",
			"isActive": false,
		}, authHeaders(adminToken))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)
		data := body["data"].(map[string]any)
		if data["role"] != string(models.UserRoleLeader) {
			t.Fatalf("expected promoted role leader, got %v", data["role"])
		}
		if data["isActive"] != false {
			t.Fatalf("expected isActive=false, got %v", data["isActive"])
		}
	})

	t.Run("DELETE /api/users/:id cascades and clears club leadership", func(t *testing.T) {
		leader, _ := createTestUser(t, env.db, "users-doomed", "users-doomed@campus.test", "password123", models.UserRoleLeader)
		club := createTestClub(t, env.db, "Doomed Leader Club", models.ClubCategoryAcademic, &leader.ID)
		createTestMembership(t, env.db, leader.ID, club.ID, models.MembershipStatusApproved)

		resp := performRequest(t, env.app, http.MethodDelete, fmt.Sprintf("/api/users/%s", leader.ID), nil, authHeaders(adminToken))
		assertStatus(t, resp, http.StatusOK)

		var reloaded models.Club
		if err := env.db.First(&reloaded, "id = ?", club.ID).Error; err != nil {
			t.Fatalf("failed reloading club: %v", err)
		}
		if reloaded.LeaderID != nil {
			t.Fatalf("expected club leader to be cleared after delete")
		}

		var membershipCount int64
		env.db.Model(&models.Membership{}).Where("user_id = ?", leader.ID).Count(&membershipCount)
		if membershipCount != 0 {
			t.Fatalf("expected memberships to be deleted, found %d", membershipCount)
		}
	})

	t.Run("DELETE /api/users/:id not found", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodDelete, "/api/users/00000000-0000-0000-0000-000000000000", nil, authHeaders(adminToken))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusNotFound)
		assertEnvelopeError(t, body, "user not found")
	})
}
