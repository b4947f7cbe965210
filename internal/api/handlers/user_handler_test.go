package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mysre-api/internal/models"
	"mysre-api/internal/repository"
	"mysre-api/internal/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserHandler(t *testing.T) (*UserHandler, *gorm.DB) {
	db := setupTestDB(t)
	svc := services.NewUserService(repository.NewUserRepository(db), testTierLimits())
	return NewUserHandler(svc), db
}

func promoteToAdmin(t *testing.T, db *gorm.DB, user *models.User) {
	t.Helper()
	require.NoError(t, db.Model(user).Update("role", models.AdminRole).Error)
}

func TestDeleteUser_LastAdmin(t *testing.T) {
	handler, db := newUserHandler(t)
	admin := createTestUser(t, db, models.EnterpriseTier, 1000)
	promoteToAdmin(t, db, admin)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/users/"+admin.ID.String(), nil)
	req = mux.SetURLVars(req, map[string]string{"id": admin.ID.String()})
	rec := httptest.NewRecorder()
	handler.DeleteUser(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", admin.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "the last admin must survive the request")
}

func TestDeleteUser_Member(t *testing.T) {
	handler, db := newUserHandler(t)
	member := createTestUser(t, db, models.BasicTier, 100)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/users/"+member.ID.String(), nil)
	req = mux.SetURLVars(req, map[string]string{"id": member.ID.String()})
	rec := httptest.NewRecorder()
	handler.DeleteUser(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", member.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeleteUser_BadID(t *testing.T) {
	handler, _ := newUserHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/users/not-a-uuid", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "not-a-uuid"})
	rec := httptest.NewRecorder()
	handler.DeleteUser(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUser_AdminRoute(t *testing.T) {
	handler, db := newUserHandler(t)

	payload, _ := json.Marshal(map[string]string{
		"email":    "provisioned@example.com",
		"password": "pw",
		"name":     "Provisioned",
		"role":     "ADMIN",
		"tier":     "enterprise",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/users", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.CreateUser(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ADMIN", body["role"])
	assert.Equal(t, "enterprise", body["tier"])
	assert.NotContains(t, body, "password_hash")

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "provisioned@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateUser_AdminRoute_BadTier(t *testing.T) {
	handler, _ := newUserHandler(t)

	payload, _ := json.Marshal(map[string]string{
		"email":    "x@example.com",
		"password": "pw",
		"tier":     "gold",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/users", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.CreateUser(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateUser_TierChange(t *testing.T) {
	handler, db := newUserHandler(t)
	user := createTestUser(t, db, models.BasicTier, 500)

	payload, _ := json.Marshal(map[string]string{"tier": "pro"})
	req := httptest.NewRequest(http.MethodPut, "/api/admin/users/"+user.ID.String(), bytes.NewReader(payload))
	req = mux.SetURLVars(req, map[string]string{"id": user.ID.String()})
	rec := httptest.NewRecorder()
	handler.UpdateUser(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "pro", body["tier"])

	limits := testTierLimits()
	assert.Equal(t, float64(limits.TokenLimits[models.ProTier]), body["monthly_token_limit"])
}

func TestListUsers_Pagination(t *testing.T) {
	handler, db := newUserHandler(t)
	for i := 0; i < 5; i++ {
		createTestUser(t, db, models.BasicTier, 100)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users?page=1&limit=2", nil)
	rec := httptest.NewRecorder()
	handler.ListUsers(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(5), body["total"])
	assert.Equal(t, float64(3), body["totalPages"])
	assert.Len(t, body["users"], 2)
}
