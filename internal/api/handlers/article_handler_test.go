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

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newArticleHandler(t *testing.T) (*ArticleHandler, *gorm.DB) {
	db := setupTestDB(t)
	svc := services.NewArticleService(repository.NewArticleRepository(db), nil)
	return NewArticleHandler(svc), db
}

func seedArticle(t *testing.T, db *gorm.DB, title, category string) *models.Article {
	t.Helper()
	article := &models.Article{
		Title:    title,
		Category: category,
		Status:   models.ArticlePublished,
		Year:     2025,
	}
	require.NoError(t, db.Create(article).Error)
	return article
}

func TestListArticles_SearchAndPagination(t *testing.T) {
	handler, db := newArticleHandler(t)

	seedArticle(t, db, "Kubernetes incident response", "sre")
	seedArticle(t, db, "Kubernetes cost control", "finops")
	seedArticle(t, db, "Postgres vacuuming", "db")

	req := httptest.NewRequest(http.MethodGet, "/api/articles?search=kubernetes&limit=1", nil)
	rec := httptest.NewRecorder()
	handler.ListArticles(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["total"])
	assert.Equal(t, float64(2), body["totalPages"])
	assert.Len(t, body["articles"], 1)
}

func TestCreateArticle_TitleRequired(t *testing.T) {
	handler, _ := newArticleHandler(t)

	payload, _ := json.Marshal(map[string]string{"abstract": "no title"})
	req := httptest.NewRequest(http.MethodPost, "/api/articles", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.CreateArticle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateArticle_StampsCreator(t *testing.T) {
	handler, db := newArticleHandler(t)
	user := createTestUser(t, db, models.BasicTier, 100)

	payload, _ := json.Marshal(map[string]string{"title": "New paper"})
	req := httptest.NewRequest(http.MethodPost, "/api/articles", bytes.NewReader(payload))
	req = req.WithContext(services.WithUserContext(req.Context(), user))
	rec := httptest.NewRecorder()
	handler.CreateArticle(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body models.Article
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, user.ID, body.CreatedBy)
}

func TestGetArticle_NotFound(t *testing.T) {
	handler, _ := newArticleHandler(t)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/articles/"+id, nil)
	req = mux.SetURLVars(req, map[string]string{"id": id})
	rec := httptest.NewRecorder()
	handler.GetArticle(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteArticle(t *testing.T) {
	handler, db := newArticleHandler(t)
	article := seedArticle(t, db, "Doomed", "misc")

	req := httptest.NewRequest(http.MethodDelete, "/api/articles/"+article.ID.String(), nil)
	req = mux.SetURLVars(req, map[string]string{"id": article.ID.String()})
	rec := httptest.NewRecorder()
	handler.DeleteArticle(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.Article{}).Where("id = ?", article.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
