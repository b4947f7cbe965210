package handlers

import (
	"encoding/json"
	"math"
	"net/http"

	"mysre-api/internal/models"
	"mysre-api/internal/pkg/errors"
	"mysre-api/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type ArticleHandler struct {
	articleService services.ArticleService
}

func NewArticleHandler(articleService services.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

// ListArticles - filtered search with pagination across title/abstract/keywords
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	page, limit := ParsePaginationParams(r)
	searchTerm := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")

	articles, total, err := h.articleService.GetArticlesWithFilters(r.Context(), page, limit, searchTerm, category)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"articles":   articles,
		"total":      total,
		"page":       page,
		"totalPages": int(math.Ceil(float64(total) / float64(limit))),
	})
}

func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	article, err := h.articleService.GetArticle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if article == nil {
		writeError(w, errors.ErrNotFound)
		return
	}

	writeJSON(w, http.StatusOK, article)
}

func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var article models.Article
	if err := json.NewDecoder(r.Body).Decode(&article); err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	if article.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "title is required",
		})
		return
	}

	if user, ok := services.UserFromContext(r.Context()); ok {
		article.CreatedBy = user.ID
	}

	if err := h.articleService.CreateArticle(r.Context(), &article); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, article)
}

func (h *ArticleHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	var article models.Article
	if err := json.NewDecoder(r.Body).Decode(&article); err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}
	article.ID = id

	if err := h.articleService.UpdateArticle(r.Context(), &article); err != nil {
		if err == gorm.ErrRecordNotFound {
			writeError(w, errors.ErrNotFound)
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, article)
}

func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	if err := h.articleService.DeleteArticle(r.Context(), id); err != nil {
		if err == gorm.ErrRecordNotFound {
			writeError(w, errors.ErrNotFound)
			return
		}
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
