package interfaces

import (
	"context"
	"net/http"

	"github.com/sebuszqo/FinBank/internal/finance/domain"
)

type CategoryServiceInterface interface {
	GetAllCategories(ctx context.Context) ([]domain.Category, error)
}

type CategoryHandler struct {
	service CategoryServiceInterface
	responders
}

func NewCategoryHandler(service CategoryServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *CategoryHandler {
	if service == nil {
		panic("category service must not be nil")
	}
	return &CategoryHandler{
		service:    service,
		responders: newResponders(respondJSON, respondError),
	}
}

func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetAllCategories(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"message":    "Categories retrieved successfully.",
		"categories": categories,
	})
}
