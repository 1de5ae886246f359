package handlers

import (
	"net/http"

	"github.com/01moynul/souq-catalog/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CategoryInput is the body of POST and PUT /categories.
type CategoryInput struct {
	ID    string           `json:"id"`
	Name  models.Localized `json:"name" validate:"required"`
	Order int              `json:"order"`
}

// GetCategories answers every category by rank.
func (h *Handlers) GetCategories(c *gin.Context) {
	rows, err := h.DB.Query("SELECT id, name_ar, name_en, sort_order FROM categories ORDER BY sort_order ASC, id ASC")
	if err != nil {
		h.internalError(c, "Failed to fetch categories", err)
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name.AR, &cat.Name.EN, &cat.Order); err != nil {
			h.internalError(c, "Failed to fetch categories", err)
			return
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		h.internalError(c, "Failed to fetch categories", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// SaveCategory (POST /categories) upserts by id; a missing id is generated.
func (h *Handlers) SaveCategory(c *gin.Context) {
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.ID == "" {
		input.ID = uuid.NewString()
	}
	h.storeCategory(c, input, false)
}

// UpdateCategory (PUT /categories/:id) updates an existing category.
func (h *Handlers) UpdateCategory(c *gin.Context) {
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.ID = c.Param("id")
	h.storeCategory(c, input, true)
}

func (h *Handlers) storeCategory(c *gin.Context, input CategoryInput, mustExist bool) {
	if err := models.Validate(input); err != nil {
		validationFailed(c, err)
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		h.internalError(c, "DB Transaction failed", err)
		return
	}
	defer tx.Rollback()

	exists, err := rowExists(tx, "categories", input.ID)
	if err != nil {
		h.internalError(c, "Failed to save category", err)
		return
	}
	switch {
	case exists:
		_, err = tx.Exec("UPDATE categories SET name_ar = ?, name_en = ?, sort_order = ? WHERE id = ?",
			input.Name.AR, input.Name.EN, input.Order, input.ID)
	case mustExist:
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	default:
		_, err = tx.Exec("INSERT INTO categories (id, name_ar, name_en, sort_order) VALUES (?, ?, ?, ?)",
			input.ID, input.Name.AR, input.Name.EN, input.Order)
	}
	if err != nil {
		h.internalError(c, "Failed to save category", err)
		return
	}
	if err := tx.Commit(); err != nil {
		h.internalError(c, "Failed to save category", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": input.ID})
}

// DeleteCategory hard-deletes a category. Products keep their category_id.
func (h *Handlers) DeleteCategory(c *gin.Context) {
	if _, err := h.DB.Exec("DELETE FROM categories WHERE id = ?", c.Param("id")); err != nil {
		h.internalError(c, "Failed to delete category", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ReorderCategories (POST /categories/reorder) sets sort_order from {ids}.
func (h *Handlers) ReorderCategories(c *gin.Context) {
	h.reorder(c, "categories")
}
