package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/01moynul/souq-catalog/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB        *sql.DB
	Logger    *zap.Logger
	Now       func() time.Time // nil means time.Now
	UploadDir string           // empty disables image uploads
}

func (h *Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handlers) log() *zap.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return zap.NewNop()
}

// internalError logs err and answers a generic 500 with msg.
func (h *Handlers) internalError(c *gin.Context, msg string, err error) {
	h.log().Error(msg, zap.Error(err), zap.String("path", c.FullPath()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// validationFailed answers 400 with per-field messages when err carries them.
func validationFailed(c *gin.Context, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
}

// rowExists reports whether table has a row with id. table is always a
// constant from this package.
func rowExists(q queryer, table, id string) (bool, error) {
	var one int
	err := q.QueryRow("SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// ReorderInput is the body of both reorder endpoints.
type ReorderInput struct {
	IDs []string `json:"ids" binding:"required"`
}

// reorder assigns sort_order = index for every listed id in one transaction.
// Unknown ids are ignored.
func (h *Handlers) reorder(c *gin.Context, table string) {
	var input ReorderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "ids must be a list"})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		h.internalError(c, "DB Transaction failed", err)
		return
	}
	defer tx.Rollback()

	for i, id := range input.IDs {
		if _, err := tx.Exec("UPDATE "+table+" SET sort_order = ? WHERE id = ?", i, id); err != nil {
			h.internalError(c, "Failed to reorder", err)
			return
		}
	}
	if err := tx.Commit(); err != nil {
		h.internalError(c, "Failed to reorder", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Ping answers liveness checks.
func (h *Handlers) Ping(c *gin.Context) {
	if err := h.DB.PingContext(c.Request.Context()); err != nil {
		h.internalError(c, "Database unreachable", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
