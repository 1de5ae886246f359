package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const settingsRowID = 1

// GetSettings answers the stored settings blob, or {} when none was saved.
func (h *Handlers) GetSettings(c *gin.Context) {
	var data string
	err := h.DB.QueryRow("SELECT data FROM settings WHERE id = ?", settingsRowID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	if err != nil {
		h.internalError(c, "Failed to fetch settings", err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(data))
}

// PutSettings stores the whole blob as sent. It must be a JSON object.
func (h *Handlers) PutSettings(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "settings must be a JSON object"})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		h.internalError(c, "DB Transaction failed", err)
		return
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRow("SELECT 1 FROM settings WHERE id = ?", settingsRowID).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.Exec("INSERT INTO settings (id, data) VALUES (?, ?)", settingsRowID, string(raw))
	case err == nil:
		_, err = tx.Exec("UPDATE settings SET data = ? WHERE id = ?", string(raw), settingsRowID)
	}
	if err != nil {
		h.internalError(c, "Failed to save settings", err)
		return
	}
	if err := tx.Commit(); err != nil {
		h.internalError(c, "Failed to save settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
