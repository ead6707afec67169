package api

import (
	"errors"
	"net/http"

	"licensing-map/internal/catalogstore"
	"licensing-map/internal/editor"
	"licensing-map/internal/logging"
	"licensing-map/internal/users"

	"github.com/gin-gonic/gin"
)

// writeError maps domain errors to HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	body := gin.H{"error": err.Error()}

	switch {
	case errors.Is(err, catalogstore.ErrNotFound), errors.Is(err, users.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalogstore.ErrDuplicateID),
		errors.Is(err, editor.ErrSessionOpen),
		errors.Is(err, editor.ErrNoSession),
		errors.Is(err, users.ErrProtected):
		status = http.StatusConflict
	case errors.Is(err, editor.ErrUnsavedChanges), errors.Is(err, editor.ErrConfirmationRequired):
		status = http.StatusConflict
		body["confirmRequired"] = true
	case errors.Is(err, catalogstore.ErrInvalid),
		errors.Is(err, editor.ErrWrongDraftKind),
		errors.Is(err, editor.ErrTierIndex),
		errors.Is(err, editor.ErrNoTierStructure):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logging.LogKV("error", "request failed", map[string]interface{}{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
		_ = c.Error(err)
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
