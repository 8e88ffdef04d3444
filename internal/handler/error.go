package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/locallibrary/internal/repository"
)

// writeError renders the error page and aborts. err, when set, is attached
// to the context for the error logger and shown only in debug mode.
func writeError(c *gin.Context, status int, code, message string, err error) {
	data := gin.H{
		"Title":   "Error",
		"Status":  status,
		"Code":    code,
		"Message": message,
	}

	if err != nil {
		_ = c.Error(err).SetMeta(code)
		if gin.IsDebugging() {
			data["Detail"] = err.Error()
		}
	}

	c.HTML(status, "error", data)
	c.Abort()
}

// writeFetchError renders 404 for ErrNotFound and 500 for anything else.
func writeFetchError(c *gin.Context, err error, code, entity string) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(c, http.StatusNotFound, code+"_NOT_FOUND", entity+" not found", nil)
		return
	}
	writeError(c, http.StatusInternalServerError, code+"_FETCH_FAILED", "failed to fetch "+entity, err)
}
