package web

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"nestchat/auth"
	"nestchat/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// writeError maps the service error taxonomy onto HTTP statuses. Unknown
// errors become an opaque 500 so internals never leak to clients.
func writeError(c *gin.Context, log *slog.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case stderrors.Is(err, errors.ErrNotFound):
		status = http.StatusNotFound
	case stderrors.Is(err, errors.ErrForbidden):
		status = http.StatusForbidden
	case stderrors.Is(err, errors.ErrInvalidOperation), stderrors.Is(err, errors.ErrUserAlreadyExists):
		status = http.StatusConflict
	case stderrors.Is(err, errors.ErrValidation):
		status = http.StatusBadRequest
	case stderrors.Is(err, errors.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case stderrors.Is(err, errors.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "err", err, "path", c.FullPath())
		message = "internal error"
	}
	c.JSON(status, gin.H{"error": message})
}

// mustCallerID extracts the authenticated user set by the auth
// middleware, aborting with 401 when absent.
func mustCallerID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := auth.CallerID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token is missing"})
	}
	return id, ok
}

func intQuery(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return value
}

func pathID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("%w: malformed %s", errors.ErrValidation, name)
	}
	return id, nil
}
