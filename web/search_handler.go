package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"nestchat/errors"
	"nestchat/observability"
	"nestchat/search"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	index search.ISearchIndex
	stats *observability.Stats
	log   *slog.Logger
}

func NewSearchHandler(index search.ISearchIndex, stats *observability.Stats, log *slog.Logger) *SearchHandler {
	return &SearchHandler{index: index, stats: stats, log: log}
}

// Search runs a full-text query scoped to the caller's conversations.
func (h *SearchHandler) Search(c *gin.Context) {
	callerID, ok := mustCallerID(c)
	if !ok {
		return
	}
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		writeError(c, h.log, fmt.Errorf("%w: q is empty", errors.ErrValidation))
		return
	}
	limit := intQuery(c, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	from := intQuery(c, "from", 0)
	if from < 0 {
		from = 0
	}

	h.stats.IncrSearchQueries()
	hits, total, err := h.index.Search(c.Request.Context(), query, callerID, from, limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if hits == nil {
		hits = []search.Hit{}
	}
	c.JSON(http.StatusOK, gin.H{"hits": hits, "total": total})
}
