package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// parseDraftID reads the draft_id path parameter. Draft ids are UUIDs, so
// anything else is rejected before touching the draft store.
func parseDraftID(c *gin.Context) (string, bool) {
	idStr := strings.TrimSpace(c.Param("draft_id"))
	if _, err := uuid.Parse(idStr); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid draft_id",
			Details: "draft id must be a UUID",
		})
		return "", false
	}
	return idStr, true
}

// indexedResponse adds the position of the element an operation created
type indexedResponse struct {
	Index int         `json:"index"`
	Draft interface{} `json:"draft"`
}
