package admin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ethanbaker/chatbot/internal/stores/transcript"
	"github.com/ethanbaker/chatbot/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// Controller serves the admin routes
type Controller struct {
	store transcript.Store
}

// SearchTranscripts handles GET requests searching every live transcript for ?q=
func (ctl *Controller) SearchTranscripts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Missing search query", errors.New("query parameter 'q' is required")).AsGinResponse())
		return
	}

	results, err := ctl.store.SearchTranscripts(c.Request.Context(), query)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to search transcripts", err).AsGinResponse())
		return
	}

	resp := make([]sdk.SearchResult, 0, len(results))
	for _, result := range results {
		resp = append(resp, sdk.SearchResult{
			SessionID: result.SessionID.String(),
			TurnID:    result.TurnID,
			Human:     result.Human,
			AI:        result.AI,
			CreatedAt: result.CreatedAt,
		})
	}

	c.JSON(sdk.NewSuccessResponse("Transcripts searched successfully", resp).AsGinResponse())
}
