package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/You2499/settleease/internal/errors"
	"github.com/You2499/settleease/internal/services"
)

// SummaryHandler handles AI settlement summary requests
type SummaryHandler struct {
	summaryService services.SummaryServicer
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(summaryService services.SummaryServicer) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// GetSummary returns an AI summary of the settlement state
// @Summary     Get settlement summary
// @Description Natural-language summary of the current settlement state. With stream=true, tokens are sent as server-sent events followed by a final "done" event; otherwise the complete summary is returned as JSON. Unchanged settlement states are served from cache.
// @Tags        summary
// @Produce     json
// @Security    BearerAuth
// @Param       stream query bool false "Stream tokens as server-sent events"
// @Success     200 {object} services.SummaryResult "Summary"
// @Failure     502 {object} ErrorResponse "Summary service unavailable"
// @Router      /summary [get]
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	if c.Query("stream") != "true" {
		result, err := h.summaryService.Summarize(c.Request.Context(), nil)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		respondWithError(c, apperrors.ErrInternalServer)
		return
	}

	clientGone := c.Request.Context().Done()
	result, err := h.summaryService.Summarize(c.Request.Context(), func(token string) error {
		select {
		case <-clientGone:
			return c.Request.Context().Err()
		default:
		}
		payload, err := json.Marshal(gin.H{"content": token})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.Writer, "event: delta\ndata: %s\n\n", payload)
		flusher.Flush()
		return nil
	})
	if err != nil {
		// Headers are already sent; report the failure in-stream.
		payload, _ := json.Marshal(gin.H{"error": err.Error()})
		fmt.Fprintf(c.Writer, "event: error\ndata: %s\n\n", payload)
		flusher.Flush()
		return
	}

	payload, err := json.Marshal(gin.H{
		"model":  result.Model,
		"cached": result.Cached,
	})
	if err != nil {
		return
	}
	fmt.Fprintf(c.Writer, "event: done\ndata: %s\n\n", payload)
	flusher.Flush()
}
