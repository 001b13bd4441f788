package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/domain"
	"github.com/brandforge/pipeline/internal/runs"
	"github.com/brandforge/pipeline/pkg/pipelineerr"
)

// EventsHandler serves the Server-Sent-Events progress stream.
type EventsHandler struct {
	manager *runs.Manager
	logger  *zap.Logger
}

// NewEventsHandler creates an EventsHandler.
func NewEventsHandler(manager *runs.Manager, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{manager: manager, logger: logger}
}

// Stream handles GET /api/v1/runs/{id}/events.
//
//	@Summary		Stream progress events
//	@Description	Server-Sent-Events adaptation of the on_progress callback (§4.K/§6); one event per stage boundary and per parallel task completion.
//	@Tags			runs
//	@Produce		text/event-stream
//	@Param			id	path	string	true	"Run ID"
//	@Router			/runs/{id}/events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	run, ok := h.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, pipelineerr.ErrorResponse{Error: pipelineerr.ErrRunNotFound})
		return
	}

	sub := run.Subscribe()
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, open := <-sub:
			if !open {
				return false
			}
			writeSSEEvent(c, ev)
			return !domain.RunState(ev.Status).IsTerminal()
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func writeSSEEvent(c *gin.Context, ev domain.ProgressEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	c.SSEvent("progress", string(data))
	c.Writer.Flush()
}
