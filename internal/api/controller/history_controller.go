package controller

import (
	"ctchen222/tictactoe/internal/api/response"
	"ctchen222/tictactoe/internal/api/service"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// HistoryController serves the record of completed games.
type HistoryController struct {
	historyService service.HistoryService
}

// NewHistoryController creates a new HistoryController.
func NewHistoryController(historyService service.HistoryService) *HistoryController {
	return &HistoryController{historyService: historyService}
}

// List handles GET /api/history.
func (hc *HistoryController) List(c *gin.Context) {
	ctx := c.Request.Context()
	h, err := hc.historyService.History(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load history", "error", err)
		response.AppErrorResponse(c, err)
		return
	}

	response.SuccessResponse(c, h)
}
