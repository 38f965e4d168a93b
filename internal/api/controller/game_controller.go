package controller

import (
	"ctchen222/tictactoe/internal/api/models"
	"ctchen222/tictactoe/internal/api/response"
	"ctchen222/tictactoe/internal/api/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GameController handles game-related HTTP requests.
type GameController struct {
	gameService service.GameService
}

// NewGameController creates a new GameController.
func NewGameController(gameService service.GameService) *GameController {
	return &GameController{
		gameService: gameService,
	}
}

// Create handles POST /api/games.
func (gc *GameController) Create(c *gin.Context) {
	var req models.NewGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := gc.gameService.Create(c.Request.Context(), &req)
	if err != nil {
		response.AppErrorResponse(c, err)
		return
	}

	response.CreatedResponse(c, resp)
}

// Restart handles POST /api/games/:id/new.
func (gc *GameController) Restart(c *gin.Context) {
	var req models.NewGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := gc.gameService.Restart(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.AppErrorResponse(c, err)
		return
	}

	response.SuccessResponse(c, resp)
}

// Move handles POST /api/games/:id/moves.
func (gc *GameController) Move(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := gc.gameService.Move(c.Request.Context(), c.Param("id"), *req.Cell)
	if err != nil {
		response.AppErrorResponse(c, err)
		return
	}

	response.SuccessResponse(c, resp)
}

// Get handles GET /api/games/:id.
func (gc *GameController) Get(c *gin.Context) {
	resp, err := gc.gameService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.AppErrorResponse(c, err)
		return
	}

	response.SuccessResponse(c, resp)
}
