package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"onevsone/voting/internal/service"
	"onevsone/voting/pkg/response"
)

type AdminHandler struct {
	playerService service.PlayerService
	tokenService  service.TokenService
}

func NewAdminHandler(playerService service.PlayerService, tokenService service.TokenService) *AdminHandler {
	return &AdminHandler{
		playerService: playerService,
		tokenService:  tokenService,
	}
}

type PlayerRequest struct {
	Name         string  `json:"name" binding:"required"`
	PlayerNumber int     `json:"player_number" binding:"required"`
	ImageURL     *string `json:"image_url,omitempty"`
}

func (h *AdminHandler) CreatePlayer(c *gin.Context) {
	var req PlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	player, err := h.playerService.CreatePlayer(c.Request.Context(), req.Name, req.PlayerNumber, req.ImageURL)
	if err != nil {
		response.InternalError(c, "failed to create player")
		return
	}
	response.Success(c, player)
}

func (h *AdminHandler) ListPlayers(c *gin.Context) {
	players, err := h.playerService.ListPlayers(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to list players")
		return
	}
	response.Success(c, players)
}

func (h *AdminHandler) GetPlayer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid player id")
		return
	}

	player, err := h.playerService.GetPlayer(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPlayerNotFound) {
			response.NotFound(c, "player not found")
			return
		}
		response.InternalError(c, "failed to get player")
		return
	}
	response.Success(c, player)
}

func (h *AdminHandler) UpdatePlayer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid player id")
		return
	}

	var req PlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	player, err := h.playerService.UpdatePlayer(c.Request.Context(), id, req.Name, req.PlayerNumber, req.ImageURL)
	if err != nil {
		if errors.Is(err, service.ErrPlayerNotFound) {
			response.NotFound(c, "player not found")
			return
		}
		response.InternalError(c, "failed to update player")
		return
	}
	response.Success(c, player)
}

func (h *AdminHandler) DeletePlayer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid player id")
		return
	}

	if err := h.playerService.DeletePlayer(c.Request.Context(), id); err != nil {
		response.InternalError(c, "failed to delete player")
		return
	}
	response.Success(c, nil)
}

type MintTokensRequest struct {
	Count int `json:"count" binding:"required"`
}

// MintTokens issues a batch of voting tokens. Issuance has no rollback: when
// a later insert fails, the tokens already persisted are returned so the
// operator knows which QR codes are live.
func (h *AdminHandler) MintTokens(c *gin.Context) {
	var req MintTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Count <= 0 {
		response.BadRequest(c, "count must be positive")
		return
	}

	tokens, err := h.tokenService.MintTokens(c.Request.Context(), req.Count)
	if err != nil {
		c.JSON(500, response.APIResponse{
			Code:    500,
			Message: "token issuance incomplete: " + err.Error(),
			Data:    gin.H{"issued": tokens},
		})
		return
	}
	response.Success(c, gin.H{"issued": tokens})
}

func (h *AdminHandler) ListTokens(c *gin.Context) {
	tokens, err := h.tokenService.ListTokens(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to list tokens")
		return
	}
	response.Success(c, tokens)
}
