package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"onevsone/voting/internal/feed"
	"onevsone/voting/internal/model"
	"onevsone/voting/internal/service"
	"onevsone/voting/pkg/response"
)

type VotingHandler struct {
	votingService service.VotingService
	playerService service.PlayerService
	tally         *feed.Tally
}

func NewVotingHandler(votingService service.VotingService, playerService service.PlayerService, tally *feed.Tally) *VotingHandler {
	return &VotingHandler{votingService: votingService, playerService: playerService, tally: tally}
}

// Session resolves the token carried by every page load so the client can
// branch between ballot, results, and error views.
func (h *VotingHandler) Session(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, "token query parameter is required")
		return
	}

	session, err := h.votingService.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			response.Unauthorized(c, "invalid voting token")
			return
		}
		response.InternalError(c, "failed to resolve token")
		return
	}

	response.Success(c, session)
}

// ListPlayers returns the ballot, ascending by player number.
func (h *VotingHandler) ListPlayers(c *gin.Context) {
	players, err := h.playerService.ListPlayers(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to load players")
		return
	}
	response.Success(c, players)
}

type CastVoteRequest struct {
	Token    string    `json:"token" binding:"required"`
	PlayerID uuid.UUID `json:"player_id" binding:"required"`
}

// CastVote records one vote for the token's owner.
func (h *VotingHandler) CastVote(c *gin.Context) {
	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	err := h.votingService.CastVote(c.Request.Context(), req.Token, req.PlayerID)
	switch {
	case err == nil:
		response.Success(c, gin.H{"voted_for": req.PlayerID})
	case errors.Is(err, service.ErrInvalidToken):
		response.Unauthorized(c, "invalid voting token")
	case errors.Is(err, service.ErrAlreadyVoted):
		response.Conflict(c, "this token has already voted")
	case errors.Is(err, service.ErrPlayerNotFound):
		response.NotFound(c, "player not found")
	default:
		var partial *service.PartialVoteError
		if errors.As(err, &partial) {
			response.InternalError(c, "vote could not be fully recorded")
			return
		}
		response.InternalError(c, "failed to cast vote")
	}
}

type ResultsResponse struct {
	Session *service.Session `json:"session"`
	Players []model.Player   `json:"players"`
}

// Results returns the tally sorted by votes descending, together with the
// caller's own session state.
func (h *VotingHandler) Results(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, "token query parameter is required")
		return
	}

	session, err := h.votingService.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			response.Unauthorized(c, "invalid voting token")
			return
		}
		response.InternalError(c, "failed to resolve token")
		return
	}

	players, err := h.votingService.Results(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to load results")
		return
	}

	response.Success(c, ResultsResponse{Session: session, Players: players})
}

// LiveResults streams tally snapshots as SSE "tally" events. The stream
// starts with the current standings and then pushes a fresh snapshot each
// time any player's counter changes.
func (h *VotingHandler) LiveResults(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, "token query parameter is required")
		return
	}

	if _, err := h.votingService.ResolveToken(c.Request.Context(), token); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			response.Unauthorized(c, "invalid voting token")
			return
		}
		response.InternalError(c, "failed to resolve token")
		return
	}

	players, err := h.votingService.Results(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to load results")
		return
	}

	updates, cancel := h.tally.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.SSEvent("tally", players)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case snapshot, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("tally", snapshot)
			return true
		}
	})
}
