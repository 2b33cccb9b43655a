package service

import (
	"context"
	"fmt"

	"onevsone/voting/internal/model"
	"onevsone/voting/internal/repository"
	"onevsone/voting/pkg/crypto"
)

type TokenService interface {
	// MintTokens issues count fresh tokens. Rows are inserted one at a
	// time with no rollback: on failure the tokens persisted so far are
	// returned alongside the error.
	MintTokens(ctx context.Context, count int) ([]string, error)
	ListTokens(ctx context.Context) ([]model.Token, error)
}

type tokenService struct {
	tokenRepo  repository.TokenRepository
	tokenBytes int
}

func NewTokenService(tokenRepo repository.TokenRepository, tokenBytes int) TokenService {
	if tokenBytes <= 0 {
		tokenBytes = 6
	}
	return &tokenService{tokenRepo: tokenRepo, tokenBytes: tokenBytes}
}

func (s *tokenService) MintTokens(ctx context.Context, count int) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("token count must be positive, got %d", count)
	}

	issued := make([]string, 0, count)
	for i := 0; i < count; i++ {
		code, err := crypto.GenerateVotingToken(s.tokenBytes)
		if err != nil {
			return issued, fmt.Errorf("generate voting token: %w", err)
		}

		token := &model.Token{Token: code}
		if err := s.tokenRepo.Create(ctx, token); err != nil {
			return issued, fmt.Errorf("persist voting token %d of %d: %w", i+1, count, err)
		}
		issued = append(issued, code)
	}
	return issued, nil
}

func (s *tokenService) ListTokens(ctx context.Context) ([]model.Token, error) {
	return s.tokenRepo.List(ctx)
}
