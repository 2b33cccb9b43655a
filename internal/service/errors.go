package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidToken   = errors.New("voting token invalid or unknown")
	ErrAlreadyVoted   = errors.New("voting token already used")
	ErrPlayerNotFound = errors.New("player not found")
)

// Vote-commit step names carried by PartialVoteError.
const (
	StepRecordVote     = "record_vote"
	StepMarkVoted      = "mark_voted"
	StepIncrementVotes = "increment_votes"
)

// PartialVoteError reports that the three-step vote commit (ledger insert,
// token flag flip, tally increment) failed after an earlier step had already
// persisted. Stored state is inconsistent until an operator reconciles it;
// callers must log this distinctly from ordinary validation failures.
type PartialVoteError struct {
	Step string
	Err  error
}

func (e *PartialVoteError) Error() string {
	return fmt.Sprintf("vote commit failed at step %s: %v", e.Step, e.Err)
}

func (e *PartialVoteError) Unwrap() error { return e.Err }
