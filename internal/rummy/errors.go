package rummy

import "errors"

var (
	// ErrMissingDecision is returned when a strategy lacks one of its
	// decision functions.
	ErrMissingDecision = errors.New("rummy: strategy is missing a decision function")
	// ErrNoParticipants is returned when a round is created without seats.
	ErrNoParticipants = errors.New("rummy: round has no participants")
	// ErrNotEnoughCards is returned when the deck cannot cover the deal.
	ErrNotEnoughCards = errors.New("rummy: not enough cards to deal")
	// ErrRoundFinished is returned when Play is called on a round that has
	// already been played.
	ErrRoundFinished = errors.New("rummy: round already played")
)
