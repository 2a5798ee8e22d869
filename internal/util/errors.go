package util

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomPaused          = errors.New("room is paused")
	ErrRoomNotIntermission = errors.New("room is not in intermission")
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionNotCompleted = errors.New("session not completed")
	ErrXPAlreadyAwarded    = errors.New("xp already awarded for session")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrNotEnoughPlayers    = errors.New("not enough participants to start")
	ErrWrongPhase          = errors.New("action not allowed in current phase")
	ErrAlreadySubmitted    = errors.New("already submitted this round")
	ErrCardNotInHand       = errors.New("card is not in participant's hand")
	ErrGoldenCardUsed      = errors.New("golden card already used this session")
	ErrQualityDataMissing  = errors.New("no quality data for role card and category")
	ErrRoleCardRequired    = errors.New("role card is required")
)
