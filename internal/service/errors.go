package service

import (
	"fmt"

	apperrors "github.com/yourusername/homework-api/internal/pkg/errors"
)

// Service-level errors, each wrapping the shared sentinel it belongs to so
// handlers can map them with errors.Is.
var (
	ErrAlreadyJoined   = fmt.Errorf("%w: user already joined this competition", apperrors.ErrConflict)
	ErrCompetitionFull = fmt.Errorf("%w: competition reached its participant limit", apperrors.ErrConflict)
	ErrJoinClosed      = fmt.Errorf("%w: competitions can only be joined before they start", apperrors.ErrStateConflict)
	ErrLeaveLocked     = fmt.Errorf("%w: cannot leave a competition that already started", apperrors.ErrStateConflict)
	ErrNotParticipant  = fmt.Errorf("%w: user is not a participant of this competition", apperrors.ErrNotFound)
)
