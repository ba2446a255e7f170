package service

import "errors"

var (
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")

	ErrUserNotFound         = errors.New("user not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrCannotFollowSelf = errors.New("cannot follow yourself")
	ErrSessionRevoked   = errors.New("session revoked")
)

// ValidationError 携带给客户端看的具体原因，errors.Is 仍然匹配 ErrInvalidInput
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func invalid(msg string) error {
	return &ValidationError{Msg: msg}
}
