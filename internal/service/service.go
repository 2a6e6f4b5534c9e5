package service

import "errors"

// Identity is the {team, user} context the request layer supplies on every
// call. TeamID is the tenant boundary: no operation may touch a row owned by
// a different team.
type Identity struct {
	TeamID string
	UserID string
}

// Sentinel errors. NotFound deliberately covers missing, soft-deleted, and
// other-team rows alike.
var (
	ErrTemplateNotFound     = errors.New("checklist template not found")
	ErrTemplateTaskNotFound = errors.New("template task not found")
	ErrChecklistNotFound    = errors.New("checklist not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrNoUpdates            = errors.New("no fields to update")
)
