// Package workflow implements the upload/edit state machine that
// coordinates the background-removal call, the user confirmation step,
// retries, and the lifecycle of locally-held preview handles.
//
// One workflow cycle is bounded idle -> idle. All remote calls happen from
// a wait-bearing state (processing, savingNew, updatingExisting, deleting)
// and are fenced by a session generation ID: a result arriving for a
// generation the user has already abandoned is discarded, and any resource
// it produced is released on arrival.
package workflow

import (
	"errors"

	"github.com/closetmate/closet-cli/internal/catalog"
	"github.com/closetmate/closet-cli/internal/preview"
)

// State is the controller's position in the upload/edit cycle.
type State string

const (
	StateIdle             State = "idle"
	StateProcessing       State = "processing"
	StateConfirming       State = "confirming"
	StateError            State = "error"
	StateSavingNew        State = "savingNew"
	StateUpdatingExisting State = "updatingExisting"
	StateDeleting         State = "deleting"
)

// Mode distinguishes a brand-new item flow from a re-process during edit.
type Mode string

const (
	ModeNew          Mode = "new"
	ModeEditExisting Mode = "editExisting"
)

// MaxRetries is the explicit-retry cap after a processing failure: three
// total attempts per file including the first.
const MaxRetries = 2

// DetailsModal is the modal name for the details-collection phase that
// follows confirmation of a new item.
const DetailsModal = "item-details"

var (
	// ErrBusy means an operation was attempted while another cycle is active.
	ErrBusy = errors.New("workflow busy")

	// ErrNoSession means the operation needs an active upload session.
	ErrNoSession = errors.New("no active upload session")

	// ErrRetryExhausted means the retry cap has been reached; only a
	// different file or a return to idle is offered.
	ErrRetryExhausted = errors.New("retry limit reached")

	// ErrNoEdit means the operation needs an item in edit mode.
	ErrNoEdit = errors.New("no item in edit mode")
)

// UploadSession is the ephemeral state of one upload-and-process attempt.
// At most one exists at a time; it is destroyed on commit, cancel, or
// replacement.
type UploadSession struct {
	generation string
	mode       Mode
	sourcePath string
	sourceName string
	retryCount int
	handle     *preview.Handle

	// notified tracks whether the first-success notification fired for
	// this session; retries after a success do not re-notify.
	notified bool
}

// Mode returns the session's flow mode.
func (s *UploadSession) Mode() Mode { return s.mode }

// RetryCount returns the number of explicit retries so far (0..MaxRetries).
func (s *UploadSession) RetryCount() int { return s.retryCount }

// SourceName returns the base name of the submitted file.
func (s *UploadSession) SourceName() string { return s.sourceName }

// Preview returns the processed preview handle, nil before first success.
func (s *UploadSession) Preview() *preview.Handle { return s.handle }

// EditState is the ephemeral local edit applied on top of a persisted item.
// It never outlives the controller session that created it.
type EditState struct {
	itemID string

	name    *string
	weather *catalog.Weather

	// pendingSource/pendingPreview are set only when re-processing occurred
	// during this edit: the original file to commit and the local preview of
	// its processed result.
	pendingSource  string
	pendingPreview *preview.Handle
}

// ItemID returns the ID of the item being edited.
func (e *EditState) ItemID() string { return e.itemID }

// PendingPreview returns the re-processed preview handle, if any.
func (e *EditState) PendingPreview() *preview.Handle { return e.pendingPreview }

// hasPendingImage reports whether a re-processed image awaits commit.
func (e *EditState) hasPendingImage() bool {
	return e != nil && e.pendingPreview != nil && e.pendingPreview.Path() != ""
}
