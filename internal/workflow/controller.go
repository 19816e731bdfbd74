package workflow

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/closetmate/closet-cli/internal/catalog"
	"github.com/closetmate/closet-cli/internal/closetapi"
	"github.com/closetmate/closet-cli/internal/filehandler"
	"github.com/closetmate/closet-cli/internal/modal"
	"github.com/closetmate/closet-cli/internal/preview"
)

// ProcessingAPI is the slice of the gateway client the controller calls
// directly (outside the item store): the background-removal endpoint and
// the image download used to build the local preview.
type ProcessingAPI interface {
	ProcessImage(ctx context.Context, imagePath string) (*closetapi.ProcessedImage, error)
	DownloadImage(ctx context.Context, url string) (io.ReadCloser, error)
}

// Controller drives the upload/edit workflow. Construct one per UI session
// with NewController; it is safe for the UI loop and late network results
// to touch it from different goroutines.
type Controller struct {
	api      ProcessingAPI
	store    *catalog.Store
	previews *preview.Manager
	modals   *modal.Coordinator
	notify   Notifier

	mu      sync.Mutex
	state   State
	session *UploadSession
	edit    *EditState
	lastErr error
}

// NewController wires the workflow over its collaborators. A nil notifier
// falls back to log-only notifications.
func NewController(api ProcessingAPI, store *catalog.Store, previews *preview.Manager, modals *modal.Coordinator, notify Notifier) *Controller {
	if notify == nil {
		notify = LogNotifier{}
	}
	return &Controller{
		api:      api,
		store:    store,
		previews: previews,
		modals:   modals,
		notify:   notify,
		state:    StateIdle,
	}
}

// State returns the current workflow state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the error that moved the workflow into StateError.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Session returns the active upload session, nil outside a cycle.
func (c *Controller) Session() *UploadSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Modals exposes the modal coordinator for the UI shell.
func (c *Controller) Modals() *modal.Coordinator { return c.modals }

// CanRetry reports whether the retry affordance is available: only in the
// error state and only below the retry cap.
func (c *Controller) CanRetry() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateError && c.session != nil && c.session.retryCount < MaxRetries
}

// SubmitFile starts a processing cycle for the given photo. The local
// precheck runs first: a rejected file produces a *filehandler.RejectError
// and no state change, and never reaches the network. The mode is
// editExisting when an item is currently in edit mode.
func (c *Controller) SubmitFile(ctx context.Context, path string) error {
	info, err := filehandler.CheckPhoto(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("Photo rejected by precheck")
		return err
	}

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrBusy
	}
	mode := ModeNew
	if c.edit != nil {
		mode = ModeEditExisting
	}
	// Replacing a leftover session releases its preview before the new
	// session takes over.
	if c.session != nil {
		c.previews.Release(c.session.handle)
	}
	sess := &UploadSession{
		generation: uuid.New().String(),
		mode:       mode,
		sourcePath: info.Path,
		sourceName: info.Name,
	}
	c.session = sess
	c.state = StateProcessing
	gen := sess.generation
	c.mu.Unlock()

	log.Info().Str("file", info.Name).Str("mode", string(mode)).Msg("Submitting photo for processing")
	return c.process(ctx, gen, info.Path)
}

// Retry re-submits the session's original file after a processing failure.
// Allowed only from the error state and below the retry cap.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateError || c.session == nil {
		c.mu.Unlock()
		return ErrNoSession
	}
	if c.session.retryCount >= MaxRetries {
		c.mu.Unlock()
		return ErrRetryExhausted
	}
	c.session.retryCount++
	c.state = StateProcessing
	gen := c.session.generation
	path := c.session.sourcePath
	attempt := c.session.retryCount
	c.mu.Unlock()

	log.Info().Int("retry", attempt).Msg("Retrying image processing")
	return c.process(ctx, gen, path)
}

// process runs the remote background-removal call and, on success, builds
// the local preview. Every re-entry into controller state is fenced on the
// session generation; stale results release whatever they produced.
func (c *Controller) process(ctx context.Context, gen, path string) error {
	result, err := c.api.ProcessImage(ctx, path)
	if err != nil {
		return c.fail(gen, err)
	}

	body, err := c.api.DownloadImage(ctx, result.ProcessedURL)
	if err != nil {
		return c.fail(gen, fmt.Errorf("fetch processed image: %w", err))
	}
	handle, err := c.previews.Acquire(body, result.FileName)
	body.Close()
	if err != nil {
		return c.fail(gen, err)
	}

	c.mu.Lock()
	if c.session == nil || c.session.generation != gen {
		c.mu.Unlock()
		// Late success for an abandoned session: the handle was never
		// owned by anyone, release it on arrival.
		c.previews.Release(handle)
		log.Debug().Str("generation", gen).Msg("Discarding stale processing result")
		return nil
	}
	c.previews.Release(c.session.handle)
	c.session.handle = handle
	c.state = StateConfirming
	c.lastErr = nil
	first := !c.session.notified
	c.session.notified = true
	c.mu.Unlock()

	if first {
		c.notify.Success("Background removed. Review the result.")
	}
	return nil
}

// fail moves the workflow into the error state. The fence check and the
// state mutation happen under one lock: a cancel landing while the call was
// in flight discards the failure instead of resurrecting an error state for
// a session that no longer exists.
func (c *Controller) fail(gen string, err error) error {
	c.mu.Lock()
	if c.session == nil || c.session.generation != gen {
		c.mu.Unlock()
		log.Debug().Str("generation", gen).Msg("Discarding failed result for abandoned session")
		return nil
	}
	c.state = StateError
	c.lastErr = err
	c.mu.Unlock()

	c.notify.Error("Image processing failed")
	return err
}

// ConfirmProcessed accepts the processed result. For a new item the session
// stays alive and control moves to the details-collection modal; for an
// edit the preview transfers into the edit state as the pending image.
func (c *Controller) ConfirmProcessed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConfirming || c.session == nil {
		return ErrNoSession
	}

	if c.session.mode == ModeEditExisting {
		if c.edit == nil {
			// Edit mode ended underneath the session; nothing can own the
			// preview, so it is released here.
			c.previews.Release(c.session.handle)
			c.session = nil
			c.state = StateIdle
			return ErrNoEdit
		}
		c.previews.Release(c.edit.pendingPreview)
		c.edit.pendingPreview = c.session.handle
		c.edit.pendingSource = c.session.sourcePath
		c.session = nil
		c.state = StateIdle
		return nil
	}

	c.state = StateIdle
	c.modals.Open(DetailsModal, c.session.sourceName)
	return nil
}

// UploadDifferent abandons the current processing result or error so a
// different file can be submitted. In edit mode the edit itself survives.
func (c *Controller) UploadDifferent() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discardSessionLocked()
}

// CancelSession discards the active session, releasing its preview. The
// workflow returns to idle; no item is created or modified.
func (c *Controller) CancelSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modals.Close(DetailsModal)
	c.discardSessionLocked()
}

func (c *Controller) discardSessionLocked() {
	if c.session != nil {
		c.previews.Release(c.session.handle)
		c.session = nil
	}
	c.lastErr = nil
	c.state = StateIdle
}

// SaveNew commits the confirmed new item with optional metadata. The
// session is destroyed and its preview released whether the save succeeds
// or fails; on failure the store cache is untouched and the user may start
// over.
func (c *Controller) SaveNew(ctx context.Context, name string, weather catalog.Weather) (catalog.ClothingItem, error) {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return catalog.ClothingItem{}, ErrBusy
	}
	sess := c.session
	if sess == nil || sess.mode != ModeNew || sess.handle == nil {
		c.mu.Unlock()
		return catalog.ClothingItem{}, ErrNoSession
	}
	c.state = StateSavingNew
	c.mu.Unlock()

	item, err := c.store.Add(ctx, sess.sourcePath, itemFields(name, weather))

	c.mu.Lock()
	c.modals.Close(DetailsModal)
	c.previews.Release(sess.handle)
	if c.session == sess {
		c.session = nil
	}
	c.state = StateIdle
	c.mu.Unlock()

	if err != nil {
		c.notify.Error("Failed to save item")
		return catalog.ClothingItem{}, err
	}
	c.notify.Success("Item added to your wardrobe")
	return item, nil
}

// BeginEdit puts an item into edit mode. The item must already be cached.
func (c *Controller) BeginEdit(id string) (catalog.ClothingItem, error) {
	item, err := c.store.Get(id)
	if err != nil {
		return catalog.ClothingItem{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return catalog.ClothingItem{}, ErrBusy
	}
	if c.edit != nil {
		c.previews.Release(c.edit.pendingPreview)
	}
	c.edit = &EditState{itemID: id}
	return item, nil
}

// SetName records a local name edit.
func (c *Controller) SetName(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.edit == nil {
		return ErrNoEdit
	}
	c.edit.name = &name
	return nil
}

// SetWeather records a local weather edit.
func (c *Controller) SetWeather(w catalog.Weather) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.edit == nil {
		return ErrNoEdit
	}
	c.edit.weather = &w
	return nil
}

// DisplayEdit returns the merged view of the edited item: persisted fields
// overlaid with the in-flight local edits.
func (c *Controller) DisplayEdit() (catalog.ClothingItem, error) {
	c.mu.Lock()
	edit := c.edit
	c.mu.Unlock()
	if edit == nil {
		return catalog.ClothingItem{}, ErrNoEdit
	}
	item, err := c.store.Get(edit.itemID)
	if err != nil {
		return catalog.ClothingItem{}, err
	}
	return MergeForDisplay(item, edit), nil
}

// HasPendingChanges reports whether saving the edit would change anything.
func (c *Controller) HasPendingChanges() (bool, error) {
	c.mu.Lock()
	edit := c.edit
	c.mu.Unlock()
	if edit == nil {
		return false, ErrNoEdit
	}
	item, err := c.store.Get(edit.itemID)
	if err != nil {
		return false, err
	}
	return HasChanges(item, edit), nil
}

// CancelEdit leaves edit mode, discarding local edits and releasing any
// unconfirmed pending preview. An in-flight re-process session for this
// edit is abandoned with it.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil && c.session.mode == ModeEditExisting {
		c.discardSessionLocked()
	}
	if c.edit != nil {
		c.previews.Release(c.edit.pendingPreview)
		c.edit = nil
	}
}

// SaveEdit commits the local edits. No-op detection runs first: when the
// normalized edit equals the persisted item, no network call is made and
// the workflow returns to idle directly. The returned bool reports whether
// an update was actually sent.
func (c *Controller) SaveEdit(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return false, ErrBusy
	}
	edit := c.edit
	c.mu.Unlock()
	if edit == nil {
		return false, ErrNoEdit
	}

	item, err := c.store.Get(edit.itemID)
	if err != nil {
		return false, err
	}
	if !HasChanges(item, edit) {
		c.mu.Lock()
		c.edit = nil
		c.mu.Unlock()
		log.Debug().Str("itemId", item.ID).Msg("Edit is a no-op; skipping update")
		return false, nil
	}

	c.mu.Lock()
	c.state = StateUpdatingExisting
	fields := closetapi.ItemFields{}
	if edit.name != nil {
		fields.Name = wireName(*edit.name)
	}
	if edit.weather != nil {
		fields.Weather = wireWeather(*edit.weather)
	}
	imagePath := edit.pendingSource
	c.mu.Unlock()

	_, err = c.store.Update(ctx, edit.itemID, imagePath, fields)

	c.mu.Lock()
	// The pending preview is done either way: transferred to the canonical
	// server image on success, discarded on failure.
	c.previews.Release(edit.pendingPreview)
	edit.pendingPreview = nil
	edit.pendingSource = ""
	if err == nil {
		c.edit = nil
	}
	c.state = StateIdle
	c.mu.Unlock()

	if err != nil {
		c.notify.Error("Failed to save changes")
		return false, err
	}
	c.notify.Success("Changes saved")
	return true, nil
}

// RequestDelete arms the delete confirmation for an item. The delete runs
// only when the confirmation is accepted.
func (c *Controller) RequestDelete(ctx context.Context, id string) {
	c.modals.OpenConfirm(modal.KindDelete, id, func() {
		if err := c.Delete(ctx, id); err != nil {
			log.Error().Err(err).Str("itemId", id).Msg("Delete failed")
		}
	})
}

// Delete removes an item from the wardrobe.
func (c *Controller) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = StateDeleting
	c.mu.Unlock()

	err := c.store.Remove(ctx, id)

	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()

	if err != nil {
		c.notify.Error("Failed to delete item")
		return err
	}
	c.notify.Success("Item deleted")
	return nil
}

// Close tears the controller down, abandoning any session or edit and
// releasing every preview handle still owned.
func (c *Controller) Close() {
	c.CancelSession()
	c.CancelEdit()
}

// itemFields builds the wire metadata for a create, applying the sentinel
// at the boundary.
func itemFields(name string, weather catalog.Weather) closetapi.ItemFields {
	return closetapi.ItemFields{
		Name:    wireName(name),
		Weather: wireWeather(weather),
	}
}

// wireName maps a local name to its wire form; absent becomes the sentinel.
func wireName(name string) *string {
	v := strings.TrimSpace(name)
	if v == "" || strings.EqualFold(v, catalog.Untitled) {
		v = catalog.Untitled
	}
	return &v
}

// wireWeather maps a Weather to its wire form.
func wireWeather(w catalog.Weather) *string {
	v := string(w)
	if w == catalog.WeatherUnset {
		v = catalog.Untitled
	}
	return &v
}
