// Package modal tracks which UI surfaces are open and carries their payload
// data, plus a single-slot parameterized confirmation dialog used to gate
// destructive or ambiguous transitions.
package modal

import "sync"

// Kind selects the presentation of the confirmation dialog.
type Kind string

const (
	KindDelete         Kind = "delete"
	KindSaveDetails    Kind = "save-details"
	KindSkipDetails    Kind = "skip-details"
	KindUnsavedChanges Kind = "unsaved-changes"
	KindSaveChanges    Kind = "save-changes"
	KindError          Kind = "error"
	KindDefault        Kind = "default"
)

// ConfirmConfig is the presentation for one confirmation kind.
type ConfirmConfig struct {
	Title   string
	Message string
	Variant string // "danger", "primary", or "neutral"
}

// confirmConfigs is the closed table of confirmation presentations.
var confirmConfigs = map[Kind]ConfirmConfig{
	KindDelete: {
		Title:   "Delete item?",
		Message: "This removes the item and its images permanently.",
		Variant: "danger",
	},
	KindSaveDetails: {
		Title:   "Save item",
		Message: "Save this item with the details you entered?",
		Variant: "primary",
	},
	KindSkipDetails: {
		Title:   "Skip details?",
		Message: "The item will be saved as Untitled. You can edit it later.",
		Variant: "neutral",
	},
	KindUnsavedChanges: {
		Title:   "Discard changes?",
		Message: "You have unsaved changes that will be lost.",
		Variant: "danger",
	},
	KindSaveChanges: {
		Title:   "Save changes",
		Message: "Apply your changes to this item?",
		Variant: "primary",
	},
	KindError: {
		Title:   "Something went wrong",
		Message: "The operation failed. Please try again.",
		Variant: "danger",
	},
	KindDefault: {
		Title:   "Are you sure?",
		Message: "",
		Variant: "neutral",
	},
}

// ConfigFor returns the presentation config for a kind; unknown kinds get
// the default presentation.
func ConfigFor(kind Kind) ConfirmConfig {
	if cfg, ok := confirmConfigs[kind]; ok {
		return cfg
	}
	return confirmConfigs[KindDefault]
}

type pendingConfirm struct {
	kind      Kind
	data      any
	onConfirm func()
}

// Coordinator is the registry of open modals plus the confirmation slot.
// Only one confirmation may be pending at a time; opening another replaces
// the prior one unconditionally.
type Coordinator struct {
	mu      sync.Mutex
	open    map[string]bool
	data    map[string]any
	confirm *pendingConfirm
}

// NewCoordinator creates an empty coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{
		open: make(map[string]bool),
		data: make(map[string]any),
	}
}

// Open marks a named modal open and stores its payload.
func (c *Coordinator) Open(name string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open[name] = true
	c.data[name] = data
}

// Close marks a named modal closed and drops its payload.
func (c *Coordinator) Close(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.open, name)
	delete(c.data, name)
}

// IsOpen reports whether a named modal is open.
func (c *Coordinator) IsOpen(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open[name]
}

// Data returns the payload stored for a named modal.
func (c *Coordinator) Data(name string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[name]
}

// OpenConfirm arms the confirmation slot. A pending confirmation is
// replaced without being invoked.
func (c *Coordinator) OpenConfirm(kind Kind, data any, onConfirm func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirm = &pendingConfirm{kind: kind, data: data, onConfirm: onConfirm}
}

// ConfirmPending reports whether a confirmation is armed, and its kind and
// payload when it is.
func (c *Coordinator) ConfirmPending() (Kind, any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.confirm == nil {
		return "", nil, false
	}
	return c.confirm.kind, c.confirm.data, true
}

// Confirm invokes the armed callback and clears the slot. No-op when
// nothing is pending.
func (c *Coordinator) Confirm() {
	c.mu.Lock()
	pending := c.confirm
	c.confirm = nil
	c.mu.Unlock()

	if pending != nil && pending.onConfirm != nil {
		pending.onConfirm()
	}
}

// CloseConfirm clears the slot without invoking the callback.
func (c *Coordinator) CloseConfirm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirm = nil
}
