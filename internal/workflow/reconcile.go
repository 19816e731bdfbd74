package workflow

import (
	"strings"

	"github.com/closetmate/closet-cli/internal/catalog"
)

// MergeForDisplay overlays in-flight local edits onto the persisted item,
// field by field. Only meaningful while edit mode is active; a nil edit
// returns the item unchanged.
func MergeForDisplay(item catalog.ClothingItem, edit *EditState) catalog.ClothingItem {
	out := item
	if edit == nil {
		return out
	}
	if edit.name != nil {
		out.Name = normalizeName(*edit.name)
	}
	if edit.weather != nil {
		out.Weather = *edit.weather
	}
	if edit.hasPendingImage() {
		out.ImageURL = edit.pendingPreview.URL()
	}
	return out
}

// HasChanges reports whether saving the edit would differ from the
// persisted item. Both sides are normalized first: names are trimmed and
// the "Untitled" sentinel is equivalent to empty, so whitespace-only edits
// and Untitled<->empty toggles are not changes. A pending re-processed
// image always counts as a change.
func HasChanges(item catalog.ClothingItem, edit *EditState) bool {
	if edit == nil {
		return false
	}
	if edit.hasPendingImage() {
		return true
	}
	if edit.name != nil && normalizeName(*edit.name) != normalizeName(item.Name) {
		return true
	}
	if edit.weather != nil && *edit.weather != item.Weather {
		return true
	}
	return false
}

// normalizeName trims whitespace and collapses the sentinel to empty.
// Applying it twice yields the same result as applying it once.
func normalizeName(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, catalog.Untitled) {
		return ""
	}
	return s
}
