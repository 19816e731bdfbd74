package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// wireItem mirrors every item field name observed across gateway versions.
// Normalization picks fields in a fixed priority order, so the store works
// against the wardrobe service, the gateway, and the older responses that
// used generic field names.
type wireItem struct {
	ID string `json:"id"`

	ItemName string `json:"item_name"`
	Name     string `json:"name"`

	Weather string `json:"weather"`
	Season  string `json:"season"`

	ProcessedImageURL string `json:"processed_image_url"`
	ProcessedURL      string `json:"processed_url"`
	OriginalImageURL  string `json:"original_image_url"`
	OriginalURL       string `json:"original_url"`
	ImageURL          string `json:"image_url"`
	Image             string `json:"image"`
	PreviewURL        string `json:"preview_url"`

	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// payload matches the known response wrappers. Fallback order:
// {success, data} envelope, then bare array/object, then {items: [...]}.
type payload struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Items   json.RawMessage `json:"items"`
}

// unwrap reduces a response body to the region holding the item(s).
func unwrap(raw json.RawMessage) json.RawMessage {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		return raw
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return raw
	}
	if p.Success != nil && len(p.Data) > 0 {
		return p.Data
	}
	if p.Success == nil && len(p.Items) > 0 {
		return p.Items
	}
	if len(p.Data) > 0 {
		return p.Data
	}
	return raw
}

// DecodeItems normalizes a list response into canonical items.
func DecodeItems(raw json.RawMessage) ([]ClothingItem, error) {
	region := unwrap(raw)
	// A wrapped region may itself carry {items: [...]}.
	if strings.HasPrefix(strings.TrimSpace(string(region)), "{") {
		region = unwrap(region)
	}
	var wires []wireItem
	if err := json.Unmarshal(region, &wires); err != nil {
		return nil, fmt.Errorf("decode item list: %w", err)
	}
	items := make([]ClothingItem, 0, len(wires))
	for _, w := range wires {
		items = append(items, normalizeItem(w))
	}
	return items, nil
}

// DecodeItem normalizes a single-item response.
func DecodeItem(raw json.RawMessage) (ClothingItem, error) {
	var w wireItem
	if err := json.Unmarshal(unwrap(raw), &w); err != nil {
		return ClothingItem{}, fmt.Errorf("decode item: %w", err)
	}
	return normalizeItem(w), nil
}

// normalizeItem applies the field priority tables from the wire shape.
func normalizeItem(w wireItem) ClothingItem {
	return ClothingItem{
		ID:               w.ID,
		Name:             normalizeSentinel(firstNonEmpty(w.ItemName, w.Name)),
		Weather:          ParseWeather(firstNonEmpty(w.Weather, w.Season)),
		ImageURL:         firstNonEmpty(w.ProcessedImageURL, w.ProcessedURL, w.ImageURL, w.OriginalImageURL, w.OriginalURL, w.Image, w.PreviewURL),
		OriginalImageURL: firstNonEmpty(w.OriginalImageURL, w.OriginalURL),
		FileName:         w.FileName,
		FileSize:         w.FileSize,
		CreatedAt:        parseTime(w.CreatedAt),
		UpdatedAt:        parseTime(w.UpdatedAt),
	}
}

// normalizeSentinel strips the wire sentinel; absent names are stored empty.
func normalizeSentinel(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, Untitled) {
		return ""
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// parseTime tolerates missing or malformed timestamps; the zero time means
// "unknown" and is never rendered.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
