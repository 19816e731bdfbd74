package catalog

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDecodeItemsWrapperShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "envelope",
			body: `{"success":true,"data":[{"id":"a","item_name":"Coat"}]}`,
		},
		{
			name: "bare array",
			body: `[{"id":"a","item_name":"Coat"}]`,
		},
		{
			name: "items wrapper",
			body: `{"items":[{"id":"a","item_name":"Coat"}]}`,
		},
		{
			name: "envelope around items wrapper",
			body: `{"success":true,"data":{"items":[{"id":"a","item_name":"Coat"}]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := DecodeItems(json.RawMessage(tt.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) != 1 {
				t.Fatalf("expected 1 item, got %d", len(items))
			}
			if items[0].ID != "a" || items[0].Name != "Coat" {
				t.Errorf("unexpected item: %+v", items[0])
			}
		})
	}
}

func TestDecodeItemsMalformed(t *testing.T) {
	if _, err := DecodeItems(json.RawMessage(`{"success":true,"data":"oops"}`)); err == nil {
		t.Error("expected error for non-array data")
	}
}

func TestNormalizeImageURLPriority(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "processed_image_url wins",
			body: `{"id":"a","processed_image_url":"p","image_url":"i","original_image_url":"o"}`,
			want: "p",
		},
		{
			name: "image_url beats original",
			body: `{"id":"a","image_url":"i","original_image_url":"o"}`,
			want: "i",
		},
		{
			name: "original fallback",
			body: `{"id":"a","original_image_url":"o"}`,
			want: "o",
		},
		{
			name: "preview_url last resort",
			body: `{"id":"a","preview_url":"v"}`,
			want: "v",
		},
		{
			name: "nothing",
			body: `{"id":"a"}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := DecodeItem(json.RawMessage(tt.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if item.ImageURL != tt.want {
				t.Errorf("ImageURL = %q, want %q", item.ImageURL, tt.want)
			}
		})
	}
}

func TestNormalizeNameSentinel(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "real name", body: `{"id":"a","item_name":"Blue jeans"}`, want: "Blue jeans"},
		{name: "untitled stored empty", body: `{"id":"a","item_name":"Untitled"}`, want: ""},
		{name: "untitled case-insensitive", body: `{"id":"a","item_name":"untitled"}`, want: ""},
		{name: "generic name fallback", body: `{"id":"a","name":"Scarf"}`, want: "Scarf"},
		{name: "missing", body: `{"id":"a"}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := DecodeItem(json.RawMessage(tt.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if item.Name != tt.want {
				t.Errorf("Name = %q, want %q", item.Name, tt.want)
			}
			if tt.want == "" && item.DisplayName() != Untitled {
				t.Errorf("DisplayName = %q, want %q", item.DisplayName(), Untitled)
			}
		})
	}
}

func TestParseWeather(t *testing.T) {
	tests := []struct {
		in   string
		want Weather
	}{
		{"Summer", WeatherSummer},
		{"summer", WeatherSummer},
		{"FALL", WeatherFall},
		{"Winter", WeatherWinter},
		{"Spring", WeatherSpring},
		{"Untitled", WeatherUnset},
		{"", WeatherUnset},
		{"monsoon", WeatherUnset},
	}

	for _, tt := range tests {
		if got := ParseWeather(tt.in); got != tt.want {
			t.Errorf("ParseWeather(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseTimeLayouts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339 nano", "2026-03-01T10:20:30.123456Z", time.Date(2026, 3, 1, 10, 20, 30, 123456000, time.UTC)},
		{"rfc3339", "2026-03-01T10:20:30Z", time.Date(2026, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"no zone", "2026-03-01T10:20:30", time.Date(2026, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"empty", "", time.Time{}},
		{"garbage", "yesterday", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseTime(tt.in); !got.Equal(tt.want) {
				t.Errorf("parseTime(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
