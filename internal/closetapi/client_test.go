package closetapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// newTestClient creates a Client pointing at a test HTTP server.
func newTestClient(server *httptest.Server) *Client {
	return &Client{
		httpClient: server.Client(),
		baseURL:    server.URL,
		token:      "test-token",
	}
}

func writeTestImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("fake-image-bytes"), 0o644); err != nil {
		t.Fatalf("write test image: %v", err)
	}
	return path
}

func TestListItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/wardrobe/items" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    []map[string]any{{"id": "item-1"}},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	raw, err := client.ListItems(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		t.Fatalf("expected data payload, got %s", raw)
	}
	if len(items) != 1 || items[0]["id"] != "item-1" {
		t.Errorf("unexpected payload: %s", raw)
	}
}

func TestListItemsBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"item-2"}]`))
	}))
	defer server.Close()

	client := newTestClient(server)
	raw, err := client.ListItems(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		t.Fatalf("expected bare array passthrough, got %s", raw)
	}
	if len(items) != 1 || items[0]["id"] != "item-2" {
		t.Errorf("unexpected payload: %s", raw)
	}
}

func TestGetItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/wardrobe/items/item-5" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"id": "item-5", "item_name": "Scarf"},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	raw, err := client.GetItem(context.Background(), "item-5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var item map[string]any
	if err := json.Unmarshal(raw, &item); err != nil {
		t.Fatalf("expected data payload, got %s", raw)
	}
	if item["id"] != "item-5" || item["item_name"] != "Scarf" {
		t.Errorf("unexpected payload: %s", raw)
	}
}

func TestGetItemNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   map[string]string{"code": "ITEM_NOT_FOUND", "message": "no such item"},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.GetItem(context.Background(), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Code != CodeItemNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, CodeItemNotFound)
	}
}

func TestCreateItemMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("item_name"); got != "Linen shirt" {
			t.Errorf("item_name = %q", got)
		}
		if got := r.FormValue("season"); got != "Summer" {
			t.Errorf("season = %q", got)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("missing image part: %v", err)
		}
		defer file.Close()
		if header.Filename != "shirt.jpg" {
			t.Errorf("image filename = %q", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("image content type = %q, want image/jpeg", ct)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "fake-image-bytes" {
			t.Errorf("unexpected image bytes: %q", data)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"id": "new-item"},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	name, season := "Linen shirt", "Summer"
	raw, err := client.CreateItem(context.Background(), writeTestImage(t, "shirt.jpg"), ItemFields{Name: &name, Weather: &season})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var item map[string]any
	if err := json.Unmarshal(raw, &item); err != nil || item["id"] != "new-item" {
		t.Errorf("unexpected payload: %s", raw)
	}
}

func TestUpdateItemMetadataOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if r.URL.Path != "/wardrobe/items/item-9" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if _, _, err := r.FormFile("image"); err == nil {
			t.Error("expected no image part for metadata-only update")
		}
		if got := r.FormValue("item_name"); got != "Renamed" {
			t.Errorf("item_name = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"id": "item-9", "item_name": "Renamed"},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	name := "Renamed"
	if _, err := client.UpdateItem(context.Background(), "item-9", "", ItemFields{Name: &name}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAPIErrorPropagated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   map[string]string{"code": "PROCESSING_FAILED", "message": "could not remove background"},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.ProcessImage(context.Background(), writeTestImage(t, "coat.png"))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Code != CodeProcessingFailed {
		t.Errorf("Code = %q, want %q", apiErr.Code, CodeProcessingFailed)
	}
}

func TestProcessImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/process" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"processed_url": "http://img.local/processed/coat.png",
				"original_url":  "http://img.local/original/coat.png",
				"file_name":     "coat.png",
				"file_size":     4096,
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	result, err := client.ProcessImage(context.Background(), writeTestImage(t, "coat.png"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ProcessedURL != "http://img.local/processed/coat.png" {
		t.Errorf("ProcessedURL = %q", result.ProcessedURL)
	}
	if result.FileSize != 4096 {
		t.Errorf("FileSize = %d", result.FileSize)
	}
}

func TestProcessImageMissingURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"file_name": "coat.png"},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	if _, err := client.ProcessImage(context.Background(), writeTestImage(t, "coat.png")); err == nil {
		t.Error("expected error for missing processed_url")
	}
}

func TestDeleteItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		if r.URL.Path != "/wardrobe/items/item-3" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Item deleted successfully"})
	}))
	defer server.Close()

	client := newTestClient(server)
	if err := client.DeleteItem(context.Background(), "item-3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health/all" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success":     true,
			"all_healthy": false,
			"services": map[string]any{
				"gateway":  map[string]string{"status": "healthy"},
				"wardrobe": map[string]string{"status": "unhealthy", "error": "connection refused"},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	report, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.AllHealthy {
		t.Error("expected AllHealthy=false")
	}
	if report.Services["wardrobe"].Error != "connection refused" {
		t.Errorf("unexpected wardrobe entry: %+v", report.Services["wardrobe"])
	}
}
