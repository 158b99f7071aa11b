//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"foo": "bar"}

	JSON(w, http.StatusOK, data)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

func TestErrorEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusNotFound, "Career not found")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got["message"] != "Career not found" {
		t.Errorf("Unexpected message %v", got["message"])
	}
	if _, ok := got["errors"]; ok {
		t.Error("errors must be omitted when empty")
	}
	if _, ok := got["stack"]; ok {
		t.Error("stack must be omitted when empty")
	}
}

func TestInternalErrorStack(t *testing.T) {
	for _, dev := range []bool{true, false} {
		h := NewHandler(Deps{Dev: dev, Logger: quietLogger()})
		w := httptest.NewRecorder()
		h.internalError(w, httptest.NewRequest(http.MethodGet, "/x", nil), errors.New("db exploded"))

		var got ErrorBody
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if got.Message != "Internal server error" {
			t.Errorf("Unexpected message %q", got.Message)
		}
		if dev != strings.Contains(got.Stack, "db exploded") {
			t.Errorf("dev=%v but stack=%q", dev, got.Stack)
		}
	}
}

func TestDecodeRejects(t *testing.T) {
	h := NewHandler(Deps{Logger: quietLogger(), MaxBodyBytes: 16})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty", "", http.StatusBadRequest},
		{"malformed", "{", http.StatusBadRequest},
		{"too large", `{"email":"` + strings.Repeat("a", 64) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body))
			var v map[string]any
			if h.decode(w, r, &v) {
				t.Fatal("decode should fail")
			}
			if w.Code != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, w.Code)
			}
		})
	}
}
