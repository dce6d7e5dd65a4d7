package notegen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientCompleteSendsChatRequest(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"generated note"}}]}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", server.URL, "gpt-4o", 5*time.Second)
	if err != nil {
		t.Fatalf("client setup failed: %v", err)
	}

	content, err := client.Complete(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if content != "generated note" {
		t.Fatalf("unexpected content %q", content)
	}

	if captured.Model != "gpt-4o" {
		t.Fatalf("model %q", captured.Model)
	}
	if captured.Temperature != 0.3 || captured.MaxTokens != 4000 {
		t.Fatalf("sampling params %v/%v", captured.Temperature, captured.MaxTokens)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" || captured.Messages[1].Content != "the prompt" {
		t.Fatalf("unexpected messages %+v", captured.Messages)
	}
}

func TestClientCompleteSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewClient("test-key", server.URL, "", 5*time.Second)
	if err != nil {
		t.Fatalf("client setup failed: %v", err)
	}
	if _, err := client.Complete(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient("", "", "", 0); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
