package synth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientSynthesize(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("unexpected authorization header: %q", got)
		}

		body, _ := io.ReadAll(r.Body)
		var req struct {
			Prompt string `json:"prompt"`
		}
		if err := json.Unmarshal(body, &req); err != nil || req.Prompt != "a cafe feedback form" {
			t.Fatalf("unexpected request body: %s", body)
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"title":"Cafe Feedback","description":"","fields":[{"label":"Rating","type":"select","required":true,"options":["1","2","3"]}]}`)
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL, "secret", 5*time.Second)
	shape, err := client.Synthesize(context.Background(), "a cafe feedback form")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if shape.Title != "Cafe Feedback" {
		t.Errorf("title = %q", shape.Title)
	}
	if len(shape.Fields) != 1 || shape.Fields[0].Type != "select" {
		t.Errorf("fields = %+v", shape.Fields)
	}
}

func TestClientSurfacesUpstreamFailures(t *testing.T) {
	t.Run("http error", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer upstream.Close()

		client := NewClient(upstream.URL, "", time.Second)
		if _, err := client.Synthesize(context.Background(), "anything"); err == nil {
			t.Fatal("expected error for 500 response")
		}
	})

	t.Run("unparseable body", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `this is not json`)
		}))
		defer upstream.Close()

		client := NewClient(upstream.URL, "", time.Second)
		if _, err := client.Synthesize(context.Background(), "anything"); err == nil {
			t.Fatal("expected error for malformed response")
		}
	})
}
