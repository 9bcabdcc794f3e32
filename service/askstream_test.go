package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// streamServer writes each chunk and flushes it, then returns.
func streamServer(t *testing.T, status int, chunks []string, got *AskRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got != nil {
			if err := json.NewDecoder(r.Body).Decode(got); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(status)
		flusher, _ := w.(http.Flusher)
		for _, c := range chunks {
			w.Write([]byte(c))
			if flusher != nil {
				flusher.Flush()
			}
		}
	}))
}

func TestAskCompleted(t *testing.T) {
	var req AskRequest
	srv := streamServer(t, http.StatusOK, []string{
		"data: {\"type\":\"token\",\"con",
		"tent\":\"Hel\"}\n\n" + tokenEvent("lo"),
		completeEvent,
	}, &req)
	defer srv.Close()

	var data []string
	client := NewAskClient(srv.URL, 3, 0)
	outcome := client.Ask(context.Background(), "shop", "How does login work?", ModeIncremental, func(n StreamNotify) {
		if n.Status == StatusData {
			data = append(data, n.Data)
		}
	})

	if outcome.Status != OutcomeCompleted {
		t.Fatalf("Ask() status = %v (%v), want completed", outcome.Status, outcome.Err)
	}
	if outcome.Err != nil {
		t.Errorf("Ask() err = %v, want nil", outcome.Err)
	}
	if got := outcome.Text(); got != "Hello" {
		t.Errorf("Ask() text = %q, want %q", got, "Hello")
	}
	if len(data) != 2 {
		t.Errorf("notified %d tokens, want 2", len(data))
	}
	want := AskRequest{ProjectID: "shop", Question: "How does login work?", MaxDocs: 3, PromptType: PromptTypeCode}
	if req != want {
		t.Errorf("request = %+v, want %+v", req, want)
	}
}

func TestAskBuffered(t *testing.T) {
	var req AskRequest
	srv := streamServer(t, http.StatusOK, []string{tokenEvent("graph TD\n"), tokenEvent("A-->B"), completeEvent}, &req)
	defer srv.Close()

	var live int
	outcome := NewAskClient(srv.URL, 0, 0).Ask(context.Background(), "p", "Visualize it", ModeBuffered, func(n StreamNotify) {
		if n.Status == StatusData {
			live++
		}
	})
	if outcome.Status != OutcomeCompleted {
		t.Fatalf("Ask() status = %v (%v), want completed", outcome.Status, outcome.Err)
	}
	if live != 0 {
		t.Errorf("buffered mode surfaced %d tokens, want 0", live)
	}
	if outcome.State.LiveText != "" || outcome.Text() != "graph TD\nA-->B" {
		t.Errorf("State = %+v", outcome.State)
	}
	if req.PromptType != PromptTypeFlowchart || req.MaxDocs != 2 {
		t.Errorf("request = %+v, want flowchart prompt and 2 docs", req)
	}
}

func TestAskFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		chunks     []string
		wantStatus int
	}{
		{"server error", http.StatusInternalServerError, []string{"boom"}, http.StatusInternalServerError},
		{"ends without complete", http.StatusOK, []string{tokenEvent("half")}, 0},
		{"empty body", http.StatusOK, nil, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := streamServer(t, tt.status, tt.chunks, nil)
			defer srv.Close()

			outcome := NewAskClient(srv.URL, 2, 0).Ask(context.Background(), "p", "q", ModeIncremental, nil)
			if outcome.Status != OutcomeFailed {
				t.Fatalf("Ask() status = %v, want failed", outcome.Status)
			}
			if !IsTransportError(outcome.Err) {
				t.Fatalf("Ask() err = %v, want TransportError", outcome.Err)
			}
			if te := outcome.Err.(*TransportError); tt.wantStatus >= 0 && te.Status != tt.wantStatus {
				t.Errorf("TransportError.Status = %d, want %d", te.Status, tt.wantStatus)
			}
		})
	}

	t.Run("connection refused", func(t *testing.T) {
		srv := streamServer(t, http.StatusOK, nil, nil)
		url := srv.URL
		srv.Close()
		outcome := NewAskClient(url, 2, 0).Ask(context.Background(), "p", "q", ModeIncremental, nil)
		if outcome.Status != OutcomeFailed || !IsTransportError(outcome.Err) {
			t.Errorf("Ask() = %v %v, want failed TransportError", outcome.Status, outcome.Err)
		}
	})
}

func TestAskCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(tokenEvent("partial ")))
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outcome := NewAskClient(srv.URL, 2, 0).Ask(ctx, "p", "q", ModeIncremental, func(n StreamNotify) {
		if n.Status == StatusData {
			cancel()
		}
	})

	if outcome.Status != OutcomeCancelled {
		t.Fatalf("Ask() status = %v (%v), want cancelled", outcome.Status, outcome.Err)
	}
	if outcome.Err != nil {
		t.Errorf("Ask() err = %v, want nil for a cancelled answer", outcome.Err)
	}
	if got := outcome.Text(); got != "partial " {
		t.Errorf("Ask() text = %q, want %q", got, "partial ")
	}
}

func TestAskDeadlineIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	outcome := NewAskClient(srv.URL, 2, 0).Ask(ctx, "p", "q", ModeIncremental, nil)
	if outcome.Status != OutcomeFailed {
		t.Errorf("Ask() status = %v, want failed on deadline", outcome.Status)
	}
}
