package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/autodeviq/iqcore/service"
)

func answerServer(events ...string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, e := range events {
			w.Write([]byte(e))
		}
	}))
}

func TestAskQuestionCollectsAnswer(t *testing.T) {
	tests := []struct {
		name   string
		mode   service.ResponseMode
		format service.OutputFormat
		want   string
	}{
		{"buffered code", service.ModeBuffered, service.FormatCode, "A-->B"},
		{"incremental raw", service.ModeIncremental, service.FormatRaw, "```\nA-->B\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := answerServer(
				"data: {\"type\":\"token\",\"content\":\"```\\nA-->\"}\n\n",
				"data: {\"type\":\"token\",\"content\":\"B\\n```\"}\n\n",
				"data: {\"type\":\"complete\"}\n\n",
			)
			defer srv.Close()

			answer := service.NewMarkdown()
			client := service.NewAskClient(srv.URL, 2, 0)
			outcome := askQuestion(context.Background(), client, "p", "q", tt.mode, false, answer)
			if outcome.Status != service.OutcomeCompleted {
				t.Fatalf("askQuestion() status = %v (%v), want completed", outcome.Status, outcome.Err)
			}
			if answer.String() != outcome.Text() {
				t.Errorf("collected %q, want final text %q", answer.String(), outcome.Text())
			}
			got, err := answer.Render(tt.format, "", 0)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAskQuestionKeepsPartialAnswer(t *testing.T) {
	srv := answerServer("data: {\"type\":\"token\",\"content\":\"partial\"}\n\n")
	defer srv.Close()

	answer := service.NewMarkdown()
	client := service.NewAskClient(srv.URL, 2, 0)
	outcome := askQuestion(context.Background(), client, "p", "q", service.ModeIncremental, false, answer)
	if outcome.Status != service.OutcomeFailed {
		t.Fatalf("askQuestion() status = %v, want failed", outcome.Status)
	}
	if answer.String() != "partial" {
		t.Errorf("collected %q, want %q", answer.String(), "partial")
	}
}
