package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultAskEndpoint is where the assistant backend listens by default.
const DefaultAskEndpoint = "http://127.0.0.1:8000/askStream"

// readChunkSize bounds a single read from the response body.
const readChunkSize = 4096

// AskRequest is the body of a POST to the askStream endpoint.
type AskRequest struct {
	ProjectID  string `json:"project_id"`
	Question   string `json:"question"`
	MaxDocs    int    `json:"max_docs"`
	PromptType string `json:"prompt_type"`
}

// AskClient streams answers from the assistant backend.
type AskClient struct {
	Endpoint string
	MaxDocs  int
	HTTP     *http.Client
}

// NewAskClient creates a client for endpoint. timeout of 0 leaves deadlines to
// the caller's context.
func NewAskClient(endpoint string, maxDocs int, timeout time.Duration) *AskClient {
	if endpoint == "" {
		endpoint = DefaultAskEndpoint
	}
	if maxDocs <= 0 {
		maxDocs = 2
	}
	return &AskClient{
		Endpoint: endpoint,
		MaxDocs:  maxDocs,
		HTTP:     &http.Client{Timeout: timeout},
	}
}

// Ask posts question and assembles the streamed answer in mode. notify, if
// set, is called for every applied event.
//
// Cancelling ctx stops the stream and yields OutcomeCancelled. Any failure of
// the connection, a non-2xx reply, or a stream that ends before its complete
// event yields OutcomeFailed with a *TransportError.
func (c *AskClient) Ask(ctx context.Context, projectID, question string, mode ResponseMode, notify StreamNotifier) StreamOutcome {
	asm := NewStreamAssembler(mode)
	if notify == nil {
		notify = func(StreamNotify) {}
	}

	fail := func(status int, err error) StreamOutcome {
		// The caller's abort wins over whatever error the transport reported.
		if ctx.Err() != nil && errors.Is(ctx.Err(), context.Canceled) {
			return c.cancelled(asm)
		}
		state := asm.State()
		asm.Cancel()
		return StreamOutcome{
			Status: OutcomeFailed,
			State:  state,
			Err:    &TransportError{Status: status, Partial: state.LiveText, Err: err},
		}
	}

	body, err := json.Marshal(AskRequest{
		ProjectID:  projectID,
		Question:   question,
		MaxDocs:    c.MaxDocs,
		PromptType: mode.PromptType(),
	})
	if err != nil {
		return fail(0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fail(0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	Debugf("POST %s prompt_type=%s", c.Endpoint, mode.PromptType())
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return fail(resp.StatusCode, fmt.Errorf("response has no body"))
	}

	notify(StreamNotify{Status: StatusStarted})
	buf := make([]byte, readChunkSize)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			events, ferr := asm.Feed(buf[:n])
			if ferr != nil {
				notify(StreamNotify{Status: StatusWarning, Data: ferr.Error()})
			}
			for _, ev := range events {
				switch ev.Kind {
				case EventToken:
					if mode == ModeBuffered {
						notify(StreamNotify{Status: StatusBuffered, Data: ev.Content})
					} else {
						notify(StreamNotify{Status: StatusData, Data: ev.Content})
					}
				case EventComplete:
					notify(StreamNotify{Status: StatusFinished, Data: asm.State().FinalText})
				}
			}
			if asm.Finished() {
				return StreamOutcome{Status: OutcomeCompleted, State: asm.State()}
			}
		}
		if rerr != nil {
			if rerr == io.EOF {
				return fail(0, io.ErrUnexpectedEOF)
			}
			return fail(0, rerr)
		}
		if ctx.Err() != nil {
			return c.cancelled(asm)
		}
	}
}

func (c *AskClient) cancelled(asm *StreamAssembler) StreamOutcome {
	state := asm.State()
	asm.Cancel()
	Debugf("Stream cancelled by user after %d chars", len(state.LiveText))
	return StreamOutcome{Status: OutcomeCancelled, State: state}
}
