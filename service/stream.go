package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// EventKind is the "type" of a decoded stream event.
type EventKind string

const (
	EventToken    EventKind = "token"
	EventComplete EventKind = "complete"
)

// StreamEvent is one decoded event of the askStream wire format.
type StreamEvent struct {
	Kind    EventKind `json:"type"`
	Content string    `json:"content,omitempty"`
}

// AccumulatorState is a snapshot of an answer being assembled.
type AccumulatorState struct {
	Mode         ResponseMode `json:"mode"`
	LiveText     string       `json:"liveText"`
	BufferedText string       `json:"-"`
	IsComplete   bool         `json:"isComplete"`
	FinalText    string       `json:"finalText"`
}

var (
	eventSeparator = []byte("\n\n")
	crlfSeparator  = []byte("\r\n\r\n")
	dataPrefix     = []byte("data:")
)

// StreamAssembler turns raw chunks of an event stream into events and keeps
// the accumulated answer. One assembler serves one question; Feed must not be
// called concurrently. Cancel may be called from any goroutine.
type StreamAssembler struct {
	mu        sync.Mutex
	mode      ResponseMode
	partial   []byte
	live      strings.Builder
	buffered  strings.Builder
	complete  bool
	final     string
	cancelled atomic.Bool
}

// NewStreamAssembler creates an assembler for the declared mode.
func NewStreamAssembler(mode ResponseMode) *StreamAssembler {
	if mode != ModeBuffered {
		mode = ModeIncremental
	}
	return &StreamAssembler{mode: mode}
}

// Mode returns the declared mode.
func (a *StreamAssembler) Mode() ResponseMode {
	return a.mode
}

// Feed appends chunk to any retained partial event, decodes every complete
// event and applies it. The trailing incomplete event is kept for the next
// call.
//
// Events whose payload cannot be decoded are skipped; they are returned
// together as the error (each a *MalformedEventError) while the remaining
// events are still processed. Chunks arriving after completion or
// cancellation are ignored.
func (a *StreamAssembler) Feed(chunk []byte) ([]StreamEvent, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancelled.Load() {
		a.release()
		return nil, nil
	}
	if a.complete {
		if len(bytes.TrimSpace(chunk)) > 0 {
			Warnf("Ignoring %d bytes received after stream completion", len(chunk))
		}
		return nil, nil
	}

	a.partial = append(a.partial, chunk...)

	var (
		events []StreamEvent
		errs   []error
	)
	for {
		if a.cancelled.Load() {
			a.release()
			return events, errors.Join(errs...)
		}
		idx, sepLen := nextEvent(a.partial)
		if idx < 0 {
			break
		}
		raw := a.partial[:idx]
		a.partial = a.partial[idx+sepLen:]

		ev, ok, err := decodeEvent(raw)
		if err != nil {
			Warnf("%v", err)
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}
		events = append(events, ev)
		a.apply(ev)

		if a.complete {
			if len(bytes.TrimSpace(a.partial)) > 0 {
				Warnf("Ignoring %d bytes received after stream completion", len(a.partial))
			}
			a.partial = nil
			break
		}
	}

	// Compact so the retained tail does not pin the whole history.
	if len(a.partial) > 0 {
		a.partial = append([]byte(nil), a.partial...)
	} else {
		a.partial = nil
	}
	return events, errors.Join(errs...)
}

func (a *StreamAssembler) apply(ev StreamEvent) {
	switch ev.Kind {
	case EventToken:
		if a.mode == ModeBuffered {
			a.buffered.WriteString(ev.Content)
		} else {
			a.live.WriteString(ev.Content)
		}
	case EventComplete:
		a.complete = true
		if a.mode == ModeBuffered {
			a.final = a.buffered.String()
		} else {
			a.final = a.live.String()
		}
	default:
		Debugf("Ignoring stream event of unknown type %q", ev.Kind)
	}
}

// nextEvent finds the end of the first complete event in buf and the length
// of its blank-line terminator.
func nextEvent(buf []byte) (int, int) {
	lf := bytes.Index(buf, eventSeparator)
	crlf := bytes.Index(buf, crlfSeparator)
	switch {
	case lf < 0 && crlf < 0:
		return -1, 0
	case crlf < 0 || (lf >= 0 && lf < crlf):
		return lf, len(eventSeparator)
	default:
		return crlf, len(crlfSeparator)
	}
}

// decodeEvent reads the data lines of one raw event. ok is false for events
// without data (comments, keep-alives).
func decodeEvent(raw []byte) (StreamEvent, bool, error) {
	var data [][]byte
	for _, line := range bytes.Split(raw, []byte("\n")) {
		line = bytes.TrimSuffix(line, []byte("\r"))
		if !bytes.HasPrefix(line, dataPrefix) {
			continue
		}
		line = line[len(dataPrefix):]
		line = bytes.TrimPrefix(line, []byte(" "))
		data = append(data, line)
	}
	if len(data) == 0 {
		return StreamEvent{}, false, nil
	}

	payload := bytes.Join(data, []byte("\n"))
	var ev StreamEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return StreamEvent{}, false, &MalformedEventError{Raw: string(payload), Err: err}
	}
	if ev.Kind == "" {
		return StreamEvent{}, false, &MalformedEventError{Raw: string(payload), Err: fmt.Errorf("missing event type")}
	}
	return ev, true, nil
}

// Finished reports whether the complete event has been seen.
func (a *StreamAssembler) Finished() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.complete
}

// Cancel stops the session. Processing halts before the next event and the
// buffers are released. Cancelling a finished session has no effect.
func (a *StreamAssembler) Cancel() {
	a.cancelled.Store(true)
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.complete {
		a.release()
	}
}

// Cancelled reports whether Cancel was called before completion.
func (a *StreamAssembler) Cancelled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancelled.Load() && !a.complete
}

func (a *StreamAssembler) release() {
	a.partial = nil
	a.buffered.Reset()
}

// Pending returns the number of bytes retained from an incomplete event.
func (a *StreamAssembler) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.partial)
}

// State returns a snapshot of the accumulated answer.
func (a *StreamAssembler) State() AccumulatorState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AccumulatorState{
		Mode:         a.mode,
		LiveText:     a.live.String(),
		BufferedText: a.buffered.String(),
		IsComplete:   a.complete,
		FinalText:    a.final,
	}
}
