package service

type StreamStatus int

const (
	StatusUnknown StreamStatus = iota
	StatusStarted
	StatusData     // a token surfaced in incremental mode
	StatusBuffered // a token held back in buffered mode
	StatusFinished
	StatusWarning // a malformed event was skipped
)

type StreamNotify struct {
	Status StreamStatus
	Data   string // For text content or warning messages
}

// StreamNotifier receives progress while an answer streams.
type StreamNotifier func(StreamNotify)

// OutcomeStatus tells how a streamed answer ended.
type OutcomeStatus int

const (
	OutcomeCompleted OutcomeStatus = iota
	OutcomeCancelled
	OutcomeFailed
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeCompleted:
		return "completed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// StreamOutcome is the result of one streamed answer. Err is nil unless
// Status is OutcomeFailed, so a user abort never looks like an error.
type StreamOutcome struct {
	Status OutcomeStatus
	State  AccumulatorState
	Err    error
}

// Text returns the best available answer text: the final text when
// complete, otherwise what was surfaced so far.
func (o StreamOutcome) Text() string {
	if o.State.IsComplete {
		return o.State.FinalText
	}
	return o.State.LiveText
}
