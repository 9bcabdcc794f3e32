package ui

import (
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// Indicators
// For long-running operations, we can use a spinner indicator

const (
	IndicatorScanning  = "Scanning project..."
	IndicatorWaiting   = "Waiting for answer..."
	IndicatorDiagram   = "Drawing diagram..."
	IndicatorRendering = "Rendering..."
)

// ProcessingWords rotate while the indicator has no fixed text.
var ProcessingWords = []string{
	"Reading the codebase...",
	"Pondering...",
	"Tracing components...",
	"Following the props...",
	"Untangling imports...",
	"Sketching...",
	"Connecting the dots...",
	"Assembling...",
}

// GetRandomProcessingWord returns a random processing word
func GetRandomProcessingWord() string {
	return ProcessingWords[rand.Intn(len(ProcessingWords))]
}

type Indicator struct {
	mu           sync.Mutex
	s            *spinner.Spinner
	rotating     bool
	lastRotation time.Time
	lastWord     string
}

var (
	globalIndicator *Indicator
	indicatorOnce   sync.Once
)

// GetIndicator returns the singleton indicator instance
func GetIndicator() *Indicator {
	indicatorOnce.Do(func() {
		globalIndicator = &Indicator{
			rotating: true,
		}
		globalIndicator.setupSpinner()
	})
	return globalIndicator
}

func (i *Indicator) setupSpinner() {
	i.s = spinner.New(spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithWriter(os.Stderr))
	i.s.Color("fgHiMagenta", "bold")

	i.s.PreUpdate = func(s *spinner.Spinner) {
		i.mu.Lock()
		defer i.mu.Unlock()
		if i.rotating && time.Since(i.lastRotation) > 2*time.Second {
			newWord := GetRandomProcessingWord()
			for newWord == i.lastWord && len(ProcessingWords) > 1 {
				newWord = GetRandomProcessingWord()
			}
			s.Suffix = fmt.Sprintf(" %s", newWord)
			i.lastWord = newWord
			i.lastRotation = time.Now()
		}
	}
}

func (i *Indicator) IsActive() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.s != nil && i.s.Active()
}

func (i *Indicator) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.s != nil && i.s.Active() {
		i.s.Stop()
	}
}

// Start shows the spinner with text, or rotating words when text is empty.
// It does nothing when stderr is not a terminal.
func (i *Indicator) Start(text string) {
	if !IsTerminal(os.Stderr) {
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if text == "" {
		i.rotating = true
		text = GetRandomProcessingWord()
		i.lastWord = text
		i.lastRotation = time.Now()
	} else {
		i.rotating = false
	}

	if i.s.Active() {
		i.s.Stop()
	}

	i.s.Lock()
	i.s.Suffix = fmt.Sprintf(" %s", text)
	i.s.Unlock()
	i.s.Start()
}
