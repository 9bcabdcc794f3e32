package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is the snapshot of one question/answer session.
type HistoryEntry struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Question  string    `json:"question"`
	Mode      string    `json:"mode"`
	Outcome   string    `json:"outcome"`
	Complete  bool      `json:"complete"`
	Text      string    `json:"text"`
	Time      time.Time `json:"time"`
}

// ShortID returns the first eight characters of the id.
func (e *HistoryEntry) ShortID() string {
	if len(e.ID) > 8 {
		return e.ID[:8]
	}
	return e.ID
}

// HistoryStore keeps answer snapshots as one JSON file per session, grouped
// in a directory per project.
type HistoryStore struct {
	dir string
}

// NewHistoryStore creates a HistoryStore under the default directory.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{dir: GetHistoryDirPath()}
}

// NewHistoryStoreAt creates a HistoryStore rooted at dir.
func NewHistoryStoreAt(dir string) *HistoryStore {
	return &HistoryStore{dir: dir}
}

// GetDir returns the history directory path.
func (h *HistoryStore) GetDir() string {
	return h.dir
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func projectDirName(projectID string) string {
	name := unsafeName.ReplaceAllString(strings.TrimSpace(projectID), "_")
	name = strings.Trim(name, ".")
	if name == "" {
		return "_default"
	}
	return name
}

func (h *HistoryStore) projectDir(projectID string) string {
	return filepath.Join(h.dir, projectDirName(projectID))
}

// Save writes the entry, assigning an id and time when missing.
func (h *HistoryStore) Save(entry *HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}

	dir := h.projectDir(entry.ProjectID)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history entry: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, entry.ID+".json"), data, 0644)
}

// List returns the project's entries, newest first.
func (h *HistoryStore) List(projectID string) ([]*HistoryEntry, error) {
	dir := h.projectDir(projectID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*HistoryEntry{}, nil
		}
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	var result []*HistoryEntry
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		he, err := readEntry(filepath.Join(dir, entry.Name()))
		if err != nil {
			// Skip files we cannot read
			continue
		}
		result = append(result, he)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Time.After(result[j].Time)
	})
	return result, nil
}

// Load returns the entry whose id starts with idPrefix. The prefix must be
// unambiguous.
func (h *HistoryStore) Load(projectID, idPrefix string) (*HistoryEntry, error) {
	idPrefix = strings.TrimSpace(idPrefix)
	if idPrefix == "" {
		return nil, fmt.Errorf("empty history id")
	}
	entries, err := h.List(projectID)
	if err != nil {
		return nil, err
	}

	var found *HistoryEntry
	for _, e := range entries {
		if !strings.HasPrefix(e.ID, idPrefix) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("history id '%s' is ambiguous", idPrefix)
		}
		found = e
	}
	if found == nil {
		return nil, fmt.Errorf("history entry '%s' not found", idPrefix)
	}
	return found, nil
}

// Delete removes one entry.
func (h *HistoryStore) Delete(projectID, id string) error {
	err := os.Remove(filepath.Join(h.projectDir(projectID), id+".json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}

// Clear removes every entry of the project.
func (h *HistoryStore) Clear(projectID string) error {
	if err := os.RemoveAll(h.projectDir(projectID)); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Projects returns the names of projects that have history.
func (h *HistoryStore) Projects() ([]string, error) {
	entries, err := os.ReadDir(h.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func readEntry(path string) (*HistoryEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var he HistoryEntry
	if err := json.Unmarshal(data, &he); err != nil {
		return nil, err
	}
	return &he, nil
}
