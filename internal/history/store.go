// Package history persists the conversation log together with its embedding
// vectors and answers recency and similarity queries over it.
//
// A collection is stored as two co-located files that form one unit: a
// human-readable JSON list of records and a binary gob list of vectors. If
// either file is missing the store starts empty.
package history

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"workforce/internal/embedding"
	"workforce/internal/logging"
)

// RouteNone is the route label persisted when no specialist handled the
// request.
const RouteNone = "None"

// Record is one completed interaction. Records are immutable once stored
// and removed only by Clear.
type Record struct {
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	UserPrompt      string    `json:"user_prompt"`
	ResponseText    string    `json:"response_text"`
	RouteLabel      string    `json:"route_label"`
	SuggestionLabel string    `json:"suggestion_label,omitempty"`
	PromptLength    int       `json:"prompt_length"`
	ResponseLength  int       `json:"response_length"`
}

// Match is one similarity search hit.
type Match struct {
	Score  float64
	Record Record
}

// Stats summarizes the collection without side effects.
type Stats struct {
	Count      int
	Dimension  int
	Location   string
	Collection string
}

// Store owns the record list and the paired embedding index. Records and
// vectors share record IDs, and the store keeps their counts equal after
// every mutation.
type Store struct {
	dir        string
	collection string
	records    []Record
	byID       map[string]int
	index      *embedding.Index
}

// Open loads the collection at dir, or starts empty when no files exist.
func Open(dir, collection string, engine embedding.Engine) (*Store, error) {
	if collection == "" {
		collection = "chat_history"
	}
	s := &Store{
		dir:        dir,
		collection: collection,
		byID:       make(map[string]int),
		index:      embedding.NewIndex(engine),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	logging.History("Opened collection %q at %s with %d records", collection, dir, len(s.records))
	return s, nil
}

func (s *Store) recordsPath() string {
	return filepath.Join(s.dir, s.collection+"_records.json")
}

func (s *Store) vectorsPath() string {
	return filepath.Join(s.dir, s.collection+"_vectors.gob")
}

// Append creates a record for the interaction, derives its embedding, and
// adds both to the store. The embedding is computed first so a failed encode
// leaves the store untouched. The caller is responsible for Flush; Append
// itself only mutates memory.
func (s *Store) Append(ctx context.Context, userPrompt, responseText, routeLabel, suggestionLabel string) (string, error) {
	rec := Record{
		ID:              uuid.New().String(),
		Timestamp:       time.Now().UTC(),
		UserPrompt:      userPrompt,
		ResponseText:    responseText,
		RouteLabel:      routeLabel,
		SuggestionLabel: suggestionLabel,
		PromptLength:    len(userPrompt),
		ResponseLength:  len(responseText),
	}
	if rec.RouteLabel == "" {
		rec.RouteLabel = RouteNone
	}

	text := fmt.Sprintf("User: %s\nManager: %s", userPrompt, responseText)
	if _, err := s.index.Add(ctx, rec.ID, text); err != nil {
		return "", fmt.Errorf("failed to embed conversation: %w", err)
	}

	s.byID[rec.ID] = len(s.records)
	s.records = append(s.records, rec)

	logging.HistoryDebug("Appended record %s (route=%s, prompt=%d chars, response=%d chars)",
		rec.ID, rec.RouteLabel, rec.PromptLength, rec.ResponseLength)
	return rec.ID, nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) []Record {
	if limit <= 0 || len(s.records) == 0 {
		return nil
	}

	out := make([]Record, len(s.records))
	copy(out, s.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if limit < len(out) {
		out = out[:limit]
	}
	return out
}

// Similar returns up to k records most similar to the query, in the index's
// score order. An empty store yields no matches and no error.
func (s *Store) Similar(ctx context.Context, query string, k int) ([]Match, error) {
	hits, err := s.index.Query(ctx, query, k)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(hits))
	for _, hit := range hits {
		pos, ok := s.byID[hit.ID]
		if !ok {
			logging.Get(logging.CategoryHistory).Warn("Index returned unknown record ID %s", hit.ID)
			continue
		}
		matches = append(matches, Match{Score: hit.Score, Record: s.records[pos]})
	}
	return matches, nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return len(s.records)
}

func (s *Stats) String() string {
	return fmt.Sprintf("%d conversations, dimension %d, at %s (%s)",
		s.Count, s.Dimension, s.Location, s.Collection)
}

// Stats returns a read-only summary of the collection.
func (s *Store) Stats() Stats {
	return Stats{
		Count:      len(s.records),
		Dimension:  s.index.Dimensions(),
		Location:   s.dir,
		Collection: s.collection,
	}
}

// Clear empties the store and removes the backing files. The next Append
// starts a fresh collection.
func (s *Store) Clear() error {
	s.records = nil
	s.byID = make(map[string]int)
	s.index.Clear()

	var firstErr error
	for _, path := range []string{s.recordsPath(), s.vectorsPath()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to remove %s: %w", path, err)
			}
		}
	}
	logging.History("Cleared collection %q", s.collection)
	return firstErr
}

// vectorFile is the gob schema for the binary half of the collection.
type vectorFile struct {
	IDs     []string
	Vectors [][]float32
}

// Flush writes both halves of the collection. Callers treat a failure as a
// warning: the in-memory state stays valid and is not rolled back.
func (s *Store) Flush() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create history dir: %w", err)
	}

	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	if err := os.WriteFile(s.recordsPath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}

	ids, vectors := s.index.Snapshot()
	f, err := os.Create(s.vectorsPath())
	if err != nil {
		return fmt.Errorf("failed to write vectors: %w", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(vectorFile{IDs: ids, Vectors: vectors}); err != nil {
		return fmt.Errorf("failed to encode vectors: %w", err)
	}

	logging.HistoryDebug("Flushed %d records to %s", len(s.records), s.dir)
	return nil
}

// load reads both collection files. Missing files mean an empty store; a
// record/vector mismatch is corruption and the load starts empty instead of
// guessing at pairings.
func (s *Store) load() error {
	data, err := os.ReadFile(s.recordsPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse records: %w", err)
	}

	f, err := os.Open(s.vectorsPath())
	if os.IsNotExist(err) {
		logging.Get(logging.CategoryHistory).Warn("Records present but vectors missing at %s, starting empty", s.dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read vectors: %w", err)
	}
	defer f.Close()

	var vf vectorFile
	if err := gob.NewDecoder(f).Decode(&vf); err != nil {
		return fmt.Errorf("failed to decode vectors: %w", err)
	}

	if len(vf.IDs) != len(records) || len(vf.Vectors) != len(records) {
		logging.Get(logging.CategoryHistory).Warn(
			"Collection %q is corrupt (%d records, %d vectors), starting empty",
			s.collection, len(records), len(vf.Vectors))
		return nil
	}

	byVec := make(map[string][]float32, len(vf.IDs))
	for i, id := range vf.IDs {
		byVec[id] = vf.Vectors[i]
	}

	for _, rec := range records {
		vec, ok := byVec[rec.ID]
		if !ok {
			logging.Get(logging.CategoryHistory).Warn(
				"Record %s has no vector, collection %q is corrupt, starting empty", rec.ID, s.collection)
			s.records = nil
			s.byID = make(map[string]int)
			s.index.Clear()
			return nil
		}
		s.byID[rec.ID] = len(s.records)
		s.records = append(s.records, rec)
		s.index.Put(rec.ID, vec)
	}
	return nil
}
