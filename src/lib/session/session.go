package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"gitlab.com/pnathan/trieviz/src/lib/trie"
	"gitlab.com/pnathan/trieviz/src/lib/vizapi"
)

// Session owns one trie and the log of what has been done to it.
type Session struct {
	*trie.Trie
	sync.RWMutex

	id       uuid.UUID
	created  time.Time
	lastUsed time.Time
	log      *OpLog
}

func New() *Session {
	now := time.Now()
	return &Session{
		Trie:     trie.New(),
		id:       uuid.New(),
		created:  now,
		lastUsed: now,
		log:      NewOpLog(),
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// Insert adds a word, logging whether it was new or a repeat.
func (s *Session) Insert(word string) (vizapi.WordReport, error) {
	s.Lock()
	defer s.Unlock()
	s.lastUsed = time.Now()

	added, err := s.Trie.Insert(word)
	if err != nil {
		s.log.Record(vizapi.OpInsert, word, "rejected")
		return vizapi.WordReport{Word: word}, err
	}
	outcome := "duplicate"
	if added {
		outcome = "added"
	}
	s.log.Record(vizapi.OpInsert, word, outcome)
	return vizapi.WordReport{
		Word:      word,
		Present:   true,
		Added:     added,
		WordCount: s.Trie.Len(),
	}, nil
}

// Search checks for a word. A search counts as use of the session.
func (s *Session) Search(word string) vizapi.WordReport {
	s.Lock()
	defer s.Unlock()
	s.lastUsed = time.Now()

	present := s.Trie.Search(word)
	outcome := "absent"
	if present {
		outcome = "present"
	}
	s.log.Record(vizapi.OpSearch, word, outcome)
	return vizapi.WordReport{
		Word:      word,
		Present:   present,
		WordCount: s.Trie.Len(),
	}
}

func (s *Session) Delete(word string) (vizapi.WordReport, error) {
	s.Lock()
	defer s.Unlock()
	s.lastUsed = time.Now()

	removed, err := s.Trie.Delete(word)
	if err != nil {
		s.log.Record(vizapi.OpDelete, word, "rejected")
		return vizapi.WordReport{Word: word}, err
	}
	outcome := "absent"
	if removed {
		outcome = "removed"
	}
	s.log.Record(vizapi.OpDelete, word, outcome)
	return vizapi.WordReport{
		Word:      word,
		Present:   s.Trie.Search(word),
		Removed:   removed,
		WordCount: s.Trie.Len(),
	}, nil
}

// Seed bulk-inserts words, skipping any invalid ones. Returns how many
// were new.
func (s *Session) Seed(words []string) int {
	s.Lock()
	defer s.Unlock()
	s.lastUsed = time.Now()

	loaded := 0
	for _, w := range words {
		added, err := s.Trie.Insert(w)
		if err != nil {
			continue
		}
		if added {
			loaded++
		}
	}
	s.log.Record(vizapi.OpSeed, fmt.Sprintf("%d words", len(words)), fmt.Sprintf("%d added", loaded))
	return loaded
}

// Reset swaps in an empty trie. The session keeps its id and history.
func (s *Session) Reset() vizapi.SessionInfo {
	s.Lock()
	defer s.Unlock()
	s.lastUsed = time.Now()

	s.Trie = trie.New()
	s.log.Record(vizapi.OpReset, "", "cleared")
	return s.info()
}

func (s *Session) Snapshot() vizapi.TreeSnapshot {
	s.RLock()
	defer s.RUnlock()
	h := s.Trie.Hierarchy()
	return vizapi.TreeSnapshot{
		Tree:        h,
		WordCount:   s.Trie.Len(),
		Fingerprint: vizapi.CalculateFingerprint(h).String(),
	}
}

func (s *Session) Statistics() vizapi.Statistics {
	s.RLock()
	defer s.RUnlock()
	h := s.Trie.Hierarchy()
	return vizapi.Statistics{
		WordCount:   s.Trie.Len(),
		NodeCount:   h.Nodes(),
		MaxDepth:    h.MaxDepth(),
		Fingerprint: vizapi.CalculateFingerprint(h).String(),
	}
}

func (s *Session) History(n int) vizapi.History {
	return vizapi.History{Items: s.log.Recent(n)}
}

func (s *Session) Info() vizapi.SessionInfo {
	s.RLock()
	defer s.RUnlock()
	return s.info()
}

// callers hold at least the read lock.
func (s *Session) info() vizapi.SessionInfo {
	return vizapi.SessionInfo{
		Uuid:     s.id,
		Created:  s.created.Unix(),
		LastUsed: s.lastUsed.Unix(),
		Words:    s.Trie.Len(),
	}
}

func (s *Session) lastTouched() time.Time {
	s.RLock()
	defer s.RUnlock()
	return s.lastUsed
}
