package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"gitlab.com/pnathan/trieviz/src/lib/vizapi"
)

const logSize = 256

// OpLog is a ring of the most recent operations against one trie.
// Old entries fall off the front once the ring is full.
type OpLog struct {
	r      [logSize]*vizapi.Operation
	start  int
	length int
	sync.Mutex
}

func NewOpLog() *OpLog {
	return &OpLog{
		r:      [logSize]*vizapi.Operation{},
		start:  0,
		length: 0,
		Mutex:  sync.Mutex{},
	}
}

func (l *OpLog) Record(kind, word, outcome string) vizapi.Operation {
	op := vizapi.Operation{
		Uuid:      uuid.New(),
		Timestamp: time.Now().Unix(),
		Kind:      kind,
		Word:      word,
		Outcome:   outcome,
	}

	l.Lock()
	defer l.Unlock()
	if l.length < logSize {
		l.r[(l.start+l.length)%logSize] = &op
		l.length++
	} else {
		l.r[l.start] = &op
		l.start = (l.start + 1) % logSize
	}
	return op
}

func (l *OpLog) Length() int {
	l.Lock()
	defer l.Unlock()
	return l.length
}

// Recent returns up to n operations, newest first. n below 1 means all
// of them.
func (l *OpLog) Recent(n int) []vizapi.Operation {
	l.Lock()
	defer l.Unlock()
	if n <= 0 || n > l.length {
		n = l.length
	}
	retval := []vizapi.Operation{}
	for i := 0; i < n; i++ {
		idx := (l.start + l.length - 1 - i) % logSize
		retval = append(retval, *l.r[idx])
	}
	return retval
}
