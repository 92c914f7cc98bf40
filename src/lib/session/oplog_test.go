package session

import (
	"fmt"
	"reflect"
	"testing"

	"gitlab.com/pnathan/trieviz/src/lib/vizapi"
)

func TestOpLogRecent(t *testing.T) {
	tests := []struct {
		name  string
		kinds []string
		n     int
		want  []string
	}{
		{
			name:  "one",
			kinds: []string{vizapi.OpInsert},
			n:     1,
			want:  []string{vizapi.OpInsert},
		},
		{
			name:  "newest first",
			kinds: []string{vizapi.OpInsert, vizapi.OpSearch, vizapi.OpDelete},
			n:     2,
			want:  []string{vizapi.OpDelete, vizapi.OpSearch},
		},
		{
			name:  "ask for everything",
			kinds: []string{vizapi.OpInsert, vizapi.OpSearch},
			n:     0,
			want:  []string{vizapi.OpSearch, vizapi.OpInsert},
		},
		{
			name:  "ask for too much",
			kinds: []string{vizapi.OpInsert},
			n:     50,
			want:  []string{vizapi.OpInsert},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewOpLog()
			for _, k := range tt.kinds {
				l.Record(k, "word", "ok")
			}
			got := []string{}
			for _, op := range l.Recent(tt.n) {
				got = append(got, op.Kind)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Recent() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOpLogWraps(t *testing.T) {
	l := NewOpLog()
	for i := 0; i < logSize+10; i++ {
		l.Record(vizapi.OpInsert, fmt.Sprintf("w%d", i), "added")
	}
	if l.Length() != logSize {
		t.Fatalf("Length() = %d, want %d", l.Length(), logSize)
	}

	ops := l.Recent(0)
	if len(ops) != logSize {
		t.Fatalf("Recent(0) returned %d items", len(ops))
	}
	if want := fmt.Sprintf("w%d", logSize+9); ops[0].Word != want {
		t.Errorf("newest = %q, want %q", ops[0].Word, want)
	}
	if ops[len(ops)-1].Word != "w10" {
		t.Errorf("oldest = %q, want w10", ops[len(ops)-1].Word)
	}
}

func TestOpLogStamps(t *testing.T) {
	l := NewOpLog()
	op := l.Record(vizapi.OpDelete, "cat", "removed")
	if op.Kind != vizapi.OpDelete || op.Word != "cat" || op.Outcome != "removed" {
		t.Errorf("recorded op = %+v", op)
	}
	if op.Timestamp == 0 {
		t.Error("operation has no timestamp")
	}

	other := l.Record(vizapi.OpDelete, "cat", "removed")
	if op.Uuid == other.Uuid {
		t.Error("operations share a uuid")
	}
}
