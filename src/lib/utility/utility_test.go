package utility_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"gitlab.com/pnathan/trieviz/src/lib/utility"
)

func TestCaseInt(t *testing.T) {
	b1 := []int{1, 2}
	b2 := []int{3, 4}
	b3 := utility.Concat(b1, b2)
	want := []int{1, 2, 3, 4}
	if len(b3) != len(want) {
		t.Fatalf("got %v, want %v", b3, want)
	}
	for i := range want {
		if b3[i] != want[i] {
			t.Errorf("got %v, want %v", b3, want)
		}
	}
}

func TestCaseByte(t *testing.T) {
	b1 := []byte{1, 2}
	b2 := []byte{3, 4}
	b3 := utility.Concat(b1, b2)
	if !bytes.Equal(b3, []byte{1, 2, 3, 4}) {
		t.Errorf("got %v", b3)
	}
}

func TestVarintRoundTrip(t *testing.T) {
	for _, u := range []uint64{0, 1, 127, 128, 1 << 40} {
		got, n := binary.Uvarint(utility.UintToBytes(u))
		if n <= 0 || got != u {
			t.Errorf("uvarint %d round-tripped to %d", u, got)
		}
	}
	for _, i := range []int64{0, -1, 63, -64, 1 << 40} {
		got, n := binary.Varint(utility.IntToBytes(i))
		if n <= 0 || got != i {
			t.Errorf("varint %d round-tripped to %d", i, got)
		}
	}
}

func TestLenPrefixed(t *testing.T) {
	framed := utility.LenPrefixed([]byte("abc"))
	length, n := binary.Uvarint(framed)
	if length != 3 {
		t.Fatalf("length prefix = %d", length)
	}
	if !bytes.Equal(framed[n:], []byte("abc")) {
		t.Errorf("payload = %v", framed[n:])
	}
}
