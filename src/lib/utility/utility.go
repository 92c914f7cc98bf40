package utility

import "encoding/binary"

func Concat[T any](arrays ...[]T) []T {
	result := []T{}
	for _, ele := range arrays {
		result = append(result, ele...)
	}
	return result
}

func UintToBytes(u uint64) []byte {
	int_buffer := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(int_buffer, u)
	return int_buffer[:n]
}

func IntToBytes(u int64) []byte {
	int_buffer := make([]byte, binary.MaxVarintLen64)
	n := binary.PutVarint(int_buffer, u)
	return int_buffer[:n]
}

// LenPrefixed frames a byte field with its uvarint length so that
// concatenated fields cannot run together.
func LenPrefixed(b []byte) []byte {
	return Concat(UintToBytes(uint64(len(b))), b)
}

// BoolByte collapses a flag to a single byte.
func BoolByte(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}
