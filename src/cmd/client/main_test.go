package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadWords(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "words.txt")
	content := "cat\n  car  \n\n\ndog\n"
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	words, err := readWords(filename)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"cat", "car", "dog"}
	if !reflect.DeepEqual(words, want) {
		t.Errorf("readWords() = %v, want %v", words, want)
	}
}

func TestReadWordsMissingFile(t *testing.T) {
	if _, err := readWords(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("missing file did not error")
	}
}
