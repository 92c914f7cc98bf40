package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/akamensky/argparse"
	"go.uber.org/zap"

	"gitlab.com/pnathan/trieviz/src/lib/log"
	"gitlab.com/pnathan/trieviz/src/lib/vizapi"
)

func MustMarshal(v any) []byte {
	b := new(bytes.Buffer)
	encoder := json.NewEncoder(b)
	encoder.SetIndent("", "  ")
	err := encoder.Encode(v)
	if err != nil {
		panic(err)
	}

	return b.Bytes()
}

func Moan(complaint error) {
	log.Fatal("", zap.Error(complaint))
	os.Exit(1)
}

// readWords pulls one word per line from filename, or stdin when
// filename is empty.
func readWords(filename string) ([]string, error) {
	var input string
	if filename != "" {
		filedata, err := ioutil.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		input = string(filedata)
	} else {
		sin, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		input = string(sin)
	}

	words := []string{}
	for _, line := range strings.Split(input, "\n") {
		w := strings.TrimSpace(line)
		if w == "" {
			continue
		}
		words = append(words, w)
	}
	return words, nil
}

func main() {
	parser := argparse.NewParser("trieviz client", "trieviz client code")

	endpoint := parser.String("e", "endpoint", &argparse.Options{Required: false, Help: "server to address", Default: "http://localhost:1337"})
	sessionId := parser.String("s", "session", &argparse.Options{Required: false, Help: "session id to work in"})

	sessionNew := parser.NewCommand("session-new", "open a session")
	sessionList := parser.NewCommand("session-list", "list sessions")
	sessionDrop := parser.NewCommand("session-drop", "drop the session")
	sessionReset := parser.NewCommand("session-reset", "empty the session's trie")

	wordInsert := parser.NewCommand("word-insert", "insert a word")
	insertWord := wordInsert.String("w", "word", &argparse.Options{Required: true, Help: "word to insert"})

	wordSearch := parser.NewCommand("word-search", "look for a word")
	searchWord := wordSearch.String("w", "word", &argparse.Options{Required: true, Help: "word to look for"})

	wordDelete := parser.NewCommand("word-delete", "delete a word")
	deleteWord := wordDelete.String("w", "word", &argparse.Options{Required: true, Help: "word to delete"})

	wordBatch := parser.NewCommand("word-batch", "insert words in bulk, one per line")
	batchFile := wordBatch.String("f", "file", &argparse.Options{Required: false, Help: "file with the words; if not present, reads from stdin"})

	treeGet := parser.NewCommand("tree-get", "get the exported tree")
	statisticsGet := parser.NewCommand("statistics-get", "get session statistics")

	historyGet := parser.NewCommand("history-get", "get recent operations")
	historyCount := historyGet.Int("n", "count", &argparse.Options{Required: false, Help: "how many entries; 0 means all", Default: 0})

	sessionReap := parser.NewCommand("session-reap", "request an idle-session reap")
	reapEnable := parser.NewCommand("session-reap-enable", "enable automatic reaps")
	reapDisable := parser.NewCommand("session-reap-disable", "disable automatic reaps")

	// Parse input
	err := parser.Parse(os.Args)
	if err != nil {
		// In case of error print error and print usage
		// This can also be done by passing -h or --help flags
		fmt.Print(parser.Usage(err))
		return
	}

	if sessionNew.Happened() {
		info, err := vizapi.NewSession(*endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(info)))
	} else if sessionList.Happened() {
		list, err := vizapi.ListSessions(*endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(list)))
	} else if sessionDrop.Happened() {
		if *sessionId == "" {
			Moan(fmt.Errorf("no session given"))
		}
		if err := vizapi.DropSession(*sessionId, *endpoint); err != nil {
			Moan(err)
		}
		fmt.Println("dropped")
	} else if sessionReset.Happened() {
		if *sessionId == "" {
			Moan(fmt.Errorf("no session given"))
		}
		info, err := vizapi.ResetSession(*sessionId, *endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(info)))
	} else if wordInsert.Happened() {
		if *sessionId == "" {
			Moan(fmt.Errorf("no session given"))
		}
		report, err := vizapi.InsertWord(*sessionId, *insertWord, *endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(report)))
	} else if wordSearch.Happened() {
		if *sessionId == "" {
			Moan(fmt.Errorf("no session given"))
		}
		report, err := vizapi.SearchWord(*sessionId, *searchWord, *endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(report)))
	} else if wordDelete.Happened() {
		if *sessionId == "" {
			Moan(fmt.Errorf("no session given"))
		}
		report, err := vizapi.DeleteWord(*sessionId, *deleteWord, *endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(report)))
	} else if wordBatch.Happened() {
		if *sessionId == "" {
			Moan(fmt.Errorf("no session given"))
		}
		words, err := readWords(*batchFile)
		if err != nil {
			Moan(err)
		}
		added := 0
		for _, w := range words {
			report, err := vizapi.InsertWord(*sessionId, w, *endpoint)
			if err != nil {
				log.Warn("unable to insert word", zap.String("word", w), zap.Error(err))
				continue
			}
			if report.Added {
				added++
			}
		}
		fmt.Printf("inserted %d new words of %d\n", added, len(words))
	} else if treeGet.Happened() {
		if *sessionId == "" {
			Moan(fmt.Errorf("no session given"))
		}
		snapshot, err := vizapi.GetTree(*sessionId, *endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(snapshot)))
	} else if statisticsGet.Happened() {
		if *sessionId == "" {
			Moan(fmt.Errorf("no session given"))
		}
		stats, err := vizapi.GetStatistics(*sessionId, *endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(stats)))
	} else if historyGet.Happened() {
		if *sessionId == "" {
			Moan(fmt.Errorf("no session given"))
		}
		history, err := vizapi.GetHistory(*sessionId, *historyCount, *endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(history)))
	} else if sessionReap.Happened() {
		report, err := vizapi.PostReap(*endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(report)))
	} else if reapEnable.Happened() {
		if err := vizapi.PutAutoReaps(*endpoint); err != nil {
			Moan(err)
		}
	} else if reapDisable.Happened() {
		if err := vizapi.DeleteAutoReaps(*endpoint); err != nil {
			Moan(err)
		}
	} else {
		Moan(fmt.Errorf("can't happen"))
	}
}
