package vizapi

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/crypto/sha3"

	"github.com/google/uuid"

	"gitlab.com/pnathan/trieviz/src/lib/log"

	"gitlab.com/pnathan/trieviz/src/lib/trie"

	"gitlab.com/pnathan/trieviz/src/lib/utility"
)

// Operation kinds carried on the wire and in the history log.
const (
	OpInsert = "insert"
	OpSearch = "search"
	OpDelete = "delete"
	OpReset  = "reset"
	OpSeed   = "seed"
)

// WordRequest is the body of word-level calls.
type WordRequest struct {
	Word string `json:"word"`
}

// WordReport describes what a word-level call did.
type WordReport struct {
	Word    string `json:"word"`
	Present bool   `json:"present"`
	Added   bool   `json:"added"`
	Removed bool   `json:"removed"`
	// WordCount is the session's word count after the call.
	WordCount int `json:"word_count"`
}

type SessionInfo struct {
	// Uuid identifies the session for the life of the server.
	Uuid uuid.UUID `json:"uuid"`
	// Created should be the time the session was synthesized.
	Created  int64 `json:"created_unixtime"`
	LastUsed int64 `json:"last_used_unixtime"`
	Words    int   `json:"word_count"`
}

type SessionList struct {
	Sessions []SessionInfo `json:"sessions"`
}

// TreeSnapshot is the serialization of an exported tree.
type TreeSnapshot struct {
	Tree      *trie.Hierarchy `json:"tree"`
	WordCount int             `json:"word_count"`
	// Fingerprint is the hex form of the tree digest.
	Fingerprint string `json:"fingerprint"`
}

type Statistics struct {
	WordCount   int    `json:"word_count"`
	NodeCount   int    `json:"node_count"`
	MaxDepth    int    `json:"max_depth"`
	Fingerprint string `json:"fingerprint"`
}

type Operation struct {
	// Uuid should be randomly generated for each operation.
	Uuid uuid.UUID `json:"uuid"`
	// Timestamp should be the time the operation was applied.
	Timestamp int64  `json:"unixtime"`
	Kind      string `json:"kind"`
	Word      string `json:"word"`
	Outcome   string `json:"outcome"`
}

type History struct {
	Items []Operation `json:"items"`
}

type ReapReport struct {
	Reaped int `json:"reaped"`
}

// SeedList is the on-disk format of a seed word file.
type SeedList struct {
	Words []string `json:"words"`
}

type Digest []byte

func (d Digest) String() string {
	return hex.EncodeToString(d)
}

// CalculateFingerprint digests an exported tree. The walk follows the
// export's child order, so two trees holding the same words always
// digest identically regardless of insertion order.
func CalculateFingerprint(h *trie.Hierarchy) Digest {
	buf := fingerprintBytes(h)

	out := make([]byte, 64)
	// Compute a 64-byte Hash of buf and put it in out.
	sha3.ShakeSum256(out, buf)
	return out
}

func fingerprintBytes(h *trie.Hierarchy) []byte {
	buf := utility.Concat(
		utility.LenPrefixed([]byte(h.Value)),
		utility.BoolByte(h.IsEndOfWord),
		utility.IntToBytes(int64(h.Frequency)),
		utility.UintToBytes(uint64(len(h.Children))))
	for _, c := range h.Children {
		buf = utility.Concat(buf, fingerprintBytes(c))
	}
	return buf
}

const (
	http_put    = "PUT"
	http_delete = "DELETE"
	http_post   = "POST"
)

func httpPut(addr string, text []byte) (*http.Response, error) {
	return httpMethod(http_put, addr, text)
}

func httpDelete(addr string, text []byte) (*http.Response, error) {
	return httpMethod(http_delete, addr, text)
}

func httpPost(addr string, text []byte) (*http.Response, error) {
	return httpMethod(http_post, addr, text)
}

func httpMethod(method, addr string, text []byte) (*http.Response, error) {
	log.Info("Calling server", zap.String("endpoint", addr))
	buf := bytes.NewBuffer(text)
	client := &http.Client{}
	req, err := http.NewRequest(method, addr, buf)
	if err != nil {
		log.Warn("http error", zap.Error(err), zap.String("host", addr))
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Warn("http error", zap.Error(err), zap.String("host", addr))
		return nil, err
	}

	return resp, nil
}

// NewSession asks the server at addr to open a fresh session.
func NewSession(addr string) (*SessionInfo, error) {
	formulatedAddress := fmt.Sprintf("%v/api/session", addr)
	resp, err := httpPost(formulatedAddress, []byte{})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusInternalServerError:
		return nil, fmt.Errorf("something went sideways")
	case http.StatusCreated:
	case http.StatusOK:
	}

	decoder := json.NewDecoder(resp.Body)

	s := &SessionInfo{}
	if err := decoder.Decode(s); err != nil {
		log.Warn("decoding error", zap.Error(err), zap.String("address", formulatedAddress))
		return nil, err
	}
	return s, nil
}

func ListSessions(addr string) (*SessionList, error) {
	formulatedAddress := fmt.Sprintf("%v/api/sessions", addr)
	resp, err := http.Get(formulatedAddress)
	if err != nil {
		log.Warn("http error", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusBadRequest:
		return nil, fmt.Errorf("bad request made, erroring")
	case http.StatusOK:
	}

	decoder := json.NewDecoder(resp.Body)

	s := &SessionList{}
	if err := decoder.Decode(s); err != nil {
		log.Warn("decoding error", zap.Error(err), zap.String("address", formulatedAddress))
		return nil, err
	}
	return s, nil
}

func DropSession(session string, addr string) error {
	formulatedAddress := fmt.Sprintf("%v/api/session/%v", addr, session)
	resp, err := httpDelete(formulatedAddress, []byte{})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("no such session")
	case http.StatusBadRequest:
		return fmt.Errorf("bad request")
	case http.StatusOK:
	}
	return nil
}

// InsertWord adds a word to the session's trie.
func InsertWord(session string, word string, addr string) (*WordReport, error) {
	text, err := json.Marshal(WordRequest{Word: word})
	if err != nil {
		return nil, err
	}
	formulatedAddress := fmt.Sprintf("%v/api/session/%v/word", addr, session)

	resp, err := httpPut(formulatedAddress, text)
	if err != nil {
		log.Printf("error writing word %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, fmt.Errorf("no such session")
	case http.StatusBadRequest:
		return nil, fmt.Errorf("bad request")
	case http.StatusInternalServerError:
		return nil, fmt.Errorf("something went sideways")
	case http.StatusCreated:
	case http.StatusOK:
	}

	report := &WordReport{}
	if err := json.NewDecoder(resp.Body).Decode(report); err != nil {
		log.Warn("decoding error", zap.Error(err), zap.String("address", formulatedAddress))
		return nil, err
	}
	return report, nil
}

func SearchWord(session string, word string, addr string) (*WordReport, error) {
	formulatedAddress := fmt.Sprintf("%v/api/session/%v/word?word=%v",
		addr, session, url.QueryEscape(word))
	resp, err := http.Get(formulatedAddress)
	if err != nil {
		log.Warn("http error", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, fmt.Errorf("no such session")
	case http.StatusOK:
	}

	report := &WordReport{}
	if err := json.NewDecoder(resp.Body).Decode(report); err != nil {
		log.Warn("decoding error", zap.Error(err), zap.String("address", formulatedAddress))
		return nil, err
	}
	return report, nil
}

func DeleteWord(session string, word string, addr string) (*WordReport, error) {
	text, err := json.Marshal(WordRequest{Word: word})
	if err != nil {
		return nil, err
	}
	formulatedAddress := fmt.Sprintf("%v/api/session/%v/word", addr, session)

	resp, err := httpDelete(formulatedAddress, text)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, fmt.Errorf("no such session")
	case http.StatusBadRequest:
		return nil, fmt.Errorf("bad request")
	case http.StatusOK:
	}

	report := &WordReport{}
	if err := json.NewDecoder(resp.Body).Decode(report); err != nil {
		log.Warn("decoding error", zap.Error(err), zap.String("address", formulatedAddress))
		return nil, err
	}
	return report, nil
}

func GetTree(session string, addr string) (*TreeSnapshot, error) {
	formulatedAddress := fmt.Sprintf("%v/api/session/%v/tree", addr, session)
	log.Info("Reading tree", zap.String("endpoint", formulatedAddress))

	resp, err := http.Get(formulatedAddress)
	if err != nil {
		log.Warn("http error", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, fmt.Errorf("no such session")
	case http.StatusOK:
	}

	decoder := json.NewDecoder(resp.Body)

	snapshot := &TreeSnapshot{}
	if err := decoder.Decode(snapshot); err != nil {
		log.Warn("decoding error", zap.Error(err), zap.String("address", formulatedAddress))
		return nil, err
	}
	return snapshot, nil
}

func GetStatistics(session string, addr string) (*Statistics, error) {
	formulatedAddress := fmt.Sprintf("%v/api/session/%v/statistics", addr, session)
	resp, err := http.Get(formulatedAddress)
	if err != nil {
		log.Warn("http error", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, fmt.Errorf("no such session")
	case http.StatusOK:
	}

	stats := &Statistics{}
	if err := json.NewDecoder(resp.Body).Decode(stats); err != nil {
		log.Warn("decoding error", zap.Error(err), zap.String("address", formulatedAddress))
		return nil, err
	}
	return stats, nil
}

func GetHistory(session string, n int, addr string) (*History, error) {
	formulatedAddress := fmt.Sprintf("%v/api/session/%v/history?n=%d", addr, session, n)
	resp, err := http.Get(formulatedAddress)
	if err != nil {
		log.Warn("http error", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, fmt.Errorf("no such session")
	case http.StatusOK:
	}

	history := &History{}
	if err := json.NewDecoder(resp.Body).Decode(history); err != nil {
		log.Warn("decoding error", zap.Error(err), zap.String("address", formulatedAddress))
		return nil, err
	}
	return history, nil
}

// ResetSession empties the session's trie but keeps its identity.
func ResetSession(session string, addr string) (*SessionInfo, error) {
	formulatedAddress := fmt.Sprintf("%v/api/session/%v/reset", addr, session)
	resp, err := httpPost(formulatedAddress, []byte{})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, fmt.Errorf("no such session")
	case http.StatusOK:
	}

	info := &SessionInfo{}
	if err := json.NewDecoder(resp.Body).Decode(info); err != nil {
		log.Warn("decoding error", zap.Error(err), zap.String("address", formulatedAddress))
		return nil, err
	}
	return info, nil
}

func PostReap(addr string) (*ReapReport, error) {
	formulatedAddress := fmt.Sprintf("%v/api/sessions/reap", addr)
	resp, err := http.Post(formulatedAddress, "application/json", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad error code: %d", resp.StatusCode)
	}

	report := &ReapReport{}
	if err := json.NewDecoder(resp.Body).Decode(report); err != nil {
		return nil, err
	}
	return report, nil
}

func PutAutoReaps(addr string) error {
	formulatedAddress := fmt.Sprintf("%v/api/sessions/reap/auto", addr)
	resp, err := httpPut(formulatedAddress, []byte{})
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad error code: %d", resp.StatusCode)
	}
	return nil
}
func DeleteAutoReaps(addr string) error {
	formulatedAddress := fmt.Sprintf("%v/api/sessions/reap/auto", addr)
	resp, err := httpDelete(formulatedAddress, []byte{})
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad error code: %d", resp.StatusCode)
	}
	return nil
}
