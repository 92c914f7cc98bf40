package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/akamensky/argparse"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"go.uber.org/zap"

	"gitlab.com/pnathan/trieviz/src/lib/log"
	"gitlab.com/pnathan/trieviz/src/lib/session"
	"gitlab.com/pnathan/trieviz/src/lib/vizapi"
)

var REGISTRY *session.Registry

// sessionFromRequest resolves the {id} route variable. On failure it
// writes the error response and returns nil.
func sessionFromRequest(w http.ResponseWriter, r *http.Request) *session.Session {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("couldn't parse session id"))
		return nil
	}
	s := REGISTRY.Get(id)
	if s == nil {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such session"))
		return nil
	}
	return s
}

func createSession(w http.ResponseWriter, r *http.Request) {
	s := REGISTRY.Create()
	if len(SEED_WORDS) > 0 {
		loaded := s.Seed(SEED_WORDS)
		log.Info("Seeded new session", zap.String("session", s.ID().String()), zap.Int("added", loaded))
	}

	bytes, err := json.Marshal(s.Info())
	if err != nil {
		log.Printf("error: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	log.Info("Session created", zap.String("session", s.ID().String()), zap.String("sender", r.Host))
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(bytes)
}

func listSessions(w http.ResponseWriter, r *http.Request) {
	bytes, err := json.Marshal(REGISTRY.List())
	if err != nil {
		log.Printf("error: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(bytes)
}

func dropSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("couldn't parse session id"))
		return
	}
	if !REGISTRY.Drop(id) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such session"))
		return
	}
	log.Printf("dropped session %v", id)
	_, _ = w.Write([]byte("ok"))
}

func insertWord(w http.ResponseWriter, r *http.Request) {
	s := sessionFromRequest(w, r)
	if s == nil {
		return
	}
	decoder := json.NewDecoder(r.Body)

	input := vizapi.WordRequest{}
	if err := decoder.Decode(&input); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("couldn't decode"))
		return
	}
	input.Word = strings.TrimSpace(input.Word)

	report, err := s.Insert(input.Word)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(err.Error()))
		return
	}
	log.Info("word inserted", zap.String("word", report.Word),
		zap.Bool("added", report.Added), zap.String("sender", r.Host))

	bytes, err := json.Marshal(report)
	if err != nil {
		log.Printf("error: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if report.Added {
		w.WriteHeader(http.StatusCreated)
	}
	_, _ = w.Write(bytes)
}

func searchWord(w http.ResponseWriter, r *http.Request) {
	s := sessionFromRequest(w, r)
	if s == nil {
		return
	}
	word := strings.TrimSpace(r.URL.Query().Get("word"))

	report := s.Search(word)
	bytes, err := json.Marshal(report)
	if err != nil {
		log.Printf("error: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(bytes)
}

func deleteWord(w http.ResponseWriter, r *http.Request) {
	s := sessionFromRequest(w, r)
	if s == nil {
		return
	}
	decoder := json.NewDecoder(r.Body)

	input := vizapi.WordRequest{}
	if err := decoder.Decode(&input); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("couldn't decode"))
		return
	}
	input.Word = strings.TrimSpace(input.Word)

	report, err := s.Delete(input.Word)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(err.Error()))
		return
	}
	log.Info("word deleted", zap.String("word", report.Word),
		zap.Bool("removed", report.Removed), zap.String("sender", r.Host))

	bytes, err := json.Marshal(report)
	if err != nil {
		log.Printf("error: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(bytes)
}

func exportTree(w http.ResponseWriter, r *http.Request) {
	s := sessionFromRequest(w, r)
	if s == nil {
		return
	}
	snapshot := s.Snapshot()

	// the fingerprint doubles as a validator, so an unchanged tree
	// costs the page nothing to poll.
	etag := fmt.Sprintf("%q", snapshot.Fingerprint)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	bytes, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("error: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("ETag", etag)
	_, _ = w.Write(bytes)
}

func sessionStatistics(w http.ResponseWriter, r *http.Request) {
	s := sessionFromRequest(w, r)
	if s == nil {
		return
	}
	bytes, err := json.Marshal(s.Statistics())
	if err != nil {
		log.Printf("error: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(bytes)
}

func sessionHistory(w http.ResponseWriter, r *http.Request) {
	s := sessionFromRequest(w, r)
	if s == nil {
		return
	}
	// n omitted or unparsable means everything in the ring
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))

	bytes, err := json.Marshal(s.History(n))
	if err != nil {
		log.Printf("error: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(bytes)
}

func resetSession(w http.ResponseWriter, r *http.Request) {
	s := sessionFromRequest(w, r)
	if s == nil {
		return
	}
	info := s.Reset()
	log.Printf("reset session %v", s.ID())

	bytes, err := json.Marshal(info)
	if err != nil {
		log.Printf("error: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(bytes)
}

// SEED_WORDS is filled once at startup, before the server listens.
var SEED_WORDS []string

func fastSeed(seedfile *string) {
	log.Info("Seed file provided...reading", zap.String("filename", *seedfile))
	filedata, err := ioutil.ReadFile(*seedfile)
	if err != nil {
		log.Error("Unable to read seed file", zap.String("filename", *seedfile), zap.Error(err))
		return
	}
	seed := &vizapi.SeedList{}
	if err := json.Unmarshal(filedata, seed); err != nil {
		log.Error("unable to decode seed file", zap.String("filename", *seedfile), zap.Error(err))
		return
	}

	SEED_WORDS = seed.Words
	log.Info("Seed words loaded", zap.Int("count", len(SEED_WORDS)))
}

type ReapState int64

const (
	WillReap ReapState = iota
	WillNotReap
)

type doReap struct {
	sync.Mutex
	state ReapState
}

func (s *doReap) IsReaping() bool {
	s.Lock()
	defer s.Unlock()
	return s.state == WillReap
}
func (s *doReap) EnableReaping() {
	s.Lock()
	defer s.Unlock()
	s.state = WillReap
}
func (s *doReap) DisableReaping() {
	s.Lock()
	defer s.Unlock()
	s.state = WillNotReap
}

var GLOBAL_CURRENT_REAP_STATE *doReap

var SESSION_TTL = time.Minute * 30

func reapSessions(w http.ResponseWriter, r *http.Request) {
	reaped := REGISTRY.Reap(SESSION_TTL)
	log.Printf("reaped %d idle sessions", reaped)

	bytes, err := json.Marshal(vizapi.ReapReport{Reaped: reaped})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(bytes)
}

func autoReapEnable(w http.ResponseWriter, r *http.Request) {
	log.Printf("enabling session reaping")
	GLOBAL_CURRENT_REAP_STATE.EnableReaping()
	fmt.Fprintf(w, "enabled")
}
func autoReapDisable(w http.ResponseWriter, r *http.Request) {
	log.Printf("disabling session reaping")
	GLOBAL_CURRENT_REAP_STATE.DisableReaping()
	fmt.Fprintf(w, "disabled")
}

// registryLoad reports live sessions and the words they hold between
// them.
func registryLoad() (int, int) {
	list := REGISTRY.List()
	words := 0
	for _, info := range list.Sessions {
		words += info.Words
	}
	return len(list.Sessions), words
}

type ServerStatistics struct {
	Sessions   int `json:"sessions"`
	TotalWords int `json:"total_words"`
}

func serverStatistics(w http.ResponseWriter, r *http.Request) {
	sessions, words := registryLoad()
	bytes, err := json.Marshal(&ServerStatistics{
		Sessions:   sessions,
		TotalWords: words,
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "failed to gather stats")
		return
	}

	_, _ = w.Write(bytes)
}

//////////////////////////////////////////////////////////////
func init() {
	REGISTRY = session.NewRegistry()
	rand.Seed(time.Now().UnixNano())

	GLOBAL_CURRENT_REAP_STATE = &doReap{state: WillNotReap}
}

func Default(w http.ResponseWriter, r *http.Request) {

	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "ok")
}

func Index(w http.ResponseWriter, r *http.Request) {
	index := `<html>
   <head>
      <script type = "text/javascript">
			let sessionId = null;

			function esc(s) {
				return String(s).replace(/&/g, "&amp;").replace(/</g, "&lt;").replace(/>/g, "&gt;");
			}

			function newSession() {
				fetch('/api/session', {method: 'POST'})
				.then(response => response.json())
				.then(data => {
					sessionId = data["uuid"];
					document.getElementById("session").innerHTML = esc(sessionId);
					refresh();
				});
			}

			function setReport(data) {
				document.getElementById("report").innerHTML = esc(JSON.stringify(data));
				refresh();
			}

			function wordCall(method) {
				let word = document.getElementById("word").value;
				if (sessionId == null || word == "") { return; }
				fetch('/api/session/' + sessionId + '/word', {
					method: method,
					body: JSON.stringify({"word": word})
				})
				.then(response => response.json())
				.then(setReport);
			}

			function insertWord() { wordCall('PUT'); }
			function deleteWord() { wordCall('DELETE'); }

			function searchWord() {
				let word = document.getElementById("word").value;
				if (sessionId == null || word == "") { return; }
				fetch('/api/session/' + sessionId + '/word?word=' + encodeURIComponent(word))
				.then(response => response.json())
				.then(setReport);
			}

			function resetSession() {
				if (sessionId == null) { return; }
				fetch('/api/session/' + sessionId + '/reset', {method: 'POST'})
				.then(response => response.json())
				.then(data => { refresh(); });
			}

			function refresh() {
				if (sessionId == null) { return; }
				fetch('/api/session/' + sessionId + '/tree')
				.then(response => response.json())
				.then(drawTree);
				fetch('/api/session/' + sessionId + '/statistics')
				.then(response => response.json())
				.then(data => {
					document.getElementById("stats").innerHTML = esc(JSON.stringify(data, null, 4));
				});
				fetch('/api/session/' + sessionId + '/history?n=15')
				.then(response => response.json())
				.then(setHistoryDiv);
			}

			function setHistoryDiv(data) {
				let lines = [];
				for (let op of data["items"]) {
					lines.push(op["kind"] + " " + esc(op["word"]) + " : " + op["outcome"]);
				}
				document.getElementById("history").innerHTML = lines.join("\n");
			}

			// post-order walk: leaves claim columns left to right,
			// parents sit centered over their children.
			function place(node, nodes, edges, nextLeaf) {
				let children = node["children"] || [];
				let y = node["depth"] * 70 + 40;
				let childPoints = [];
				for (let c of children) {
					childPoints.push(place(c, nodes, edges, nextLeaf));
				}
				let x;
				if (childPoints.length == 0) {
					x = nextLeaf.col * 60 + 40;
					nextLeaf.col++;
				} else {
					x = (childPoints[0].x + childPoints[childPoints.length - 1].x) / 2;
				}
				for (let p of childPoints) {
					edges.push({x1: x, y1: y, x2: p.x, y2: p.y});
				}
				nodes.push({
					x: x,
					y: y,
					depth: node["depth"],
					end: node["is_end_of_word"],
					freq: node["frequency"],
					label: node["depth"] == 0 ? "*" : node["value"]
				});
				return {x: x, y: y};
			}

			function drawTree(data) {
				let nodes = [];
				let edges = [];
				let nextLeaf = {col: 0};
				place(data["tree"], nodes, edges, nextLeaf);

				let deepest = 0;
				for (let n of nodes) {
					if (n.depth > deepest) { deepest = n.depth; }
				}
				let width = Math.max(400, nextLeaf.col * 60 + 40);
				let height = deepest * 70 + 90;

				let parts = [];
				parts.push('<svg width="' + width + '" height="' + height + '">');
				for (let e of edges) {
					parts.push('<line x1="' + e.x1 + '" y1="' + e.y1 +
						'" x2="' + e.x2 + '" y2="' + e.y2 + '" stroke="#999" />');
				}
				for (let n of nodes) {
					let hue = (n.depth * 37) - 360 * Math.floor(n.depth * 37 / 360);
					let fill = 'hsl(' + hue + ', 70%, ' + (n.end ? '50%' : '82%') + ')';
					let radius = Math.max(9, 16 - n.depth) + (n.end ? 3 : 0);
					parts.push('<circle cx="' + n.x + '" cy="' + n.y + '" r="' + radius +
						'" fill="' + fill + '" stroke="#333" stroke-width="' + (n.end ? 2.5 : 1) + '" />');
					parts.push('<text x="' + n.x + '" y="' + (n.y + 4) +
						'" text-anchor="middle" font-size="13">' + esc(n.label) + '</text>');
					if (n.freq > 0) {
						parts.push('<text x="' + (n.x + radius + 2) + '" y="' + (n.y - radius + 2) +
							'" font-size="10" fill="#555">' + n.freq + '</text>');
					}
				}
				parts.push('</svg>');
				document.getElementById("tree").innerHTML = parts.join("");
				document.getElementById("count").innerHTML = data["word_count"];
			}
      </script>
   </head>

   <body>
<h1> trieviz</h1>
      <input type = "button" onclick = "newSession()" value = "NewSession" />
      session: <span id="session">none</span>

<hr>
      <input type = "text" id = "word" />
      <input type = "button" onclick = "insertWord()" value = "Insert" />
      <input type = "button" onclick = "searchWord()" value = "Search" />
      <input type = "button" onclick = "deleteWord()" value = "Delete" />
      <input type = "button" onclick = "resetSession()" value = "Reset" />
      <div id="report"></div>

<hr>
      words: <span id="count">0</span>
      <div id="tree"></div>

<hr>
      <pre><div id="stats"></div></pre>
      <pre><div id="history"></div></pre>

   </body>
</html>`
	fmt.Fprint(w, index)

	w.WriteHeader(http.StatusOK)
}

func Wut(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, "nothing routed at this path")
}

func loggerHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

func newRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", Index)
	r.HandleFunc("/healthz", Default)

	r.HandleFunc("/api/session", createSession).Methods("POST")
	r.HandleFunc("/api/sessions", listSessions).Methods("GET")
	r.HandleFunc("/api/session/{id}", dropSession).Methods("DELETE")

	r.HandleFunc("/api/session/{id}/word", insertWord).Methods("PUT")
	r.HandleFunc("/api/session/{id}/word", searchWord).Methods("GET")
	r.HandleFunc("/api/session/{id}/word", deleteWord).Methods("DELETE")

	r.HandleFunc("/api/session/{id}/tree", exportTree).Methods("GET")
	r.HandleFunc("/api/session/{id}/statistics", sessionStatistics).Methods("GET")
	r.HandleFunc("/api/session/{id}/history", sessionHistory).Methods("GET")
	r.HandleFunc("/api/session/{id}/reset", resetSession).Methods("POST")

	r.HandleFunc("/api/statistics", serverStatistics).Methods("GET")

	r.HandleFunc("/api/sessions/reap", reapSessions).Methods("POST")
	r.HandleFunc("/api/sessions/reap/auto", autoReapEnable).Methods("PUT")
	r.HandleFunc("/api/sessions/reap/auto", autoReapDisable).Methods("DELETE")

	r.NotFoundHandler = http.HandlerFunc(Wut)
	return r
}

//////////////////////////////////////////////////////////////
func main() {
	parser := argparse.NewParser("trieviz-server", "runs the trieviz server")

	host := parser.String("i", "ip", &argparse.Options{Required: false, Help: "ip to bind to", Default: "0.0.0.0"})
	port := parser.String("p", "port", &argparse.Options{Required: false, Help: "port to bind to", Default: "1337"})
	seedfile := parser.String("q", "seed", &argparse.Options{Required: false, Help: "json file of words loaded into every new session"})
	ttl := parser.Int("t", "session-ttl", &argparse.Options{Required: false, Help: "minutes a session may idle before the reaper takes it", Default: 30})
	reap := parser.Flag("r", "reap", &argparse.Options{Required: false, Help: "start with the session reaper on"})
	verbose := parser.Flag("v", "verbose", &argparse.Options{Required: false, Help: "debug logging"})
	// Parse input
	err := parser.Parse(os.Args)
	if err != nil {
		// In case of error print error and print usage
		// This can also be done by passing -h or --help flags
		fmt.Print(parser.Usage(err))
		return
	}

	if *verbose {
		log.SetDebug()
	}
	SESSION_TTL = time.Minute * time.Duration(*ttl)
	if *reap {
		GLOBAL_CURRENT_REAP_STATE.EnableReaping()
	}

	log.Printf("Good morning. I am listening on %s:%s", *host, *port)

	r := newRouter()
	errorChain := alice.New(loggerHandler)

	if *seedfile != "" {
		fastSeed(seedfile)
	}

	go reaperDaemon()
	go heartbeatDaemon()

	srv := &http.Server{
		Handler:      errorChain.Then(r),
		Addr:         fmt.Sprintf("%s:%s", *host, *port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	log.Fatal("server failure", zap.Error(srv.ListenAndServe()))
}

func reaperDaemon() {
	// time before we startup...
	time.Sleep(time.Second * 1)
	// never ending loop
	for {
		// [20, 80)
		sleepTime := 20 + time.Duration(rand.Intn(60))
		if GLOBAL_CURRENT_REAP_STATE.IsReaping() {
			reaped := REGISTRY.Reap(SESSION_TTL)
			if reaped > 0 {
				log.Printf("autoreaper dropped %d idle sessions", reaped)
			}
			log.Printf(" autoreaper sleeping %d seconds", sleepTime)
		}

		d := time.Second * sleepTime
		time.Sleep(d)
	}
}

const PULSE = time.Second * 60

func heartbeatDaemon() {
	// time before we startup...
	time.Sleep(time.Second * 1)
	log.Info("heartbeat...", zap.Duration("time between beats", PULSE))
	// never ending loop
	for {
		sessions, words := registryLoad()
		log.Info("statistics...", zap.Int("sessions", sessions), zap.Int("total words", words))
		time.Sleep(PULSE)
	}
}
