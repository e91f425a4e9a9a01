package status

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/mosaicview/viewer/internal/session"
)

//go:embed index.html
var indexHTML []byte

// Server exposes the viewer's session state: a websocket feed at /ws, a
// JSON snapshot at /api/sessions, process self-stats at /api/stats, and
// a minimal HTML page at /.
type Server struct {
	table       *session.Table
	broadcaster *Broadcaster
	startedAt   time.Time
}

func NewServer(table *session.Table, broadcaster *Broadcaster) *Server {
	return &Server{
		table:       table,
		broadcaster: broadcaster,
		startedAt:   time.Now(),
	}
}

func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/sessions", s.handleSessions)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/", s.handleIndex)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("status ws upgrade error: %v", err)
		return
	}

	c := s.broadcaster.AddClient(conn)
	go func() {
		defer s.broadcaster.RemoveClient(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.table.Views())
}

// Stats is the /api/stats payload.
type Stats struct {
	UptimeSeconds float64 `json:"uptimeSeconds"`
	Sessions      int     `json:"sessions"`
	Active        int     `json:"active"`
	Pending       int     `json:"pending"`
	Frames        uint64  `json:"frames"`
	Bytes         uint64  `json:"bytes"`
	Observers     int     `json:"observers"`
	CPUPercent    float64 `json:"cpuPercent"`
	RSSBytes      uint64  `json:"rssBytes"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	views := s.table.Views()
	stats := Stats{
		UptimeSeconds: time.Since(s.startedAt).Seconds(),
		Sessions:      len(views),
		Observers:     s.broadcaster.ClientCount(),
	}
	for _, v := range views {
		switch v.State {
		case session.Active:
			stats.Active++
		case session.Pending:
			stats.Pending++
		}
		stats.Frames += v.Frames
		stats.Bytes += v.Bytes
	}

	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if cpu, err := p.CPUPercent(); err == nil {
			stats.CPUPercent = cpu
		}
		if mem, err := p.MemoryInfo(); err == nil {
			stats.RSSBytes = mem.RSS
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// checkOrigin accepts same-host and localhost origins. The status
// server is a local observability surface, not an internet-facing API.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := parsed.Host
	if host == r.Host {
		return true
	}
	for _, local := range []string{"localhost", "127.0.0.1", "::1"} {
		if host == local || strings.HasPrefix(host, local+":") {
			return true
		}
	}
	return strings.HasPrefix(host, "[::1]:")
}

// ListenAndServe runs the status server. Bind failure here is fatal to
// startup, like the stream listener's.
func ListenAndServe(host string, port int, mux *http.ServeMux) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	log.Printf("Status server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
