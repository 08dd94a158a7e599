package main

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SetupRoutes configures the HTTP surface: the WebSocket endpoint, the
// read-only REST API and the static rendering shell.
func SetupRoutes(hub *Hub, sess *Session, telemetry *Telemetry, clientDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// WebSocket endpoint
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		serveWS(hub, sess, w, req)
	})

	// Read-only REST API, open to any origin for score widgets etc.
	api := chi.NewRouter()
	api.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
	}))
	api.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})
	api.Get("/highscores", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, sess.Highscores())
	})
	api.Get("/obstacles", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, sess.CourseOffsets())
	})
	api.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
		counts, err := telemetry.EventCounts(7)
		if err != nil {
			log.Printf("stats query error: %v", err)
		}
		writeJSON(w, map[string]interface{}{
			"online": sess.PeersOnline(),
			"events": counts,
		})
	})
	r.Mount("/api", api)

	// Serve the shell with no-cache so browsers always revalidate
	fs := http.FileServer(http.Dir(clientDir))
	r.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		if req.URL.Path == "/" {
			http.ServeFile(w, req, filepath.Join(clientDir, "index.html"))
			return
		}
		fs.ServeHTTP(w, req)
	}))

	return r
}

func serveWS(hub *Hub, sess *Session, w http.ResponseWriter, r *http.Request) {
	ip := extractIP(r)
	if !hub.CanAccept(ip) {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade error: %v", err)
		return
	}

	hub.TrackConnect(ip)

	codec := CodecByName(r.URL.Query().Get("codec"))
	client := NewClient(hub, sess, conn, ip, codec)

	go client.WritePump()
	// Admission is queued before the read pump starts, so no sample from
	// this connection can reach the session loop ahead of it.
	sess.Join(client.id, client)
	go client.ReadPump()
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json: %v", err)
	}
}
