package main

import (
	"flag"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg := LoadConfig()
	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	clientDir := flag.String("client", cfg.ClientDir, "Path to the rendering shell assets")
	dbPath := flag.String("db", cfg.DBPath, "Path to the telemetry database (empty disables)")
	flag.Parse()

	var db *DB
	if *dbPath != "" {
		var err error
		db, err = OpenDB(*dbPath)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer db.Close()
	}
	telemetry := NewTelemetry(db)

	course := NewCourse(ObstacleHorizon, rand.New(rand.NewSource(time.Now().UnixNano())))
	sess := NewSession(course, telemetry)
	go sess.Run()

	hub := NewHub()
	handler := SetupRoutes(hub, sess, telemetry, *clientDir)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: handler}

	go func() {
		log.Printf("Server starting on %s", *addr)
		log.Printf("Serving client files from %s", *clientDir)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	server.Close()
	sess.Stop()
	telemetry.Stop()
}
