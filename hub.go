package main

import "sync"

const (
	maxConnsPerIP = 8
	maxTotalConns = 1000
)

// Hub enforces connection limits before a socket ever reaches the
// session. Mutex-protected because it is hit from HTTP handler
// goroutines.
type Hub struct {
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{ipConns: make(map[string]int)}
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// TotalConns returns the tracked connection count.
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
