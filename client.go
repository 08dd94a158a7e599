package main

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufSize    = 256
	// The shell samples movement every 10ms, so allow some headroom.
	maxMessagesPerSec = 150
	maxNameLen        = 16
)

// Client is one WebSocket connection.
type Client struct {
	hub        *Hub
	sess       *Session
	conn       *websocket.Conn
	send       chan []byte
	id         string
	remoteAddr string
	codec      Codec
	msgCount   int
	msgResetAt time.Time
}

// NewClient assigns a fresh connection id and prepares the send buffer.
func NewClient(hub *Hub, sess *Session, conn *websocket.Conn, remoteAddr string, codec Codec) *Client {
	return &Client{
		hub:        hub,
		sess:       sess,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		id:         uuid.New().String(),
		remoteAddr: remoteAddr,
		codec:      codec,
	}
}

// ReadPump reads messages from the WebSocket connection until it drops,
// then removes the player from the session.
func (c *Client) ReadPump() {
	defer func() {
		c.sess.Leave(c.id)
		c.hub.TrackDisconnect(c.remoteAddr)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes queued frames and keepalive pings. The frame type
// follows the negotiated codec.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	frameType := websocket.TextMessage
	if c.codec.Binary() {
		frameType = websocket.BinaryMessage
	}

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(frameType, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendEnvelope encodes env with the client's codec and queues it.
// A slow client loses messages rather than stalling the session loop.
func (c *Client) SendEnvelope(env Envelope) {
	data, err := c.codec.Encode(env)
	if err != nil {
		log.Printf("encode error: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// handleMessage routes one inbound envelope. Malformed payloads are
// dropped; the connection keeps running.
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error from %s: %v", c.remoteAddr, err)
		return
	}

	switch env.T {
	case EvtPlayerMovement:
		var m MoveMsg
		if err := json.Unmarshal(env.D, &m); err != nil {
			return
		}
		c.sess.Move(c.id, m)

	case EvtPlayerNameSet:
		name, ok := decodeString(env.D)
		if !ok {
			return
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if len(name) > maxNameLen {
			name = name[:maxNameLen]
		}
		c.sess.SetName(c.id, name)

	case EvtSubmitScore:
		score, ok := decodeInt(env.D)
		if !ok || score < 0 {
			return
		}
		c.sess.SubmitScore(c.id, score)
	}
}
