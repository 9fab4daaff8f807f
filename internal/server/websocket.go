package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsReadLimit    = 512 * 1024
	wsPongWait     = 60 * time.Second
	wsPingInterval = 54 * time.Second
	wsWriteWait    = 10 * time.Second
	wsSendBuffer   = 256
)

// wsCommand is one client message. Method parameters sit at the top
// level next to the command: {"id": 1, "command": "quote", "vault": "multi"}.
type wsCommand struct {
	ID      json.RawMessage `json:"id,omitempty"`
	Command string          `json:"command"`
	Params
}

type wsConn struct {
	conn   *websocket.Conn
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &wsConn{
		conn:   conn,
		send:   make(chan []byte, wsSendBuffer),
		ctx:    ctx,
		cancel: cancel,
	}
	s.logger.Debug("websocket connected", "remote", conn.RemoteAddr().String())

	go s.writeLoop(c)
	s.readLoop(c)
}

func (s *Server) closeConn(c *wsConn) {
	c.once.Do(func() {
		c.cancel()
		c.conn.Close()
		s.logger.Debug("websocket closed", "remote", c.conn.RemoteAddr().String())
	})
}

func (s *Server) readLoop(c *wsConn) {
	defer s.closeConn(c)

	c.conn.SetReadLimit(wsReadLimit)
	c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "err", err)
			}
			return
		}
		s.handleMessage(c, message)
	}
}

// writeLoop owns every write on the connection, pings included.
func (s *Server) writeLoop(c *wsConn) {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		s.closeConn(c)
	}()

	for {
		select {
		case <-c.ctx.Done():
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.Warn("websocket send failed", "err", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleMessage(c *wsConn, message []byte) {
	var cmd wsCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.sendWS(c, nil, nil, invalidParams("invalid JSON: "+err.Error()))
		return
	}
	if cmd.Command == "" {
		s.sendWS(c, cmd.ID, nil, invalidParams("missing command"))
		return
	}

	result, rpcErr := s.call(c.ctx, transportWS, cmd.Command, cmd.Params)
	s.sendWS(c, cmd.ID, result, rpcErr)
}

// sendWS queues a response. A client that stops reading is disconnected
// once its buffer fills.
func (s *Server) sendWS(c *wsConn, id json.RawMessage, result any, rpcErr *RPCError) {
	var resp map[string]any
	if rpcErr != nil {
		resp = errorBody(rpcErr)
	} else {
		resp = map[string]any{"status": "success", "result": result}
	}
	resp["type"] = "response"
	if len(id) > 0 {
		resp["id"] = id
	}

	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to marshal websocket response", "err", err)
		return
	}

	select {
	case c.send <- data:
	case <-c.ctx.Done():
	default:
		s.logger.Warn("websocket send buffer full, closing connection")
		s.closeConn(c)
	}
}
