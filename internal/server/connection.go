package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	id        string
	conn      *websocket.Conn
	send      chan *Message
	playerID  string
	roomID    string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	gateway   *Gateway
}

// NewConnection creates a new connection wrapper
func NewConnection(id string, conn *websocket.Conn, logger *log.Logger, gateway *Gateway) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		id:      id,
		conn:    conn,
		send:    make(chan *Message, 256),
		logger:  logger.WithPrefix("conn").With("conn", id),
		ctx:     ctx,
		cancel:  cancel,
		gateway: gateway,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for delivery to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed during shutdown.
			c.logger.Debug("send on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetSession binds the connection to a player in a room
func (c *Connection) SetSession(roomID, playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
	c.playerID = playerID
}

// ClearSession detaches the connection from its room
func (c *Connection) ClearSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = ""
	c.playerID = ""
}

// Session returns the bound room and player ids
func (c *Connection) Session() (roomID, playerID string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID, c.playerID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() {
		c.gateway.ConnectionClosed(c)
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypeCreateRoom:
		var data CreateRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("INVALID_MESSAGE", "failed to parse create room data")
			return
		}
		c.gateway.HandleCreateRoom(c, data)

	case MessageTypeJoinRoom:
		var data JoinRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("INVALID_MESSAGE", "failed to parse join room data")
			return
		}
		c.gateway.HandleJoinRoom(c, data)

	case MessageTypeLeaveRoom:
		c.gateway.HandleLeaveRoom(c)

	case MessageTypeListRooms:
		c.gateway.HandleListRooms(c)

	case MessageTypeSitDown:
		var data SitDownData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("INVALID_MESSAGE", "failed to parse sit down data")
			return
		}
		c.gateway.HandleSitDown(c, data)

	case MessageTypeStandUp:
		c.gateway.HandleStandUp(c)

	case MessageTypePlayerReady:
		c.gateway.HandlePlayerReady(c)

	case MessageTypeStartGame:
		c.gateway.HandleStartGame(c)

	case MessageTypePlayerAction:
		var data PlayerActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("INVALID_MESSAGE", "failed to parse player action data")
			return
		}
		c.gateway.HandlePlayerAction(c, data, msg.RequestID)

	case MessageTypeKickPlayer:
		var data KickPlayerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("INVALID_MESSAGE", "failed to parse kick player data")
			return
		}
		c.gateway.HandleKickPlayer(c, data)

	case MessageTypeReconnect:
		var data ReconnectData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("INVALID_MESSAGE", "failed to parse reconnect data")
			return
		}
		c.gateway.HandleReconnect(c, data)

	default:
		c.sendError("UNKNOWN_MESSAGE_TYPE", "unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	c.sendErrorData(ErrorData{Code: code, Message: message})
}

func (c *Connection) sendErrorData(data ErrorData) {
	errorMsg, err := NewMessage(MessageTypeError, data)
	if err != nil {
		c.logger.Error("failed to create error message", "error", err)
		return
	}
	_ = c.SendMessage(errorMsg)
}
