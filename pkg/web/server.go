// Package web serves the HTTP front door: REST endpoints over the
// operation catalogue and a WebSocket stream of execution events.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/addhe/infrabot-nlp/internal/config"
	"github.com/addhe/infrabot-nlp/internal/logging"
	"github.com/addhe/infrabot-nlp/pkg/confirm"
	"github.com/addhe/infrabot-nlp/pkg/tools"
	"github.com/addhe/infrabot-nlp/pkg/types"
)

// DispatchRequest is the body of POST /api/dispatch. Confirmations
// pre-answers the confirmation gate in order; destructive operations
// without enough answers are denied, never silently approved.
type DispatchRequest struct {
	Operation     string                 `json:"operation"`
	Params        map[string]interface{} `json:"params"`
	Confirmations []bool                 `json:"confirmations"`
}

// Event is one entry on the WebSocket execution stream.
type Event struct {
	Type      string        `json:"type"`
	Operation string        `json:"operation,omitempty"`
	Result    *types.Result `json:"result,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

type wsConnection struct {
	conn     *websocket.Conn
	lastPong time.Time
}

// WebServer exposes the operation catalogue over HTTP
type WebServer struct {
	router    *mux.Router
	opsRouter *tools.Router
	cfg       *config.Config
	logger    *logging.Logger
	upgrader  websocket.Upgrader

	connections map[string]*wsConnection
	connMutex   sync.RWMutex
}

func NewWebServer(cfg *config.Config, opsRouter *tools.Router, logger *logging.Logger) *WebServer {
	ws := &WebServer{
		router:      mux.NewRouter(),
		opsRouter:   opsRouter,
		cfg:         cfg,
		logger:      logger,
		connections: make(map[string]*wsConnection),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in development
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	ws.setupRoutes()
	return ws
}

// Start runs the HTTP server until the context is cancelled.
func (ws *WebServer) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", ws.cfg.Web.Host, ws.cfg.GetWebPort())
	srv := &http.Server{
		Addr:         addr,
		Handler:      ws.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	ws.logger.WithField("addr", addr).Info("Starting web server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Handler exposes the mux for tests.
func (ws *WebServer) Handler() http.Handler { return ws.router }

func (ws *WebServer) setupRoutes() {
	api := ws.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", ws.healthHandler).Methods("GET")
	api.HandleFunc("/operations", ws.operationsHandler).Methods("GET")
	api.HandleFunc("/dispatch", ws.dispatchHandler).Methods("POST")

	if ws.cfg.Web.EnableWebSockets {
		ws.router.HandleFunc("/ws", ws.websocketHandler)
	}
}

func (ws *WebServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": ws.cfg.MCP.ServerName,
	})
}

// operationsHandler serves the operation catalogue.
func (ws *WebServer) operationsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"operations": ws.opsRouter.Operations(),
	})
}

// dispatchHandler validates and executes one catalogue operation. The
// HTTP status tracks the error kind so API clients can branch without
// parsing messages.
func (ws *WebServer) dispatchHandler(w http.ResponseWriter, r *http.Request) {
	var req DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, types.Fail(types.ErrInvalidArgument,
			fmt.Sprintf("invalid request body: %v", err), ""))
		return
	}
	if req.Params == nil {
		req.Params = map[string]interface{}{}
	}

	gate := confirm.NewScriptedGate(req.Confirmations...)
	res := ws.opsRouter.DispatchWith(r.Context(), gate, req.Operation, req.Params)

	ws.broadcast(Event{
		Type:      "dispatch",
		Operation: req.Operation,
		Result:    res,
		Timestamp: time.Now(),
	})

	writeJSON(w, statusForResult(res), res)
}

func statusForResult(res *types.Result) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.FirstError().Code {
	case types.ErrInvalidArgument:
		return http.StatusBadRequest
	case types.ErrPermissionDenied:
		return http.StatusForbidden
	case types.ErrResourceNotFound:
		return http.StatusNotFound
	case types.ErrResourceInUse:
		return http.StatusConflict
	case types.ErrQuotaExceeded:
		return http.StatusTooManyRequests
	case types.ErrTransient:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// ========== WebSocket event stream ==========

func (ws *WebServer) broadcast(event Event) {
	ws.connMutex.RLock()
	defer ws.connMutex.RUnlock()

	for connID, wsConn := range ws.connections {
		wsConn.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := wsConn.conn.WriteJSON(event); err != nil {
			ws.logger.WithError(err).WithField("conn_id", connID).Warn("Failed to send event")
		}
	}
}

func (ws *WebServer) websocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.WithError(err).Error("Failed to upgrade WebSocket")
		return
	}

	connID := fmt.Sprintf("%s-%d", r.RemoteAddr, time.Now().UnixNano())

	ws.connMutex.Lock()
	ws.connections[connID] = &wsConnection{conn: conn, lastPong: time.Now()}
	ws.connMutex.Unlock()

	ws.logger.WithField("conn_id", connID).Info("WebSocket connection established")

	defer func() {
		ws.connMutex.Lock()
		delete(ws.connections, connID)
		ws.connMutex.Unlock()
		conn.Close()
		ws.logger.WithField("conn_id", connID).Info("WebSocket connection closed")
	}()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		ws.connMutex.Lock()
		if wsConn, exists := ws.connections[connID]; exists {
			wsConn.lastPong = time.Now()
		}
		ws.connMutex.Unlock()
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	pingTicker := time.NewTicker(45 * time.Second)
	defer pingTicker.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					ws.logger.WithError(err).WithField("conn_id", connID).Error("WebSocket read error")
				}
				return
			}
		}
	}()

	for {
		select {
		case <-pingTicker.C:
			ws.connMutex.RLock()
			wsConn, exists := ws.connections[connID]
			ws.connMutex.RUnlock()
			if !exists {
				return
			}

			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			if time.Since(wsConn.lastPong) > 90*time.Second {
				ws.logger.WithField("conn_id", connID).Warn("Connection seems stale, closing")
				return
			}

		case <-done:
			return

		case <-r.Context().Done():
			return
		}
	}
}
