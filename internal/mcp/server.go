package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"inventario-mcp/internal/inventario/service"
)

// Server speaks JSON-RPC over a WebSocket session. Each connection is
// handled by one goroutine that reads, dispatches and writes one message
// at a time, so there are never overlapping in-flight requests on a single
// session. Connections share the engine; the tables' snapshot swap makes
// that safe without further locking.
type Server struct {
	engine   *service.Engine
	wire     *WireLog
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewServer(engine *service.Engine, wire *WireLog, log zerolog.Logger) *Server {
	return &Server{
		engine: engine,
		wire:   wire,
		log:    log,
		upgrader: websocket.Upgrader{
			Subprotocols: []string{"jsonrpc"},
			// origin policy is handled by the HTTP layer
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler upgrades the request and runs the session loop until the peer
// goes away. A bad frame produces an error response, never a hangup.
func (s *Server) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		session := uuid.NewString()
		log := s.log.With().Str("session", session).Logger()
		log.Info().Str("remote", conn.RemoteAddr().String()).Msg("session opened")
		defer func() {
			_ = conn.Close()
			log.Info().Msg("session closed")
		}()

		for {
			mt, raw, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Warn().Err(err).Msg("session read error")
				}
				return
			}
			if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
				continue
			}
			s.wire.Write(session, "request", raw)

			resp := s.handle(raw, log)
			out, err := json.Marshal(resp)
			if err != nil {
				log.Error().Err(err).Msg("marshal response")
				continue
			}
			s.wire.Write(session, "response", out)
			if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
				log.Warn().Err(err).Msg("session write error")
				return
			}
		}
	}
}

// handle turns one inbound frame into exactly one response. Panics from
// dispatch are reported as internal errors so a bad lookup can never take
// the session down.
func (s *Server) handle(raw []byte, log zerolog.Logger) (resp *Response) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return &Response{JSONRPC: "2.0", Error: &RPCError{Code: CodeParseError, Message: "Parse error"}}
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Bytes("stack", debug.Stack()).Msg("dispatch panic")
			resp = &Response{
				JSONRPC: "2.0",
				ID:      req.ID,
				Error:   &RPCError{Code: CodeInternal, Message: fmt.Sprint(rec)},
			}
		}
	}()

	return s.dispatch(&req, log)
}

func (s *Server) dispatch(req *Request, log zerolog.Logger) *Response {
	resp := &Response{JSONRPC: "2.0", ID: req.ID}

	switch req.Method {
	case "initialize":
		resp.Result = InitializeResult{
			Protocol:     Protocol,
			Capabilities: Capabilities{Tools: true},
			Tools:        Tools(),
		}
	case "tools/list":
		resp.Result = ToolsListResult{Tools: Tools()}
	case "tools/call":
		s.callTool(req, resp, log)
	default:
		resp.Error = &RPCError{Code: CodeMethodNotFound, Message: "Method not found"}
	}
	return resp
}

func (s *Server) callTool(req *Request, resp *Response, log zerolog.Logger) {
	var p ToolCallParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &p); err != nil {
			resp.Error = &RPCError{Code: CodeInvalidParams, Message: "Invalid params: " + err.Error()}
			return
		}
	}

	switch p.Name {
	case "find_stores_by_zone":
		var args struct {
			Zone string `json:"zone"`
		}
		if !decodeArgs(p.Arguments, &args, resp) {
			return
		}
		if strings.TrimSpace(args.Zone) == "" {
			resp.Error = &RPCError{Code: CodeInvalidParams, Message: "Invalid params: zone is required"}
			return
		}
		stores := s.engine.FindStoresByZone(args.Zone)
		log.Info().Str("tool", p.Name).Str("zone", args.Zone).Int("stores", len(stores)).Msg("tool call")
		resp.Result = stores

	case "recommend_complements":
		var args struct {
			ProductName string `json:"product_name"`
			Zone        string `json:"zone"`
		}
		if !decodeArgs(p.Arguments, &args, resp) {
			return
		}
		if strings.TrimSpace(args.ProductName) == "" {
			resp.Error = &RPCError{Code: CodeInvalidParams, Message: "Invalid params: product_name is required"}
			return
		}
		rec := s.engine.RecommendComplements(args.ProductName, args.Zone)
		log.Info().Str("tool", p.Name).Str("product", args.ProductName).Str("zone", args.Zone).
			Int("disponibilidad", len(rec.Disponibilidad)).Int("sugeridos", len(rec.Sugeridos)).Msg("tool call")
		resp.Result = rec

	default:
		resp.Error = &RPCError{Code: CodeMethodNotFound, Message: "Method not found"}
	}
}

func decodeArgs(raw json.RawMessage, dst any, resp *Response) bool {
	if len(raw) == 0 {
		return true
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		resp.Error = &RPCError{Code: CodeInvalidParams, Message: "Invalid params: " + err.Error()}
		return false
	}
	return true
}
