package mcp

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventario-mcp/internal/inventario/service"
)

const testInventoryCSV = `Nombre,Calle,Ciudad,Zona,Producto,Stock,Codigo
Tienda A,Av 1,Guatemala,Zona 10,Arena Bionic,5,AB-01
Tienda B,Av 2,Guatemala,Zona 12,Arena Silice,3,AS-02
`

const testComplementsCSV = `base_nombre,base_codigo,complemento_nombre,complemento_codigo,tipo,razon
Arena Bionic,AB-01,Pala ergonomica,PA-10,accesorio,facilita la limpieza
`

type rpcReply struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

func newTestEngine(t *testing.T) *service.Engine {
	t.Helper()
	dir := t.TempDir()

	invPath := filepath.Join(dir, "inventario.csv")
	require.NoError(t, os.WriteFile(invPath, []byte(testInventoryCSV), 0o644))
	catPath := filepath.Join(dir, "complementos.csv")
	require.NoError(t, os.WriteFile(catPath, []byte(testComplementsCSV), 0o644))

	inv := service.NewIndex(invPath, zerolog.Nop())
	cat := service.NewCatalog(catPath, service.DefaultAliases(), zerolog.Nop())
	return service.NewEngine(inv, cat, service.DefaultRules(), zerolog.Nop())
}

func dialServer(t *testing.T, engine *service.Engine) *websocket.Conn {
	t.Helper()
	srv := NewServer(engine, NewWireLog(filepath.Join(t.TempDir(), "mcp_logs.jsonl")), zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	dialer := websocket.Dialer{Subprotocols: []string{"jsonrpc"}}
	conn, resp, err := dialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func newTestConn(t *testing.T) *websocket.Conn {
	t.Helper()
	return dialServer(t, newTestEngine(t))
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg string) rpcReply {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var reply rpcReply
	require.NoError(t, json.Unmarshal(raw, &reply))
	assert.Equal(t, "2.0", reply.JSONRPC)
	return reply
}

func TestInitialize(t *testing.T) {
	conn := newTestConn(t)

	reply := roundTrip(t, conn, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	require.Nil(t, reply.Error)
	assert.EqualValues(t, 1, reply.ID)

	var res InitializeResult
	require.NoError(t, json.Unmarshal(reply.Result, &res))
	assert.Equal(t, Protocol, res.Protocol)
	assert.True(t, res.Capabilities.Tools)
	require.Len(t, res.Tools, 2)
	assert.Equal(t, "find_stores_by_zone", res.Tools[0].Name)
	assert.Equal(t, "recommend_complements", res.Tools[1].Name)
}

func TestToolsList(t *testing.T) {
	conn := newTestConn(t)

	reply := roundTrip(t, conn, `{"jsonrpc":"2.0","id":"a","method":"tools/list","params":{}}`)
	require.Nil(t, reply.Error)
	assert.Equal(t, "a", reply.ID)

	var res ToolsListResult
	require.NoError(t, json.Unmarshal(reply.Result, &res))
	assert.Len(t, res.Tools, 2)
}

func TestFindStoresByZoneCall(t *testing.T) {
	conn := newTestConn(t)

	// no prior initialize: dispatch is stateless
	reply := roundTrip(t, conn,
		`{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"find_stores_by_zone","arguments":{"zone":"10"}}}`)
	require.Nil(t, reply.Error)

	var stores []map[string]any
	require.NoError(t, json.Unmarshal(reply.Result, &stores))
	require.Len(t, stores, 1)
	assert.Equal(t, "Tienda A", stores[0]["Nombre"])
	assert.Equal(t, "10", stores[0]["Zona"])
}

func TestRecommendComplementsCall(t *testing.T) {
	conn := newTestConn(t)

	reply := roundTrip(t, conn,
		`{"jsonrpc":"2.0","id":8,"method":"tools/call","params":{"name":"recommend_complements","arguments":{"product_name":"Arena Bionic"}}}`)
	require.Nil(t, reply.Error)

	var res struct {
		Disponibilidad []map[string]any `json:"disponibilidad"`
		Sugeridos      []map[string]any `json:"sugeridos"`
	}
	require.NoError(t, json.Unmarshal(reply.Result, &res))
	require.Len(t, res.Disponibilidad, 1)
	require.Len(t, res.Sugeridos, 1)
	assert.Equal(t, "Pala ergonomica", res.Sugeridos[0]["nombre"])
}

func TestErrorResponses(t *testing.T) {
	conn := newTestConn(t)

	t.Run("unknown method", func(t *testing.T) {
		reply := roundTrip(t, conn, `{"jsonrpc":"2.0","id":1,"method":"resources/list"}`)
		require.NotNil(t, reply.Error)
		assert.Equal(t, CodeMethodNotFound, reply.Error.Code)
	})

	t.Run("unknown tool", func(t *testing.T) {
		reply := roundTrip(t, conn,
			`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"no_such_tool","arguments":{}}}`)
		require.NotNil(t, reply.Error)
		assert.Equal(t, CodeMethodNotFound, reply.Error.Code)
	})

	t.Run("missing product_name", func(t *testing.T) {
		reply := roundTrip(t, conn,
			`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"recommend_complements","arguments":{}}}`)
		require.NotNil(t, reply.Error)
		assert.Equal(t, CodeInvalidParams, reply.Error.Code)
		assert.Contains(t, reply.Error.Message, "product_name")
	})

	t.Run("missing zone", func(t *testing.T) {
		reply := roundTrip(t, conn,
			`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"find_stores_by_zone","arguments":{}}}`)
		require.NotNil(t, reply.Error)
		assert.Equal(t, CodeInvalidParams, reply.Error.Code)
	})

	t.Run("parse error keeps the session open", func(t *testing.T) {
		reply := roundTrip(t, conn, `this is not json`)
		require.NotNil(t, reply.Error)
		assert.Equal(t, CodeParseError, reply.Error.Code)

		// the same connection still answers
		reply = roundTrip(t, conn, `{"jsonrpc":"2.0","id":5,"method":"tools/list"}`)
		assert.Nil(t, reply.Error)
		assert.EqualValues(t, 5, reply.ID)
	})
}

func TestInternalErrorKeepsSession(t *testing.T) {
	// a Server without an engine panics inside dispatch; the recovery
	// boundary must turn that into an internal error, echo the id, and
	// leave the session usable
	conn := dialServer(t, nil)

	reply := roundTrip(t, conn,
		`{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"find_stores_by_zone","arguments":{"zone":"10"}}}`)
	require.NotNil(t, reply.Error)
	assert.Equal(t, CodeInternal, reply.Error.Code)
	assert.NotEmpty(t, reply.Error.Message)
	assert.EqualValues(t, 9, reply.ID)

	// the same connection still answers methods that never touch the engine
	reply = roundTrip(t, conn, `{"jsonrpc":"2.0","id":10,"method":"tools/list"}`)
	assert.Nil(t, reply.Error)
	assert.EqualValues(t, 10, reply.ID)
}

func TestIDEchoedVerbatim(t *testing.T) {
	conn := newTestConn(t)

	t.Run("null id comes back as null", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"jsonrpc":"2.0","id":null,"method":"tools/list"}`)))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		var fields map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(raw, &fields))
		id, ok := fields["id"]
		require.True(t, ok, "id key must be present")
		assert.Equal(t, "null", string(id))
	})

	t.Run("unparseable frame has no id to echo", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{nope`)))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		var fields map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(raw, &fields))
		_, ok := fields["id"]
		assert.False(t, ok)
	})
}

func TestSubprotocolNegotiation(t *testing.T) {
	conn := newTestConn(t)
	assert.Equal(t, "jsonrpc", conn.Subprotocol())
}
