// Copyright 2025 The ethergo Authors
// This file is part of the ethergo library.
//
// The ethergo library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ethergo library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ethergo library. If not, see <http://www.gnu.org/licenses/>.

package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// echoServer answers every request with its params, and method "fail" with
// a JSON-RPC error.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := readBody(r)
		w.Header().Set("Content-Type", contentType)
		if body[0] == '[' {
			var reqs []jsonrpcMessage
			if err := json.Unmarshal(body, &reqs); err != nil {
				t.Errorf("bad batch request: %v", err)
			}
			resps := make([]*jsonrpcMessage, 0, len(reqs))
			for i := range reqs {
				resps = append(resps, echoResponse(&reqs[i]))
			}
			json.NewEncoder(w).Encode(resps)
			return
		}
		var req jsonrpcMessage
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("bad request: %v", err)
		}
		json.NewEncoder(w).Encode(echoResponse(&req))
	}))
}

func echoResponse(req *jsonrpcMessage) *jsonrpcMessage {
	resp := &jsonrpcMessage{Version: vsn, ID: req.ID}
	switch req.Method {
	case "fail":
		resp.Error = &jsonError{Code: -32000, Message: "test failure"}
	case "null":
		resp.Result = json.RawMessage("null")
	default:
		resp.Result = req.Params
	}
	return resp
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

func TestClientCall(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()
	client, err := Dial(srv.URL)
	require.NoError(t, err)
	defer client.Close()

	var result []string
	err = client.Call(&result, "echo", "hello", "world")
	require.NoError(t, err)
	require.Equal(t, []string{"hello", "world"}, result)
}

func TestClientCallError(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()
	client, err := Dial(srv.URL)
	require.NoError(t, err)
	defer client.Close()

	err = client.Call(nil, "fail")
	require.Error(t, err)
	rpcErr, ok := err.(Error)
	require.True(t, ok, "error should implement rpc.Error")
	require.Equal(t, -32000, rpcErr.ErrorCode())
	require.Equal(t, "test failure", rpcErr.Error())
}

func TestClientNullResult(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()
	client, err := Dial(srv.URL)
	require.NoError(t, err)
	defer client.Close()

	// a "null" result passes through, leaving pointer results nil
	result := new(string)
	ptr := &result
	err = client.Call(ptr, "null")
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestClientNonPointerResult(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()
	client, err := Dial(srv.URL)
	require.NoError(t, err)
	defer client.Close()

	err = client.Call("not a pointer", "echo")
	require.Error(t, err)
}

func TestClientBatchCall(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()
	client, err := Dial(srv.URL)
	require.NoError(t, err)
	defer client.Close()

	var first []int
	var second string
	batch := []BatchElem{
		{Method: "echo", Args: []interface{}{1, 2}, Result: &first},
		{Method: "fail", Result: &second},
		{Method: "echo", Args: []interface{}{"x"}, Result: new([]string)},
	}
	err = client.BatchCall(batch)
	require.NoError(t, err)
	require.NoError(t, batch[0].Error)
	require.Equal(t, []int{1, 2}, first)
	require.Error(t, batch[1].Error)
	require.NoError(t, batch[2].Error)
}

func TestClientHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "teapot", http.StatusTeapot)
	}))
	defer srv.Close()
	client, err := Dial(srv.URL)
	require.NoError(t, err)
	defer client.Close()

	err = client.Call(nil, "echo")
	var httpErr HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusTeapot, httpErr.StatusCode)
	require.Contains(t, string(httpErr.Body), "teapot")
}

func TestClientSetHeader(t *testing.T) {
	var gotHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("x-token") == "sekrit"
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":true}`))
	}))
	defer srv.Close()

	client, err := DialOptions(context.Background(), srv.URL, WithHeader("x-token", "sekrit"))
	require.NoError(t, err)
	defer client.Close()

	var result bool
	require.NoError(t, client.Call(&result, "echo"))
	require.True(t, gotHeader)
}

func TestClientSubscribeUnsupported(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()
	client, err := Dial(srv.URL)
	require.NoError(t, err)
	defer client.Close()

	require.False(t, client.SupportsSubscriptions())
	ch := make(chan json.RawMessage)
	_, err = client.EthSubscribe(context.Background(), ch, "newHeads")
	require.ErrorIs(t, err, ErrNotificationsUnsupported)
}

var upgrader = websocket.Upgrader{}

// wsNotifyServer upgrades the connection, answers one eth_subscribe call and
// then pushes count notifications for the granted subscription.
func wsNotifyServer(t *testing.T, count int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		var req jsonrpcMessage
		if err := conn.ReadJSON(&req); err != nil {
			t.Errorf("read failed: %v", err)
			return
		}
		conn.WriteJSON(&jsonrpcMessage{Version: vsn, ID: req.ID, Result: json.RawMessage(`"0xsub1"`)})
		for i := 0; i < count; i++ {
			notif := map[string]interface{}{
				"jsonrpc": vsn,
				"method":  "eth_subscription",
				"params": map[string]interface{}{
					"subscription": "0xsub1",
					"result":       i,
				},
			}
			if err := conn.WriteJSON(notif); err != nil {
				return
			}
		}
		// hold the connection open until the client disconnects
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func TestClientSubscription(t *testing.T) {
	srv := wsNotifyServer(t, 3)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	client, err := Dial(wsURL)
	require.NoError(t, err)
	defer client.Close()
	require.True(t, client.SupportsSubscriptions())

	ch := make(chan int, 8)
	sub, err := client.EthSubscribe(context.Background(), ch, "newHeads")
	require.NoError(t, err)
	defer sub.Unsubscribe()

	for i := 0; i < 3; i++ {
		select {
		case v := <-ch:
			require.Equal(t, i, v)
		case err := <-sub.Err():
			t.Fatalf("subscription error: %v", err)
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for notification")
		}
	}
}

// TestClientSubscriptionCancelledContext checks that subscribing with an
// already-expiring context is safe even when the server's response races
// with the cancellation. Run with -race.
func TestClientSubscriptionCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		subCount := 0
		for {
			var req jsonrpcMessage
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			if strings.HasSuffix(req.Method, "_unsubscribe") {
				continue
			}
			subCount++
			subid := json.RawMessage(fmt.Sprintf(`"0xsub%d"`, subCount))
			conn.WriteJSON(&jsonrpcMessage{Version: vsn, ID: req.ID, Result: subid})
		}
	}))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	client, err := Dial(wsURL)
	require.NoError(t, err)
	defer client.Close()

	for i := 0; i < 200; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(i%7)*time.Microsecond)
		ch := make(chan int, 1)
		sub, err := client.EthSubscribe(ctx, ch, "newHeads")
		cancel()
		if err == nil {
			sub.Unsubscribe()
		}
	}
}

func TestClientSubscriptionClose(t *testing.T) {
	srv := wsNotifyServer(t, 0)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	client, err := Dial(wsURL)
	require.NoError(t, err)

	ch := make(chan int)
	sub, err := client.EthSubscribe(context.Background(), ch, "newHeads")
	require.NoError(t, err)

	client.Close()
	select {
	case err := <-sub.Err():
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for subscription teardown")
	}
}
