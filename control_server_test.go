// control_server_test.go - WebSocket control server tests

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"context"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialControl(t *testing.T, vm *VM) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(NewControlServer(vm).Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg ControlMessage) ControlReply {
	t.Helper()
	require.NoError(t, conn.WriteJSON(&msg))
	var reply ControlReply
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func TestControlServer_ParamsAndTempo(t *testing.T) {
	vm := newTestVM(t)
	conn := dialControl(t, vm)

	slew := float32(0)
	r := roundTrip(t, conn, ControlMessage{Type: "set", Name: "drive", Value: 0.7, Slew: &slew})
	assert.True(t, r.OK, r.Error)
	assert.True(t, vm.HasParam("drive"))

	r = roundTrip(t, conn, ControlMessage{Type: "bpm", Value: 132})
	assert.True(t, r.OK)
	assert.Equal(t, float32(132), r.BPM)

	r = roundTrip(t, conn, ControlMessage{Type: "rm", Name: "drive"})
	assert.True(t, r.OK)
	r = roundTrip(t, conn, ControlMessage{Type: "rm", Name: "drive"})
	assert.False(t, r.OK)
	assert.Contains(t, r.Error, "no such parameter")
}

func TestControlServer_LoadProgram(t *testing.T) {
	vm := newTestVM(t)
	loadInstructions(t, vm, constInst(1, 0.1), MakeInstruction(OP_OUTPUT, 0, 0, 1))
	conn := dialControl(t, vm)

	data, err := EncodeProgram(dcProgram("lead", 0.4))
	require.NoError(t, err)
	r := roundTrip(t, conn, ControlMessage{Type: "load", Program: data})
	require.True(t, r.OK, r.Error)

	before := vm.SwapCount()
	l, _ := renderOutput(vm, 1)
	assert.Greater(t, vm.SwapCount(), before)
	assert.Equal(t, float32(0.4), l[0])

	data[len(data)-1] ^= 1
	r = roundTrip(t, conn, ControlMessage{Type: "load", Program: data})
	assert.False(t, r.OK)
	assert.Contains(t, r.Error, "checksum")
}

func TestControlServer_BadRequests(t *testing.T) {
	vm := newTestVM(t)
	conn := dialControl(t, vm)

	r := roundTrip(t, conn, ControlMessage{Type: "explode"})
	assert.False(t, r.OK)
	assert.Contains(t, r.Error, "unknown message type")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	var reply ControlReply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.False(t, reply.OK)
	assert.Contains(t, reply.Error, "bad message")

	r = roundTrip(t, conn, ControlMessage{Type: "status"})
	assert.True(t, r.OK, "connection survives bad requests")
}

func TestControlServer_ServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewControlServer(newTestVM(t)).Serve(ctx, addr) }()

	require.Eventually(t, func() bool {
		c, err := net.Dial("tcp", addr)
		if err == nil {
			c.Close()
		}
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
