// control_server.go - WebSocket remote control

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
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	CONTROL_READ_LIMIT   = 4 << 20 // Encoded programs travel inline
	CONTROL_WRITE_WAIT   = 10 * time.Second
	CONTROL_SHUTDOWN_MAX = 2 * time.Second
)

func init() { registerFeature("control:websocket") }

// ControlMessage is one request. Program carries an encoded container;
// JSON moves it as base64.
type ControlMessage struct {
	Type    string   `json:"type"`
	Name    string   `json:"name,omitempty"`
	Value   float32  `json:"value,omitempty"`
	Slew    *float32 `json:"slew,omitempty"`
	Beat    float64  `json:"beat,omitempty"`
	Program []byte   `json:"program,omitempty"`
}

// ControlReply answers every request with the transport state.
type ControlReply struct {
	OK          bool    `json:"ok"`
	Error       string  `json:"error,omitempty"`
	SwapCount   uint64  `json:"swap_count"`
	Beat        float64 `json:"beat"`
	BPM         float32 `json:"bpm"`
	Crossfading bool    `json:"crossfading"`
}

type ControlServer struct {
	vm       *VM
	upgrader websocket.Upgrader
}

func NewControlServer(vm *VM) *ControlServer {
	return &ControlServer{
		vm: vm,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler serves the /ws endpoint.
func (s *ControlServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	return mux
}

// Serve listens on addr until ctx is cancelled.
func (s *ControlServer) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("control server: %w", err)
	}
	srv := &http.Server{Handler: s.Handler(), BaseContext: func(net.Listener) context.Context { return ctx }}
	logInfo(LOG_SERVER, "control server listening", "addr", ln.Addr().String())

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), CONTROL_SHUTDOWN_MAX)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("control server: %w", err)
	}
	return nil
}

func (s *ControlServer) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logWarn(LOG_SERVER, "websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(CONTROL_READ_LIMIT)
	logDebug(LOG_SERVER, "client connected", "remote", conn.RemoteAddr().String())

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-r.Context().Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logDebug(LOG_SERVER, "websocket read", "err", err)
			}
			return
		}
		var msg ControlMessage
		var reply ControlReply
		if err := json.Unmarshal(data, &msg); err != nil {
			reply = s.status(fmt.Errorf("bad message: %w", err))
		} else {
			reply = s.status(s.handle(&msg))
		}
		conn.SetWriteDeadline(time.Now().Add(CONTROL_WRITE_WAIT))
		if err := conn.WriteJSON(&reply); err != nil {
			return
		}
	}
}

// handle applies one request to the VM.
func (s *ControlServer) handle(msg *ControlMessage) error {
	switch msg.Type {
	case "set":
		slew := float32(-1)
		if msg.Slew != nil {
			slew = *msg.Slew
		}
		if msg.Name == "" {
			return errors.New("set: missing name")
		}
		if !s.vm.SetParam(msg.Name, msg.Value, slew) {
			return fmt.Errorf("set %s: parameter table full", msg.Name)
		}
	case "rm":
		if !s.vm.RemoveParam(msg.Name) {
			return fmt.Errorf("rm %s: no such parameter", msg.Name)
		}
	case "bpm":
		if msg.Value <= 0 {
			return errors.New("bpm must be positive")
		}
		s.vm.SetBPM(msg.Value)
	case "seek":
		s.vm.RequestSeek(msg.Beat, DefaultSeekConfig())
	case "load":
		prog, err := DecodeProgram(msg.Program)
		if err != nil {
			return err
		}
		if err := applyProgram(s.vm, prog, false); err != nil {
			return err
		}
		logInfo(LOG_SERVER, "program queued", "name", prog.Name)
	case "status":
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}

func (s *ControlServer) status(err error) ControlReply {
	r := ControlReply{
		OK:          err == nil,
		SwapCount:   s.vm.SwapCount(),
		Beat:        s.vm.CurrentBeatPosition(),
		BPM:         s.vm.BPM(),
		Crossfading: s.vm.IsCrossfading(),
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}
