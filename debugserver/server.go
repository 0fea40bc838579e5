// SPDX-License-Identifier: Unlicense OR MIT

package debugserver

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tiledframe/core/internal/logging"
)

// Config configures one debug server instance (spec §4.6, §6
// "AZUL_DEBUG=<port>").
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	QueueDepth   int
	LogCapacity  int
}

// Default matches spec §4.6's stated timeouts (read 5s, write 30s).
func Default() Config {
	return Config{
		Port:         0,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		QueueDepth:   256,
		LogCapacity:  1000,
	}
}

// Handler resolves one queued DebugRequest into a Response, mutating
// whatever window/layout state the frame thread owns (spec §4.6
// "Queue semantics").
type Handler func(req *DebugRequest) Response

// Server is the process-wide debug/automation HTTP handle (spec §4.6).
type Server struct {
	cfg  Config
	Logs *LogBuffer

	listener net.Listener
	queue    chan *DebugRequest
	nextID   atomic.Uint64
	shutdown chan struct{}
	ready    chan struct{}
}

// New creates a server bound to no socket yet; ListenAndServe binds and
// runs the accept loop.
func New(cfg Config) *Server {
	return &Server{
		cfg:      cfg,
		Logs:     NewLogBuffer(cfg.LogCapacity),
		queue:    make(chan *DebugRequest, cfg.QueueDepth),
		shutdown: make(chan struct{}),
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Addr returns the bound address, valid after Ready is closed.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ListenAndServe binds the TCP listener on localhost and runs the
// accept loop until Shutdown is called. Binding failure is fatal (spec
// §4.6 "Binding failure is fatal"); the caller is expected to route a
// non-nil error to logging.Fatalf at process start-up.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("debugserver: bind port %d: %w", s.cfg.Port, err)
	}
	s.listener = ln
	close(s.ready)
	s.acceptLoop()
	return nil
}

// acceptLoop accepts one connection at a time in non-blocking polling
// mode, draining the shutdown channel between poll rounds (spec §4.6
// "accepts one connection at a time in non-blocking mode with a short
// poll interval").
func (s *Server) acceptLoop() {
	tl, _ := s.listener.(*net.TCPListener)
	for {
		select {
		case <-s.shutdown:
			return
		default:
		}
		if tl != nil {
			tl.SetDeadline(time.Now().Add(100 * time.Millisecond))
		}
		conn, err := s.listener.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case <-s.shutdown:
				return
			default:
				logging.Warnf("debugserver: accept: %v", err)
				continue
			}
		}
		s.handleConn(conn)
	}
}

// handleConn parses one HTTP/1.0 request and writes its response
// (spec §4.6 "Protocol"). Connections are handled one at a time on the
// accept thread, matching the spec's "accepts one connection at a
// time" framing.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	if tcp, ok := conn.(*net.TCPConn); ok {
		tcp.SetNoDelay(true)
	}
	conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))

	reader := bufio.NewReader(conn)
	req, err := http.ReadRequest(reader)
	if err != nil {
		return
	}
	defer req.Body.Close()

	var resp Response
	switch {
	case req.Method == http.MethodGet && (req.URL.Path == "/" || req.URL.Path == "/health"):
		resp = Ok(HealthPayload{
			Port:            s.cfg.Port,
			PendingLogCount: s.Logs.Len(),
			PendingLogs:     formatLogs(s.Logs.Snapshot()),
		})
	case req.Method == http.MethodPost && req.URL.Path == "/":
		resp = s.enqueueAndWait(req)
	default:
		resp = Err("debugserver: unsupported method or path")
	}

	s.writeResponse(conn, resp)
}

// enqueueAndWait decodes the request body, queues a DebugRequest, and
// blocks on its response channel with the 30s timeout spec §4.6 and §5
// both specify.
func (s *Server) enqueueAndWait(req *http.Request) Response {
	var ev Event
	if err := json.NewDecoder(req.Body).Decode(&ev); err != nil {
		return Err(fmt.Sprintf("debugserver: invalid request body: %v", err))
	}

	id := s.nextID.Add(1)
	dr := &DebugRequest{
		RequestID:     id,
		Event:         ev,
		WindowID:      ev.WindowID,
		WaitForRender: ev.WaitForRender,
		ResponseCh:    make(chan Response, 1),
	}

	select {
	case s.queue <- dr:
	default:
		return Err("debugserver: request queue full")
	}

	select {
	case resp := <-dr.ResponseCh:
		resp.RequestID = &id
		return resp
	case <-time.After(30 * time.Second):
		return Err("debugserver: request timed out")
	}
}

// ProcessPending drains every request queued so far and resolves each
// through handle. Intended to be driven by a ~16ms ticker on the frame
// thread (spec §4.6 "Queue semantics": "Events are drained by a
// fixed-cadence timer callback").
func (s *Server) ProcessPending(handle Handler) {
	for {
		select {
		case dr := <-s.queue:
			resp := handle(dr)
			select {
			case dr.ResponseCh <- resp:
			default:
			}
		default:
			return
		}
	}
}

// writeResponse streams the JSON body in 8 KiB chunks, flushing after
// each, then shuts down the write side (TCP FIN) and reads until EOF
// before the caller closes the socket — this sequencing is what keeps
// an RST-on-close from truncating a large payload (spec §4.6 "Response
// writing").
func (s *Server) writeResponse(conn net.Conn, resp Response) {
	body, err := json.Marshal(resp)
	if err != nil {
		body = []byte(`{"status":"error","message":"debugserver: failed to encode response"}`)
	}

	w := bufio.NewWriter(conn)
	fmt.Fprintf(w, "HTTP/1.0 200 OK\r\n")
	fmt.Fprintf(w, "Content-Type: application/json\r\n")
	fmt.Fprintf(w, "Content-Length: %d\r\n", len(body))
	fmt.Fprintf(w, "Connection: close\r\n\r\n")

	const chunkSize = 8 << 10
	for off := 0; off < len(body); off += chunkSize {
		end := off + chunkSize
		if end > len(body) {
			end = len(body)
		}
		w.Write(body[off:end])
		w.Flush()
	}
	w.Flush()

	if tcp, ok := conn.(*net.TCPConn); ok {
		tcp.CloseWrite()
		conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		buf := make([]byte, 512)
		for {
			if _, err := conn.Read(buf); err != nil {
				break
			}
		}
	}
}

func formatLogs(entries []LogEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = fmt.Sprintf("[%s] %s: %s", e.Level, e.Category, e.Message)
	}
	return out
}

// Shutdown stops the accept loop and closes the listener.
func (s *Server) Shutdown() {
	close(s.shutdown)
	if s.listener != nil {
		s.listener.Close()
	}
}
