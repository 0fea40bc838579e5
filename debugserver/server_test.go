// SPDX-License-Identifier: Unlicense OR MIT

package debugserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

func TestLogBufferDrainIsAtomicAndBounded(t *testing.T) {
	lb := NewLogBuffer(2)
	lb.SetDebug(true)
	lb.Log("info", "test", "one", "", nil)
	lb.Log("info", "test", "two", "", nil)
	lb.Log("info", "test", "three", "", nil)
	if lb.Len() != 2 {
		t.Fatalf("expected buffer capped at 2, got %d", lb.Len())
	}
	drained := lb.Drain()
	if len(drained) != 2 || drained[1].Message != "three" {
		t.Fatalf("unexpected drained entries: %+v", drained)
	}
	if lb.Len() != 0 {
		t.Fatal("expected buffer empty after drain")
	}
}

func TestLogBufferNoOpWhenDebugDisabled(t *testing.T) {
	lb := NewLogBuffer(10)
	lb.Log("info", "test", "ignored", "", nil)
	if lb.Len() != 0 {
		t.Fatal("expected no-op log when debug mode disabled")
	}
}

func TestLogBufferSnapshotIsNonDestructive(t *testing.T) {
	lb := NewLogBuffer(10)
	lb.SetDebug(true)
	lb.Log("info", "test", "one", "", nil)

	snap := lb.Snapshot()
	if len(snap) != 1 || snap[0].Message != "one" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if lb.Len() != 1 {
		t.Fatal("expected Snapshot to leave the buffer intact")
	}

	drained := lb.Drain()
	if len(drained) != 1 {
		t.Fatalf("expected the earlier snapshot to not have consumed the entry, drained %+v", drained)
	}
}

func TestServerHealthEndpointDoesNotDrainLogs(t *testing.T) {
	cfg := Default()
	cfg.Port = 0
	srv := New(cfg)
	srv.Logs.SetDebug(true)
	srv.Logs.Log("info", "test", "still here", "", nil)
	go srv.ListenAndServe()
	<-srv.Ready()
	defer srv.Shutdown()

	resp, err := http.Get("http://" + srv.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()

	if srv.Logs.Len() != 1 {
		t.Fatalf("expected a health check to leave pending logs in place, got %d remaining", srv.Logs.Len())
	}
}

func TestServerHealthEndpoint(t *testing.T) {
	cfg := Default()
	cfg.Port = 0
	srv := New(cfg)
	go srv.ListenAndServe()
	<-srv.Ready()
	defer srv.Shutdown()

	resp, err := http.Get("http://" + srv.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	var body Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "ok" {
		t.Fatalf("expected ok status, got %q", body.Status)
	}
}

func TestServerPostEnqueuesAndHandlerResponds(t *testing.T) {
	cfg := Default()
	cfg.Port = 0
	srv := New(cfg)
	go srv.ListenAndServe()
	<-srv.Ready()
	defer srv.Shutdown()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(2 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				srv.ProcessPending(func(req *DebugRequest) Response {
					return Ok(map[string]string{"type": req.Event.Type})
				})
			}
		}
	}()

	payload, _ := json.Marshal(map[string]any{"type": "get_state"})
	resp, err := http.Post("http://"+srv.Addr().String()+"/", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST /: %v", err)
	}
	defer resp.Body.Close()

	var env Response
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Status != "ok" {
		t.Fatalf("expected ok status, got %q: %s", env.Status, env.Message)
	}
}

func TestServerQueueFullReturnsError(t *testing.T) {
	cfg := Default()
	cfg.Port = 0
	cfg.QueueDepth = 1
	srv := New(cfg)
	go srv.ListenAndServe()
	<-srv.Ready()
	defer srv.Shutdown()

	// Fill the queue directly without draining it so the next POST
	// observes a full queue.
	srv.queue <- &DebugRequest{ResponseCh: make(chan Response, 1)}

	payload, _ := json.Marshal(map[string]any{"type": "get_state"})
	resp, err := http.Post("http://"+srv.Addr().String()+"/", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST /: %v", err)
	}
	defer resp.Body.Close()

	var env Response
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Status != "error" {
		t.Fatalf("expected error status for a full queue, got %q", env.Status)
	}
}
