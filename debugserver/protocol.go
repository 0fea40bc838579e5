// SPDX-License-Identifier: Unlicense OR MIT

// Package debugserver implements the debug/automation HTTP handle (spec
// §4.6): a TCP accept loop, a typed request queue drained on the frame
// thread, and a JSON response envelope.
package debugserver

import "encoding/json"

// Event is one decoded automation request body (spec §4.6 "POST /").
// The type discriminator and the two fields every event may carry are
// promoted to named fields; the remaining event-specific fields (point
// coordinates, key codes, node queries, …) stay in Raw for the handler
// to decode against its own per-type structs, since driving the
// windowing/widget layer those fields target is outside this core
// (spec §1 Non-goals).
type Event struct {
	Type          string  `json:"type"`
	WindowID      *uint64 `json:"window_id,omitempty"`
	WaitForRender bool    `json:"wait_for_render,omitempty"`
	Raw           json.RawMessage
}

func (e *Event) UnmarshalJSON(data []byte) error {
	type alias Event
	aux := struct{ *alias }{alias: (*alias)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// DebugRequest is one queued automation event awaiting processing on
// the frame thread (spec §4.6 "enqueues a DebugRequest").
type DebugRequest struct {
	RequestID     uint64
	Event         Event
	WindowID      *uint64
	WaitForRender bool
	ResponseCh    chan Response
}

// Response is the tagged envelope every debug request resolves to
// (spec §4.6 "Responses are serialised as a tagged envelope").
type Response struct {
	Status      string      `json:"status"`
	RequestID   *uint64     `json:"request_id,omitempty"`
	WindowState interface{} `json:"window_state,omitempty"`
	Data        interface{} `json:"data,omitempty"`
	Message     string      `json:"message,omitempty"`
}

// Ok wraps a typed response payload in a successful envelope.
func Ok(data interface{}) Response { return Response{Status: "ok", Data: data} }

// Err wraps a failure message in an error envelope.
func Err(message string) Response { return Response{Status: "error", Message: message} }

// HealthPayload is the body GET / and GET /health return.
type HealthPayload struct {
	Port            int      `json:"port"`
	PendingLogCount int      `json:"pending_log_count"`
	PendingLogs     []string `json:"pending_logs"`
}
