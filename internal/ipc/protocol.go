// Package ipc implements the single-instance unix-socket control channel
// between the openwhisper CLI and the resident daemon.
package ipc

// Request is one newline-delimited JSON command from a CLI client.
type Request struct {
	Command string `json:"command"`
}

// Response is the daemon's single-line JSON reply.
type Response struct {
	OK      bool   `json:"ok"`
	State   string `json:"state,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
