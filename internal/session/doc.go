// ABOUTME: Package documentation for the websocket session layer
// ABOUTME: Describes connection lifecycle, frame handling, and ordering

// Package session serves customer connections over websockets.
//
// Each connection gets a generated connection ID, a welcome frame, and a
// dedicated reader goroutine, so messages on one connection are handled
// strictly in arrival order while connections proceed independently. The
// user ID rides on each frame and defaults to the connection ID, which
// means conversation state survives a reconnect under the same user ID
// even though the session itself is destroyed on disconnect.
//
// Chat frames go through the orchestrator. Status and session frames are
// answered from aggregate counters and never touch routing. A frame that
// does not parse as JSON is treated as a literal chat message.
package session
