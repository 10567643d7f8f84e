package domain

import "errors"

// ErrWSDisconnect marks a connector operation attempted after the
// connection was shut down.
var ErrWSDisconnect = errors.New("websocket disconnected")
