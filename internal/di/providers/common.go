package providers

import "time"

// shutdownTimeout bounds graceful shutdown of the HTTP server and stores.
const shutdownTimeout = 30 * time.Second
