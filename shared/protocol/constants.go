package protocol

const (
	// Net/update cadence
	TickRate = 20

	// Paths served by the feed server.
	PathLogin   = "/login"
	PathFeed    = "/ws"
	PathHealthz = "/healthz"
)
