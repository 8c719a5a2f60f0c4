package server

// Client is one end of a table session, over telnet or WebSocket.
type Client interface {
	// ReadLine blocks until a non-empty line arrives and returns it trimmed.
	ReadLine() (string, error)

	// WriteLine sends one reply. Telnet appends CRLF; WebSocket sends one message.
	WriteLine(message string) error

	// Close closes the connection. Safe to call more than once.
	Close() error

	// RemoteAddr returns the peer address for logging.
	RemoteAddr() string
}
