/*
The socket package wraps a [websocket.Conn] in a [Session] that dispatches
connection lifecycle events to registered [Listener]s.

Events follow the lifecycle of one connection:

	headers     the handshake response lines, emitted once after the upgrade
	_init       the upgrade request, emitted once; handler modules see it as "connection"
	listening   the session is ready to read
	message     a frame from the peer
	clientError the peer broke the protocol, e.g. exceeding the read limit
	error       the connection failed
	close       the connection closed, always last

Writes to a Session are serialized, so listeners can Send from any goroutine.
*/
package socket
