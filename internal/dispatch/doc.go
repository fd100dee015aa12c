// Package dispatch routes recognized commands to registered handlers.
//
// The router owns no state beyond its registration list. For each message
// it runs the command matcher, then offers the token to each handler's
// alias configuration in registration order; the first match handles the
// message. Messages that are not commands, or whose token nobody claims,
// produce no reply and no error.
//
// Overlapping alias sets are a configuration mistake the router does not
// detect: the earlier registration silently wins.
//
// Every routed command gets a request id (UUIDv7 by default) that is
// attached to the handler's request and to every log line about it.
package dispatch
