// Package command recognizes bot commands in raw message text.
//
// Parsing happens in three synchronous steps, none of which touch storage:
//
//   - Matcher: "/token[@botname] [arguments]" → Invocation, or no match
//   - Tokenize: argument text → lines of words (blank lines dropped)
//   - Aliases: decides whether a token belongs to a handler, either by exact
//     alias or by the suffix form "<base>_<suffix>"
//
// A message that does not look like a command is never an error; callers
// simply get ok=false and fall through to no dispatch.
//
// Text is normalized to Unicode NFC before matching so that Cyrillic aliases
// typed on different keyboards compare equal.
package command
