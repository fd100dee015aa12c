// Package harness replays chat conversations against the bot.
//
// A scenario seeds codices, sends a sequence of messages through the
// dispatcher with every production handler registered, and checks the
// replies and the final store state. Each run uses a fresh database and
// deterministic request ids and article picks, so the transcript of a
// scenario can be compared against a golden file.
//
// # Scenario Format
//
//	name: config_then_omon
//	description: "A chat creates a codex and labels a picture with it"
//	seed: 1
//	subjects: 1
//	setup:
//	  - chat: 10
//	    codex: alpha
//	    articles: { "105": murder }
//	steps:
//	  - chat: 10
//	    text: /config_omon adds alpha 158 theft
//	    expect:
//	      reply: ok
//	  - chat: 10
//	    text: /omon_alpha 158
//	    image: true
//	assertions:
//	  - type: codex_articles
//	    chat: 10
//	    codex: alpha
//	    articles: { "105": murder, "158": theft }
//
// An empty setup codex name seeds the global codex.
//
// # Assertion Types
//
//   - codex_articles: the codex holds exactly the given articles
//   - codex_list: the chat's codices, by name, in listing order
//   - handled_count: how many steps reached a handler
package harness
