// Package holdem implements a single-table no-limit Texas Hold'em hand
// engine: a deterministic state machine that deals cards, posts blinds,
// validates and applies betting actions across four streets, builds
// side pots under all-in contention, ranks hands at showdown, settles
// chips and produces per-viewer redacted views.
//
// # Usage
//
//	state, err := holdem.NewGame(holdem.Config{
//	    ID: "table-1", SmallBlind: 5, BigBlind: 10,
//	    Players: []holdem.PlayerConfig{
//	        {ID: "alice", Name: "Alice", Stack: 1000},
//	        {ID: "bob", Name: "Bob", Stack: 1000},
//	    },
//	})
//	state.StartHand()
//	for !state.HandComplete() {
//	    id := state.ActivePlayerID()
//	    actions := state.ValidActions(id)
//	    state.ExecuteAction(id, chooseFrom(actions))
//	}
//
// # Contracts
//
// GameState is a plain JSON-serializable value owned by the caller.
// The engine performs no I/O and no locking; callers must serialize
// mutations per table. Recoverable failures (wrong actor, illegal
// action, starting a hand mid-hand) are signaled by a false return and
// leave the state untouched; only malformed setup in NewGame is an
// error.
//
// Determinism: the same Config.Seed and the same action sequence
// always produce the same resulting state. Production tables leave
// Seed at zero and get one from the system CSPRNG.
package holdem
