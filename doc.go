// Package tutorchat provides the conversation-relay and response-formatting
// pipeline for a single-learner tutoring chat.
//
// A Session owns one ordered transcript and its turn-taking state machine.
// Each submission flows one direction: the prompt builder assembles a
// provider request from profile context plus rolling history, the provider
// gateway relays it and normalizes failures into a closed taxonomy, the
// suggestion extractor splits embedded video recommendations out of the
// completion, the renderer produces a display-safe document, and background
// validation revises the turn in place once every suggestion has settled.
//
// # Quick Start
//
//	session, err := tutorchat.NewSession(&tutorchat.SessionConfig{
//	    Profile: types.UserProfile{
//	        DisplayName: "Sam",
//	        Subject:     "Mathematics",
//	        Credential:  os.Getenv("GEMINI_API_KEY"),
//	    },
//	    Gateway: provider.New(nil),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	turn, err := session.Send(ctx, "How do I solve quadratic equations?")
//
// Gateway failures never surface as errors from Send: they are recovered at
// the session boundary and become an ordinary assistant turn carrying a
// fixed, user-facing message. Send only errors on empty input or when a
// response is already in flight.
//
// # Background validation
//
// Suggestions extracted from a completion validate concurrently without
// blocking the initial render. When all suggestions belonging to a turn
// have settled, the turn's rendered content is replaced in one atomic
// revision keyed by turn identity, so it stays correct even if the learner
// has sent further turns in the meantime. Register SessionConfig.OnRevision
// to repaint that turn.
package tutorchat
