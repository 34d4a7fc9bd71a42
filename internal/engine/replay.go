package engine

import "fmt"

// Action is one accepted command as recorded in a session journal.
type Action struct {
	PlayerID string  `json:"player_id"`
	Cmd      Command `json:"cmd"`
}

// Replay folds actions over initial. Given the same seed and journal it
// reproduces the live session exactly.
func Replay(initial State, actions []Action) ([]Event, State, error) {
	var all []Event
	s := initial
	for i, a := range actions {
		events, next, err := Apply(s, a.PlayerID, a.Cmd)
		if err != nil {
			return all, s, fmt.Errorf("replay action %d (%s by %s): %w", i, a.Cmd.Type, a.PlayerID, err)
		}
		all = append(all, events...)
		s = next
	}
	return all, s, nil
}
