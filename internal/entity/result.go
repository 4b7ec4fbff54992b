package entity

import "time"

// Result is one recorded match outcome. Records are append-only; When defines
// the replay order for the rating engine. Both won flags false means a draw.
type Result struct {
	RedAgent    string    `json:"redAgent"`
	YellowAgent string    `json:"yellowAgent"`
	RedWon      bool      `json:"redWon"`
	YellowWon   bool      `json:"yellowWon"`
	When        time.Time `json:"when"`
}

// IsSelfPlay reports whether both sides were played by the same agent.
func (that *Result) IsSelfPlay() bool {
	return that.RedAgent == that.YellowAgent
}
