package models

// PlayerInfo describes one side of a normalized game. Rating is zero when the
// source payload omits it.
type PlayerInfo struct {
	Username string `json:"username"`
	Rating   int    `json:"rating,omitempty"`
}

// NormalizedGame is the common schema both platform fetchers map into. It is
// transient: built per fetch request, never persisted.
type NormalizedGame struct {
	ID          string     `json:"id"`
	White       PlayerInfo `json:"white"`
	Black       PlayerInfo `json:"black"`
	Result      string     `json:"result"`
	TimeControl string     `json:"time_control"`
	TimeClass   string     `json:"time_class,omitempty"`
	EndTime     int64      `json:"end_time"`
	PGN         string     `json:"pgn,omitempty"`
	Moves       string     `json:"moves,omitempty"`
	URL         string     `json:"url"`
}

// GameBatch is the result of one fetch request against a platform.
type GameBatch struct {
	Platform      Platform         `json:"platform"`
	Username      string           `json:"username"`
	Games         []NormalizedGame `json:"games"`
	TotalFound    int              `json:"total_found"`
	Requested     int              `json:"requested"`
	MonthsChecked int              `json:"months_checked,omitempty"`
	Message       string           `json:"message"`
}
