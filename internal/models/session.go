package models

// SessionState is what the API reports about one session: its id, the
// current filter parameters, the parameter version and how many
// records the global view holds under those parameters.
type SessionState struct {
	ID      string `json:"session_id"`
	Params  Params `json:"params"`
	Version uint64 `json:"version"`
	Rows    int    `json:"rows"`
}
