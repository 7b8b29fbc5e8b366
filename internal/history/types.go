package history

// Log is a decoded history file: every round appended by a Writer.
type Log struct {
	Rounds []Transcript `toml:"round"`
}

// Transcript is the record of one played round.
type Transcript struct {
	Run         string   `toml:"run,omitempty"`
	Round       int      `toml:"number"`
	Seed        int64    `toml:"seed"`
	HandSize    int      `toml:"hand_size"`
	MaxTurns    int      `toml:"max_turns"`
	Termination string   `toml:"termination"`
	Passes      int      `toml:"passes"`
	UpCard      string   `toml:"up_card"`
	Players     []Player `toml:"players"`
	Turns       []Turn   `toml:"turns,omitempty"`
}

// Player is one seat's deal and outcome.
type Player struct {
	Seat            int      `toml:"seat"`
	Name            string   `toml:"name"`
	Strategy        string   `toml:"strategy"`
	Dealt           []string `toml:"dealt"`
	Final           []string `toml:"final"`
	Result          string   `toml:"result"`
	UnmatchedPoints int      `toml:"unmatched_points"`
	Combinations    int      `toml:"combinations"`
	WentOut         bool     `toml:"went_out,omitempty"`
}

// Turn is a single participant turn.
type Turn struct {
	Pass        int    `toml:"pass"`
	Seat        int    `toml:"seat"`
	Source      string `toml:"source"`
	Drawn       string `toml:"drawn,omitempty"`
	Recycled    bool   `toml:"recycled,omitempty"`
	Exhausted   bool   `toml:"exhausted,omitempty"`
	Declared    bool   `toml:"declared,omitempty"`
	Discarded   string `toml:"discarded,omitempty"`
	Requested   int    `toml:"requested_index"`
	Substituted bool   `toml:"substituted,omitempty"`
}
