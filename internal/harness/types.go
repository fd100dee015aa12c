package harness

// Exchange records one message and what the bot did with it.
type Exchange struct {
	Step      int    `json:"step"`
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	Image     bool   `json:"image,omitempty"`
	Handled   bool   `json:"handled"`
	RequestID string `json:"request_id,omitempty"`
	Reply     string `json:"reply,omitempty"`
	HTML      bool   `json:"html,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if every expect clause and assertion held.
	Pass bool `json:"pass"`

	Transcript []Exchange `json:"transcript"`

	// Errors is empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Transcript: []Exchange{},
		Errors:     []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// HandledCount returns how many exchanges reached a handler.
func (r *Result) HandledCount() int {
	n := 0
	for _, e := range r.Transcript {
		if e.Handled {
			n++
		}
	}
	return n
}
