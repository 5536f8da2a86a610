package api

import "time"

// UserData is the request body sent to the greeting endpoint
type UserData struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// GreetingResponse is the body returned by the greeting endpoint.
// Greeting is nil when the key is absent.
type GreetingResponse struct {
	Greeting *string `json:"greeting"`
}

// Text returns the greeting or an empty string if it is absent
func (r *GreetingResponse) Text() string {
	if r == nil || r.Greeting == nil {
		return ""
	}
	return *r.Greeting
}

// Event is a message sent by the page shim
type Event struct {
	Type   string            `json:"type"`
	Form   string            `json:"form,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

const (
	EventReady  = "ready"
	EventSubmit = "submit"
)

// Command is a DOM mutation sent to the page shim
type Command struct {
	Op      string         `json:"op"`
	Target  string         `json:"target,omitempty"`
	Text    string         `json:"text,omitempty"`
	Class   string         `json:"class,omitempty"`
	Widget  string         `json:"widget,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

const (
	OpSetText     = "set_text"
	OpRemoveClass = "remove_class"
	OpAddClass    = "add_class"
	OpInitWidget  = "init_widget"
	OpNavigate    = "navigate"
)

// FailureEntry is one record of the failure journal
type FailureEntry struct {
	ID      string    `json:"id"`
	Session string    `json:"session,omitempty"`
	Time    time.Time `json:"time"`
	Detail  string    `json:"detail"`
}
