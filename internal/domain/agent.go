package domain

// Agent represents an AI agent known to the coordination engine. Agents are
// configured at startup; the engine does not manage their lifecycle.
type Agent struct {
	ID    string
	Name  string
	Token string
}
