package ws

// Message is the server→observer wire format. Only the fields relevant
// to each type are set; the rest are omitted from the JSON.
type Message struct {
	Type      string `json:"type"`
	Message   string `json:"message,omitempty"`
	Status    string `json:"status,omitempty"`
	Signal    string `json:"signal,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}
