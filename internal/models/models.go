package models

// SignalRecord is one accepted ingestion message, immutable once created.
type SignalRecord struct {
	Signal    string `json:"signal"`
	Timestamp string `json:"timestamp"`
	RawData   string `json:"raw_data"`
}

// SignalEvent is the payload handed from the ingestion path to the
// broadcast hub.
type SignalEvent struct {
	Signal    string `json:"signal"`
	Timestamp string `json:"timestamp"`
}

// StatusSnapshot is the read projection behind GET /status.
type StatusSnapshot struct {
	Connected     bool    `json:"connected"`
	LastSignal    *string `json:"last_signal"`
	LastTimestamp *string `json:"last_timestamp"`
	TotalSignals  uint64  `json:"total_signals"`
}

// ConnectionCheck is the read projection behind POST /verify-connection.
type ConnectionCheck struct {
	Connected     bool    `json:"connected"`
	ClientAddress *string `json:"client_address"`
	TotalSignals  uint64  `json:"total_signals"`
}
