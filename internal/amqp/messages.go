package amqp

import (
	"encoding/json"
	"time"
)

// RatesRefreshMessage announces that exchange-rate series were refreshed in
// the rate store. Consumers rebuild their dataset snapshot from storage;
// the message carries only which series changed, not the data.
type RatesRefreshMessage struct {
	Series    []string  `json:"series"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRatesRefreshMessage(series []string) *RatesRefreshMessage {
	return &RatesRefreshMessage{
		Series:    series,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *RatesRefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RatesRefreshMessageFromJSON creates a message from JSON bytes.
func RatesRefreshMessageFromJSON(data []byte) (*RatesRefreshMessage, error) {
	var msg RatesRefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
