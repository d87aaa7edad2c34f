package amqp

import (
	"testing"
)

func TestRatesRefreshMessageRoundTrip(t *testing.T) {
	msg := NewRatesRefreshMessage([]string{"DEXUSEU", "DEXCAUS"})
	if msg.Timestamp.IsZero() {
		t.Error("new message has no timestamp")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatal(err)
	}

	got, err := RatesRefreshMessageFromJSON(body)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Series) != 2 || got.Series[0] != "DEXUSEU" || got.Series[1] != "DEXCAUS" {
		t.Errorf("series = %v", got.Series)
	}
	if !got.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("timestamp = %s, want %s", got.Timestamp, msg.Timestamp)
	}
}

func TestRatesRefreshMessageFromJSONMalformed(t *testing.T) {
	// A malformed body must error so the consumer drops the delivery
	// instead of requeueing it forever.
	if _, err := RatesRefreshMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error")
	}
}
