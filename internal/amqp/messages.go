package amqp

import (
	"encoding/json"
	"time"
)

// BookingSyncMessage tells the worker a booking changed and the exported
// rollup needs a refresh. Only the booking id travels on the wire, the
// worker reloads everything it needs from the database.
type BookingSyncMessage struct {
	BookingID int64     `json:"bookingId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBookingSyncMessage(bookingID int64) *BookingSyncMessage {
	return &BookingSyncMessage{
		BookingID: bookingID,
		Timestamp: time.Now(),
	}
}

func (m *BookingSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BookingSyncMessageFromJSON(data []byte) (*BookingSyncMessage, error) {
	var msg BookingSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
