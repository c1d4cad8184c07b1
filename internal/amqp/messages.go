package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"salesledger/internal/calendar"
	"salesledger/internal/core"
	"salesledger/internal/mirror"
)

// MirrorDayMessage carries one day to append to the remote DailySales table.
// The entry travels in full so the worker needs no access to the ledger.
type MirrorDayMessage struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Date      string          `json:"date"`
	Entry     core.DailyEntry `json:"entry"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMirrorDayMessage wraps a mirror job in a message with a fresh id.
func NewMirrorDayMessage(job mirror.Job) *MirrorDayMessage {
	return &MirrorDayMessage{
		ID:        uuid.NewString(),
		UserID:    job.UserID,
		Date:      job.Date,
		Entry:     job.Entry,
		Timestamp: time.Now().UTC(),
	}
}

// Job converts the message back into a mirror job.
func (m *MirrorDayMessage) Job() mirror.Job {
	return mirror.Job{UserID: m.UserID, Date: m.Date, Entry: m.Entry}
}

// ToJSON converts the message to JSON bytes
func (m *MirrorDayMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MirrorDayMessageFromJSON decodes and checks a message body.
func MirrorDayMessageFromJSON(data []byte) (*MirrorDayMessage, error) {
	var msg MirrorDayMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.UserID == "" {
		return nil, errors.New("missing user_id")
	}
	if _, err := time.Parse(calendar.ISODateLayout, msg.Date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", msg.Date, err)
	}
	if err := msg.Entry.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
