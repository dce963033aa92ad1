package tasks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Desc      string    `json:"desc,omitempty"`
	Deadline  time.Time `json:"deadline"`
	Priority  Priority  `json:"priority"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Input is the client-supplied part of a task. A nil field was not sent
// (or was sent as null).
type Input struct {
	Title     *string    `json:"title"`
	Desc      *string    `json:"desc"`
	Deadline  *Timestamp `json:"deadline"`
	Priority  *Priority  `json:"priority"`
	Completed *bool      `json:"completed"`
	CreatedAt *Timestamp `json:"createdAt"`
}

// NewTask builds a candidate record from in, filling defaults. The result is
// not validated.
func NewTask(in Input, now time.Time) Task {
	t := Task{
		Priority:  PriorityMedium,
		CreatedAt: now.UTC(),
	}
	if in.CreatedAt != nil && !in.CreatedAt.Time().IsZero() {
		t.CreatedAt = in.CreatedAt.Time()
	}
	in.applyTo(&t)
	return t
}

// ApplyTo overwrites the supplied fields of t. ID and CreatedAt never change.
func (in Input) ApplyTo(t Task) Task {
	in.applyTo(&t)
	return t
}

func (in Input) applyTo(t *Task) {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Desc != nil {
		t.Desc = *in.Desc
	}
	if in.Deadline != nil {
		t.Deadline = in.Deadline.Time()
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
}

// Timestamp accepts the date shapes web clients send: RFC 3339, a bare
// date, a local date-time without zone (read as UTC), or epoch milliseconds.
type Timestamp time.Time

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date", s)
}

func (ts Timestamp) Time() time.Time { return time.Time(ts) }

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		*ts = Timestamp(parsed)
		return nil
	}

	var ms json.Number
	if err := json.Unmarshal(b, &ms); err != nil {
		return fmt.Errorf("date must be a string or a number of milliseconds")
	}
	n, err := ms.Int64()
	if err != nil {
		return fmt.Errorf("date must be a string or a number of milliseconds")
	}
	*ts = Timestamp(time.UnixMilli(n).UTC())
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(ts).UTC())
}
