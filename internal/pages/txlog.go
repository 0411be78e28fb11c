package pages

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/abhayas/halfdigit-web/internal/api"
	"github.com/abhayas/halfdigit-web/internal/form"
)

const (
	LabelSurvived      = "Survived"
	LabelDidNotSurvive = "Did Not Survive"
	LabelError         = "Error"
)

// Entry is one prediction request as seen from the page.
type Entry struct {
	ID      ulid.ULID
	At      time.Time
	Status  int
	Latency time.Duration
	Outcome string
}

// TransactionLog keeps prediction requests in memory, append-only.
type TransactionLog struct {
	mu      sync.Mutex
	entries []Entry
}

func NewTransactionLog() *TransactionLog {
	return &TransactionLog{}
}

// Record appends ex. It is the Titanic controller's exchange observer.
func (l *TransactionLog) Record(ex form.Exchange[api.Prediction]) {
	at := ex.Started
	if at.IsZero() {
		at = time.Now()
	}
	e := Entry{
		ID:      ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()),
		At:      at,
		Status:  ex.StatusCode,
		Latency: ex.Latency,
		Outcome: outcomeLabel(ex),
	}

	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()
}

// Entries returns a copy, newest first.
func (l *TransactionLog) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

func (l *TransactionLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func outcomeLabel(ex form.Exchange[api.Prediction]) string {
	switch {
	case ex.Err != nil:
		return LabelError
	case ex.Body.Survived:
		return LabelSurvived
	default:
		return LabelDidNotSurvive
	}
}
