// Package telemetry sends best-effort page view beacons. Failures never reach the visitor.
package telemetry

import (
	"context"
	"time"

	"github.com/abhayas/halfdigit-web/internal/api"
)

const (
	// VisitorCookie holds the client-local visitor flag. It is read, never written.
	VisitorCookie = "visitor_type"

	VisitorOwner   = "owner"
	VisitorRegular = "visitor"

	beaconTimeout = 10 * time.Second
)

// Visit is one page view.
type Visit struct {
	VisitorType string
	Path        string
	Referrer    string
	UserAgent   string
}

// PagePath is the path reported to the API, prefixed with the visitor type.
func (v Visit) PagePath() string {
	return v.VisitorType + v.Path
}

// Sink receives page views.
type Sink interface {
	LogVisit(ctx context.Context, v Visit) error
}

// VisitorType maps the raw cookie value to owner or visitor.
func VisitorType(cookie string) string {
	if cookie == VisitorOwner {
		return VisitorOwner
	}
	return VisitorRegular
}

// APISink posts visits to the halfdigit API.
type APISink struct {
	client *api.Client
}

func NewAPISink(client *api.Client) *APISink {
	return &APISink{client: client}
}

func (s *APISink) LogVisit(ctx context.Context, v Visit) error {
	return s.client.LogVisit(ctx, api.VisitRequest{
		PagePath:  v.PagePath(),
		Referrer:  v.Referrer,
		UserAgent: v.UserAgent,
	})
}

// Nop drops every visit.
type Nop struct{}

func (Nop) LogVisit(context.Context, Visit) error { return nil }

// Beacon sends v in the background and discards the outcome. A nil sink is a no-op.
func Beacon(sink Sink, v Visit) {
	if sink == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), beaconTimeout)
		defer cancel()
		_ = sink.LogVisit(ctx, v)
	}()
}
