// Package form implements the submission controller shared by every form on the site.
//
// A Controller owns one form's values, validates them, maps them into a request
// payload and performs at most one network exchange at a time. The page-specific
// parts (fields, mapping, sender) come from a Config.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abhayas/halfdigit-web/internal/failure"
)

const (
	DefaultTransportMessage = "Network error. Please try again."
	DefaultServerMessage    = "Something went wrong. Please try again."
	RequiredMessage         = "All fields are required"
)

var (
	// ErrInFlight is returned when a submission is already outstanding.
	ErrInFlight = errors.New("form: submission already in flight")
	// ErrUnknownField is returned for field names the form does not declare.
	ErrUnknownField = errors.New("form: unknown field")
)

// Reply is a completed exchange with the remote service.
type Reply[R any] struct {
	StatusCode int
	Body       R
}

// Exchange describes one network call, successful or not. StatusCode is 0 when
// no response arrived.
type Exchange[R any] struct {
	Started    time.Time
	Latency    time.Duration
	StatusCode int
	Body       R
	Err        error
}

// Messages are the generic failure texts shown when the service gave none.
type Messages struct {
	Transport string
	Server    string
}

// Config parameterizes a Controller for one page.
type Config[P, R any] struct {
	Name   string
	Fields []Field

	// Map turns validated values into the request payload. Returning a
	// *failure.Validation stops the submission before any network call.
	Map func(Values) (P, error)

	// Send performs exactly one request.
	Send func(context.Context, P) (Reply[R], error)

	// Select validates a file as soon as it is chosen. Nil accepts any file.
	Select func(File) error

	// Observe sees every exchange once it resolves, before the form is
	// released for the next submission.
	Observe func(Exchange[R])

	ResetOnSuccess bool
	Messages       Messages
}

// Snapshot is a copy of controller state for rendering.
type Snapshot[R any] struct {
	Phase  Phase
	Result Result[R]
	Notice string
	Values Values
	Busy   bool
}

// Controller coordinates one form instance.
type Controller[P, R any] struct {
	cfg    Config[P, R]
	fields map[string]Field

	mu     sync.Mutex
	values Values
	phase  Phase
	result Result[R]
	notice string
	busy   bool
}

// New builds a controller. Map and Send are required.
func New[P, R any](cfg Config[P, R]) (*Controller[P, R], error) {
	if cfg.Map == nil || cfg.Send == nil {
		return nil, fmt.Errorf("form %q: Map and Send must be set", cfg.Name)
	}
	if cfg.Messages.Transport == "" {
		cfg.Messages.Transport = DefaultTransportMessage
	}
	if cfg.Messages.Server == "" {
		cfg.Messages.Server = DefaultServerMessage
	}

	fields := make(map[string]Field, len(cfg.Fields))
	for _, f := range cfg.Fields {
		fields[f.Name] = f
	}

	return &Controller[P, R]{
		cfg:    cfg,
		fields: fields,
		values: Values{},
	}, nil
}

// Name returns the configured form name.
func (c *Controller[P, R]) Name() string { return c.cfg.Name }

// UpdateField replaces the value of one field. File fields are validated on the spot.
func (c *Controller[P, R]) UpdateField(name string, value any) error {
	f, ok := c.fields[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if f.Kind == KindFile {
		file, ok := value.(File)
		if !ok {
			return &failure.Validation{Field: name, Reason: "expects a file"}
		}
		return c.Select(name, file)
	}

	c.mu.Lock()
	c.values[name] = value
	c.mu.Unlock()
	return nil
}

// Select validates a newly chosen file. Any previous notice and result are
// cleared first; a rejected file leaves the field empty.
func (c *Controller[P, R]) Select(name string, file File) error {
	f, ok := c.fields[name]
	if !ok || f.Kind != KindFile {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ErrInFlight
	}
	c.enter(PhaseIdle)
	c.notice = ""
	c.result = Result[R]{}
	delete(c.values, name)

	if c.cfg.Select != nil {
		if err := c.cfg.Select(file); err != nil {
			c.notice = noticeFor(err)
			return err
		}
	}
	c.values[name] = file
	return nil
}

// Submit validates the form and, if it passes, sends it. It returns the new
// result together with the error that caused a failure, if any. While a
// submission is outstanding Submit returns ErrInFlight and sends nothing.
func (c *Controller[P, R]) Submit(ctx context.Context) (Result[R], error) {
	c.mu.Lock()
	if c.busy {
		res := c.result
		c.mu.Unlock()
		return res, ErrInFlight
	}

	c.enter(PhaseValidating)
	c.notice = ""
	c.result = Result[R]{}

	payload, err := c.validate()
	if err != nil {
		c.enter(PhaseInvalid)
		c.notice = noticeFor(err)
		c.enter(PhaseIdle)
		res := c.result
		c.mu.Unlock()
		return res, err
	}

	c.enter(PhaseValid)
	c.enter(PhaseSubmitting)
	c.busy = true
	c.result = Result[R]{Outcome: OutcomeInFlight}
	c.mu.Unlock()

	started := time.Now()
	reply, sendErr := c.cfg.Send(ctx, payload)
	ex := Exchange[R]{
		Started:    started,
		Latency:    time.Since(started),
		StatusCode: reply.StatusCode,
		Body:       reply.Body,
		Err:        sendErr,
	}

	// Still busy here, so exchanges reach the observer in submission order.
	if c.cfg.Observe != nil {
		c.cfg.Observe(ex)
	}

	c.mu.Lock()
	c.busy = false
	if sendErr != nil {
		c.enter(PhaseFailed)
		c.result = Result[R]{Outcome: OutcomeFailure, Message: c.describe(sendErr)}
	} else {
		c.enter(PhaseSucceeded)
		c.result = Result[R]{Outcome: OutcomeSuccess, Body: reply.Body}
		if c.cfg.ResetOnSuccess {
			c.values = Values{}
		}
	}
	res := c.result
	c.mu.Unlock()
	return res, sendErr
}

// Reset clears values, notice and result.
func (c *Controller[P, R]) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrInFlight
	}
	c.enter(PhaseIdle)
	c.values = Values{}
	c.notice = ""
	c.result = Result[R]{}
	return nil
}

// Snapshot returns a copy of the current state.
func (c *Controller[P, R]) Snapshot() Snapshot[R] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot[R]{
		Phase:  c.phase,
		Result: c.result,
		Notice: c.notice,
		Values: c.values.clone(),
		Busy:   c.busy,
	}
}

// validate runs with c.mu held.
func (c *Controller[P, R]) validate() (P, error) {
	var zero P
	for _, f := range c.cfg.Fields {
		if !f.Required || c.values.present(f) {
			continue
		}
		if f.Kind == KindFile {
			return zero, &failure.Validation{Field: f.Name, Reason: "select a file first"}
		}
		return zero, &failure.Validation{Field: f.Name, Reason: RequiredMessage}
	}
	return c.cfg.Map(c.values.clone())
}

// enter runs with c.mu held.
func (c *Controller[P, R]) enter(next Phase) {
	if !c.phase.CanTransition(next) {
		panic(fmt.Sprintf("form %q: illegal transition %s -> %s", c.cfg.Name, c.phase, next))
	}
	c.phase = next
}

func (c *Controller[P, R]) describe(err error) string {
	var srv *failure.Server
	if errors.As(err, &srv) {
		if srv.Message != "" {
			return srv.Message
		}
		return c.cfg.Messages.Server
	}
	var tr *failure.Transport
	if errors.As(err, &tr) {
		return c.cfg.Messages.Transport
	}
	return c.cfg.Messages.Server
}

func noticeFor(err error) string {
	var v *failure.Validation
	if errors.As(err, &v) {
		return v.Reason
	}
	return err.Error()
}
