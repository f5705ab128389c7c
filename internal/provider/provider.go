// Package provider implements the custom resource request/response
// lifecycle: the typed event model, the dispatch state machine, and the
// delivery of results back to CloudFormation.
package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrUnknownRequestType is reported when an event's RequestType is not one
// of the three stack operations.
var ErrUnknownRequestType = errors.New("Unknown RequestType: Must be one of: Create, Update, or Delete.")

// Handler implements the three lifecycle operations for one resource kind.
// Expected outcomes, including failures with a reason, are written into the
// response; a returned error marks an unexpected fault and is converted
// into a FAILED response by the dispatcher.
type Handler interface {
	Create(ctx context.Context) error
	Update(ctx context.Context) error
	Delete(ctx context.Context) error
}

// Provider executes one lifecycle event against a resource handler and
// guarantees exactly one response delivery per event.
type Provider struct {
	request  *Request
	response *Response
	sender   Sender
	logger   *slog.Logger
}

// New creates a new Provider.
func New(request *Request, response *Response, sender Sender, logger *slog.Logger) *Provider {
	return &Provider{
		request:  request,
		response: response,
		sender:   sender,
		logger:   logger,
	}
}

// Execute routes the event to the handler operation matching its
// RequestType and delivers the response. Handler errors and panics become
// FAILED responses; a delivery failure is returned to the caller, since a
// result cannot be reported when reporting itself fails.
func (p *Provider) Execute(ctx context.Context, handler Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("handler panicked", "panic", r)
			p.response.SetStatus(false)
			p.response.SetReason(fmt.Sprintf("panic: %v", r))
		}
		err = p.deliver(ctx)
	}()

	var opErr error
	switch p.request.Type() {
	case RequestTypeCreate:
		opErr = handler.Create(ctx)
	case RequestTypeUpdate:
		opErr = handler.Update(ctx)
	case RequestTypeDelete:
		opErr = handler.Delete(ctx)
	default:
		opErr = ErrUnknownRequestType
	}

	if opErr != nil {
		p.logger.Error("lifecycle operation failed",
			"request_type", p.request.Type(),
			"error", opErr)
		p.response.SetStatus(false)
		p.response.SetReason(opErr.Error())
	}
	return nil
}

// Fail reports a failure that occurred before any handler could run, still
// honoring the single-delivery guarantee.
func (p *Provider) Fail(ctx context.Context, reason string) error {
	p.response.SetStatus(false)
	p.response.SetReason(reason)
	return p.deliver(ctx)
}

func (p *Provider) deliver(ctx context.Context) error {
	p.logger.Debug("finalizing response",
		"status", p.response.Status,
		"reason", p.response.Reason,
		"physical_resource_id", p.response.PhysicalResourceID)
	return p.sender.Send(ctx, p.request.ResponseURL(), p.response)
}
