package framework

import (
	"context"
	"strings"
)

// AggregatedError aggregates multiple errors.
type AggregatedError struct {
	Errors []error
}

// Error implements error
func (e *AggregatedError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := make([]string, len(e.Errors)+1)
	msg[0] = "Multiple errors:"
	for n, err := range e.Errors {
		msg[n+1] = err.Error()
	}
	return strings.Join(msg, "\n")
}

// Add adds errors to be aggregated. nil will be skipped.
func (e *AggregatedError) Add(errs ...error) *AggregatedError {
	for _, err := range errs {
		if err != nil {
			e.Errors = append(e.Errors, err)
		}
	}
	return e
}

// Aggregate returns aggregated error if any error happened.
func (e *AggregatedError) Aggregate() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// EventSenders fans an event out to multiple senders.
type EventSenders struct {
	Senders []EventSender
}

// Add adds more senders.
func (s *EventSenders) Add(senders ...EventSender) {
	s.Senders = append(s.Senders, senders...)
}

// SendEvent implements EventSender. Every sender is tried.
func (s *EventSenders) SendEvent(ctx context.Context, msg Message) error {
	var errs AggregatedError
	for _, sender := range s.Senders {
		errs.Add(sender.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}
