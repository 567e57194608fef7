// Package eligibility holds the single predicate that gates hotel and
// booking access. Every gated service calls the same evaluator so the
// rule chain cannot drift between call sites.
package eligibility

import (
	"context"
	"fmt"

	"ms-booking/internal/apperr"
	"ms-booking/internal/models"
)

// Store is the slice of persistence the evaluator needs. The tickets DB
// layer satisfies it.
type Store interface {
	GetEnrollmentByUserID(ctx context.Context, userID int64) (*models.Enrollment, error)
	GetTicketByEnrollmentID(ctx context.Context, enrollmentID int64) (*models.Ticket, error)
}

type Evaluator struct {
	Store Store
}

func NewEvaluator(store Store) *Evaluator {
	return &Evaluator{Store: store}
}

// Check runs the ordered eligibility chain for a user:
//
//  1. the user must have an enrollment,
//  2. the enrollment must have a ticket,
//  3. the ticket must be PAID,
//  4. the ticket type must include a hotel stay and not be remote.
//
// The order matters: an unpaid ticket surfaces as PaymentRequired, never
// as AccessDenied, because the existence checks run first.
func (e *Evaluator) Check(ctx context.Context, userID int64) error {
	enrollment, err := e.Store.GetEnrollmentByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("eligibility: enrollment lookup: %w", err)
	}
	if enrollment == nil {
		return apperr.New(apperr.AccessDenied, "user has no enrollment")
	}

	ticket, err := e.Store.GetTicketByEnrollmentID(ctx, enrollment.ID)
	if err != nil {
		return fmt.Errorf("eligibility: ticket lookup: %w", err)
	}
	if ticket == nil {
		return apperr.New(apperr.AccessDenied, "enrollment has no ticket")
	}

	if ticket.Status != models.TicketPaid {
		return apperr.New(apperr.PaymentRequired, "ticket has not been paid")
	}

	if ticket.TicketType == nil || !ticket.TicketType.IncludesHotel || ticket.TicketType.IsRemote {
		return apperr.New(apperr.AccessDenied, "ticket type does not grant hotel access")
	}

	return nil
}
