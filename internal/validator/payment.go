package validator

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"club-lodging/backend/internal/pricing"
	"club-lodging/backend/internal/rules"
)

// PaymentInfo tells the holder whether and how fast a reservation must be paid.
type PaymentInfo struct {
	PaymentRequired bool            `json:"payment_required"`
	TimeLimitHours  int             `json:"time_limit_hours"`
	ExemptReason    string          `json:"exempt_reason,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
}

// DueAt is the payment deadline for a reservation created at createdAt, or
// the zero time when no payment is required.
func (p PaymentInfo) DueAt(createdAt time.Time) time.Time {
	if !p.PaymentRequired {
		return time.Time{}
	}
	return createdAt.Add(time.Duration(p.TimeLimitHours) * time.Hour)
}

// CalculatePaymentInfo applies the payment terms of the user's member type.
// Board directors stay exempt unless check-in is an active holiday-season
// date of the holiday registry.
func (v *Validator) CalculatePaymentInfo(ctx context.Context, snap *Snapshot, userID string, checkIn time.Time, totalPrice decimal.Decimal) (*PaymentInfo, error) {
	if snap == nil {
		return nil, ErrMissingSnapshot
	}
	if checkIn.IsZero() {
		return nil, fmt.Errorf("%w: check-in is required", pricing.ErrMalformedDate)
	}
	user, ok := snap.User(userID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	rule, err := v.rules.RulesFor(user.MemberType)
	if err != nil {
		return nil, err
	}

	required := &PaymentInfo{
		PaymentRequired: true,
		TimeLimitHours:  rule.PaymentTimeLimitHours,
		Amount:          totalPrice,
	}
	if user.MemberType != rules.MemberBoardDirector || rule.Director == nil {
		return required, nil
	}

	if slices.Contains(rule.Director.FreeReservationExceptions, rules.ExceptionHoliday) {
		h, err := v.classifier.Holiday(ctx, checkIn)
		if err != nil {
			return nil, err
		}
		if h != nil && h.SeasonType == pricing.SeasonHoliday {
			return required, nil
		}
	}
	return &PaymentInfo{
		PaymentRequired: false,
		ExemptReason:    MsgDirectorExempt,
		Amount:          decimal.Zero,
	}, nil
}
