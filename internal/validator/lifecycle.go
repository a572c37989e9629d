package validator

import (
	"fmt"

	"club-lodging/backend/internal/pricing"
	"club-lodging/backend/internal/rules"
)

func (v *Validator) lookupReservation(snap *Snapshot, id string) (ReservationSnapshot, error) {
	if snap == nil {
		return ReservationSnapshot{}, ErrMissingSnapshot
	}
	r, ok := snap.Reservation(id)
	if !ok {
		return ReservationSnapshot{}, fmt.Errorf("%w: %s", ErrReservationNotFound, id)
	}
	return r, nil
}

// ruleForReservation resolves the rule row of the reservation holder,
// preferring the type recorded on the reservation.
func (v *Validator) ruleForReservation(snap *Snapshot, r ReservationSnapshot) (*rules.BusinessRule, error) {
	memberType := r.UserType
	if memberType == "" {
		if u, ok := snap.User(r.UserID); ok {
			memberType = u.MemberType
		}
	}
	return v.rules.RulesFor(memberType)
}

// ValidateReservationModification checks a date change of reservation id.
//
// Missing the modification notice is always an error. An emergency backed by
// proof additionally gets a warning and the pending_manager_approval outcome
// when the notice is the only problem; it is never approved automatically.
func (v *Validator) ValidateReservationModification(snap *Snapshot, id string, req ModificationRequest) (*ModificationResult, error) {
	current, err := v.lookupReservation(snap, id)
	if err != nil {
		return nil, err
	}
	rule, err := v.ruleForReservation(snap, current)
	if err != nil {
		return nil, err
	}

	out := &ModificationResult{ValidationResult: *newResult()}
	if current.Status == StatusCancelled || current.Status == StatusCompleted {
		out.addError(msgf(MsgModifyClosed, statusNames[current.Status]))
		out.Outcome = OutcomeRejected
		return out, nil
	}

	emergencyPath := false
	noticeErr := ""
	if v.hoursUntilCheckIn(current.CheckIn, rule) < float64(rule.ModificationNoticeHours) {
		noticeErr = msgf(MsgModifyNotice, rule.ModificationNoticeHours)
		out.addError(noticeErr)
		if req.IsEmergency {
			if req.EmergencyProof {
				emergencyPath = true
				out.addWarning(MsgEmergencyNeedsManager)
			} else {
				out.addError(MsgEmergencyNeedsProof)
			}
		}
	}

	checkIn, checkOut := current.CheckIn, current.CheckOut
	if req.NewCheckIn != nil {
		checkIn = *req.NewCheckIn
	}
	if req.NewCheckOut != nil {
		checkOut = *req.NewCheckOut
	}
	if !pricing.DateOf(checkIn).Equal(pricing.DateOf(current.CheckIn)) || !pricing.DateOf(checkOut).Equal(pricing.DateOf(current.CheckOut)) {
		rerun, err := v.ValidateNewReservation(snap, ReservationRequest{
			UserID:            current.UserID,
			UserType:          current.UserType,
			AccommodationID:   current.AccommodationID,
			AccommodationType: current.AccommodationType,
			CheckIn:           checkIn,
			CheckOut:          checkOut,
		}, NewReservationOptions{ExcludeReservationID: current.ID})
		if err != nil {
			return nil, err
		}
		out.merge(rerun)
	}

	switch {
	case out.Valid:
		out.Outcome = OutcomeApproved
	case emergencyPath && len(out.Errors) == 1 && out.Errors[0] == noticeErr:
		out.Outcome = OutcomePendingManagerApproval
	default:
		out.Outcome = OutcomeRejected
	}
	return out, nil
}

// ValidateReservationCancellation checks that reservation id can still be
// cancelled. The reason is informational only.
func (v *Validator) ValidateReservationCancellation(snap *Snapshot, id, reason string) (*ValidationResult, error) {
	current, err := v.lookupReservation(snap, id)
	if err != nil {
		return nil, err
	}
	result := newResult()
	switch current.Status {
	case StatusCompleted:
		result.addError(MsgCancelCompleted)
		return result, nil
	case StatusCancelled:
		result.addError(MsgCancelAlreadyCanceled)
		return result, nil
	}

	rule, err := v.ruleForReservation(snap, current)
	if err != nil {
		return nil, err
	}
	if d := rule.Director; d != nil && d.CancellationNoticeHours > 0 {
		if v.hoursUntilCheckIn(current.CheckIn, rule) < float64(d.CancellationNoticeHours) {
			result.addWarning(msgf(MsgDirectorShortNotice, d.CancellationNoticeHours))
		}
	}
	return result, nil
}

// ValidateKeyHandover checks that the key of reservation id may go to recipientID.
func (v *Validator) ValidateKeyHandover(snap *Snapshot, id, recipientID string, hasAuthorizationLetter bool) (*ValidationResult, error) {
	current, err := v.lookupReservation(snap, id)
	if err != nil {
		return nil, err
	}
	result := newResult()
	if !current.Status.Active() {
		result.addError(msgf(MsgKeyReservationClosed, statusNames[current.Status]))
	}
	if recipientID != current.UserID && !hasAuthorizationLetter {
		result.addError(MsgKeyNeedsLetter)
	}
	return result, nil
}

// ValidateTransfer always fails: reservations cannot change holder.
func (v *Validator) ValidateTransfer(fromUserID, toUserID string) *ValidationResult {
	return invalid(MsgNotTransferable)
}
