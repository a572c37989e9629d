package validator

import (
	"fmt"

	"club-lodging/backend/internal/pricing"
	"club-lodging/backend/internal/rules"
)

// ValidateNewReservation runs the full rule pipeline for req against snap.
//
// An unknown or inactive user and a member type that can never hold a
// reservation end the pipeline with a single error. Every later stage runs
// even when an earlier one failed.
func (v *Validator) ValidateNewReservation(snap *Snapshot, req ReservationRequest, opts NewReservationOptions) (*ValidationResult, error) {
	if snap == nil {
		return nil, ErrMissingSnapshot
	}
	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		return nil, fmt.Errorf("%w: check-in and check-out are required", pricing.ErrMalformedDate)
	}

	// ── user resolution ──
	user, ok := snap.User(req.UserID)
	if !ok {
		return invalid(MsgUserNotFound), nil
	}
	if !user.IsActive {
		return invalid(MsgUserInactive), nil
	}
	memberType := req.UserType
	if memberType == "" {
		memberType = user.MemberType
	} else if memberType != user.MemberType {
		return nil, fmt.Errorf("%w: %s != %s", ErrMemberTypeMismatch, memberType, user.MemberType)
	}
	rule, err := v.rules.RulesFor(memberType)
	if err != nil {
		return nil, err
	}

	// ── ownership eligibility ──
	if !rule.CanHoldReservation {
		return invalid(MsgYouthCannotHold), nil
	}

	checkIn, checkOut := pricing.DateOf(req.CheckIn), pricing.DateOf(req.CheckOut)
	today := v.today()
	result := newResult()

	// ── date sanity ──
	maxNights := pricing.MaxStayNights
	if rule.MaxConsecutiveDays > 0 && rule.MaxConsecutiveDays < maxNights {
		maxNights = rule.MaxConsecutiveDays
	}
	for _, p := range pricing.DateProblems(checkIn, checkOut, today, maxNights) {
		if opts.ManagerOverride && p == pricing.MsgCheckInNotFuture {
			continue
		}
		result.addError(p)
	}
	rangeValid := checkOut.After(checkIn)
	nights := pricing.NightsBetween(checkIn, checkOut)
	lengthExceeded := rangeValid && nights > maxNights

	active := snap.active(opts.ExcludeReservationID)

	// ── availability ──
	if rangeValid {
		for _, r := range active {
			if r.AccommodationID == req.AccommodationID && r.Overlaps(checkIn, checkOut) {
				result.addError(msgf(MsgAccommodationTaken, fmtDate(r.CheckIn), fmtDate(r.CheckOut)))
				break
			}
		}
	}

	// ── per-user limits ──
	mine := make([]ReservationSnapshot, 0)
	for _, r := range active {
		if r.UserID == user.ID {
			mine = append(mine, r)
		}
	}
	switch memberType {
	case rules.MemberRegular:
		if pricing.IsWeekend(checkIn) && rule.MaxReservationsPerMember > 0 {
			weekendCount := 0
			for _, r := range mine {
				if pricing.DateOf(r.CheckIn).After(today) && pricing.IsWeekend(r.CheckIn) {
					weekendCount++
				}
			}
			if weekendCount >= rule.MaxReservationsPerMember {
				result.addError(msgf(MsgMemberWeekendLimit, rule.MaxReservationsPerMember))
			}
		}
	case rules.MemberBoardDirector:
		if d := rule.Director; d != nil {
			monthly, perType := 0, 0
			for _, r := range mine {
				if !sameMonth(pricing.DateOf(r.CheckIn), checkIn) {
					continue
				}
				monthly++
				if r.AccommodationType == req.AccommodationType {
					perType++
				}
			}
			if monthly >= d.MaxReservationsPerMonth {
				result.addError(msgf(MsgDirectorMonthlyLimit, d.MaxReservationsPerMonth))
			}
			if perType >= d.MaxReservationsPerTypePerMonth {
				result.addError(msgf(MsgDirectorTypeLimit, d.MaxReservationsPerTypePerMonth, accommodationName(req.AccommodationType)))
			}
		}
	}

	// ── allowed day of week ──
	wd := checkIn.Weekday()
	if !rule.AllowsDay(wd) {
		if rule.WeekendAdvanceNoticeDays != nil {
			required := *rule.WeekendAdvanceNoticeDays
			ahead := pricing.NightsBetween(today, checkIn)
			if ahead >= required {
				result.addWarning(msgf(MsgWeekendNoticeGranted, weekdayNames[wd], ahead))
			} else if !opts.ManagerOverride {
				result.addError(msgf(MsgWeekendNoticeRequired, weekdayNames[wd], required))
			}
		} else {
			result.addError(msgf(MsgDayNotAllowed, weekdayNames[wd]))
		}
	}

	// ── director duration and location caps ──
	if d := rule.Director; d != nil && rangeValid {
		if d.MaxDaysPerReservation > 0 && nights > d.MaxDaysPerReservation && !lengthExceeded {
			result.addError(msgf(MsgDirectorMaxDays, d.MaxDaysPerReservation))
		}
		if limit, ok := d.LocationCaps[req.AccommodationType]; ok {
			concurrent := 0
			for _, r := range active {
				if r.UserType == rules.MemberBoardDirector && r.AccommodationType == req.AccommodationType && r.Overlaps(checkIn, checkOut) {
					concurrent++
				}
			}
			if concurrent >= limit {
				result.addError(msgf(MsgDirectorLocationCap, concurrent, accommodationName(req.AccommodationType)))
			}
		}
	}

	// ── self conflict ──
	if rangeValid {
		for _, r := range mine {
			if r.Overlaps(checkIn, checkOut) {
				result.addError(msgf(MsgSelfConflict, fmtDate(r.CheckIn), fmtDate(r.CheckOut)))
				break
			}
		}
	}

	return result, nil
}
