package rules

import "time"

func everyDay() []time.Weekday {
	return []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}
}

// weekdays are the low-season check-in days.
func weekdays() []time.Weekday {
	return []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday}
}

func days(n int) *int { return &n }

// Default returns a fresh copy of the club's rule table.
func Default() Table {
	return Table{
		MemberRegular: {
			MemberType:               MemberRegular,
			CanHoldReservation:       true,
			MaxConsecutiveDays:       7,
			MaxReservationsPerMember: 1,
			CheckInTime:              "15:00",
			CheckOutTime:             "12:00",
			PaymentTimeLimitHours:    48,
			ModificationNoticeHours:  72,
			AllowedDaysOfWeek:        everyDay(),
		},
		MemberWidow: {
			MemberType:               MemberWidow,
			CanHoldReservation:       true,
			MaxConsecutiveDays:       7,
			MaxReservationsPerMember: 1,
			CheckInTime:              "15:00",
			CheckOutTime:             "12:00",
			PaymentTimeLimitHours:    48,
			ModificationNoticeHours:  72,
			AllowedDaysOfWeek:        weekdays(),
			WeekendAdvanceNoticeDays: days(2),
		},
		MemberSpecialVisitor: {
			MemberType:               MemberSpecialVisitor,
			CanHoldReservation:       true,
			MaxConsecutiveDays:       5,
			MaxReservationsPerMember: 1,
			CheckInTime:              "15:00",
			CheckOutTime:             "12:00",
			PaymentTimeLimitHours:    24,
			ModificationNoticeHours:  72,
			AllowedDaysOfWeek:        weekdays(),
			WeekendAdvanceNoticeDays: days(3),
		},
		MemberTransientVisitor: {
			MemberType:               MemberTransientVisitor,
			CanHoldReservation:       true,
			MaxConsecutiveDays:       3,
			MaxReservationsPerMember: 1,
			CheckInTime:              "15:00",
			CheckOutTime:             "12:00",
			PaymentTimeLimitHours:    24,
			ModificationNoticeHours:  72,
			AllowedDaysOfWeek:        weekdays(),
			WeekendAdvanceNoticeDays: days(5),
		},
		MemberYouthVisitor: {
			MemberType:               MemberYouthVisitor,
			CanHoldReservation:       false,
			MaxConsecutiveDays:       3,
			MaxReservationsPerMember: 0,
			CheckInTime:              "15:00",
			CheckOutTime:             "12:00",
			PaymentTimeLimitHours:    24,
			ModificationNoticeHours:  72,
			AllowedDaysOfWeek:        weekdays(),
		},
		MemberBoardDirector: {
			MemberType:               MemberBoardDirector,
			CanHoldReservation:       true,
			MaxConsecutiveDays:       3,
			MaxReservationsPerMember: 3,
			CheckInTime:              "15:00",
			CheckOutTime:             "12:00",
			PaymentTimeLimitHours:    48,
			ModificationNoticeHours:  72,
			AllowedDaysOfWeek:        everyDay(),
			Director: &DirectorRules{
				MaxReservationsPerMonth:        3,
				MaxReservationsPerTypePerMonth: 1,
				MaxDaysPerReservation:          3,
				CancellationNoticeHours:        72,
				FreeReservationExceptions:      []string{ExceptionHoliday},
				LocationCaps: map[AccommodationType]int{
					AccommodationCabin:     2,
					AccommodationApartment: 2,
					AccommodationHouse:     1,
				},
			},
		},
	}
}
