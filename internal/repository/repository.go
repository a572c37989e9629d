package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every repository over one *gorm.DB.
type Repository struct {
	db            *gorm.DB
	User          UserRepository
	Accommodation AccommodationRepository
	Holiday       HolidayRepository
	Reservation   ReservationRepository
	KeyHandover   KeyHandoverRepository
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:            db,
		User:          NewUserRepo(db),
		Accommodation: NewAccommodationRepo(db),
		Holiday:       NewHolidayRepo(db),
		Reservation:   NewReservationRepo(db),
		KeyHandover:   NewKeyHandoverRepo(db),
	}
}

// Transaction runs fn with a Repository bound to one database transaction.
// Returning an error from fn rolls everything back. A Repository assembled
// by hand without a database runs fn on itself.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
