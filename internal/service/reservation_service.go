package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"club-lodging/backend/internal/dto"
	"club-lodging/backend/internal/model"
	"club-lodging/backend/internal/pricing"
	"club-lodging/backend/internal/repository"
	"club-lodging/backend/internal/rules"
	"club-lodging/backend/internal/validator"
	pkgerrors "club-lodging/backend/pkg/errors"
)

// ReservationService runs the reservation lifecycle. Every write validates
// and commits inside one transaction that holds the accommodation row lock
// plus advisory locks on the holder and on the accommodation type, so two
// concurrent requests can never both pass a limit or take the same nights.
type ReservationService interface {
	// Validate is a dry run of Create.
	Validate(ctx context.Context, req *dto.CreateReservationRequest, callerID string) (*validator.ValidationResult, error)
	Create(ctx context.Context, req *dto.CreateReservationRequest, callerID string) (*dto.ReservationResultResponse, error)
	Get(ctx context.Context, id, callerID, callerRole string) (*dto.ReservationResponse, error)
	ListMine(ctx context.Context, callerID string) ([]dto.ReservationResponse, error)
	Modify(ctx context.Context, id string, req *dto.ModifyReservationRequest, callerID, callerRole string) (*dto.ModificationResponse, error)
	// ApproveModification applies the dates of an emergency change parked
	// for the general manager.
	ApproveModification(ctx context.Context, id string) (*dto.ReservationResultResponse, error)
	Cancel(ctx context.Context, id string, req *dto.CancelReservationRequest, callerID, callerRole string) (*dto.ReservationResultResponse, error)
	Confirm(ctx context.Context, id string) (*dto.ReservationResponse, error)
	Complete(ctx context.Context, id string) (*dto.ReservationResponse, error)
	HandOverKey(ctx context.Context, id string, req *dto.KeyHandoverRequest) (*validator.ValidationResult, error)
	// Transfer always fails: reservations are not transferable.
	Transfer(ctx context.Context, id string, req *dto.TransferReservationRequest, callerID, callerRole string) error
	PaymentInfo(ctx context.Context, id, callerID, callerRole string) (*validator.PaymentInfo, error)
}

type reservationService struct {
	repo   *repository.Repository
	engine *Engine
	logger *zap.Logger
}

func NewReservationService(repo *repository.Repository, engine *Engine, logger *zap.Logger) ReservationService {
	return &reservationService{repo: repo, engine: engine, logger: logger}
}

// ── loading and locking ──

func loadUser(ctx context.Context, repo *repository.Repository, id string) (*model.User, error) {
	u, err := repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// loadReservation enforces that members only reach their own reservations.
func loadReservation(ctx context.Context, repo *repository.Repository, id, callerID, callerRole string) (*model.Reservation, error) {
	res, err := repo.Reservation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if callerRole != "" && !isAdmin(callerRole) && res.UserID != callerID {
		return nil, ErrReservationForbidden
	}
	return res, nil
}

func lockAccommodation(ctx context.Context, tx *repository.Repository, id string) (*model.Accommodation, error) {
	acc, err := tx.Accommodation.GetForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccommodationNotFound
		}
		return nil, err
	}
	if !acc.IsActive {
		return nil, ErrAccommodationInactive
	}
	return acc, nil
}

// lockStay serializes writes per holder (user caps) and per accommodation
// type (director location caps). Keys are always taken in this order.
func lockStay(ctx context.Context, tx *repository.Repository, userID, accommodationType string) error {
	for _, key := range []string{"user:" + userID, "accommodation-type:" + accommodationType} {
		if err := tx.Reservation.AdvisoryLock(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// loadSnapshot builds the validator's view for one holder: their active
// reservations, every active reservation touching [checkIn, checkOut) and
// any extra reservations (typically the one being changed).
func loadSnapshot(ctx context.Context, repo *repository.Repository, owner *model.User, checkIn, checkOut time.Time, extra ...model.Reservation) (*validator.Snapshot, error) {
	mine, err := repo.Reservation.ListActiveByUser(ctx, owner.UserID)
	if err != nil {
		return nil, err
	}
	var around []model.Reservation
	if checkOut.After(checkIn) {
		around, err = repo.Reservation.ListActiveOverlapping(ctx, checkIn, checkOut)
		if err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool)
	var reservations []validator.ReservationSnapshot
	for _, group := range [][]model.Reservation{extra, mine, around} {
		for _, r := range group {
			if seen[r.ReservationID] {
				continue
			}
			seen[r.ReservationID] = true
			reservations = append(reservations, toReservationSnapshot(r))
		}
	}
	return validator.NewSnapshot([]validator.User{toValidatorUser(owner)}, reservations), nil
}

func newRequest(owner *model.User, acc *model.Accommodation, checkIn, checkOut time.Time) validator.ReservationRequest {
	return validator.ReservationRequest{
		UserID:            owner.UserID,
		UserType:          rules.MemberType(owner.MemberType),
		AccommodationID:   acc.AccommodationID,
		AccommodationType: rules.AccommodationType(acc.Type),
		CheckIn:           checkIn,
		CheckOut:          checkOut,
	}
}

// reprice recomputes price and payment terms for new dates and writes them
// onto res.
func (s *reservationService) reprice(ctx context.Context, snap *validator.Snapshot, res *model.Reservation, acc *model.Accommodation, checkIn, checkOut time.Time) (*pricing.StayPriceResult, *validator.PaymentInfo, error) {
	price, err := s.engine.Calculator.CalculateStayPrice(ctx, checkIn, checkOut, ratesOf(acc), s.engine.TaxRate)
	if err != nil {
		return nil, nil, err
	}
	pay, err := s.engine.Validator.CalculatePaymentInfo(ctx, snap, res.UserID, checkIn, price.TotalPrice)
	if err != nil {
		return nil, nil, err
	}
	applyPrice(res, price)
	applyPayment(res, pay, s.engine.Validator.Now())
	return price, pay, nil
}

var passthroughErrors = []error{
	ErrInvalidDate,
	ErrUserNotFound,
	ErrAccommodationNotFound,
	ErrAccommodationInactive,
	ErrReservationNotFound,
	ErrReservationForbidden,
	ErrNoPendingApproval,
	ErrInvalidStatusTransition,
	pricing.ErrInvalidDateRange,
	pkgerrors.ErrOptimisticLock,
	validator.ErrMemberTypeMismatch,
	rules.ErrUnknownMemberType,
}

// mapError turns repository conflicts into service errors and logs anything
// unexpected.
func (s *reservationService) mapError(op string, err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return err
	}
	if errors.Is(err, repository.ErrReservationOverlap) {
		return ErrReservationConflict
	}
	for _, known := range passthroughErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	s.logger.Error("reservation operation failed", zap.String("op", op), zap.Error(err))
	return err
}

// ── operations ──

func (s *reservationService) Validate(ctx context.Context, req *dto.CreateReservationRequest, callerID string) (*validator.ValidationResult, error) {
	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	acc, err := s.repo.Accommodation.GetByID(ctx, req.AccommodationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccommodationNotFound
		}
		return nil, s.mapError("validate", err)
	}
	if !acc.IsActive {
		return nil, ErrAccommodationInactive
	}
	owner, err := loadUser(ctx, s.repo, callerID)
	if err != nil {
		return nil, s.mapError("validate", err)
	}
	snap, err := loadSnapshot(ctx, s.repo, owner, checkIn, checkOut)
	if err != nil {
		return nil, s.mapError("validate", err)
	}

	result, err := s.engine.Validator.ValidateNewReservation(snap, newRequest(owner, acc, checkIn, checkOut), validator.NewReservationOptions{})
	if err != nil {
		return nil, s.mapError("validate", err)
	}
	return result, nil
}

func (s *reservationService) Create(ctx context.Context, req *dto.CreateReservationRequest, callerID string) (*dto.ReservationResultResponse, error) {
	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	var out *dto.ReservationResultResponse
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		acc, err := lockAccommodation(ctx, tx, req.AccommodationID)
		if err != nil {
			return err
		}
		owner, err := loadUser(ctx, tx, callerID)
		if err != nil {
			return err
		}
		if err := lockStay(ctx, tx, owner.UserID, acc.Type); err != nil {
			return err
		}
		snap, err := loadSnapshot(ctx, tx, owner, checkIn, checkOut)
		if err != nil {
			return err
		}

		result, err := s.engine.Validator.ValidateNewReservation(snap, newRequest(owner, acc, checkIn, checkOut), validator.NewReservationOptions{})
		if err != nil {
			return err
		}
		if !result.Valid {
			return &ValidationError{Result: result}
		}

		res := &model.Reservation{
			ReservationID:     uuid.NewString(),
			UserID:            owner.UserID,
			UserType:          owner.MemberType,
			AccommodationID:   acc.AccommodationID,
			AccommodationType: acc.Type,
			Status:            string(validator.StatusPending),
			Version:           1,
		}
		price, pay, err := s.reprice(ctx, snap, res, acc, checkIn, checkOut)
		if err != nil {
			return err
		}
		if err := tx.Reservation.Create(ctx, res); err != nil {
			return err
		}

		res.Accommodation = acc
		out = &dto.ReservationResultResponse{
			Reservation: toReservationResponse(res),
			Price:       price,
			Payment:     pay,
			Warnings:    result.Warnings,
		}
		return nil
	})
	if err != nil {
		return nil, s.mapError("create", err)
	}

	s.logger.Info("reservation created",
		zap.String("reservation_id", out.Reservation.ID),
		zap.String("user_id", callerID),
		zap.String("status", out.Reservation.Status))
	return out, nil
}

func (s *reservationService) Get(ctx context.Context, id, callerID, callerRole string) (*dto.ReservationResponse, error) {
	res, err := loadReservation(ctx, s.repo, id, callerID, callerRole)
	if err != nil {
		return nil, s.mapError("get", err)
	}
	resp := toReservationResponse(res)
	return &resp, nil
}

func (s *reservationService) ListMine(ctx context.Context, callerID string) ([]dto.ReservationResponse, error) {
	list, err := s.repo.Reservation.ListByUser(ctx, callerID)
	if err != nil {
		return nil, s.mapError("list", err)
	}
	result := make([]dto.ReservationResponse, 0, len(list))
	for i := range list {
		result = append(result, toReservationResponse(&list[i]))
	}
	return result, nil
}

func (s *reservationService) Modify(ctx context.Context, id string, req *dto.ModifyReservationRequest, callerID, callerRole string) (*dto.ModificationResponse, error) {
	var newIn, newOut *time.Time
	if req.CheckIn != nil {
		d, err := parseDate(*req.CheckIn)
		if err != nil {
			return nil, err
		}
		newIn = &d
	}
	if req.CheckOut != nil {
		d, err := parseDate(*req.CheckOut)
		if err != nil {
			return nil, err
		}
		newOut = &d
	}

	var out *dto.ModificationResponse
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		res, err := loadReservation(ctx, tx, id, callerID, callerRole)
		if err != nil {
			return err
		}
		checkIn, checkOut := res.CheckIn, res.CheckOut
		if newIn != nil {
			checkIn = *newIn
		}
		if newOut != nil {
			checkOut = *newOut
		}

		acc, err := lockAccommodation(ctx, tx, res.AccommodationID)
		if err != nil {
			return err
		}
		owner, err := loadUser(ctx, tx, res.UserID)
		if err != nil {
			return err
		}
		if err := lockStay(ctx, tx, owner.UserID, acc.Type); err != nil {
			return err
		}
		snap, err := loadSnapshot(ctx, tx, owner, checkIn, checkOut, *res)
		if err != nil {
			return err
		}

		mr, err := s.engine.Validator.ValidateReservationModification(snap, res.ReservationID, validator.ModificationRequest{
			NewCheckIn:     newIn,
			NewCheckOut:    newOut,
			IsEmergency:    req.IsEmergency,
			EmergencyProof: req.EmergencyProof,
		})
		if err != nil {
			return err
		}

		switch mr.Outcome {
		case validator.OutcomeApproved:
			if _, _, err := s.reprice(ctx, snap, res, acc, checkIn, checkOut); err != nil {
				return err
			}
			res.ManagerApprovalPending = false
			res.RequestedCheckIn, res.RequestedCheckOut = nil, nil
		case validator.OutcomePendingManagerApproval:
			reqIn, reqOut := pricing.DateOf(checkIn), pricing.DateOf(checkOut)
			res.ManagerApprovalPending = true
			res.RequestedCheckIn, res.RequestedCheckOut = &reqIn, &reqOut
		default:
			return &ValidationError{Result: &mr.ValidationResult, Outcome: mr.Outcome}
		}

		if err := tx.Reservation.UpdateStay(ctx, res); err != nil {
			return err
		}
		res.Accommodation = acc
		resp := toReservationResponse(res)
		out = &dto.ModificationResponse{Result: mr, Reservation: &resp}
		return nil
	})
	if err != nil {
		return nil, s.mapError("modify", err)
	}
	return out, nil
}

// ApproveModification is the general manager's override: the notice rules
// that parked the change no longer apply, but the requested stay is checked
// again against every other booking rule before it is written.
func (s *reservationService) ApproveModification(ctx context.Context, id string) (*dto.ReservationResultResponse, error) {
	var out *dto.ReservationResultResponse
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		res, err := loadReservation(ctx, tx, id, "", "")
		if err != nil {
			return err
		}
		if !res.ManagerApprovalPending || res.RequestedCheckIn == nil || res.RequestedCheckOut == nil {
			return ErrNoPendingApproval
		}
		if !validator.ReservationStatus(res.Status).Active() {
			return ErrInvalidStatusTransition
		}
		checkIn, checkOut := *res.RequestedCheckIn, *res.RequestedCheckOut

		acc, err := lockAccommodation(ctx, tx, res.AccommodationID)
		if err != nil {
			return err
		}
		owner, err := loadUser(ctx, tx, res.UserID)
		if err != nil {
			return err
		}
		if err := lockStay(ctx, tx, owner.UserID, acc.Type); err != nil {
			return err
		}
		snap, err := loadSnapshot(ctx, tx, owner, checkIn, checkOut, *res)
		if err != nil {
			return err
		}

		result, err := s.engine.Validator.ValidateNewReservation(snap, newRequest(owner, acc, checkIn, checkOut), validator.NewReservationOptions{
			ExcludeReservationID: res.ReservationID,
			ManagerOverride:      true,
		})
		if err != nil {
			return err
		}
		if !result.Valid {
			return &ValidationError{Result: result}
		}

		price, pay, err := s.reprice(ctx, snap, res, acc, checkIn, checkOut)
		if err != nil {
			return err
		}
		res.ManagerApprovalPending = false
		res.RequestedCheckIn, res.RequestedCheckOut = nil, nil
		if err := tx.Reservation.UpdateStay(ctx, res); err != nil {
			return err
		}

		res.Accommodation = acc
		out = &dto.ReservationResultResponse{
			Reservation: toReservationResponse(res),
			Price:       price,
			Payment:     pay,
			Warnings:    result.Warnings,
		}
		return nil
	})
	if err != nil {
		return nil, s.mapError("approve modification", err)
	}
	return out, nil
}

func (s *reservationService) Cancel(ctx context.Context, id string, req *dto.CancelReservationRequest, callerID, callerRole string) (*dto.ReservationResultResponse, error) {
	var out *dto.ReservationResultResponse
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		res, err := loadReservation(ctx, tx, id, callerID, callerRole)
		if err != nil {
			return err
		}
		owner, err := loadUser(ctx, tx, res.UserID)
		if err != nil {
			return err
		}
		snap := validator.NewSnapshot(
			[]validator.User{toValidatorUser(owner)},
			[]validator.ReservationSnapshot{toReservationSnapshot(*res)},
		)

		result, err := s.engine.Validator.ValidateReservationCancellation(snap, res.ReservationID, req.Reason)
		if err != nil {
			return err
		}
		if !result.Valid {
			return &ValidationError{Result: result}
		}

		res.Status = string(validator.StatusCancelled)
		res.CancelReason = req.Reason
		if err := tx.Reservation.UpdateStatus(ctx, res); err != nil {
			return err
		}
		out = &dto.ReservationResultResponse{
			Reservation: toReservationResponse(res),
			Warnings:    result.Warnings,
		}
		return nil
	})
	if err != nil {
		return nil, s.mapError("cancel", err)
	}
	return out, nil
}

func (s *reservationService) Confirm(ctx context.Context, id string) (*dto.ReservationResponse, error) {
	return s.transition(ctx, id, validator.StatusPending, validator.StatusConfirmed)
}

func (s *reservationService) Complete(ctx context.Context, id string) (*dto.ReservationResponse, error) {
	return s.transition(ctx, id, validator.StatusConfirmed, validator.StatusCompleted)
}

func (s *reservationService) transition(ctx context.Context, id string, from, to validator.ReservationStatus) (*dto.ReservationResponse, error) {
	res, err := loadReservation(ctx, s.repo, id, "", "")
	if err != nil {
		return nil, s.mapError("transition", err)
	}
	if validator.ReservationStatus(res.Status) != from {
		return nil, ErrInvalidStatusTransition
	}
	res.Status = string(to)
	if err := s.repo.Reservation.UpdateStatus(ctx, res); err != nil {
		return nil, s.mapError("transition", err)
	}
	resp := toReservationResponse(res)
	return &resp, nil
}

func (s *reservationService) HandOverKey(ctx context.Context, id string, req *dto.KeyHandoverRequest) (*validator.ValidationResult, error) {
	res, err := loadReservation(ctx, s.repo, id, "", "")
	if err != nil {
		return nil, s.mapError("key handover", err)
	}
	owner, err := loadUser(ctx, s.repo, res.UserID)
	if err != nil {
		return nil, s.mapError("key handover", err)
	}
	snap := validator.NewSnapshot(
		[]validator.User{toValidatorUser(owner)},
		[]validator.ReservationSnapshot{toReservationSnapshot(*res)},
	)

	result, err := s.engine.Validator.ValidateKeyHandover(snap, res.ReservationID, req.RecipientID, req.HasAuthorizationLetter)
	if err != nil {
		return nil, s.mapError("key handover", err)
	}
	if !result.Valid {
		return nil, &ValidationError{Result: result}
	}

	handover := &model.KeyHandover{
		HandoverID:             uuid.NewString(),
		ReservationID:          res.ReservationID,
		RecipientID:            req.RecipientID,
		HasAuthorizationLetter: req.HasAuthorizationLetter,
		HandedOverAt:           s.engine.Validator.Now(),
	}
	if err := s.repo.KeyHandover.Create(ctx, handover); err != nil {
		return nil, s.mapError("key handover", err)
	}
	return result, nil
}

func (s *reservationService) Transfer(ctx context.Context, id string, req *dto.TransferReservationRequest, callerID, callerRole string) error {
	res, err := loadReservation(ctx, s.repo, id, callerID, callerRole)
	if err != nil {
		return s.mapError("transfer", err)
	}
	return &ValidationError{Result: s.engine.Validator.ValidateTransfer(res.UserID, req.ToUserID)}
}

func (s *reservationService) PaymentInfo(ctx context.Context, id, callerID, callerRole string) (*validator.PaymentInfo, error) {
	res, err := loadReservation(ctx, s.repo, id, callerID, callerRole)
	if err != nil {
		return nil, s.mapError("payment info", err)
	}
	owner, err := loadUser(ctx, s.repo, res.UserID)
	if err != nil {
		return nil, s.mapError("payment info", err)
	}
	snap := validator.NewSnapshot([]validator.User{toValidatorUser(owner)}, nil)
	info, err := s.engine.Validator.CalculatePaymentInfo(ctx, snap, owner.UserID, res.CheckIn, res.TotalPrice)
	if err != nil {
		return nil, s.mapError("payment info", err)
	}
	return info, nil
}
