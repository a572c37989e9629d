package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"club-lodging/backend/internal/dto"
	"club-lodging/backend/internal/model"
	"club-lodging/backend/internal/repository"
	"club-lodging/backend/internal/rules"
)

var (
	ErrEmailExists        = errors.New("el correo ya está registrado")
	ErrUserSelfRoleChange = errors.New("no puede cambiar su propio rol")
	ErrUserSelfDeactivate = errors.New("no puede desactivar su propia cuenta")
)

// MemberService lets the administration manage member accounts. Accounts
// are never deleted: reservations keep pointing at them.
type MemberService interface {
	Create(ctx context.Context, req *dto.CreateMemberRequest) (*dto.CreateMemberResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.MemberListRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateMemberRequest, callerID string) (*dto.UserResponse, error)
	ResetPassword(ctx context.Context, id string) (*dto.ResetPasswordResponse, error)
	ParseImportFile(reader io.Reader) ([]ImportMemberRow, error)
	ImportMembers(ctx context.Context, rows []ImportMemberRow) (*dto.ImportMembersResponse, error)
}

// ImportMemberRow is one parsed spreadsheet row. Row is the 1-based sheet
// row, header included.
type ImportMemberRow struct {
	Row        int
	Name       string
	Email      string
	MemberType string
}

type memberService struct {
	repo   *repository.Repository
	logger *zap.Logger
	cost   int
}

func NewMemberService(repo *repository.Repository, logger *zap.Logger) MemberService {
	return &memberService{repo: repo, logger: logger, cost: bcrypt.DefaultCost}
}

// ────────────────────── Create ──────────────────────

func (s *memberService) Create(ctx context.Context, req *dto.CreateMemberRequest) (*dto.CreateMemberResponse, error) {
	email := normalizeEmail(req.Email)
	if err := s.checkEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	password, hash, err := s.newPassword()
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleMember
	}
	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		MemberType:   req.MemberType,
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("failed to create member", zap.Error(err))
		return nil, err
	}

	return &dto.CreateMemberResponse{
		Member:       toUserResponse(user),
		TempPassword: password,
	}, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *memberService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *memberService) List(ctx context.Context, req *dto.MemberListRequest) ([]dto.UserResponse, int64, error) {
	filters := &repository.UserListFilters{
		MemberType:      req.MemberType,
		Keyword:         strings.TrimSpace(req.Keyword),
		IncludeInactive: req.IncludeInactive,
	}

	users, total, err := s.repo.User.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("failed to list members", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *memberService) Update(ctx context.Context, id string, req *dto.UpdateMemberRequest, callerID string) (*dto.UserResponse, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if id == callerID {
		if req.Role != nil && *req.Role != user.Role {
			return nil, ErrUserSelfRoleChange
		}
		if req.IsActive != nil && !*req.IsActive {
			return nil, ErrUserSelfDeactivate
		}
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if err := s.checkEmailFree(ctx, email, id); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if req.MemberType != nil {
		user.MemberType = *req.MemberType
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("failed to update member", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── ResetPassword ──────────────────────

func (s *memberService) ResetPassword(ctx context.Context, id string) (*dto.ResetPasswordResponse, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	password, hash, err := s.newPassword()
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("failed to reset password", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &dto.ResetPasswordResponse{TempPassword: password}, nil
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = errors.New("el archivo no tiene filas de datos (la primera fila es el encabezado)")
	ErrImportTooManyRows = fmt.Errorf("el archivo supera el máximo de %d filas", maxImportRows)
	ErrImportBadHeader   = errors.New("faltan columnas obligatorias en el encabezado (nombre/correo/tipo)")
	ErrImportBadFile     = errors.New("no se pudo leer el archivo Excel")
)

// ParseImportFile reads the first sheet of an .xlsx workbook. Columns are
// located by header name, in Spanish or English, in any order.
func (s *memberService) ParseImportFile(reader io.Reader) ([]ImportMemberRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportBadFile, err)
	}
	defer f.Close()

	sheetRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportBadFile, err)
	}
	if len(sheetRows) < 2 {
		return nil, ErrImportNoData
	}

	col := parseHeaderIndex(sheetRows[0])
	if col["name"] < 0 || col["email"] < 0 || col["member_type"] < 0 {
		return nil, ErrImportBadHeader
	}

	cell := func(row []string, key string) string {
		if idx := col[key]; idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportMemberRow
	for i := 1; i < len(sheetRows); i++ {
		item := ImportMemberRow{
			Row:        i + 1,
			Name:       cell(sheetRows[i], "name"),
			Email:      cell(sheetRows[i], "email"),
			MemberType: cell(sheetRows[i], "member_type"),
		}
		if item.Name == "" && item.Email == "" && item.MemberType == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{"name": -1, "email": -1, "member_type": -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "nombre", "name":
			idx["name"] = i
		case "correo", "email":
			idx["email"] = i
		case "tipo", "member_type":
			idx["member_type"] = i
		}
	}
	return idx
}

// ────────────────────── ImportMembers ──────────────────────

// ImportMembers checks every row first and then creates the valid ones in
// one transaction: a write failure rolls the whole import back.
func (s *memberService) ImportMembers(ctx context.Context, rows []ImportMemberRow) (*dto.ImportMembersResponse, error) {
	resp := &dto.ImportMembersResponse{Total: len(rows)}
	fail := func(row int, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportMemberError{Row: row, Reason: reason})
	}

	type validRow struct {
		row      ImportMemberRow
		password string
		hash     string
	}
	var valid []validRow
	seen := make(map[string]int, len(rows))

	for _, row := range rows {
		if row.Name == "" || row.Email == "" || row.MemberType == "" {
			fail(row.Row, "faltan campos obligatorios")
			continue
		}
		row.Email = normalizeEmail(row.Email)
		if _, err := rules.ParseMemberType(row.MemberType); err != nil {
			fail(row.Row, fmt.Sprintf("tipo de miembro desconocido: %s", row.MemberType))
			continue
		}
		if first, dup := seen[row.Email]; dup {
			fail(row.Row, fmt.Sprintf("correo repetido en la fila %d: %s", first, row.Email))
			continue
		}
		seen[row.Email] = row.Row

		if _, err := s.repo.User.GetByEmail(ctx, row.Email); err == nil {
			fail(row.Row, fmt.Sprintf("el correo ya está registrado: %s", row.Email))
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("failed to check email", zap.Error(err))
			return nil, err
		}

		password, hash, err := s.newPassword()
		if err != nil {
			return nil, err
		}
		valid = append(valid, validRow{row: row, password: password, hash: hash})
	}

	if len(valid) == 0 {
		return resp, nil
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for _, v := range valid {
			user := &model.User{
				Name:         v.row.Name,
				Email:        v.row.Email,
				PasswordHash: v.hash,
				MemberType:   v.row.MemberType,
				Role:         model.RoleMember,
				IsActive:     true,
			}
			if err := tx.User.Create(ctx, user); err != nil {
				s.logger.Error("member import rolled back", zap.Int("row", v.row.Row), zap.Error(err))
				return fmt.Errorf("fila %d: %w", v.row.Row, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, v := range valid {
		resp.Success++
		resp.Created = append(resp.Created, dto.ImportedMember{
			Row:          v.row.Row,
			Email:        v.row.Email,
			TempPassword: v.password,
		})
	}
	return resp, nil
}

// ── helpers ──

func (s *memberService) load(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("failed to load member", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// checkEmailFree fails when email belongs to an account other than selfID.
func (s *memberService) checkEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.User.GetByEmail(ctx, email)
	switch {
	case err == nil && existing.UserID != selfID:
		return ErrEmailExists
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("failed to check email", zap.Error(err))
		return err
	}
	return nil
}

func (s *memberService) newPassword() (string, string, error) {
	password, err := generateTempPassword(10)
	if err != nil {
		s.logger.Error("failed to generate password", zap.Error(err))
		return "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return "", "", err
	}
	return password, string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateTempPassword returns a random password with at least one letter
// and one digit, avoiding look-alike characters.
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < 4 {
		length = 8
	}

	pick := func(set string) (byte, error) {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
		if err != nil {
			return 0, err
		}
		return set[n.Int64()], nil
	}

	result := make([]byte, length)
	var err error
	if result[0], err = pick(letters); err != nil {
		return "", err
	}
	if result[1], err = pick(digits); err != nil {
		return "", err
	}
	for i := 2; i < length; i++ {
		if result[i], err = pick(all); err != nil {
			return "", err
		}
	}

	// Fisher-Yates
	for i := length - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		result[i], result[j.Int64()] = result[j.Int64()], result[i]
	}
	return string(result), nil
}
