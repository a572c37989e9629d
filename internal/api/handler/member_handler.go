package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"club-lodging/backend/internal/dto"
	"club-lodging/backend/internal/service"
	"club-lodging/backend/pkg/response"
)

// MemberHandler administers member accounts (admin only).
type MemberHandler struct {
	memberSvc service.MemberService
}

func NewMemberHandler(memberSvc service.MemberService) *MemberHandler {
	return &MemberHandler{memberSvc: memberSvc}
}

// List GET /api/v1/admin/members?member_type=&keyword=&page=&page_size=
func (h *MemberHandler) List(c *gin.Context) {
	var req dto.MemberListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	members, total, err := h.memberSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleMemberError(c, err)
		return
	}
	response.OKPage(c, members, total, req.GetPage(), req.GetPageSize())
}

// Get GET /api/v1/admin/members/:id
func (h *MemberHandler) Get(c *gin.Context) {
	member, err := h.memberSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleMemberError(c, err)
		return
	}
	response.OK(c, member)
}

// Create POST /api/v1/admin/members
func (h *MemberHandler) Create(c *gin.Context) {
	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	resp, err := h.memberSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleMemberError(c, err)
		return
	}
	response.Created(c, resp)
}

// Update PATCH /api/v1/admin/members/:id
func (h *MemberHandler) Update(c *gin.Context) {
	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	member, err := h.memberSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleMemberError(c, err)
		return
	}
	response.OK(c, member)
}

// ResetPassword POST /api/v1/admin/members/:id/reset-password
func (h *MemberHandler) ResetPassword(c *gin.Context) {
	resp, err := h.memberSvc.ResetPassword(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleMemberError(c, err)
		return
	}
	response.OK(c, resp)
}

// Import POST /api/v1/admin/members/import (multipart "file", .xlsx)
func (h *MemberHandler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 17005, "Suba un archivo Excel (.xlsx)")
		return
	}
	defer file.Close()

	rows, err := h.memberSvc.ParseImportFile(file)
	if err != nil {
		handleMemberError(c, err)
		return
	}

	resp, err := h.memberSvc.ImportMembers(c.Request.Context(), rows)
	if err != nil {
		handleMemberError(c, err)
		return
	}
	response.Created(c, resp)
}

func handleMemberError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 17001, "Miembro no encontrado")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 17002, "El correo ya está registrado")
	case errors.Is(err, service.ErrUserSelfRoleChange):
		response.Forbidden(c, 17003, "No puede cambiar su propio rol")
	case errors.Is(err, service.ErrUserSelfDeactivate):
		response.Forbidden(c, 17004, "No puede desactivar su propia cuenta")
	case errors.Is(err, service.ErrImportBadFile):
		response.BadRequest(c, 17005, "Suba un archivo Excel (.xlsx)")
	case errors.Is(err, service.ErrImportBadHeader),
		errors.Is(err, service.ErrImportNoData),
		errors.Is(err, service.ErrImportTooManyRows):
		response.BadRequest(c, 17006, err.Error())
	default:
		response.InternalError(c)
	}
}
