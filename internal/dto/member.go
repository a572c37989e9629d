package dto

// ── member administration ──

type CreateMemberRequest struct {
	Name       string `json:"name"        binding:"required,min=2,max=120"`
	Email      string `json:"email"       binding:"required,email"`
	MemberType string `json:"member_type" binding:"required,oneof=member widow special_visitor transient_visitor youth_visitor board_director"`
	Role       string `json:"role"        binding:"omitempty,oneof=admin member"`
}

// CreateMemberResponse carries the generated password once; it is never
// stored in clear.
type CreateMemberResponse struct {
	Member       UserResponse `json:"member"`
	TempPassword string       `json:"temp_password"`
}

type UpdateMemberRequest struct {
	Name       *string `json:"name"        binding:"omitempty,min=2,max=120"`
	Email      *string `json:"email"       binding:"omitempty,email"`
	MemberType *string `json:"member_type" binding:"omitempty,oneof=member widow special_visitor transient_visitor youth_visitor board_director"`
	Role       *string `json:"role"        binding:"omitempty,oneof=admin member"`
	IsActive   *bool   `json:"is_active"`
}

type MemberListRequest struct {
	PaginationRequest
	MemberType      string `form:"member_type"      binding:"omitempty,oneof=member widow special_visitor transient_visitor youth_visitor board_director"`
	Keyword         string `form:"keyword"          binding:"omitempty,max=50"`
	IncludeInactive bool   `form:"include_inactive"`
}

type ResetPasswordResponse struct {
	TempPassword string `json:"temp_password"`
}

// ImportMembersResponse reports a spreadsheet import row by row.
type ImportMembersResponse struct {
	Total   int                 `json:"total"`
	Success int                 `json:"success"`
	Failed  int                 `json:"failed"`
	Created []ImportedMember    `json:"created,omitempty"`
	Errors  []ImportMemberError `json:"errors,omitempty"`
}

type ImportedMember struct {
	Row          int    `json:"row"`
	Email        string `json:"email"`
	TempPassword string `json:"temp_password"`
}

type ImportMemberError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
