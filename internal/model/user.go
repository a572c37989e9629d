package model

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User is a club member or visitor (table users)
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string `gorm:"type:varchar(120);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	MemberType   string `gorm:"type:varchar(32);not null"                      json:"member_type"`
	Role         string `gorm:"type:varchar(16);not null;default:'member'"     json:"role"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

func (User) TableName() string { return "users" }
