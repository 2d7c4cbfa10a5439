package models

import "time"

// Roles. Sub-agents are agents with a ParentID set; the SUBAGENT role exists
// so dashboards can distinguish them without walking the parent chain.
const (
	RoleSuperadmin = "SUPERADMIN"
	RoleAgent      = "AGENT"
	RoleSubagent   = "SUBAGENT"
	RoleCustomer   = "CUSTOMER"
	RoleRider      = "RIDER"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Phone    string `gorm:"size:20" json:"phone"`
	Password string `gorm:"size:255;not null" json:"-"`
	Role     string `gorm:"type:varchar(20);default:'CUSTOMER'" json:"role"`
	Location string `gorm:"size:100" json:"location"`
	// ParentID is the supervising agent for sub-agents. The parent earns a
	// fixed override bonus on this user's deliveries, one level only.
	ParentID  *uint     `gorm:"index" json:"parent_id,omitempty"`
	Status    string    `gorm:"type:varchar(20);default:'Active'" json:"status"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Parent *User `gorm:"foreignKey:ParentID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// IsAgent reports whether the user participates in the earnings scheme.
func (u *User) IsAgent() bool {
	return u.Role == RoleAgent || u.Role == RoleSubagent
}
