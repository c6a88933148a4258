package model

import (
	"time"

	"github.com/google/uuid"
)

// Staff roles, in descending privilege.
const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleSales   = "sales"
)

// Staff is a directory record consumed read-only. Registration, login and
// profile management live in the identity service; this backend only
// resolves staff for authorization checks.
type Staff struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ShopID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"not null"`
	Phone     string    `gorm:"uniqueIndex;not null"`
	Email     string
	Role      string    `gorm:"type:varchar(20);not null"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Staff) TableName() string { return "staff" }

// Shop mirrors the directory's shop record. Verified gates every mutating
// operation in this backend.
type Shop struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null"`
	Phone     string
	Address   string
	Verified  bool `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
