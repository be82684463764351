package leasing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nyumbani/backend/internal/domain/shared"
)

// ApplicationStatus tracks a rental application's review state
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// IsValid checks if the application status is valid
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

// Application is a prospective tenant's submitted interest in a unit.
// AdminDeleted hides it from the admin view without destroying the
// applicant's own copy.
type Application struct {
	shared.BaseAggregateRoot
	FullName   string `gorm:"size:200;not null" json:"full_name"`
	Email      string `gorm:"size:200;not null" json:"email"`
	Phone      string `gorm:"size:30;not null" json:"phone"`
	IDNumber   string `gorm:"size:30" json:"id_number"`
	Occupation string `gorm:"size:100" json:"occupation"`
	Employer   string `gorm:"size:200" json:"employer"`

	MonthlyIncome decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"monthly_income"`

	PropertyID uuid.UUID `gorm:"type:uuid;not null;index" json:"property_id"`
	UnitID     uuid.UUID `gorm:"type:uuid;not null;index" json:"unit_id"`

	DesiredMoveIn time.Time         `json:"desired_move_in"`
	Status        ApplicationStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AdminDeleted  bool              `gorm:"not null;default:false" json:"admin_deleted"`
	ReviewNote    string            `gorm:"size:500" json:"review_note"`
}

// TableName returns the table name for GORM
func (Application) TableName() string {
	return "rental_applications"
}

// NewApplication creates a pending rental application for a unit
func NewApplication(fullName, email, phone string, propertyID, unitID uuid.UUID) (*Application, error) {
	if strings.TrimSpace(fullName) == "" {
		return nil, shared.NewDomainError("INVALID_APPLICATION", "Applicant full name is required")
	}
	if strings.TrimSpace(email) == "" {
		return nil, shared.NewDomainError("INVALID_APPLICATION", "Applicant email is required")
	}
	if strings.TrimSpace(phone) == "" {
		return nil, shared.NewDomainError("INVALID_APPLICATION", "Applicant phone is required")
	}
	if propertyID == uuid.Nil || unitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_APPLICATION", "Application must reference a property and a unit")
	}

	return &Application{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FullName:          strings.TrimSpace(fullName),
		Email:             strings.TrimSpace(strings.ToLower(email)),
		Phone:             strings.TrimSpace(phone),
		PropertyID:        propertyID,
		UnitID:            unitID,
		Status:            ApplicationStatusPending,
	}, nil
}

// Approve marks a pending application approved
func (a *Application) Approve() error {
	if a.Status != ApplicationStatusPending {
		return shared.NewDomainError("INVALID_APPLICATION_STATE", "Only pending applications can be approved")
	}
	a.Status = ApplicationStatusApproved
	a.IncrementVersion()
	return nil
}

// Reject marks a pending application rejected with an optional note
func (a *Application) Reject(note string) error {
	if a.Status != ApplicationStatusPending {
		return shared.NewDomainError("INVALID_APPLICATION_STATE", "Only pending applications can be rejected")
	}
	a.Status = ApplicationStatusRejected
	a.ReviewNote = note
	a.IncrementVersion()
	return nil
}

// HideFromAdmin soft-deletes the application from the admin listing
func (a *Application) HideFromAdmin() {
	a.AdminDeleted = true
	a.IncrementVersion()
}
