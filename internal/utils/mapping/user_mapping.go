package mapping

import (
	"github.com/techvision/crm-finance/internal/core/domain"
	"github.com/techvision/crm-finance/internal/models"
)

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		ID:           m.ID,
		Username:     m.Username,
		RealName:     m.RealName,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		DepartmentID: m.DepartmentID,
		Active:       m.Active,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
