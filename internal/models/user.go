package models

// User is one row of the users table. This service only reads users; account
// administration happens in the wider back-office system.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	RealName     string `json:"realName" db:"real_name"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
	DepartmentID int64  `json:"departmentID" db:"department_id"`
	Active       bool   `json:"active" db:"active"`
	AuditFields
}
