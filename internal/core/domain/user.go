package domain

// Role is the coarse access level of a back-office user. Fine-grained access
// goes through permission codes; admins hold every code implicitly.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleFinance Role = "finance"
	RoleSales   Role = "sales"
)

// Permission codes checked before mutating operations.
const (
	PermFinanceView = "finance:view"
	PermFinanceEdit = "finance:edit"
)

// User is the minimal actor model needed for authentication and the
// permission gate. Full user administration lives outside this service.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	RealName     string `json:"realName"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	DepartmentID int64  `json:"departmentID"`
	Active       bool   `json:"active"`
	AuditFields
}
