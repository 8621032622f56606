package domain

import "strings"

// Role is the fixed set of roles a user can hold inside a tenant.
type Role string

const (
	RoleCompanyAdmin Role = "COMPANY_ADMIN"
	RoleVeterinarian Role = "VETERINARIAN"
	RoleAttendant    Role = "ATTENDANT"
	RoleFinance      Role = "FINANCE"
	RoleUser         Role = "USER"
)

// Permissions granted by roles. Names follow "resource:action".
const (
	PermAdminAll           = "admin:all"
	PermUsersManage        = "users:manage"
	PermCompanyManage      = "company:manage"
	PermCustomersManage    = "customers:manage"
	PermCustomersView      = "customers:view"
	PermPetsManage         = "pets:manage"
	PermScheduleManage     = "schedule:manage"
	PermAppointmentsManage = "appointments:manage"
	PermRecordsManage      = "records:manage"
	PermFinanceManage      = "finance:manage"
	PermProductsManage     = "products:manage"
	PermSalesManage        = "sales:manage"
	PermReportsView        = "reports:view"
	PermBasicAccess        = "basic:access"
)

var rolePermissions = map[Role][]string{
	RoleCompanyAdmin: {
		PermAdminAll, PermUsersManage, PermCompanyManage, PermCustomersManage, PermPetsManage,
		PermScheduleManage, PermFinanceManage, PermProductsManage, PermReportsView,
	},
	RoleVeterinarian: {
		PermCustomersManage, PermPetsManage, PermScheduleManage, PermAppointmentsManage, PermRecordsManage,
	},
	RoleAttendant: {
		PermCustomersManage, PermPetsManage, PermScheduleManage, PermProductsManage, PermSalesManage,
	},
	RoleFinance: {
		PermFinanceManage, PermReportsView, PermCustomersView,
	},
	RoleUser: {
		PermBasicAccess,
	},
}

// ParseRole normalises s into a known role. ok is false for unknown names.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := rolePermissions[r]
	return r, ok
}

// Permissions returns a copy of the permissions granted to r. Unknown roles
// only get basic access.
func (r Role) Permissions() []string {
	perms, ok := rolePermissions[r]
	if !ok {
		perms = rolePermissions[RoleUser]
	}
	return append([]string(nil), perms...)
}
