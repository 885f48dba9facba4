// internal/models/roles.go

package models

// UserRole representa o papel de quem acessa o painel administrativo
type UserRole string

// Papéis do painel
const (
	RoleStaff UserRole = "ASSESSOR"
	RoleAdmin UserRole = "ADMIN"
)

// Permission é uma ação protegida no painel
type Permission string

const (
	PermissionManageContent  Permission = "manage_content"
	PermissionDeleteRecords  Permission = "delete_records"
	PermissionManageSettings Permission = "manage_settings"
	PermissionExportData     Permission = "export_data"
)

var rolePermissions = map[UserRole][]Permission{
	RoleStaff: {
		PermissionManageContent,
		PermissionExportData,
	},
	RoleAdmin: {
		PermissionManageContent,
		PermissionExportData,
		PermissionDeleteRecords,
		PermissionManageSettings,
	},
}

// IsValid verifica se o papel é conhecido
func (r UserRole) IsValid() bool {
	switch r {
	case RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// IsHigherOrEqual verifica se o papel atual é igual ou superior ao alvo
func (r UserRole) IsHigherOrEqual(target UserRole) bool {
	roleHierarchy := map[UserRole]int{
		RoleStaff: 0,
		RoleAdmin: 1,
	}

	currentLevel, exists1 := roleHierarchy[r]
	targetLevel, exists2 := roleHierarchy[target]

	if !exists1 || !exists2 {
		return false
	}

	return currentLevel >= targetLevel
}

// HasPermission verifica se o papel concede a permissão
func (r UserRole) HasPermission(p Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}

func (r UserRole) String() string {
	return string(r)
}

// FromString converte string em UserRole
func FromString(role string) (UserRole, bool) {
	r := UserRole(role)
	if r.IsValid() {
		return r, true
	}
	return "", false
}
