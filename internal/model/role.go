package model

// Role groups privileges; users inherit the privileges of their role
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleAdmin    = "ADMIN"
	RoleEditor   = "EDITOR"
	RoleCustomer = "CUSTOMER"
)

var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Full back-office access",
	},
	{
		Code:        RoleEditor,
		Name:        "Catalog Editor",
		Description: "Manages the catalog, cannot delete or see orders",
	},
	{
		Code:        RoleCustomer,
		Name:        "Customer",
		Description: "Storefront account with cart access only",
	},
}

// DefaultRolePrivilegeCodes lists what each seeded role is granted
func DefaultRolePrivilegeCodes(roleCode string) []string {
	var codes []string
	switch roleCode {
	case RoleAdmin:
		for _, p := range DefaultPrivileges {
			codes = append(codes, p.Code)
		}
	case RoleEditor:
		for _, resource := range PrivilegedResources {
			if resource == "orders" {
				continue
			}
			for _, action := range []string{"read", "create", "update"} {
				codes = append(codes, PrivilegeCode(action, resource))
			}
		}
	}
	return codes
}
