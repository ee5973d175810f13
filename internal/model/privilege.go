package model

import "fmt"

// Privilege represents a permission that can be granted through a role
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "read-categories"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Read Categories"
}

// Resources guarded by read/create/update/delete privileges
var PrivilegedResources = []string{"categories", "products", "tags", "attributes", "discounts", "orders"}

var privilegeActions = []string{"read", "create", "update", "delete"}

// PrivilegeCode builds the slug checked by route gates, e.g. PrivilegeCode("update", "categories").
func PrivilegeCode(action, resource string) string {
	return action + "-" + resource
}

// DefaultPrivileges lists every action/resource pair
var DefaultPrivileges = func() []Privilege {
	privileges := make([]Privilege, 0, len(PrivilegedResources)*len(privilegeActions))
	for _, resource := range PrivilegedResources {
		for _, action := range privilegeActions {
			privileges = append(privileges, Privilege{
				Code: PrivilegeCode(action, resource),
				Name: fmt.Sprintf("%s %s", titleCase(action), titleCase(resource)),
			})
		}
	}
	return privileges
}()

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
