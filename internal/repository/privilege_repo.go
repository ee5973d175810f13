package repository

import (
	"go-storefront/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PrivilegeRepository interface {
	FindAll() ([]model.Privilege, error)
	SeedDefaults() error
}

type privilegeRepo struct {
	db *gorm.DB
}

func NewPrivilegeRepo(db *gorm.DB) PrivilegeRepository {
	return &privilegeRepo{db}
}

// FindAll returns every privilege grouped by resource, then action
func (r *privilegeRepo) FindAll() ([]model.Privilege, error) {
	privileges := make([]model.Privilege, 0, len(model.DefaultPrivileges))
	err := r.db.Order("id ASC").Find(&privileges).Error
	return privileges, err
}

// SeedDefaults inserts the action/resource matrix; existing codes are left alone
func (r *privilegeRepo) SeedDefaults() error {
	privileges := append([]model.Privilege(nil), model.DefaultPrivileges...)
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&privileges).Error
}
