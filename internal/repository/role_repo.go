package repository

import (
	"errors"

	"go-storefront/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindAll() ([]model.Role, error)
	FindByCode(code string) (*model.Role, error)
	SeedDefaults() error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) FindAll() ([]model.Role, error) {
	var roles []model.Role
	err := r.db.Preload("Privileges", func(db *gorm.DB) *gorm.DB {
		return db.Order("privileges.id ASC")
	}).Order("id ASC").Find(&roles).Error
	return roles, err
}

func (r *roleRepo) FindByCode(code string) (*model.Role, error) {
	var role model.Role
	if err := r.db.Where("code = ?", code).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// SeedDefaults creates the shipped roles and tops up their grants. Grants an
// operator added by hand are kept. Privileges must be seeded first.
func (r *roleRepo) SeedDefaults() error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, seed := range model.DefaultRoles {
			role := seed
			err := tx.Where("code = ?", seed.Code).First(&role).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&role).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			}

			codes := model.DefaultRolePrivilegeCodes(role.Code)
			if len(codes) == 0 {
				continue
			}
			var grants []model.Privilege
			if err := tx.Where("code IN ?", codes).Find(&grants).Error; err != nil {
				return err
			}
			if len(grants) != len(codes) {
				return errors.New("privileges missing for role " + role.Code + ", seed privileges first")
			}
			if err := tx.Model(&role).Association("Privileges").Append(grants); err != nil {
				return err
			}
		}
		return nil
	})
}
