package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"nexus-pos/internal/model"
	"nexus-pos/internal/repository"

	"gorm.io/gorm"
)

// SeedOptions names the bootstrap administrator.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
}

// Seed creates default privileges, roles and the admin user if they don't exist.
func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions) error {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := privilegeRepo.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed privileges: %w", err)
	}
	if err := roleRepo.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	allPrivileges, err := privilegeRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	userPrivileges, err := privilegeRepo.FindByCodes(ctx, model.UserPrivilegeCodes)
	if err != nil {
		return err
	}

	grants := map[string][]model.Privilege{
		model.RoleAdmin: allPrivileges,
		model.RoleUser:  userPrivileges,
	}
	for code, privileges := range grants {
		role, err := roleRepo.FindByCode(ctx, code)
		if err != nil {
			return fmt.Errorf("load role %s: %w", code, err)
		}
		if len(role.Privileges) > 0 {
			continue
		}
		if err := roleRepo.ReplacePrivileges(ctx, role, privileges); err != nil {
			return fmt.Errorf("grant role %s: %w", code, err)
		}
		log.Printf("%s role assigned %d privileges", code, len(privileges))
	}

	_, err = userRepo.FindByEmail(ctx, opts.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	adminRole, err := roleRepo.FindByCode(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}
	admin := &model.User{
		Email:    opts.AdminEmail,
		FullName: "Administrator",
		RoleID:   &adminRole.ID,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(opts.AdminPassword); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Printf("Admin user created: %s", opts.AdminEmail)
	return nil
}
