package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"nexus-pos/internal/events"
	"nexus-pos/internal/model"
	"nexus-pos/internal/repository"
	"nexus-pos/pkg/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEmailExists = errors.New("email already exists")

const generatedPasswordLength = 8

type CreateEmployeeRequest struct {
	FullName    string `json:"full_name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email,max=255"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20"`
}

type UpdateEmployeeRequest struct {
	FullName string  `json:"full_name" validate:"required,max=255"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
	IsActive *bool   `json:"is_active"`
}

type EmployeeView struct {
	model.UserResponse
	Initials string `json:"initials"`
}

type EmployeeStats struct {
	Total        int64 `json:"total"`
	NewThisMonth int64 `json:"new_this_month"`
}

type EmployeeList struct {
	Employees []EmployeeView `json:"employees"`
	Stats     EmployeeStats  `json:"stats"`
}

// EmployeeCreatedEvent carries the one-time credentials to the mail worker.
type EmployeeCreatedEvent struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
}

type EmployeeService interface {
	List(ctx context.Context) (*EmployeeList, error)
	Get(ctx context.Context, id uuid.UUID) (*EmployeeView, error)
	Create(ctx context.Context, actor Actor, req CreateEmployeeRequest) (*EmployeeView, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateEmployeeRequest) (*EmployeeView, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type employeeService struct {
	userRepo  repository.UserRepository
	roleRepo  repository.RoleRepository
	publisher events.Publisher
	loc       *time.Location
}

func NewEmployeeService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, publisher events.Publisher, loc *time.Location) EmployeeService {
	return &employeeService{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		publisher: publisher,
		loc:       loc,
	}
}

func toEmployeeView(u *model.User) EmployeeView {
	return EmployeeView{UserResponse: u.ToResponse(), Initials: u.Initials()}
}

func (s *employeeService) List(ctx context.Context) (*EmployeeList, error) {
	users, err := s.userRepo.FindByRole(ctx, model.RoleUser)
	if err != nil {
		return nil, err
	}
	monthStart := startOfMonth(time.Now().In(s.loc))
	fresh, err := s.userRepo.CountByRole(ctx, model.RoleUser, &monthStart)
	if err != nil {
		return nil, err
	}

	out := &EmployeeList{Employees: make([]EmployeeView, len(users))}
	for i := range users {
		out.Employees[i] = toEmployeeView(&users[i])
	}
	out.Stats = EmployeeStats{Total: int64(len(users)), NewThisMonth: fresh}
	return out, nil
}

func (s *employeeService) findEmployee(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.RoleCode() != model.RoleUser {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *employeeService) Get(ctx context.Context, id uuid.UUID) (*EmployeeView, error) {
	user, err := s.findEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	view := toEmployeeView(user)
	return &view, nil
}

func (s *employeeService) Create(ctx context.Context, actor Actor, req CreateEmployeeRequest) (*EmployeeView, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return nil, err
	}

	taken, err := s.userRepo.EmailTaken(ctx, req.Email, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailExists
	}

	role, err := s.roleRepo.FindByCode(ctx, model.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("role %s not seeded: %w", model.RoleUser, err)
	}

	password, err := generatePassword(generatedPasswordLength)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		RoleID:      &role.ID,
		IsActive:    true,
	}
	user.CreatedBy = actor.ID.String()
	user.UpdatedBy = actor.ID.String()
	if err := user.SetPassword(password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	user.Role = role

	evt := EmployeeCreatedEvent{UserID: user.ID, FullName: user.FullName, Email: user.Email, Password: password}
	if err := s.publisher.Publish(ctx, events.EmployeeCreated, evt); err != nil {
		log.Printf("employee: publish %s for %s failed: %v", events.EmployeeCreated, user.Email, err)
	}

	view := toEmployeeView(user)
	return &view, nil
}

func (s *employeeService) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateEmployeeRequest) (*EmployeeView, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.findEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.userRepo.EmailTaken(ctx, req.Email, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailExists
	}

	user.FullName = req.FullName
	user.Email = req.Email
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}
	user.UpdatedBy = actor.ID.String()

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	view := toEmployeeView(user)
	return &view, nil
}

func (s *employeeService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := s.findEmployee(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	log.Printf("employee: %s removed by %s", id, actor.ID)
	return nil
}

const passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func generatePassword(n int) (string, error) {
	max := big.NewInt(int64(len(passwordAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = passwordAlphabet[idx.Int64()]
	}
	return string(b), nil
}
