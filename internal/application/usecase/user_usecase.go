package usecase

import (
	"github.com/tu-usuario/cadena-pro/internal/application/dto"
	"github.com/tu-usuario/cadena-pro/internal/domain"
	"github.com/tu-usuario/cadena-pro/internal/domain/entity"
	"github.com/tu-usuario/cadena-pro/internal/domain/repository"
)

// UserUseCase operaciones administrativas sobre usuarios (solo admin).
type UserUseCase struct {
	userRepo repository.UserRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

// List lista usuarios con paginación.
func (uc *UserUseCase) List(page dto.PageRequest) ([]dto.UserResponse, error) {
	page.DefaultPage()
	users, err := uc.userRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *dto.ToUserResponse(u))
	}
	return out, nil
}

// PendingVerifications lista las cuentas operativas en espera de aprobación.
func (uc *UserUseCase) PendingVerifications() ([]dto.UserResponse, error) {
	users, err := uc.userRepo.ListPendingVerification()
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *dto.ToUserResponse(u))
	}
	return out, nil
}

// Verify aprueba o rechaza una cuenta pendiente. action es verify|reject.
func (uc *UserUseCase) Verify(userID, action string) (*dto.UserResponse, error) {
	var status string
	switch action {
	case "verify":
		status = entity.VerificationVerified
	case "reject":
		status = entity.VerificationRejected
	default:
		return nil, domain.ErrInvalidInput
	}

	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if err := uc.userRepo.UpdateVerification(userID, status); err != nil {
		return nil, err
	}
	user.VerificationStatus = status
	return dto.ToUserResponse(user), nil
}
