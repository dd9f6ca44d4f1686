package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
	"github.com/jhoicas/Caja-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de autenticación de operadores: registro y login.
type UseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *UseCase {
	return &UseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Register crea un operador: hashea password con bcrypt y persiste. Devuelve
// ErrEmailAlreadyExists si el email ya está registrado.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if in.Email == "" || len(in.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.userRepo.FindByEmail(ctx, in.Email)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleCajero
	}
	if role != entity.RoleAdmin && role != entity.RoleCajero {
		return nil, domain.ErrInvalidInput
	}
	name := in.Name
	if name == "" {
		name = in.Email
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != "active" {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Name, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *toUserResponse(user)}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}
