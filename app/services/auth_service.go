package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/eburutu/mart/app/models"
	"github.com/eburutu/mart/app/repositories"
	"github.com/eburutu/mart/app/verification"
	"github.com/eburutu/mart/pkg/apperror"
	"github.com/eburutu/mart/pkg/auth"
)

type RegisterInput struct {
	Email    string  `json:"email" validate:"nullable,email,max=255"`
	Password string  `json:"password" validate:"nullable,max=72"`
	Name     string  `json:"name" validate:"nullable,max=255"`
	Role     string  `json:"role" validate:"nullable,in=BUYER|SELLER"`
	Phone    *string `json:"phone" validate:"nullable,max=50"`
	Location *string `json:"location" validate:"nullable,max=255"`
	Avatar   *string `json:"avatar"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthService registers users and checks credentials. Session tokens are
// issued by the controller.
type AuthService struct {
	db    *gorm.DB
	users *repositories.UserRepository
	media *MediaStore
}

func NewAuthService(db *gorm.DB, repos *repositories.Repositories, media *MediaStore) *AuthService {
	return &AuthService{db: db, users: repos.Users, media: media}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user. Sellers must send an avatar and get a PENDING
// seller profile in the same transaction.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || in.Password == "" || name == "" {
		return nil, apperror.Invalid("Email, password, and name are required", nil)
	}

	role := models.RoleBuyer
	if strings.TrimSpace(in.Role) != "" {
		role = models.Role(strings.ToUpper(strings.TrimSpace(in.Role)))
	}
	if role != models.RoleBuyer && role != models.RoleSeller {
		return nil, apperror.Invalid("Invalid role", map[string]string{"role": "The selected role is invalid."})
	}
	if role == models.RoleSeller && (in.Avatar == nil || strings.TrimSpace(*in.Avatar) == "") {
		return nil, apperror.Invalid("Profile picture is required for sellers", map[string]string{"avatar": "The avatar field is required."})
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.Invalid("Password is too long", map[string]string{"password": "The password may not be greater than 72 bytes."})
		}
		return nil, apperror.Internal(err)
	}

	up := s.media.batch()
	var avatar *string
	if in.Avatar != nil && strings.TrimSpace(*in.Avatar) != "" {
		url, err := up.store(ctx, "avatars", *in.Avatar)
		if err != nil {
			return nil, err
		}
		avatar = &url
	}

	now := time.Now().UTC()
	user := &models.User{
		Email:         email,
		Password:      hash,
		Name:          name,
		Role:          role,
		Phone:         in.Phone,
		Location:      in.Location,
		Avatar:        avatar,
		IsActive:      true,
		EmailVerified: &now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)

		taken, err := users.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return apperror.Invalid("User already exists", nil)
		}
		if err := users.Create(ctx, user); err != nil {
			return err
		}

		if role != models.RoleSeller {
			return nil
		}
		return repositories.NewSellerProfileRepository(tx).Create(ctx, &models.SellerProfile{
			UserID:             user.ID,
			VerificationStatus: verification.Pending,
			SubmittedAt:        &now,
		})
	})
	if err != nil {
		up.discard(ctx)
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

// Login returns the user for valid credentials. Unknown email, wrong
// password and deactivated accounts all fail the same way.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperror.Unauthorized("Invalid email or password")
		}
		return nil, apperror.Internal(err)
	}
	if !auth.CheckPassword(user.Password, in.Password) || !user.IsActive {
		return nil, apperror.Unauthorized("Invalid email or password")
	}
	return user, nil
}

// Current loads the session user with their seller profile.
func (s *AuthService) Current(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperror.Unauthorized("Unauthorized")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

// Lookup reports the stored role and active flag; the session middleware
// uses it so role changes apply to existing sessions.
func (s *AuthService) Lookup(ctx context.Context, id string) (string, bool, error) {
	return s.users.Lookup(ctx, id)
}
