package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "ally/internal/errors"
	"ally/internal/models"
	"ally/internal/pagination"
)

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new student user with a locally stored password.
func (s *userService) CreateUser(email, password, firstName, lastName string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	var count int64
	s.db.Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:     strings.ToLower(email),
		Password:  string(hashedPassword),
		Role:      models.RoleStudent,
		FirstName: firstName,
		LastName:  lastName,
		IsActive:  true,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// AttemptLogin verifies credentials and records the login time.
// Supabase-bridged users have no local password and cannot log in here.
func (s *userService) AttemptLogin(email, password string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if user.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.db.Model(&user).Update("last_login", now).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.LastLogin = &now

	return &user, nil
}

// GetActiveUserByID retrieves an active user by ID.
func (s *userService) GetActiveUserByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ? AND is_active = ?", id, true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// FindOrCreateSupabaseUser maps a verified Supabase identity to a local user
// row, creating the row on first login. The created user has no local
// password; authentication always happens against the Supabase token.
func (s *userService) FindOrCreateSupabaseUser(supabaseID, email, firstName, lastName string) (*models.User, error) {
	var user models.User
	err := s.db.Where("supabase_id = ? AND is_active = ?", supabaseID, true).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user = models.User{
		Email:      strings.ToLower(email),
		Role:       models.RoleStudent,
		FirstName:  firstName,
		LastName:   lastName,
		SupabaseID: &supabaseID,
		IsActive:   true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetAllUsers returns all users newest first, for the admin view.
func (s *userService) GetAllUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	page.Defaults()

	base := s.db.Model(&models.User{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var users []models.User
	err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&users).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(users, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// TotalSaved sums a user's progress across all savings goals. Used by the
// admin user listing.
func (s *userService) TotalSaved(userID uint) (float64, error) {
	var total float64
	err := s.db.Model(&models.SavingsGoal{}).
		Select("COALESCE(SUM(current), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}
