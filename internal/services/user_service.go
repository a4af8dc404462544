package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/store"
)

// userService handles user-related business logic.
type userService struct {
	db     *gorm.DB
	ledger store.Ledger
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db, ledger: store.NewGormLedger(db)}
}

// CreateUser registers a new user
func (s *userService) CreateUser(
	username, email, password, firstName, lastName string,
	role models.UserRole,
	currency string,
) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username, email and password are required")
	}
	if role == "" {
		role = models.UserRoleUser
	}
	if currency == "" {
		currency = models.DefaultCurrency
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateUsername
	}

	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		Password:  string(hashedPassword),
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		IsActive:  true,
		Currency:  currency,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (s *userService) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUsers returns a page of users, newest first.
func (s *userService) GetUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.User{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var users []models.User
	if err := s.db.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(users, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateUser changes a user's profile fields. Empty values are ignored.
func (s *userService) UpdateUser(id string, update UserUpdate) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Email != nil && *update.Email != "" {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		var count int64
		if err := s.db.Model(&models.User{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateEmail
		}
		updates["email"] = email
	}
	if update.FirstName != nil && *update.FirstName != "" {
		updates["first_name"] = *update.FirstName
	}
	if update.LastName != nil && *update.LastName != "" {
		updates["last_name"] = *update.LastName
	}
	if update.AvatarURL != nil && *update.AvatarURL != "" {
		updates["avatar_url"] = *update.AvatarURL
	}
	if update.Currency != nil && *update.Currency != "" {
		updates["currency"] = *update.Currency
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetUserByID(id)
}

// DeleteUser removes a user together with everything they own.
func (s *userService) DeleteUser(id string) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.SavingsTransaction{},
			&models.SavingsGoal{},
			&models.Budget{},
			&models.Expense{},
		} {
			if err := tx.Where("user_id = ?", user.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ToggleUserStatus flips a user's active flag.
func (s *userService) ToggleUserStatus(id string) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	user.IsActive = !user.IsActive
	if err := s.db.Model(user).Update("is_active", user.IsActive).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// GetUserSummaries lists every user with their expense totals.
func (s *userService) GetUserSummaries(ctx context.Context) ([]UserSummary, error) {
	users, err := s.ledger.ListUsers(ctx, 0)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return summarizeUsers(ctx, s.ledger, users)
}

// summarizeUsers attaches expense totals to users with a single stats query.
func summarizeUsers(ctx context.Context, ledger store.Ledger, users []models.User) ([]UserSummary, error) {
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	stats, err := ledger.ExpenseStats(ctx, ids)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, u := range users {
		stat := stats[u.ID]
		summaries = append(summaries, UserSummary{
			ID:            u.ID,
			Username:      u.Username,
			FullName:      u.FullName(),
			Email:         u.Email,
			Role:          u.Role,
			IsActive:      u.IsActive,
			TotalExpenses: stat.Total,
			ExpenseCount:  stat.Count,
			CreatedAt:     u.CreatedAt,
			LastLoginAt:   u.LastLoginAt,
		})
	}
	return summaries, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// AttemptLogin checks credentials and records the login time. Unknown
// users, wrong passwords and inactive accounts all yield
// ErrInvalidCredentials.
func (s *userService) AttemptLogin(username, password string) (*models.User, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.VerifyPassword(user, password) || !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.db.Model(user).Update("last_login_at", now).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.LastLoginAt = &now

	return user, nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *userService) ChangePassword(id, currentPassword, newPassword string) error {
	if newPassword == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "new password is required")
	}

	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}
	if !s.VerifyPassword(user, currentPassword) {
		return apperrors.ErrInvalidPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(user).Update("password", string(hashed)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
