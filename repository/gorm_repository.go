package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/upcv/backend/models"
	"gorm.io/gorm"
)

type (
	PersonalInformationStore = RecordStore[models.PersonalInformation, *models.PersonalInformation]
	EducationStore           = RecordStore[models.Education, *models.Education]
	WorkExperienceStore      = RecordStore[models.WorkExperience, *models.WorkExperience]
	SkillStore               = RecordStore[models.Skill, *models.Skill]
	CertificationStore       = RecordStore[models.Certification, *models.Certification]
	ProjectStore             = RecordStore[models.Project, *models.Project]
)

type GORMRepository struct {
	db *gorm.DB

	PersonalInformation *PersonalInformationStore
	Education           *EducationStore
	WorkExperience      *WorkExperienceStore
	Skills              *SkillStore
	Certifications      *CertificationStore
	Projects            *ProjectStore
}

func NewGORMRepository(db *gorm.DB) *GORMRepository {
	return &GORMRepository{
		db:                  db,
		PersonalInformation: NewRecordStore[models.PersonalInformation](db),
		Education:           NewRecordStore[models.Education](db),
		WorkExperience:      NewRecordStore[models.WorkExperience](db),
		Skills:              NewRecordStore[models.Skill](db),
		Certifications:      NewRecordStore[models.Certification](db),
		Projects:            NewRecordStore[models.Project](db),
	}
}

// Transaction runs fn against a repository bound to one database transaction.
// Everything fn wrote is rolled back when it returns an error.
func (r *GORMRepository) Transaction(ctx context.Context, fn func(repo *GORMRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMRepository(tx))
	})
}

// userOwned lists every table holding rows that belong to a user, in the
// order DeleteUser clears them.
func userOwned() []interface{} {
	return []interface{}{
		&models.PersonalInformation{},
		&models.Education{},
		&models.WorkExperience{},
		&models.Skill{},
		&models.Certification{},
		&models.Project{},
		&models.RefreshToken{},
	}
}

// AutoMigrate runs database migrations
func (r *GORMRepository) AutoMigrate() error {
	return r.db.AutoMigrate(append([]interface{}{&models.User{}}, userOwned()...)...)
}

// Ping checks that the database answers.
func (r *GORMRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// User operations
func (r *GORMRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := user.Validate(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		err = translateError(user.TableName(), user.ID, err)
		if isClientError(err) {
			return err
		}
		slog.Error("Failed to create user", "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	slog.Info("User created", "user_id", user.ID, "email", user.Email)
	return nil
}

func (r *GORMRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Kind: user.TableName(), ID: email}
		}
		slog.Error("Failed to get user by email", "error", err, "email", email)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *GORMRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Kind: user.TableName(), ID: id}
		}
		slog.Error("Failed to get user by ID", "error", err, "user_id", id)
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &user, nil
}

// DeleteUser removes the user together with every record the user owns, in a
// single transaction.
func (r *GORMRepository) DeleteUser(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range userOwned() {
			if err := tx.Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return err
			}
		}

		result := tx.Where("id = ?", userID).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return &models.NotFoundError{Kind: (models.User{}).TableName(), ID: userID}
		}
		return nil
	})
	if err != nil {
		if isClientError(err) {
			return err
		}
		slog.Error("Failed to delete user", "error", err, "user_id", userID)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("User deleted", "user_id", userID)
	return nil
}

// GetCV assembles every record of the user, each kind in its default order.
func (r *GORMRepository) GetCV(ctx context.Context, userID string) (*models.CV, error) {
	if _, err := r.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	cv := &models.CV{}
	for info, err := range r.PersonalInformation.List(ctx, userID) {
		if err != nil {
			return nil, err
		}
		cv.PersonalInformation = info
		break
	}

	var err error
	if cv.Education, err = r.Education.ListAll(ctx, userID); err != nil {
		return nil, err
	}
	if cv.WorkExperience, err = r.WorkExperience.ListAll(ctx, userID); err != nil {
		return nil, err
	}
	if cv.Skills, err = r.Skills.ListAll(ctx, userID); err != nil {
		return nil, err
	}
	if cv.Certifications, err = r.Certifications.ListAll(ctx, userID); err != nil {
		return nil, err
	}
	if cv.Projects, err = r.Projects.ListAll(ctx, userID); err != nil {
		return nil, err
	}
	return cv, nil
}

// Token operations
func (r *GORMRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		slog.Error("Failed to create refresh token", "error", err)
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken looks up an unexpired token by its hash.
func (r *GORMRepository) GetRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	if err := r.db.WithContext(ctx).Where("token = ? AND expires_at > ?", tokenHash, time.Now()).First(&refreshToken).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Kind: refreshToken.TableName(), ID: "token"}
		}
		slog.Error("Failed to get refresh token", "error", err)
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return &refreshToken, nil
}

func (r *GORMRepository) DeleteUserRefreshTokens(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
		slog.Error("Failed to delete user refresh tokens", "error", err, "user_id", userID)
		return fmt.Errorf("failed to delete user refresh tokens: %w", err)
	}
	return nil
}
