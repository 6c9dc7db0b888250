package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/upcv/backend/models"
	"github.com/upcv/backend/repository"
	"golang.org/x/crypto/bcrypt"
)

const demoEmail = "demo@example.com"

// DatabaseSeeder handles database seeding operations
type DatabaseSeeder struct {
	repo   *repository.GORMRepository
	seedCV func(ctx context.Context, repo *repository.GORMRepository, userID string) error
}

// NewDatabaseSeeder creates a new database seeder
func NewDatabaseSeeder(repo *repository.GORMRepository) *DatabaseSeeder {
	return &DatabaseSeeder{repo: repo, seedCV: seedCV}
}

// SeedDatabase creates a demo user with a sample CV. It does nothing when the
// demo user already exists.
func (s *DatabaseSeeder) SeedDatabase(ctx context.Context) error {
	if _, err := s.repo.GetUserByEmail(ctx, demoEmail); err == nil {
		slog.Info("Database seeding already completed, skipping")
		return nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("error checking user %s: %w", demoEmail, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// the user and the CV land together, so a failed run is retried next time
	err = s.repo.Transaction(ctx, func(repo *repository.GORMRepository) error {
		user := &models.User{
			Email:    demoEmail,
			Password: string(hashedPassword),
			FullName: "Demo User",
		}
		if err := repo.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to create user %s: %w", demoEmail, err)
		}
		return s.seedCV(ctx, repo, user.ID)
	})
	if err != nil {
		return err
	}

	slog.Info("Database seeding completed successfully")
	return nil
}

func seedCV(ctx context.Context, repo *repository.GORMRepository, userID string) error {
	bscEnd := models.MustParseDate("2016-06-30")
	mscEnd := models.MustParseDate("2018-06-30")
	jobEnd := models.MustParseDate("2021-12-31")

	if err := repo.PersonalInformation.Create(ctx, userID, &models.PersonalInformation{
		FullName:    "Demo User",
		DateOfBirth: models.MustParseDate("1994-03-14"),
		PhoneNumber: "+1 555 0100",
		Address:     "1 Example Street, Springfield",
	}); err != nil {
		return fmt.Errorf("failed to seed personal information: %w", err)
	}

	education := []*models.Education{
		{
			Degree:      "B.Sc. Computer Science",
			Institution: "State University",
			StartDate:   models.MustParseDate("2012-09-01"),
			EndDate:     &bscEnd,
			Description: "Algorithms, databases and operating systems.",
		},
		{
			Degree:      "M.Sc. Distributed Systems",
			Institution: "Technical University",
			StartDate:   models.MustParseDate("2016-09-01"),
			EndDate:     &mscEnd,
			Description: "Thesis on consensus protocols.",
		},
	}
	for _, rec := range education {
		if err := repo.Education.Create(ctx, userID, rec); err != nil {
			return fmt.Errorf("failed to seed education %s: %w", rec.Degree, err)
		}
	}

	work := []*models.WorkExperience{
		{
			JobTitle:    "Software Engineer",
			Employer:    "Acme Corp",
			StartDate:   models.MustParseDate("2018-08-01"),
			EndDate:     &jobEnd,
			Description: "Built billing services in Go.",
		},
		{
			JobTitle:    "Senior Software Engineer",
			Employer:    "Globex",
			StartDate:   models.MustParseDate("2022-01-10"),
			Description: "Leads the platform team.",
		},
	}
	for _, rec := range work {
		if err := repo.WorkExperience.Create(ctx, userID, rec); err != nil {
			return fmt.Errorf("failed to seed work experience %s: %w", rec.JobTitle, err)
		}
	}

	skills := []*models.Skill{
		{SkillName: "Go", SkillLevel: "Expert"},
		{SkillName: "PostgreSQL", SkillLevel: "Advanced"},
		{SkillName: "Kubernetes", SkillLevel: "Intermediate"},
	}
	for _, rec := range skills {
		if err := repo.Skills.Create(ctx, userID, rec); err != nil {
			return fmt.Errorf("failed to seed skill %s: %w", rec.SkillName, err)
		}
	}

	if err := repo.Certifications.Create(ctx, userID, &models.Certification{
		CertificationName:   "Certified Kubernetes Administrator",
		CertifyingAuthority: "CNCF",
		DateReceived:        models.MustParseDate("2020-05-20"),
		Description:         "Cluster administration and troubleshooting.",
	}); err != nil {
		return fmt.Errorf("failed to seed certification: %w", err)
	}

	if err := repo.Projects.Create(ctx, userID, &models.Project{
		ProjectName: "upcv",
		StartDate:   models.MustParseDate("2023-02-01"),
		Description: "A CV builder backed by a relational store.",
		ProjectURL:  "https://example.com/upcv",
	}); err != nil {
		return fmt.Errorf("failed to seed project: %w", err)
	}

	return nil
}
