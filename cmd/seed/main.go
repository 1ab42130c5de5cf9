package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"clinic-booking/config"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/infrastructure/database"
	"clinic-booking/internal/repository"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var departments = map[string][]string{
	"Cardiology":       {"Interventional Cardiology", "Electrophysiology"},
	"Dermatology":      {"Cosmetic Dermatology", "Pediatric Dermatology"},
	"General Practice": {"Family Medicine", "Internal Medicine"},
	"Neurology":        {"Neurophysiology", "Stroke Medicine"},
	"Orthopedics":      {"Sports Medicine", "Spine Surgery"},
	"Pediatrics":       {"Neonatology", "Pediatric Allergy"},
}

var treatments = []string{"Consultation", "Follow-up Visit", "Screening", "Minor Procedure"}

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	log := logrus.StandardLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.DB.Migrate {
		if err := database.RunMigrations(cfg.DB); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.TimeZone)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := seedStaff(ctx, db, log, cfg.Seed); err != nil {
		log.Fatalf("Failed to seed staff account: %v", err)
	}
	if err := seedCatalog(ctx, db, log, cfg.Seed.Doctors); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	log.Info("Seed complete")
}

// seedStaff creates the staff account unless the username is already taken.
func seedStaff(ctx context.Context, db *gorm.DB, log *logrus.Logger, cfg config.SeedConfig) error {
	userRepo := repository.NewUserRepository()
	profileRepo := repository.NewProfileRepository()

	exists, err := userRepo.ExistsByUsername(db.WithContext(ctx), cfg.StaffUsername)
	if err != nil {
		return err
	}
	if exists {
		log.Infof("Staff account %q already exists", cfg.StaffUsername)
		return nil
	}

	password := cfg.StaffPassword
	if password == "" {
		password = gofakeit.Password(true, true, true, false, false, 16)
		log.Warnf("SEED_STAFF_PASSWORD not set, generated password for %q: %s", cfg.StaffUsername, password)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := &entity.User{
			Username: cfg.StaffUsername,
			Email:    cfg.StaffUsername + "@clinic.local",
			Password: string(hashed),
			IsStaff:  true,
		}
		if err := userRepo.Create(tx, user); err != nil {
			return err
		}
		return profileRepo.Create(tx, &entity.UserProfile{UserID: user.ID})
	})
}

// seedCatalog fills departments, doctors and treatments on an empty database.
func seedCatalog(ctx context.Context, db *gorm.DB, log *logrus.Logger, doctors int) error {
	departmentRepo := repository.NewDepartmentRepository()
	doctorRepo := repository.NewDoctorRepository()
	treatmentRepo := repository.NewTreatmentRepository()

	existing, err := departmentRepo.FindAll(db.WithContext(ctx), "")
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info("Catalog already seeded, skipping")
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created := make([]entity.Department, 0, len(departments))
		for name := range departments {
			department := entity.Department{Name: name, Description: gofakeit.Phrase()}
			if err := departmentRepo.Create(tx, &department); err != nil {
				return err
			}
			created = append(created, department)

			for _, treatment := range treatments {
				active := gofakeit.Number(0, 9) > 0
				err := treatmentRepo.Create(tx, &entity.Treatment{
					Name:         name + " " + treatment,
					Description:  gofakeit.Phrase(),
					Price:        decimal.NewFromFloat(gofakeit.Price(20, 400)).Round(2),
					Duration:     time.Duration(gofakeit.Number(1, 8)) * 15 * time.Minute,
					DepartmentID: department.ID,
					IsActive:     &active,
				})
				if err != nil {
					return err
				}
			}
		}

		for i := 0; i < doctors; i++ {
			department := created[i%len(created)]
			specializations := departments[department.Name]
			name := gofakeit.LastName()
			err := doctorRepo.Create(tx, &entity.Doctor{
				Name:            name,
				DepartmentID:    department.ID,
				Specialization:  specializations[gofakeit.Number(0, len(specializations)-1)],
				Experience:      uint(gofakeit.Number(1, 35)),
				Email:           fmt.Sprintf("%s.%d@clinic.local", strings.ToLower(name), i+1),
				Phone:           gofakeit.Phone(),
				AvailableDays:   entity.DefaultAvailableDays,
				ConsultationFee: decimal.NewFromFloat(gofakeit.Price(30, 250)).Round(2),
			})
			if err != nil {
				return err
			}
		}

		log.Infof("Seeded %d departments, %d treatments and %d doctors", len(created), len(created)*len(treatments), doctors)
		return nil
	})
}
