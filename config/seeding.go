package config

import (
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dzwave.net/regdoc/models"
)

var defaultCpeModels = []string{
	"Huawei HG8546M",
	"ZTE F660",
	"Nokia G-140W-C",
}

var defaultInternetOffers = []string{
	"Idoom Fibre 50M",
	"Idoom Fibre 100M",
	"Idoom Fibre 300M",
	"Pro Fibre 200M",
}

// SeedLookups inserts the stock equipment models and service offers. Existing
// names are left untouched so admins can rename and extend them freely.
func SeedLookups(db *gorm.DB) error {
	for _, name := range defaultCpeModels {
		m := models.CpeModel{Name: name}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&m).Error; err != nil {
			return err
		}
	}
	for _, name := range defaultInternetOffers {
		o := models.InternetOffer{Name: name}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&o).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedAdminUser creates the initial admin account when the users table is
// empty. The password comes from ADMIN_PASSWORD; without it nothing is
// seeded, which keeps throwaway dev databases from shipping a known login.
func SeedAdminUser(db *gorm.DB) error {
	var existing models.User
	err := db.Where("role = ?", models.RoleAdmin).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin seeding")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Username:     envOr("ADMIN_USERNAME", "admin"),
		FullName:     "Administrateur",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("Seeded admin user %q", admin.Username)
	return nil
}
