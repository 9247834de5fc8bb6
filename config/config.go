package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config carries every runtime setting, loaded once at startup and passed to
// constructors. No package holds a global handle.
type Config struct {
	Port      string
	DBDSN     string
	JWTSecret string

	DolibarrAPIURL  string
	DolibarrAPIKey  string
	DolibarrEnabled bool

	TemplatesDir string
	GeneratedDir string
}

// Load reads .env when present, then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		Port:            envOr("PORT", "3000"),
		DBDSN:           os.Getenv("DB_DSN"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		DolibarrAPIURL:  envOr("DOLIBARR_API_URL", "http://localhost/api/index.php"),
		DolibarrAPIKey:  os.Getenv("DOLIBARR_API_KEY"),
		DolibarrEnabled: os.Getenv("DOLIBARR_ENABLED") == "true",
		TemplatesDir:    envOr("TEMPLATES_DIR", "./templates"),
		GeneratedDir:    envOr("GENERATED_DIR", "./generated"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Connect opens the database, runs migrations and seeds the lookup tables.
// TranslateError makes a reference collision surface as gorm.ErrDuplicatedKey
// instead of a driver-specific error.
func Connect(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := Migrations(db); err != nil {
		return nil, err
	}
	if err := SeedLookups(db); err != nil {
		log.Printf("Warning: lookup seeding failed: %v", err)
	}
	if err := SeedAdminUser(db); err != nil {
		log.Printf("Warning: admin seeding failed: %v", err)
	}
	return db, nil
}
