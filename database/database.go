package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"gesschool_go/config"
	"gesschool_go/models"

	"github.com/go-redis/redis/v8"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB
var RedisClient *redis.Client

// GetRedisClient returns the shared Redis client, nil when Redis is
// unavailable or disabled.
func GetRedisClient() *redis.Client {
	if config.AppConfig != nil && !config.AppConfig.UseRedisCache {
		return nil
	}
	return RedisClient
}

// Connect initializes database connections
func Connect() {
	var err error

	// MySQL connection with retry
	dsn := config.AppConfig.GetDSN()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if config.AppConfig.AppEnv == "development" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	maxAttempts := 5
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		DB, err = gorm.Open(mysql.Open(dsn), gormConfig)
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database (attempt %d/%d): %v", attempt, maxAttempts, err)
		if attempt < maxAttempts {
			time.Sleep(time.Duration(attempt) * 2 * time.Second)
		}
	}
	if err != nil {
		log.Fatal("Failed to connect to database after retries:", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB:", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Connected to MySQL database")

	if !config.AppConfig.SkipMigrate {
		autoMigrate()
		seedDefaults()
	} else {
		log.Println("SKIP_MIGRATE=true, skipping AutoMigrate and seeding")
	}

	connectRedis()
}

func autoMigrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.AcademicYear{},
		&models.AcademicPeriod{},
		&models.GradeBoundaryConfig{},
		&models.Subject{},
		&models.Student{},
		&models.Grade{},
		&models.StudentAttendance{},
		&models.PromotionPolicy{},
		&models.ReportCard{},
		&models.ActivityLog{},
		&models.LogArchive{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	log.Println("Database migration completed")
}

// seedDefaults provisions the singleton configuration rows so the grading
// and promotion services never have to handle a missing config.
func seedDefaults() {
	var count int64

	DB.Model(&models.GradeBoundaryConfig{}).Count(&count)
	if count == 0 {
		cfg := models.DefaultBoundaryConfig()
		if err := DB.Create(cfg).Error; err != nil {
			log.Printf("Warning: failed to seed grade boundary config: %v", err)
		} else {
			log.Println("Seeded default grade boundary configuration")
		}
	}

	DB.Model(&models.PromotionPolicy{}).Count(&count)
	if count == 0 {
		policy := models.DefaultPromotionPolicy()
		if err := DB.Create(policy).Error; err != nil {
			log.Printf("Warning: failed to seed promotion policy: %v", err)
		} else {
			log.Println("Seeded default promotion policy")
		}
	}
}

func connectRedis() {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", config.AppConfig.RedisHost, config.AppConfig.RedisPort),
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		log.Println("Continuing without Redis cache...")
		RedisClient = nil
	} else {
		log.Println("Connected to Redis")
	}
}
