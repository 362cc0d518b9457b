package database

import (
	"fmt"
	"log"

	"smart_exam_backend/internal/config"
	"smart_exam_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// Duplicate-key errors surface as gorm.ErrDuplicatedKey so the
		// repositories can map the exam-code uniqueness conflict.
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Exam{},
		&model.ExamSection{},
		&model.Result{},
	)
	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	if err := seedDefaultAdmin(db); err != nil {
		return nil, err
	}

	return db, nil
}

// seedDefaultAdmin provisions the initial admin account on an empty
// database; admins cannot self-register.
func seedDefaultAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).Where("role = ?", model.Admin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &model.User{
		Name:     "Administrator",
		Email:    "admin@school.local",
		Password: string(hashed),
		Role:     model.Admin,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	log.Println("Seeded default admin account (admin@school.local), change its password")
	return nil
}
