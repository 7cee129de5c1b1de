package database

import (
	"fmt"
	"lingua_learn_backend/internal/config"
	"lingua_learn_backend/internal/model"
	"log"

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
		// 唯一索引冲突翻译为gorm.ErrDuplicatedKey，供重复完成判定
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Language{},
		&model.Course{},
		&model.CourseModule{},
		&model.Lesson{},
		&model.LessonSection{},
		&model.Exercise{},
		&model.ReviewQueueEntry{},
		&model.ExerciseAttempt{},
		&model.ProgressSnapshot{},
		&model.CourseEnrollment{},
		&model.Streak{},
		&model.XpTransaction{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认语种（为空时插入常用语种）
	var count int64
	db.Model(&model.Language{}).Count(&count)
	if count == 0 {
		defaultLanguages := []model.Language{
			{Code: "en", Name: "English", NativeName: "English", Flag: "🇺🇸", IsActive: true},
			{Code: "es", Name: "Spanish", NativeName: "Español", Flag: "🇪🇸", IsActive: true},
			{Code: "fr", Name: "French", NativeName: "Français", Flag: "🇫🇷", IsActive: true},
			{Code: "de", Name: "German", NativeName: "Deutsch", Flag: "🇩🇪", IsActive: true},
			{Code: "it", Name: "Italian", NativeName: "Italiano", Flag: "🇮🇹", IsActive: true},
			{Code: "pt", Name: "Portuguese", NativeName: "Português", Flag: "🇵🇹", IsActive: true},
			{Code: "ja", Name: "Japanese", NativeName: "日本語", Flag: "🇯🇵", IsActive: true},
			{Code: "ko", Name: "Korean", NativeName: "한국어", Flag: "🇰🇷", IsActive: true},
			{Code: "zh", Name: "Chinese", NativeName: "中文", Flag: "🇨🇳", IsActive: true},
		}
		for _, l := range defaultLanguages {
			db.Create(&l)
		}
	}

	return db, nil
}
