package database

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/config"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/model"

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
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Room{},
		&model.RoomSpectator{},
		&model.GameSession{},
		&model.Participant{},
		&model.RoundPlay{},
		&model.GameEvent{},
		&model.Challenge{},
		&model.RoleCard{},
		&model.SynergyCard{},
		&model.PlayerProgression{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedRooms(db)
	seedContent(db)

	return db, nil
}

// seedRooms inserts the default perpetual rooms on first boot.
func seedRooms(db *gorm.DB) {
	var count int64
	db.Model(&model.Room{}).Count(&count)
	if count > 0 {
		return
	}

	defaultRooms := []model.Room{
		{Code: "BINGO-1", Name: "Career Bingo Lounge", Status: model.RoomIntermission, GradeLevel: "elementary"},
		{Code: "CCM-1", Name: "CEO Takeover Arena", Status: model.RoomIntermission, GradeLevel: "middle"},
		{Code: "EDM-1", Name: "Executive Decision Maker", Status: model.RoomIntermission, GradeLevel: "high"},
	}
	for _, room := range defaultRooms {
		db.Create(&room)
	}
}

// seedContent inserts a minimal challenge/card pool if the reference tables
// are empty, mirroring the content the platform ships with.
func seedContent(db *gorm.DB) {
	var count int64
	db.Model(&model.Challenge{}).Count(&count)
	if count == 0 {
		defaultChallenges := []model.Challenge{
			{Title: "Launch a new product line", PrimaryCategory: "marketing", GradeLevel: "elementary"},
			{Title: "Balance the quarterly budget", PrimaryCategory: "finance", GradeLevel: "elementary"},
			{Title: "Ship the mobile app update", PrimaryCategory: "technology", GradeLevel: "elementary"},
			{Title: "Fix the warehouse bottleneck", PrimaryCategory: "operations", GradeLevel: "elementary"},
			{Title: "Rally the team after a setback", PrimaryCategory: "leadership", GradeLevel: "elementary"},
		}
		for _, c := range defaultChallenges {
			db.Create(&c)
		}
	}

	var rcCount int64
	db.Model(&model.RoleCard{}).Count(&rcCount)
	if rcCount == 0 {
		defaultRoleCards := []struct {
			title     string
			qualities map[string]model.CardQuality
		}{
			{"Marketing Director", map[string]model.CardQuality{
				"marketing": model.QualityPerfect, "leadership": model.QualityGood,
				"finance": model.QualityNotIn, "technology": model.QualityNotIn, "operations": model.QualityGood,
			}},
			{"Financial Analyst", map[string]model.CardQuality{
				"finance": model.QualityPerfect, "operations": model.QualityGood,
				"marketing": model.QualityNotIn, "technology": model.QualityNotIn, "leadership": model.QualityNotIn,
			}},
			{"Software Engineer", map[string]model.CardQuality{
				"technology": model.QualityPerfect, "operations": model.QualityGood,
				"marketing": model.QualityNotIn, "finance": model.QualityNotIn, "leadership": model.QualityNotIn,
			}},
			{"Operations Manager", map[string]model.CardQuality{
				"operations": model.QualityPerfect, "leadership": model.QualityGood,
				"marketing": model.QualityGood, "finance": model.QualityNotIn, "technology": model.QualityNotIn,
			}},
			{"Team Coach", map[string]model.CardQuality{
				"leadership": model.QualityPerfect, "marketing": model.QualityGood,
				"finance": model.QualityNotIn, "technology": model.QualityNotIn, "operations": model.QualityGood,
			}},
		}
		for _, rc := range defaultRoleCards {
			qualities, _ := json.Marshal(rc.qualities)
			db.Create(&model.RoleCard{Title: rc.title, Qualities: string(qualities)})
		}
	}

	var scCount int64
	db.Model(&model.SynergyCard{}).Count(&scCount)
	if scCount == 0 {
		defaultSynergyCards := []string{"Mentor Boost", "Team Huddle", "Market Insight", "Data Dive"}
		for _, title := range defaultSynergyCards {
			db.Create(&model.SynergyCard{Title: title})
		}
	}
}
