// Package storage persists the ranked shortlist between runs. The database
// holds exactly one search result: saving replaces whatever the previous run
// left behind.
package storage

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/odudnyk/cvscout/internal/resume"
)

type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// ResumeRecord is the persisted form of one candidate resume.
type ResumeRecord struct {
	ID              uint `gorm:"primaryKey"`
	FullName        string
	Position        string
	ExperienceYears *float64
	Skills          string
	Details         string
	Location        string
	Salary          *float64
	Score           *float64
	URL             string `gorm:"uniqueIndex"`

	Experiences []ExperienceRow `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE"`
	Educations  []EducationRow  `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE"`
	Languages   []LanguageRow   `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE"`
}

type ExperienceRow struct {
	ID          uint `gorm:"primaryKey"`
	ResumeID    uint `gorm:"index"`
	Position    string
	Company     string
	CompanyType string
	Description string
	Years       float64
}

type EducationRow struct {
	ID            uint `gorm:"primaryKey"`
	ResumeID      uint `gorm:"index"`
	Name          string
	TypeEducation string
	Location      string
	Year          int
}

type LanguageRow struct {
	ID       uint `gorm:"primaryKey"`
	ResumeID uint `gorm:"index"`
	Name     string
	Level    string
}

// Open opens (or creates) the sqlite database at path and migrates the
// schema.
func Open(path string, logger *zap.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&ResumeRecord{}, &ExperienceRow{}, &EducationRow{}, &LanguageRow{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Save replaces the stored shortlist with the top ranked records of the
// given batch. The whole swap happens in one transaction.
func (s *Store) Save(resumes *resume.Resumes, limit int) error {
	if limit <= 0 {
		limit = -1
	}
	ranked := resumes.Rank(limit)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&LanguageRow{}, &EducationRow{}, &ExperienceRow{}, &ResumeRecord{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}

		for _, r := range ranked.Items {
			record := toRecord(r)
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save shortlist: %w", err)
	}

	s.logger.Info("shortlist saved", zap.Int("resumes", ranked.Len()))
	return nil
}

// Top returns up to limit stored records, best score first, with all child
// rows hydrated.
func (s *Store) Top(limit int) (*resume.Resumes, error) {
	var records []ResumeRecord

	query := s.db.
		Preload("Experiences").
		Preload("Educations").
		Preload("Languages").
		Order("score DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load shortlist: %w", err)
	}

	resumes := &resume.Resumes{}
	for i := range records {
		resumes.Append(fromRecord(&records[i]))
	}
	return resumes, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRecord(r *resume.Resume) *ResumeRecord {
	record := &ResumeRecord{
		FullName:        r.FullName,
		Position:        r.Position,
		ExperienceYears: r.ExperienceYears,
		Skills:          strings.Join(r.Skills, ","),
		Details:         r.Details,
		Location:        r.Location,
		Salary:          r.Salary,
		Score:           r.Score,
		URL:             r.URL,
	}

	for _, exp := range r.Experience {
		record.Experiences = append(record.Experiences, ExperienceRow{
			Position:    exp.Position,
			Company:     exp.Company,
			CompanyType: exp.CompanyType,
			Description: exp.Description,
			Years:       exp.Years,
		})
	}
	for _, edu := range r.Education {
		record.Educations = append(record.Educations, EducationRow{
			Name:          edu.Name,
			TypeEducation: edu.TypeEducation,
			Location:      edu.Location,
			Year:          edu.Year,
		})
	}
	for _, lang := range r.Languages {
		record.Languages = append(record.Languages, LanguageRow{
			Name:  lang.Name,
			Level: lang.Level,
		})
	}

	return record
}

func fromRecord(record *ResumeRecord) *resume.Resume {
	r := &resume.Resume{
		FullName:        record.FullName,
		Position:        record.Position,
		ExperienceYears: record.ExperienceYears,
		Details:         record.Details,
		Location:        record.Location,
		Salary:          record.Salary,
		Score:           record.Score,
		URL:             record.URL,
	}

	if record.Skills != "" {
		r.Skills = strings.Split(record.Skills, ",")
	}

	for _, exp := range record.Experiences {
		r.Experience = append(r.Experience, resume.Experience{
			Position:    exp.Position,
			Company:     exp.Company,
			CompanyType: exp.CompanyType,
			Description: exp.Description,
			Years:       exp.Years,
		})
	}
	for _, edu := range record.Educations {
		r.Education = append(r.Education, resume.Education{
			Name:          edu.Name,
			TypeEducation: edu.TypeEducation,
			Location:      edu.Location,
			Year:          edu.Year,
		})
	}
	for _, lang := range record.Languages {
		r.Languages = append(r.Languages, resume.Language{
			Name:  lang.Name,
			Level: lang.Level,
		})
	}

	return r
}
