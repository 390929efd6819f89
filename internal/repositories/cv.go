package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/astrelya/cv-to-dc/internal/models"
)

var ErrCVNotFound = errors.New("CV not found")

type CVRepository interface {
	Create(ctx context.Context, cv *models.CV) error
	FindByID(ctx context.Context, id uuid.UUID, ownerID string) (*models.CV, error)
	FindAllByOwner(ctx context.Context, ownerID string) ([]models.CV, error)
	Complete(ctx context.Context, id uuid.UUID, result *CompletionData) error
	MarkFailed(ctx context.Context, id uuid.UUID, note string) error
	Delete(ctx context.Context, id uuid.UUID, ownerID string) error
}

// CompletionData is everything written when extraction succeeds.
type CompletionData struct {
	SchemaType      string
	ExtractionData  datatypes.JSON
	ExtractedText   string
	Confidence      float64
	ProcessingNotes []string
	Records         *models.RecordSet
}

type cvRepository struct {
	db *gorm.DB
}

func NewCVRepository(db *gorm.DB) CVRepository {
	return &cvRepository{db: db}
}

func (r *cvRepository) Create(ctx context.Context, cv *models.CV) error {
	if cv.ID == uuid.Nil {
		cv.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(cv).Error; err != nil {
		return fmt.Errorf("failed to create CV: %w", err)
	}
	return nil
}

func byOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}

func (r *cvRepository) FindByID(ctx context.Context, id uuid.UUID, ownerID string) (*models.CV, error) {
	var cv models.CV
	err := r.db.WithContext(ctx).
		Preload("PersonalInfo").
		Preload("Profile").
		Preload("Experiences", byOrder).
		Preload("Educations", byOrder).
		Preload("Skills", byOrder).
		Preload("Languages", byOrder).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&cv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCVNotFound
		}
		return nil, fmt.Errorf("failed to find CV: %w", err)
	}
	return &cv, nil
}

func (r *cvRepository) FindAllByOwner(ctx context.Context, ownerID string) ([]models.CV, error) {
	var cvs []models.CV
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&cvs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list CVs: %w", err)
	}
	return cvs, nil
}

// Complete marks the CV completed and replaces its structured records in a
// single transaction.
func (r *cvRepository) Complete(ctx context.Context, id uuid.UUID, data *CompletionData) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.CV{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":           models.StatusCompleted,
				"schema_type":      data.SchemaType,
				"extraction_data":  data.ExtractionData,
				"extracted_text":   data.ExtractedText,
				"confidence":       data.Confidence,
				"processing_notes": pq.StringArray(data.ProcessingNotes),
				"updated_at":       time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update CV: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrCVNotFound
		}

		if err := deleteRecords(tx, id); err != nil {
			return err
		}
		if data.Records == nil {
			return nil
		}
		return insertRecords(tx, id, data.Records)
	})
}

func deleteRecords(tx *gorm.DB, cvID uuid.UUID) error {
	tables := []interface{}{
		&models.PersonalInfo{},
		&models.Profile{},
		&models.Experience{},
		&models.Education{},
		&models.Skill{},
		&models.Language{},
	}
	for _, table := range tables {
		if err := tx.Where("cv_id = ?", cvID).Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clear %T records: %w", table, err)
		}
	}
	return nil
}

func insertRecords(tx *gorm.DB, cvID uuid.UUID, rs *models.RecordSet) error {
	if rs.PersonalInfo != nil {
		rs.PersonalInfo.ID, rs.PersonalInfo.CVID = uuid.New(), cvID
		if err := tx.Create(rs.PersonalInfo).Error; err != nil {
			return fmt.Errorf("failed to save personal info: %w", err)
		}
	}
	if rs.Profile != nil {
		rs.Profile.ID, rs.Profile.CVID = uuid.New(), cvID
		if err := tx.Create(rs.Profile).Error; err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
	}
	if len(rs.Experiences) > 0 {
		for i := range rs.Experiences {
			rs.Experiences[i].ID, rs.Experiences[i].CVID = uuid.New(), cvID
		}
		if err := tx.Create(&rs.Experiences).Error; err != nil {
			return fmt.Errorf("failed to save experiences: %w", err)
		}
	}
	if len(rs.Educations) > 0 {
		for i := range rs.Educations {
			rs.Educations[i].ID, rs.Educations[i].CVID = uuid.New(), cvID
		}
		if err := tx.Create(&rs.Educations).Error; err != nil {
			return fmt.Errorf("failed to save educations: %w", err)
		}
	}
	if len(rs.Skills) > 0 {
		for i := range rs.Skills {
			rs.Skills[i].ID, rs.Skills[i].CVID = uuid.New(), cvID
		}
		if err := tx.Create(&rs.Skills).Error; err != nil {
			return fmt.Errorf("failed to save skills: %w", err)
		}
	}
	if len(rs.Languages) > 0 {
		for i := range rs.Languages {
			rs.Languages[i].ID, rs.Languages[i].CVID = uuid.New(), cvID
		}
		if err := tx.Create(&rs.Languages).Error; err != nil {
			return fmt.Errorf("failed to save languages: %w", err)
		}
	}
	return nil
}

func (r *cvRepository) MarkFailed(ctx context.Context, id uuid.UUID, note string) error {
	result := r.db.WithContext(ctx).Model(&models.CV{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           models.StatusFailed,
			"processing_notes": pq.StringArray{note},
			"updated_at":       time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrCVNotFound
	}

	return nil
}

// Delete removes the CV; related records go with it through ON DELETE CASCADE.
func (r *cvRepository) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.CV{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete CV: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrCVNotFound
	}

	return nil
}
