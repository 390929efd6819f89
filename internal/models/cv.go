package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type CVStatus string

const (
	StatusPending    CVStatus = "PENDING"
	StatusProcessing CVStatus = "PROCESSING"
	StatusCompleted  CVStatus = "COMPLETED"
	StatusFailed     CVStatus = "FAILED"
)

type CV struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID         string         `gorm:"type:text;not null;index" json:"owner_id"`
	Title           string         `gorm:"type:text" json:"title"`
	FileName        string         `gorm:"type:text" json:"file_name"`
	FileSize        int64          `json:"file_size"`
	MimeType        string         `gorm:"type:text" json:"mime_type"`
	FilePath        string         `gorm:"type:text" json:"-"`
	Status          CVStatus       `gorm:"type:text;not null" json:"status"`
	SchemaType      string         `gorm:"type:text" json:"schema_type,omitempty"`
	Confidence      float64        `json:"confidence"`
	ExtractedText   string         `gorm:"type:text" json:"extracted_text,omitempty"`
	ProcessingNotes pq.StringArray `gorm:"type:text[]" json:"processing_notes"`
	ExtractionData  datatypes.JSON `gorm:"type:jsonb" json:"extraction_data,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	// Relations
	PersonalInfo *PersonalInfo `gorm:"foreignKey:CVID;constraint:OnDelete:CASCADE" json:"personal_info,omitempty"`
	Profile      *Profile      `gorm:"foreignKey:CVID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	Experiences  []Experience  `gorm:"foreignKey:CVID;constraint:OnDelete:CASCADE" json:"experiences"`
	Educations   []Education   `gorm:"foreignKey:CVID;constraint:OnDelete:CASCADE" json:"educations"`
	Skills       []Skill       `gorm:"foreignKey:CVID;constraint:OnDelete:CASCADE" json:"skills"`
	Languages    []Language    `gorm:"foreignKey:CVID;constraint:OnDelete:CASCADE" json:"languages"`
}

func (CV) TableName() string {
	return "cvs"
}

type PersonalInfo struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CVID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"cv_id"`
	FirstName  *string   `gorm:"type:text" json:"first_name"`
	LastName   *string   `gorm:"type:text" json:"last_name"`
	Headline   *string   `gorm:"type:text" json:"headline"`
	Email      *string   `gorm:"type:text" json:"email"`
	Phone      *string   `gorm:"type:text" json:"phone"`
	Address    *string   `gorm:"type:text" json:"address"`
	PostalCode *string   `gorm:"type:text" json:"postal_code"`
	City       *string   `gorm:"type:text" json:"city"`
	Website    *string   `gorm:"type:text" json:"website"`
	LinkedIn   *string   `gorm:"type:text" json:"linkedin"`
	GitHub     *string   `gorm:"type:text" json:"github"`
}

func (PersonalInfo) TableName() string {
	return "cv_personal_infos"
}

type Profile struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CVID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"cv_id"`
	Summary         *string   `gorm:"type:text" json:"summary"`
	YearsExperience *string   `gorm:"type:text" json:"years_experience"`
}

func (Profile) TableName() string {
	return "cv_profiles"
}

type Experience struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CVID             uuid.UUID      `gorm:"type:uuid;not null;index" json:"cv_id"`
	Title            string         `gorm:"type:text;not null" json:"title"`
	Company          *string        `gorm:"type:text" json:"company"`
	Location         *string        `gorm:"type:text" json:"location"`
	StartMonth       *string        `gorm:"type:varchar(2)" json:"start_month"`
	StartYear        *string        `gorm:"type:varchar(4)" json:"start_year"`
	EndMonth         *string        `gorm:"type:varchar(2)" json:"end_month"`
	EndYear          *string        `gorm:"type:varchar(4)" json:"end_year"`
	Current          bool           `json:"current"`
	Description      *string        `gorm:"type:text" json:"description"`
	Responsibilities pq.StringArray `gorm:"type:text[]" json:"responsibilities"`
	Achievements     pq.StringArray `gorm:"type:text[]" json:"achievements"`
	Technologies     pq.StringArray `gorm:"type:text[]" json:"technologies"`
	Order            int            `gorm:"column:sort_order;not null" json:"order"`
}

func (Experience) TableName() string {
	return "cv_experiences"
}

type Education struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CVID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"cv_id"`
	Degree      string         `gorm:"type:text;not null" json:"degree"`
	Institution *string        `gorm:"type:text" json:"institution"`
	Location    *string        `gorm:"type:text" json:"location"`
	StartMonth  *string        `gorm:"type:varchar(2)" json:"start_month"`
	StartYear   *string        `gorm:"type:varchar(4)" json:"start_year"`
	EndMonth    *string        `gorm:"type:varchar(2)" json:"end_month"`
	EndYear     *string        `gorm:"type:varchar(4)" json:"end_year"`
	Current     bool           `json:"current"`
	Finished    bool           `json:"finished"`
	Description *string        `gorm:"type:text" json:"description"`
	GPA         *string        `gorm:"type:text" json:"gpa"`
	Honors      pq.StringArray `gorm:"type:text[]" json:"honors"`
	Activities  pq.StringArray `gorm:"type:text[]" json:"activities"`
	Order       int            `gorm:"column:sort_order;not null" json:"order"`
}

func (Education) TableName() string {
	return "cv_educations"
}

type Skill struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CVID     uuid.UUID `gorm:"type:uuid;not null;index" json:"cv_id"`
	Category string    `gorm:"type:text;not null" json:"category"`
	Name     string    `gorm:"type:text;not null" json:"name"`
	Level    string    `gorm:"type:text" json:"level"`
	Order    int       `gorm:"column:sort_order;not null" json:"order"`
}

func (Skill) TableName() string {
	return "cv_skills"
}

type Language struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CVID  uuid.UUID `gorm:"type:uuid;not null;index" json:"cv_id"`
	Name  string    `gorm:"type:text;not null" json:"name"`
	Level *string   `gorm:"type:text" json:"level"`
	Order int       `gorm:"column:sort_order;not null" json:"order"`
}

func (Language) TableName() string {
	return "cv_languages"
}

// RecordSet is the structured data derived from one extraction.
type RecordSet struct {
	PersonalInfo *PersonalInfo
	Profile      *Profile
	Experiences  []Experience
	Educations   []Education
	Skills       []Skill
	Languages    []Language
}
