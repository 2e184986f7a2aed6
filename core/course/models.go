package course

import (
	"time"

	"github.com/darasahub/darasa/core"
)

// Course content types
const (
	TypePDF   = "pdf"
	TypeVideo = "video"
	TypeLink  = "link"
)

// Difficulty levels
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Publication statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

type Course struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Type           string     `json:"type"`
	Content        string     `json:"content"`
	TechStack      []string   `json:"tech_stack"`
	InstructorID   string     `json:"instructor_id"`
	InstructorName string     `json:"instructor_name"`
	Thumbnail      string     `json:"thumbnail,omitempty"`
	Duration       int        `json:"duration"` // minutes
	Difficulty     string     `json:"difficulty"`
	Rating         float64    `json:"rating"`
	RatingCount    int        `json:"rating_count"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"` // UTC
	UpdatedAt      time.Time  `json:"updated_at"` // UTC
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title       string     `json:"title" validate:"required,max=50"`
	Description string     `json:"description" validate:"required"`
	Type        string     `json:"type" validate:"required,oneof=pdf video link"`
	Content     string     `json:"content" validate:"required"`
	TechStack   []string   `json:"tech_stack"`
	Thumbnail   string     `json:"thumbnail" validate:"omitempty,url"`
	Duration    int        `json:"duration" validate:"omitempty,min=0"`
	Difficulty  string     `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Deadline    *time.Time `json:"deadline"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft published archived"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	return core.Validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
// Zero-value fields keep the original values.
type UpdateCourse struct {
	Title       string     `json:"title" validate:"omitempty,max=50"`
	Description string     `json:"description"`
	Type        string     `json:"type" validate:"omitempty,oneof=pdf video link"`
	Content     string     `json:"content"`
	TechStack   []string   `json:"tech_stack"`
	Thumbnail   string     `json:"thumbnail" validate:"omitempty,url"`
	Duration    *int       `json:"duration" validate:"omitempty,min=0"`
	Difficulty  string     `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Deadline    *time.Time `json:"deadline"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft published archived"`
}

func (uc *UpdateCourse) Validate() error {
	uc.Title = core.CleanString(uc.Title)
	uc.Description = core.CleanString(uc.Description)
	return core.Validate.Struct(uc)
}
