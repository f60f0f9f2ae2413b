package domain

import "time"

// Course is a catalog entry.
type Course struct {
	ID            int64     `json:"id" bson:"_id"`
	Title         string    `json:"title" bson:"title"`
	Description   string    `json:"description" bson:"description"`
	Instructor    string    `json:"instructor" bson:"instructor"`
	DurationHours int       `json:"duration_hours" bson:"duration_hours"`
	CreatedBy     string    `json:"created_by" bson:"created_by"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// CoursePatch carries the optional fields of an update. Nil fields are left
// untouched.
type CoursePatch struct {
	Title         *string
	Description   *string
	Instructor    *string
	DurationHours *int
}

// Apply copies every non-nil field of p onto c.
func (p CoursePatch) Apply(c *Course) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Instructor != nil {
		c.Instructor = *p.Instructor
	}
	if p.DurationHours != nil {
		c.DurationHours = *p.DurationHours
	}
}

// Validate checks the fields every stored course must satisfy.
func (c *Course) Validate() error {
	if c.Title == "" {
		return ErrInvalidCourse
	}
	if c.DurationHours < 0 {
		return ErrInvalidCourse
	}
	return nil
}
