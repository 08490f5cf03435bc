package domain

import (
	"time"
)

// Company represents a tenant in the system. The ID is an opaque, caller-chosen
// identifier (e.g. "manufacturing_co") and is immutable once assigned.
type Company struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Industry    string    `json:"industry,omitempty"`
	Description string    `json:"description,omitempty"`
	Demo        bool      `json:"demo"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCompany creates a new company with immutable pattern
func NewCompany(id, name, industry, description string) Company {
	now := time.Now()
	return Company{
		ID:          id,
		Name:        name,
		Industry:    industry,
		Description: description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// WithName returns a new company with updated name
func (c Company) WithName(name string) Company {
	c.Name = name
	c.UpdatedAt = time.Now()
	return c
}

// WithDescription returns a new company with updated description
func (c Company) WithDescription(description string) Company {
	c.Description = description
	c.UpdatedAt = time.Now()
	return c
}

// WithDemo returns a new company with the demo flag set. Demo tenants get
// business rule violations downgraded to warnings during validation.
func (c Company) WithDemo(demo bool) Company {
	c.Demo = demo
	c.UpdatedAt = time.Now()
	return c
}

// Deactivated returns a new company marked inactive.
func (c Company) Deactivated() Company {
	c.Active = false
	c.UpdatedAt = time.Now()
	return c
}
