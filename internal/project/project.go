package project

import (
	"time"

	projectDatamodel "github.com/frahmantamala/project-expenses/internal/core/datamodel/project"
	"github.com/frahmantamala/project-expenses/internal/core/ids"
	"github.com/frahmantamala/project-expenses/internal/core/money"
)

const (
	StatusActive    = "active"
	StatusOnHold    = "on_hold"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var Statuses = []string{StatusActive, StatusOnHold, StatusCompleted, StatusCancelled}

type Project struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	ClientName  string       `json:"clientName"`
	ClientEmail string       `json:"clientEmail"`
	Status      string       `json:"status"`
	Category    string       `json:"category"`
	StartDate   *time.Time   `json:"startDate,omitempty"`
	EndDate     *time.Time   `json:"endDate,omitempty"`
	Budget      money.Amount `json:"budget"`
	UserID      string       `json:"userId"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func NewProject(req ProjectRequest, now time.Time) Project {
	now = now.UTC()
	p := Project{
		ID:        ids.New(ids.PrefixProject),
		UserID:    req.UserID,
		CreatedAt: now,
	}
	return p.Revise(req, now)
}

// Revise returns a copy of p carrying the values of req.
func (p Project) Revise(req ProjectRequest, now time.Time) Project {
	revised := p
	revised.Name = req.Name
	revised.Description = req.Description
	revised.ClientName = req.ClientName
	revised.ClientEmail = req.ClientEmail
	revised.Status = req.Status
	revised.Category = req.Category
	revised.StartDate = utcPtr(req.StartDate)
	revised.EndDate = utcPtr(req.EndDate)
	revised.Budget = req.Budget.Normalize()
	revised.UpdatedAt = now.UTC()
	if revised.Status == "" {
		revised.Status = StatusActive
	}
	return revised
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func ToDataModel(p Project) *projectDatamodel.Project {
	return &projectDatamodel.Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ClientName:  p.ClientName,
		ClientEmail: p.ClientEmail,
		Status:      p.Status,
		Category:    p.Category,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Budget:      p.Budget,
		UserID:      p.UserID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromDataModel(p *projectDatamodel.Project) Project {
	return Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ClientName:  p.ClientName,
		ClientEmail: p.ClientEmail,
		Status:      p.Status,
		Category:    p.Category,
		StartDate:   utcPtr(p.StartDate),
		EndDate:     utcPtr(p.EndDate),
		Budget:      p.Budget.Normalize(),
		UserID:      p.UserID,
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}
}
