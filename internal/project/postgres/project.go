package postgres

import (
	"context"
	"errors"

	projectDatamodel "github.com/frahmantamala/project-expenses/internal/core/datamodel/project"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) FindByOwner(ctx context.Context, ownerID string) ([]*projectDatamodel.Project, error) {
	var projects []*projectDatamodel.Project
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// FindByID returns nil when the project is missing or owned by someone else.
func (r *ProjectRepository) FindByID(ctx context.Context, id, ownerID string) (*projectDatamodel.Project, error) {
	var p projectDatamodel.Project
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *projectDatamodel.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Update writes every column of the owned row and reports whether it matched.
func (r *ProjectRepository) Update(ctx context.Context, p *projectDatamodel.Project) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&projectDatamodel.Project{}).
		Where("id = ? AND user_id = ?", p.ID, p.UserID).
		Select("name", "description", "client_name", "client_email", "status",
			"category", "start_date", "end_date", "budget", "updated_at").
		Updates(p)
	return res.RowsAffected > 0, res.Error
}

func (r *ProjectRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&projectDatamodel.Project{})
	return res.RowsAffected > 0, res.Error
}
