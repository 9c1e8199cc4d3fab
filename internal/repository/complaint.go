package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/safetracker_system/internal/models"
	"github.com/shenikar/safetracker_system/internal/service"
)

type ComplaintRepository struct {
	db *pgxpool.Pool
}

func NewComplaintRepository(db *pgxpool.Pool) service.ComplaintRepository {
	return &ComplaintRepository{db: db}
}

// Create сохраняет обращение из контактной формы
func (r *ComplaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	query := `
		INSERT INTO complaints (name, email, subject, message)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		complaint.Name,
		complaint.Email,
		complaint.Subject,
		complaint.Message,
	).Scan(&complaint.ID, &complaint.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}
	return nil
}

// List возвращает все обращения, новые первыми
func (r *ComplaintRepository) List(ctx context.Context) ([]*models.Complaint, error) {
	query := `
		SELECT id, name, email, subject, message, created_at
		FROM complaints
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	defer rows.Close()

	complaints := make([]*models.Complaint, 0)
	for rows.Next() {
		complaint := &models.Complaint{}
		err := rows.Scan(
			&complaint.ID,
			&complaint.Name,
			&complaint.Email,
			&complaint.Subject,
			&complaint.Message,
			&complaint.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan complaint row: %w", err)
		}
		complaints = append(complaints, complaint)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error complaint rows iteration: %w", err)
	}
	return complaints, nil
}

// Delete удаляет обращение
func (r *ComplaintRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM complaints WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete complaint: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("complaint %d not found for delete: %w", id, service.ErrNotFound)
	}
	return nil
}
