package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vinifvision/alerta-conecta-mobile/internal/models"
	"github.com/vinifvision/alerta-conecta-mobile/internal/service"
	"github.com/vinifvision/alerta-conecta-mobile/internal/upstream"
)

// Store is the Postgres-backed incident store, used when the service owns the
// database instead of proxying the legacy backend.
type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

const incidentColumns = `
	id, COALESCE(title, ''), status, priority, occurred_at,
	type_id, type_name,
	street, number, complement, district_id, district, city, display_address,
	lat, lng, victims, details`

func (s *Store) GetAll(ctx context.Context) ([]models.Incident, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+incidentColumns+` FROM incidents ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	incidents := []models.Incident{}
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, inc)
	}
	return incidents, rows.Err()
}

func (s *Store) GetByID(ctx context.Context, id int) (*models.Incident, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+incidentColumns+` FROM incidents WHERE id = $1`, id)
	inc, err := scanIncident(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, upstream.ErrNotFound
		}
		return nil, err
	}
	return &inc, nil
}

func (s *Store) Create(ctx context.Context, sub service.Submission) (*models.Incident, error) {
	occurredAt, err := parseOccurredAt(sub.OccurredAt)
	if err != nil {
		return nil, err
	}
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO incidents (
			title, status, priority, occurred_at,
			type_id, type_name,
			street, number, complement, district_id, district, city, display_address,
			lat, lng, victims, details
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING id`,
		sub.Title, sub.Status, sub.Priority, occurredAt,
		sub.Type.ID, sub.Type.Name,
		sub.Address.Street, sub.Address.Number, sub.Address.Complement,
		sub.Address.DistrictID, sub.Address.District, sub.Address.City, sub.Address.Display,
		sub.Lat, sub.Lng, sub.Victims, sub.Details,
	)
	var id int
	if err := row.Scan(&id); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *Store) Update(ctx context.Context, id int, sub service.Submission) error {
	occurredAt, err := parseOccurredAt(sub.OccurredAt)
	if err != nil {
		return err
	}
	tag, err := s.Pool.Exec(ctx, `
		UPDATE incidents SET
			title = $1, status = $2, priority = $3, occurred_at = $4,
			type_id = $5, type_name = $6,
			street = $7, number = $8, complement = $9,
			district_id = $10, district = $11, city = $12, display_address = $13,
			lat = $14, lng = $15, victims = $16, details = $17
		WHERE id = $18`,
		sub.Title, sub.Status, sub.Priority, occurredAt,
		sub.Type.ID, sub.Type.Name,
		sub.Address.Street, sub.Address.Number, sub.Address.Complement,
		sub.Address.DistrictID, sub.Address.District, sub.Address.City, sub.Address.Display,
		sub.Lat, sub.Lng, sub.Victims, sub.Details,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return upstream.ErrNotFound
	}
	return nil
}

func parseOccurredAt(iso string) (time.Time, error) {
	return time.Parse("2006-01-02T15:04:05", iso)
}

func scanIncident(row pgx.Row) (models.Incident, error) {
	var (
		inc      models.Incident
		status   string
		priority string
	)
	err := row.Scan(
		&inc.ID, &inc.Title, &status, &priority, &inc.OccurredAt,
		&inc.Type.ID, &inc.Type.Name,
		&inc.Address.Street, &inc.Address.Number, &inc.Address.Complement,
		&inc.Address.DistrictID, &inc.Address.District, &inc.Address.City, &inc.Address.Display,
		&inc.Lat, &inc.Lng, &inc.Victims, &inc.Details,
	)
	if err != nil {
		return models.Incident{}, err
	}
	if st, ok := models.ParseStatus(status); ok {
		inc.Status = st
	} else {
		inc.Status = models.Status(status)
	}
	if p, ok := models.ParsePriority(priority); ok {
		inc.Priority = p
	}
	return inc, nil
}
