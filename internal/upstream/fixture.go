package upstream

import (
	"context"
	"sync"
	"time"

	"github.com/vinifvision/alerta-conecta-mobile/internal/models"
	"github.com/vinifvision/alerta-conecta-mobile/internal/service"
)

// FixtureStore serves the demo dataset with a fixed simulated delay, so the
// app can be exercised without the backend. Writes mutate the in-memory copy
// only.
type FixtureStore struct {
	Delay time.Duration

	mu        sync.Mutex
	incidents []models.Incident
	nextID    int
}

func NewFixtureStore(delay time.Duration) *FixtureStore {
	seed := seedIncidents()
	maxID := 0
	for _, inc := range seed {
		if inc.ID > maxID {
			maxID = inc.ID
		}
	}
	return &FixtureStore{
		Delay:     delay,
		incidents: seed,
		nextID:    maxID + 1,
	}
}

func (s *FixtureStore) GetAll(ctx context.Context) ([]models.Incident, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Incident, len(s.incidents))
	copy(out, s.incidents)
	return out, nil
}

func (s *FixtureStore) GetByID(ctx context.Context, id int) (*models.Incident, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inc := range s.incidents {
		if inc.ID == id {
			found := inc
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *FixtureStore) Create(ctx context.Context, sub service.Submission) (*models.Incident, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	inc := incidentFromSubmission(sub)
	inc.ID = s.nextID
	s.nextID++
	s.incidents = append(s.incidents, inc)
	return &inc, nil
}

func (s *FixtureStore) Update(ctx context.Context, id int, sub service.Submission) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.incidents {
		if existing.ID == id {
			inc := incidentFromSubmission(sub)
			inc.ID = id
			s.incidents[i] = inc
			return nil
		}
	}
	return ErrNotFound
}

func (s *FixtureStore) wait(ctx context.Context) error {
	if s.Delay <= 0 {
		return nil
	}
	select {
	case <-time.After(s.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func incidentFromSubmission(sub service.Submission) models.Incident {
	return models.Incident{
		Title:      sub.Title,
		Status:     sub.Status,
		Priority:   sub.Priority,
		OccurredAt: parseWireDate(sub.OccurredAt),
		Type:       sub.Type,
		Address:    sub.Address,
		Lat:        sub.Lat,
		Lng:        sub.Lng,
		Victims:    sub.Victims,
		Details:    sub.Details,
	}
}

func seedIncidents() []models.Incident {
	f := func(v float64) *float64 { return &v }
	return []models.Incident{
		{
			ID:         101,
			Title:      "Incêndio em Edificação Residencial",
			Status:     models.StatusInProgress,
			Priority:   models.PriorityHigh,
			OccurredAt: time.Date(2025, 10, 25, 14, 30, 0, 0, time.UTC),
			Type:       models.IncidentType{ID: 1, Name: "Incêndio"},
			Address:    models.Address{Display: "Rua da Aurora, 123, Recife - PE", City: "Recife"},
			Lat:        f(-8.063169),
			Lng:        f(-34.871139),
			Victims:    "2 inalação de fumaça",
			Details:    "Fogo no 2º andar. Combate iniciado.",
		},
		{
			ID:         102,
			Title:      "Resgate Veicular na BR-101",
			Status:     models.StatusClosed,
			Priority:   models.PriorityMedium,
			OccurredAt: time.Date(2025, 10, 25, 16, 0, 0, 0, time.UTC),
			Type:       models.IncidentType{ID: 2, Name: "Resgate"},
			Address:    models.Address{Display: "BR-101, km 40, Abreu e Lima - PE", City: "Abreu e Lima"},
			Lat:        f(-7.908988),
			Lng:        f(-34.902683),
			Victims:    "1 vítima leve",
			Details:    "Colisão carro x moto.",
		},
		{
			ID:         103,
			Title:      "Vazamento de Gás GLP",
			Status:     models.StatusCancelled,
			Priority:   models.PriorityLow,
			OccurredAt: time.Date(2025, 10, 24, 9, 15, 0, 0, time.UTC),
			Type:       models.IncidentType{ID: 5, Name: "Ocorrência Ambiental"},
			Address:    models.Address{Display: "Rua do Sol, Olinda - PE", City: "Olinda"},
			Details:    "Alarme falso, cheiro de gás dispersou.",
		},
		{
			ID:         104,
			Title:      "Deslizamento de Barreira",
			Status:     models.StatusInProgress,
			Priority:   models.PriorityHigh,
			OccurredAt: time.Date(2025, 10, 24, 18, 45, 0, 0, time.UTC),
			Type:       models.IncidentType{ID: 7, Name: "Desastre Natural"},
			Address:    models.Address{Display: "Córrego do Jenipapo, Recife - PE", City: "Recife"},
			Victims:    "Busca em andamento",
			Details:    "Risco de novo deslizamento.",
		},
	}
}
