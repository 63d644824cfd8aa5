package models

import (
	"fmt"
	"strings"
	"time"
)

// Status values mirror the enum stored by the occurrence backend.
type Status string

const (
	StatusInProgress Status = "Em_andamento"
	StatusClosed     Status = "Encerrada"
	StatusCancelled  Status = "Cancelada"
)

// ParseStatus maps a wire status onto the canonical enum. Older exports use a
// space instead of the underscore ("Em andamento"); both forms are accepted.
// Unknown values come back as ("", false) and are kept out of grouped views.
func ParseStatus(raw string) (Status, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), " ", "_")
	for _, known := range []Status{StatusInProgress, StatusClosed, StatusCancelled} {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

// Label returns the display form shown in section headers and filter chips.
func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "Em Andamento"
	case StatusClosed:
		return "Encerrada"
	case StatusCancelled:
		return "Cancelada"
	}
	return string(s)
}

type Priority string

const (
	PriorityLow      Priority = "Baixa"
	PriorityMedium   Priority = "Media"
	PriorityHigh     Priority = "Alta"
	PriorityCritical Priority = "Critica"
)

func ParsePriority(raw string) (Priority, bool) {
	s := strings.TrimSpace(raw)
	for _, known := range []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical} {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

// IncidentType is the main classification (Incêndio, Resgate, ...). Some
// backend versions send it as a bare numeric id, others as a nested object;
// decoding collapses both into this shape.
type IncidentType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Address keeps the structured fields when the backend provides them and the
// flat display string otherwise. Either side may be empty.
type Address struct {
	Street     string `json:"street,omitempty"`
	Number     string `json:"number,omitempty"`
	Complement string `json:"complement,omitempty"`
	DistrictID int    `json:"district_id,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city,omitempty"`
	Display    string `json:"display,omitempty"`
}

// Incident is the canonical record. All wire-contract aliasing (titule/title,
// flat/nested type and address) is resolved before an Incident exists.
type Incident struct {
	ID         int          `json:"id"`
	Title      string       `json:"title"`
	Status     Status       `json:"status"`
	Priority   Priority     `json:"priority"`
	OccurredAt time.Time    `json:"occurred_at"`
	Type       IncidentType `json:"type"`
	Address    Address      `json:"address"`
	Lat        *float64     `json:"lat,omitempty"`
	Lng        *float64     `json:"lng,omitempty"`
	Victims    string       `json:"victims,omitempty"`
	Details    string       `json:"details,omitempty"`
}

// DisplayTitle falls back to a placeholder when the record arrived without a
// title, so a half-filled upstream row never breaks a list or detail view.
func (i Incident) DisplayTitle() string {
	if strings.TrimSpace(i.Title) != "" {
		return i.Title
	}
	return fmt.Sprintf("Ocorrência #%d", i.ID)
}

// FilterCriteria narrows the incident list. Every field is optional; a zero
// field means "no constraint".
type FilterCriteria struct {
	DateFrom time.Time
	DateTo   time.Time
	Status   Status
	Type     *int
	Region   string
}

// SectionGroup is one status bucket of the projected list view.
type SectionGroup struct {
	Title  string     `json:"title"`
	Status Status     `json:"status"`
	Items  []Incident `json:"items"`
	Count  int        `json:"count"`
}

// User is the authenticated operator as returned by the user service.
type User struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	CPF    string `json:"cpf"`
	Token  string `json:"token,omitempty"`
	Status string `json:"status,omitempty"`
}
