package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vinifvision/alerta-conecta-mobile/internal/models"
)

// Mode selects the submission path.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// ValidationError names the offending form field so the client can highlight
// it. It is always raised before any network attempt.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FormInput is the raw, loosely-typed state of the register/edit form. Date
// and Time hold the masked inputs (DD/MM/AAAA, HH:MM).
type FormInput struct {
	ID         int
	Title      string
	TypeID     *int
	TypeName   string
	Date       string
	Time       string
	Priority   string
	Victims    string
	Details    string
	Status     string
	Street     string
	Number     string
	Complement string
	DistrictID string
	Lat        *float64
	Lng        *float64
}

// Submission is the validated, canonical payload. Wire encoding for a
// concrete backend contract happens in the upstream package.
type Submission struct {
	ID         int
	Title      string
	Type       models.IncidentType
	OccurredAt string // YYYY-MM-DDTHH:MM:SS
	Priority   models.Priority
	Status     models.Status
	Victims    string
	Details    string
	Address    models.Address
	Lat        *float64
	Lng        *float64
}

// BuildSubmission validates the form and assembles the canonical payload.
// It fails fast with *ValidationError; no I/O happens here.
func BuildSubmission(form FormInput, mode Mode) (Submission, error) {
	if strings.TrimSpace(form.Title) == "" {
		return Submission{}, &ValidationError{Field: "title", Message: "título é obrigatório"}
	}
	if form.TypeID == nil {
		return Submission{}, &ValidationError{Field: "type", Message: "tipo é obrigatório"}
	}
	if len(form.Date) < 10 {
		return Submission{}, &ValidationError{Field: "date", Message: "data incompleta (DD/MM/AAAA)"}
	}
	if len(form.Time) < 5 {
		return Submission{}, &ValidationError{Field: "time", Message: "hora incompleta (HH:MM)"}
	}
	if hasAddress(form) {
		if strings.TrimSpace(form.Street) == "" {
			return Submission{}, &ValidationError{Field: "street", Message: "rua é obrigatória"}
		}
		if strings.TrimSpace(form.Number) == "" {
			return Submission{}, &ValidationError{Field: "number", Message: "número é obrigatório"}
		}
	}
	switch mode {
	case ModeCreate:
		if form.ID != 0 {
			return Submission{}, &ValidationError{Field: "id", Message: "id é atribuído pelo servidor"}
		}
	case ModeUpdate:
		if form.ID == 0 {
			return Submission{}, &ValidationError{Field: "id", Message: "id é obrigatório para atualização"}
		}
	}

	occurredAt, err := CombineDateTime(form.Date, form.Time)
	if err != nil {
		return Submission{}, &ValidationError{Field: "date", Message: err.Error()}
	}

	sub := Submission{
		ID:         form.ID,
		Title:      strings.TrimSpace(form.Title),
		Type:       models.IncidentType{ID: *form.TypeID, Name: form.TypeName},
		OccurredAt: occurredAt,
		Victims:    form.Victims,
		Details:    form.Details,
		Lat:        form.Lat,
		Lng:        form.Lng,
		Address: models.Address{
			Street:     strings.TrimSpace(form.Street),
			Number:     strings.TrimSpace(form.Number),
			Complement: strings.TrimSpace(form.Complement),
		},
	}
	if p, ok := models.ParsePriority(form.Priority); ok {
		sub.Priority = p
	} else {
		sub.Priority = models.PriorityLow
	}
	if st, ok := models.ParseStatus(form.Status); ok {
		sub.Status = st
	} else {
		sub.Status = models.StatusInProgress
	}
	if form.DistrictID != "" {
		districtID, err := strconv.Atoi(strings.TrimSpace(form.DistrictID))
		if err != nil {
			return Submission{}, &ValidationError{Field: "district_id", Message: "id do bairro deve ser numérico"}
		}
		sub.Address.DistrictID = districtID
	}
	return sub, nil
}

func hasAddress(form FormInput) bool {
	return strings.TrimSpace(form.Street) != "" ||
		strings.TrimSpace(form.Number) != "" ||
		strings.TrimSpace(form.Complement) != "" ||
		strings.TrimSpace(form.DistrictID) != ""
}

// FormatDateDigits reformats a digit-only keystroke stream into DD/MM/AAAA.
// Separators are inserted after the 2nd and 4th digit; anything past 8 digits
// is dropped first.
func FormatDateDigits(raw string) string {
	clean := onlyDigits(raw)
	if len(clean) > 8 {
		clean = clean[:8]
	}
	switch {
	case len(clean) > 4:
		return clean[:2] + "/" + clean[2:4] + "/" + clean[4:]
	case len(clean) > 2:
		return clean[:2] + "/" + clean[2:]
	default:
		return clean
	}
}

// FormatTimeDigits reformats a digit-only stream into HH:MM (max 4 digits).
func FormatTimeDigits(raw string) string {
	clean := onlyDigits(raw)
	if len(clean) > 4 {
		clean = clean[:4]
	}
	if len(clean) > 2 {
		return clean[:2] + ":" + clean[2:]
	}
	return clean
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CombineDateTime joins the masked date and time inputs into the ISO form the
// backend stores (YYYY-MM-DDTHH:MM:SS).
func CombineDateTime(date, clock string) (string, error) {
	t, err := time.Parse("02/01/2006 15:04", date+" "+clock)
	if err != nil {
		return "", fmt.Errorf("data ou hora inválida: %s %s", date, clock)
	}
	return t.Format("2006-01-02T15:04:05"), nil
}

// ParseBRDate parses the DD/MM/AAAA filter inputs.
func ParseBRDate(s string) (time.Time, error) {
	return time.Parse("02/01/2006", strings.TrimSpace(s))
}
