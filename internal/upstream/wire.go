package upstream

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vinifvision/alerta-conecta-mobile/internal/models"
	"github.com/vinifvision/alerta-conecta-mobile/internal/service"
)

// Contract identifies which backend wire shape is active. The two shapes are
// incompatible (titule vs title, nested vs flat type/address) and were never
// gated by a migration flag upstream, so the shape is chosen once at startup.
type Contract string

const (
	// ContractLegacy is the Java store contract: "titule", nested type and
	// address objects. This is what the register screen has always posted.
	ContractLegacy Contract = "legacy"
	// ContractCurrent is the reworked contract: "title", bare numeric type,
	// flat display address, stringified coordinates.
	ContractCurrent Contract = "current"
)

func ParseContract(raw string) (Contract, error) {
	switch Contract(strings.ToLower(strings.TrimSpace(raw))) {
	case ContractLegacy, "":
		return ContractLegacy, nil
	case ContractCurrent:
		return ContractCurrent, nil
	}
	return "", fmt.Errorf("unknown upstream contract %q", raw)
}

// wireIncident accepts every field alias either contract has been seen to
// emit. Decoding funnels all of them into the one canonical Incident so no
// other package ever branches on contract shape.
type wireIncident struct {
	ID       int             `json:"id"`
	Title    *string         `json:"title"`
	Titule   *string         `json:"titule"`
	Date     string          `json:"date"`
	Status   string          `json:"status"`
	Priority string          `json:"priority"`
	Type     json.RawMessage `json:"type"`
	TypeName string          `json:"nome_tipo"`
	Address  json.RawMessage `json:"address"`
	Victims  *string         `json:"victims"`
	Details  *string         `json:"details"`
	Lat      *float64        `json:"lat"`
	Lng      *float64        `json:"lng"`

	// Loose address aliases used by some list payloads.
	Street   string `json:"rua"`
	Number   string `json:"numero"`
	District string `json:"nome_bairro"`
	City     string `json:"nome_cidade"`
}

type wireAddress struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	DistrictID int    `json:"idDistrict"`
	District   string `json:"district"`
	City       string `json:"city"`
}

func decodeIncident(w wireIncident) models.Incident {
	inc := models.Incident{
		ID:  w.ID,
		Lat: w.Lat,
		Lng: w.Lng,
	}

	// title wins over the misspelled legacy key when both are present.
	if w.Title != nil && strings.TrimSpace(*w.Title) != "" {
		inc.Title = *w.Title
	} else if w.Titule != nil {
		inc.Title = *w.Titule
	}
	if w.Victims != nil {
		inc.Victims = *w.Victims
	}
	if w.Details != nil {
		inc.Details = *w.Details
	}

	if st, ok := models.ParseStatus(w.Status); ok {
		inc.Status = st
	} else {
		inc.Status = models.Status(strings.TrimSpace(w.Status))
	}
	if p, ok := models.ParsePriority(w.Priority); ok {
		inc.Priority = p
	}
	inc.OccurredAt = parseWireDate(w.Date)
	inc.Type = decodeType(w.Type, w.TypeName)
	inc.Address = decodeAddress(w)
	return inc
}

// decodeType handles both a bare numeric id and a nested {id,name} object.
func decodeType(raw json.RawMessage, fallbackName string) models.IncidentType {
	t := models.IncidentType{Name: fallbackName}
	if len(raw) == 0 {
		return t
	}
	var id int
	if err := json.Unmarshal(raw, &id); err == nil {
		t.ID = id
		return t
	}
	var nested struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil {
		t.ID = nested.ID
		if nested.Name != "" {
			t.Name = nested.Name
		}
	}
	return t
}

// decodeAddress handles a flat display string, a nested object, and the loose
// top-level aliases, in that order of precedence for the structured fields.
func decodeAddress(w wireIncident) models.Address {
	addr := models.Address{
		Street:   w.Street,
		Number:   w.Number,
		District: w.District,
		City:     w.City,
	}
	if len(w.Address) == 0 {
		return addr
	}
	var display string
	if err := json.Unmarshal(w.Address, &display); err == nil {
		addr.Display = display
		return addr
	}
	var nested wireAddress
	if err := json.Unmarshal(w.Address, &nested); err == nil {
		if nested.Street != "" {
			addr.Street = nested.Street
		}
		if nested.Number != "" {
			addr.Number = nested.Number
		}
		addr.Complement = nested.Complement
		addr.DistrictID = nested.DistrictID
		if nested.District != "" {
			addr.District = nested.District
		}
		if nested.City != "" {
			addr.City = nested.City
		}
	}
	return addr
}

// parseWireDate tolerates the bare ISO form the Java store emits as well as
// full RFC3339. A zero time means "unknown"; list filtering treats such
// records as outside any date-bounded query.
func parseWireDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

type legacyType struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type legacyAddress struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	DistrictID int    `json:"idDistrict"`
}

type legacyPayload struct {
	Titule   string        `json:"titule"`
	Date     string        `json:"date"`
	Victims  string        `json:"victims"`
	Details  string        `json:"details"`
	Priority string        `json:"priority"`
	Status   string        `json:"status,omitempty"`
	Type     legacyType    `json:"type"`
	Address  legacyAddress `json:"address"`
}

type currentPayload struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Victims  string `json:"victims"`
	Details  string `json:"details"`
	Priority string `json:"priority"`
	Status   string `json:"status,omitempty"`
	Type     int    `json:"type"`
	Address  string `json:"address"`
	Lat      string `json:"lat"`
	Lng      string `json:"lng"`
}

// encodeSubmission maps the canonical payload to the active contract's shape.
func encodeSubmission(sub service.Submission, contract Contract) ([]byte, error) {
	switch contract {
	case ContractCurrent:
		return json.Marshal(currentPayload{
			Title:    sub.Title,
			Date:     sub.OccurredAt,
			Victims:  sub.Victims,
			Details:  sub.Details,
			Priority: string(sub.Priority),
			Status:   string(sub.Status),
			Type:     sub.Type.ID,
			Address:  flatAddress(sub.Address),
			Lat:      coordString(sub.Lat),
			Lng:      coordString(sub.Lng),
		})
	default:
		return json.Marshal(legacyPayload{
			Titule:   sub.Title,
			Date:     sub.OccurredAt,
			Victims:  sub.Victims,
			Details:  sub.Details,
			Priority: string(sub.Priority),
			Status:   string(sub.Status),
			Type: legacyType{
				ID:   sub.Type.ID,
				Name: sub.Type.Name,
			},
			Address: legacyAddress{
				Street:     sub.Address.Street,
				Number:     sub.Address.Number,
				Complement: sub.Address.Complement,
				DistrictID: sub.Address.DistrictID,
			},
		})
	}
}

func flatAddress(a models.Address) string {
	if a.Display != "" {
		return a.Display
	}
	parts := []string{}
	if a.Street != "" {
		street := a.Street
		if a.Number != "" {
			street += ", " + a.Number
		}
		parts = append(parts, street)
	}
	if a.Complement != "" {
		parts = append(parts, a.Complement)
	}
	if a.District != "" {
		parts = append(parts, a.District)
	}
	if a.City != "" {
		parts = append(parts, a.City)
	}
	return strings.Join(parts, " - ")
}

// coordString emits the "0.0" sentinel the current contract demands when a
// coordinate is unknown.
func coordString(v *float64) string {
	if v == nil {
		return "0.0"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
