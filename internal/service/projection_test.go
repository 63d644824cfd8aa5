package service

import (
	"testing"
	"time"

	"github.com/vinifvision/alerta-conecta-mobile/internal/models"
)

func sampleIncidents() []models.Incident {
	at := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02T15:04:05", s)
		return t
	}
	return []models.Incident{
		{
			ID:         101,
			Title:      "Incêndio em residência",
			Status:     models.StatusInProgress,
			OccurredAt: at("2025-10-20T14:30:00"),
			Type:       models.IncidentType{ID: 1, Name: "Incêndio"},
			Address:    models.Address{Street: "Rua da Aurora", District: "Boa Vista", City: "Recife"},
		},
		{
			ID:         102,
			Title:      "Resgate veicular na BR-101",
			Status:     models.StatusClosed,
			OccurredAt: at("2025-10-21T09:00:00"),
			Type:       models.IncidentType{ID: 2, Name: "Resgate"},
			Address:    models.Address{Display: "BR-101, km 45, Igarassu"},
		},
		{
			ID:         103,
			Title:      "Atendimento clínico",
			Status:     models.StatusCancelled,
			OccurredAt: at("2025-10-22T23:59:59"),
			Type:       models.IncidentType{ID: 3, Name: "APH"},
			Address:    models.Address{Street: "Av. Getúlio Vargas", City: "Olinda"},
		},
	}
}

func totalCount(sections []models.SectionGroup) int {
	total := 0
	for _, s := range sections {
		total += s.Count
	}
	return total
}

func TestProjectNoCriteriaKeepsEverything(t *testing.T) {
	all := sampleIncidents()
	sections := Project(all, "", models.FilterCriteria{})
	if totalCount(sections) != len(all) {
		t.Fatalf("expected %d incidents, got %d", len(all), totalCount(sections))
	}
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
}

func TestProjectSectionOrderIsFixed(t *testing.T) {
	// Input ordered cancelled-first; sections must still come out in the
	// canonical order.
	all := sampleIncidents()
	reversed := []models.Incident{all[2], all[1], all[0]}
	sections := Project(reversed, "", models.FilterCriteria{})

	want := []models.Status{models.StatusInProgress, models.StatusClosed, models.StatusCancelled}
	if len(sections) != len(want) {
		t.Fatalf("expected %d sections, got %d", len(want), len(sections))
	}
	for i, st := range want {
		if sections[i].Status != st {
			t.Fatalf("section %d: expected %s, got %s", i, st, sections[i].Status)
		}
		if sections[i].Title != st.Label() {
			t.Fatalf("section %d: expected title %q, got %q", i, st.Label(), sections[i].Title)
		}
	}
}

func TestProjectEmptySectionsOmitted(t *testing.T) {
	all := sampleIncidents()[:1] // only the in-progress one
	sections := Project(all, "", models.FilterCriteria{})
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Status != models.StatusInProgress {
		t.Fatalf("unexpected section: %s", sections[0].Status)
	}
}

func TestProjectSearchByID(t *testing.T) {
	sections := Project(sampleIncidents(), "102", models.FilterCriteria{})
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Status != models.StatusClosed || sections[0].Count != 1 {
		t.Fatalf("unexpected result: %+v", sections[0])
	}
	if sections[0].Items[0].ID != 102 {
		t.Fatalf("expected incident 102, got %d", sections[0].Items[0].ID)
	}
}

func TestProjectSearchByTitleCaseInsensitive(t *testing.T) {
	sections := Project(sampleIncidents(), "RESGATE", models.FilterCriteria{})
	if totalCount(sections) != 1 {
		t.Fatalf("expected 1 match, got %d", totalCount(sections))
	}
	if sections[0].Items[0].ID != 102 {
		t.Fatalf("expected incident 102, got %d", sections[0].Items[0].ID)
	}
}

func TestProjectSearchMatchesFallbackTitle(t *testing.T) {
	all := []models.Incident{{ID: 500, Status: models.StatusInProgress}}
	sections := Project(all, "ocorrência", models.FilterCriteria{})
	if totalCount(sections) != 1 {
		t.Fatalf("untitled incident should match via its placeholder title")
	}
}

func TestProjectDateRangeEndIsInclusive(t *testing.T) {
	to, _ := time.Parse("02/01/2006", "22/10/2025")
	criteria := models.FilterCriteria{DateTo: to}

	// 103 occurred at 23:59:59 on the end date; it stays in.
	sections := Project(sampleIncidents(), "", criteria)
	if totalCount(sections) != 3 {
		t.Fatalf("expected all 3 incidents, got %d", totalCount(sections))
	}

	// Exactly 23:59:59.999 of the end date is still inside the range.
	boundary := sampleIncidents()
	boundary[2].OccurredAt = time.Date(2025, 10, 22, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	sections = Project(boundary, "", criteria)
	if totalCount(sections) != 3 {
		t.Fatalf("23:59:59.999 must be inclusive, got %d", totalCount(sections))
	}

	// One microsecond later falls out.
	boundary[2].OccurredAt = boundary[2].OccurredAt.Add(time.Microsecond)
	sections = Project(boundary, "", criteria)
	if totalCount(sections) != 2 {
		t.Fatalf("past end of day must be excluded, got %d", totalCount(sections))
	}
}

func TestProjectDateFromUsesStartOfDay(t *testing.T) {
	from, _ := time.Parse("02/01/2006", "21/10/2025")
	sections := Project(sampleIncidents(), "", models.FilterCriteria{DateFrom: from})
	if totalCount(sections) != 2 {
		t.Fatalf("expected 2 incidents on/after 21/10, got %d", totalCount(sections))
	}
}

func TestProjectDateFilterDropsUnknownDates(t *testing.T) {
	all := sampleIncidents()
	all[0].OccurredAt = time.Time{}
	from, _ := time.Parse("02/01/2006", "01/01/2020")
	sections := Project(all, "", models.FilterCriteria{DateFrom: from})
	if totalCount(sections) != 2 {
		t.Fatalf("incident without a date must not pass a date filter, got %d", totalCount(sections))
	}
}

func TestProjectStatusAndTypeFilters(t *testing.T) {
	sections := Project(sampleIncidents(), "", models.FilterCriteria{Status: models.StatusClosed})
	if totalCount(sections) != 1 || sections[0].Items[0].ID != 102 {
		t.Fatalf("status filter failed: %+v", sections)
	}

	typeID := 3
	sections = Project(sampleIncidents(), "", models.FilterCriteria{Type: &typeID})
	if totalCount(sections) != 1 || sections[0].Items[0].ID != 103 {
		t.Fatalf("type filter failed: %+v", sections)
	}
}

func TestProjectRegionMatchesAnyAddressField(t *testing.T) {
	// Display-only address.
	sections := Project(sampleIncidents(), "", models.FilterCriteria{Region: "igarassu"})
	if totalCount(sections) != 1 || sections[0].Items[0].ID != 102 {
		t.Fatalf("region should match the display address: %+v", sections)
	}

	// City field.
	sections = Project(sampleIncidents(), "", models.FilterCriteria{Region: "Olinda"})
	if totalCount(sections) != 1 || sections[0].Items[0].ID != 103 {
		t.Fatalf("region should match the city: %+v", sections)
	}
}

func TestProjectCriteriaCompose(t *testing.T) {
	from, _ := time.Parse("02/01/2006", "20/10/2025")
	to, _ := time.Parse("02/01/2006", "21/10/2025")
	sections := Project(sampleIncidents(), "resgate", models.FilterCriteria{
		DateFrom: from,
		DateTo:   to,
		Status:   models.StatusClosed,
	})
	if totalCount(sections) != 1 || sections[0].Items[0].ID != 102 {
		t.Fatalf("composed criteria failed: %+v", sections)
	}

	// Same criteria plus a non-matching region eliminates everything.
	sections = Project(sampleIncidents(), "resgate", models.FilterCriteria{
		DateFrom: from,
		DateTo:   to,
		Status:   models.StatusClosed,
		Region:   "Sertão",
	})
	if len(sections) != 0 {
		t.Fatalf("expected no sections, got %+v", sections)
	}
}

func TestProjectNonCanonicalStatusLandsInCanonicalSection(t *testing.T) {
	// A record whose status kept the spaced form must still show up in the
	// underscore section, not disappear.
	all := []models.Incident{{ID: 1, Title: "x", Status: "Em andamento"}}
	sections := Project(all, "", models.FilterCriteria{})
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Status != models.StatusInProgress || sections[0].Count != 1 {
		t.Fatalf("spaced status not bucketed canonically: %+v", sections[0])
	}
}

func TestProjectUnknownStatusExcluded(t *testing.T) {
	all := append(sampleIncidents(), models.Incident{ID: 999, Title: "x", Status: "Pendente"})
	sections := Project(all, "", models.FilterCriteria{})
	if totalCount(sections) != 3 {
		t.Fatalf("unknown status must be excluded, got %d", totalCount(sections))
	}
}

func TestProjectIsIdempotentAndKeepsSourceOrder(t *testing.T) {
	all := sampleIncidents()
	extra := models.Incident{ID: 104, Title: "Outro incêndio", Status: models.StatusInProgress, OccurredAt: all[0].OccurredAt}
	all = append(all, extra)

	first := Project(all, "", models.FilterCriteria{})
	second := Project(all, "", models.FilterCriteria{})
	if len(first) != len(second) {
		t.Fatalf("projection not stable")
	}
	inProgress := first[0].Items
	if inProgress[0].ID != 101 || inProgress[1].ID != 104 {
		t.Fatalf("source order not preserved inside a section: %v, %v", inProgress[0].ID, inProgress[1].ID)
	}
	if len(all) != 4 {
		t.Fatalf("input slice mutated")
	}
}
