package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/vinifvision/alerta-conecta-mobile/internal/models"
)

// sectionOrder is the fixed display order of status buckets.
var sectionOrder = []models.Status{
	models.StatusInProgress,
	models.StatusClosed,
	models.StatusCancelled,
}

// Project filters the full incident collection by search term and criteria
// and groups the survivors into status sections. The input slice is never
// mutated; relative order inside each section is the source order.
func Project(all []models.Incident, searchTerm string, criteria models.FilterCriteria) []models.SectionGroup {
	match := composePredicate(searchTerm, criteria)

	buckets := map[models.Status][]models.Incident{}
	for _, inc := range all {
		if !match(inc) {
			continue
		}
		// Bucket on the parsed status so a spaced variant that slipped past
		// ingestion still lands in its canonical section.
		st, known := models.ParseStatus(string(inc.Status))
		if !known {
			continue
		}
		buckets[st] = append(buckets[st], inc)
	}

	sections := make([]models.SectionGroup, 0, len(sectionOrder))
	for _, st := range sectionOrder {
		items := buckets[st]
		if len(items) == 0 {
			continue
		}
		sections = append(sections, models.SectionGroup{
			Title:  st.Label(),
			Status: st,
			Items:  items,
			Count:  len(items),
		})
	}
	return sections
}

type predicate func(models.Incident) bool

// composePredicate ANDs the individual criteria; an unset criterion
// contributes nothing.
func composePredicate(searchTerm string, c models.FilterCriteria) predicate {
	preds := []predicate{}

	if term := strings.TrimSpace(searchTerm); term != "" {
		preds = append(preds, matchesSearch(term))
	}
	if !c.DateFrom.IsZero() {
		from := startOfDay(c.DateFrom)
		preds = append(preds, func(inc models.Incident) bool {
			return !inc.OccurredAt.IsZero() && !inc.OccurredAt.Before(from)
		})
	}
	if !c.DateTo.IsZero() {
		// The end date is inclusive of its whole calendar day.
		to := endOfDay(c.DateTo)
		preds = append(preds, func(inc models.Incident) bool {
			return !inc.OccurredAt.IsZero() && !inc.OccurredAt.After(to)
		})
	}
	if c.Status != "" {
		want, _ := models.ParseStatus(string(c.Status))
		preds = append(preds, func(inc models.Incident) bool {
			return inc.Status == want
		})
	}
	if c.Type != nil {
		want := *c.Type
		preds = append(preds, func(inc models.Incident) bool {
			return inc.Type.ID == want
		})
	}
	if region := strings.TrimSpace(c.Region); region != "" {
		preds = append(preds, matchesRegion(region))
	}

	return func(inc models.Incident) bool {
		for _, p := range preds {
			if !p(inc) {
				return false
			}
		}
		return true
	}
}

// matchesSearch accepts an incident whose numeric id contains the term as a
// decimal substring, or whose title contains it case-insensitively.
func matchesSearch(term string) predicate {
	lower := strings.ToLower(term)
	return func(inc models.Incident) bool {
		if strings.Contains(strconv.Itoa(inc.ID), term) {
			return true
		}
		return strings.Contains(strings.ToLower(inc.DisplayTitle()), lower)
	}
}

// matchesRegion checks the criterion against every address-related text we
// might have; matching any one of them is enough.
func matchesRegion(region string) predicate {
	lower := strings.ToLower(region)
	return func(inc models.Incident) bool {
		for _, field := range []string{
			inc.Address.Street,
			inc.Address.District,
			inc.Address.City,
			inc.Address.Display,
		} {
			if field != "" && strings.Contains(strings.ToLower(field), lower) {
				return true
			}
		}
		return false
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// endOfDay is 23:59:59.999 of the same calendar day.
func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Millisecond)
}
