package dedup

import (
	"strings"
	"unicode"

	"github.com/forensint/celltrace/internal/model"
)

// DefaultSource labels contacts that carry no source system of their own.
// Device phone books export without a source tag; everything else names
// one.
const DefaultSource = "Agenda Telefon"

// MergeContacts groups contacts by normalized phone and merges each group
// into one representative record. Groups appear in first-seen order.
//
// Grouping uses exact normalized-phone equality. The looser dual rule
// (model.PhonesEqual) is applied only for the suspect-photo association
// below; widening grouping itself to the dual rule would transitively
// chain unrelated numbers that happen to share a 9-digit suffix.
func MergeContacts(contacts []model.Contact) []model.MergedContact {
	groupIndex := make(map[string]int)
	var groups [][]model.Contact

	for _, c := range contacts {
		key := model.NormalizePhone(c.Phone)
		if key == "" {
			// Phoneless rows should not exist, but legacy data may carry
			// them; each forms its own group rather than one giant blob.
			groups = append(groups, []model.Contact{c})
			continue
		}
		if i, ok := groupIndex[key]; ok {
			groups[i] = append(groups[i], c)
			continue
		}
		groupIndex[key] = len(groups)
		groups = append(groups, []model.Contact{c})
	}

	merged := make([]model.MergedContact, 0, len(groups))
	for _, group := range groups {
		merged = append(merged, mergeGroup(group))
	}
	return merged
}

func mergeGroup(group []model.Contact) model.MergedContact {
	best := 0
	for i := 1; i < len(group); i++ {
		if nameScore(group[i].Name) > nameScore(group[best].Name) {
			best = i
		}
	}

	m := model.MergedContact{
		Contact:        group[best],
		DuplicateCount: len(group),
	}

	// Fill gaps in the representative from any member that has the field.
	for _, c := range group {
		if m.PhotoPath == "" && c.PhotoPath != "" {
			m.PhotoPath = c.PhotoPath
		}
		if m.Email == "" && c.Email != "" {
			m.Email = c.Email
		}
		if m.SuspectPhone == "" && c.SuspectPhone != "" {
			m.SuspectPhone = c.SuspectPhone
		}
	}

	m.AllPhones = appendDistinct(nil, m.Phone)
	for _, c := range group {
		m.AllPhones = appendDistinct(m.AllPhones, c.Phone)
		if nameScore(c.Name) > 0 {
			m.AllNames = appendDistinct(m.AllNames, strings.TrimSpace(c.Name))
		}
		source := c.Source
		if source == "" {
			source = DefaultSource
		}
		m.Sources = appendDistinct(m.Sources, source)
	}
	if m.Source == "" {
		m.Source = DefaultSource
	}

	// The device owner's own entry gets the session profile photo shown
	// alongside it. This association uses the dual equality rule so the
	// owner's number matches regardless of which prefix form was stored.
	if m.PhotoPath != "" && model.PhonesEqual(m.Phone, m.SuspectPhone) {
		m.SuspectPhotoPath = m.PhotoPath
	}

	return m
}

// nameScore ranks candidate display names. Length is the base score; any
// letter adds a flat bonus so a short real name beats a long phone-shaped
// string.
func nameScore(name string) int {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return 0
	}
	score := len(trimmed)
	for _, r := range trimmed {
		if unicode.IsLetter(r) {
			score += 50
			break
		}
	}
	return score
}

func appendDistinct(list []string, value string) []string {
	if value == "" {
		return list
	}
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
