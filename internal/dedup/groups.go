package dedup

import (
	"sort"

	"github.com/forensint/celltrace/internal/model"
)

// GroupMember is one contact observed inside a WhatsApp group.
type GroupMember struct {
	ContactID string `json:"contact_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// WhatsAppGroupSummary aggregates everything known about one WhatsApp
// group across all contacts that list it as a shared group.
type WhatsAppGroupSummary struct {
	GroupID     string        `json:"group_id"`
	GroupName   string        `json:"group_name"`
	MemberCount int           `json:"member_count"`
	Members     []GroupMember `json:"members"`
}

// AggregateWhatsAppGroups inverts the per-contact group-membership lists
// into one summary per group, ordered by member count descending then
// group id. A contact appears at most once per group even when the
// membership string repeats.
func AggregateWhatsAppGroups(contacts []model.Contact) []WhatsAppGroupSummary {
	type aggregate struct {
		summary WhatsAppGroupSummary
		seen    map[string]bool
	}
	byID := make(map[string]*aggregate)

	for i := range contacts {
		c := &contacts[i]
		for _, raw := range c.WhatsAppGroups {
			group, ok := model.ParseWhatsAppGroup(raw)
			if !ok {
				continue
			}
			agg, exists := byID[group.GroupID]
			if !exists {
				agg = &aggregate{
					summary: WhatsAppGroupSummary{GroupID: group.GroupID, GroupName: group.GroupName},
					seen:    make(map[string]bool),
				}
				byID[group.GroupID] = agg
			}
			// A later entry may carry the display name an earlier one lacked.
			if agg.summary.GroupName == agg.summary.GroupID && group.GroupName != group.GroupID {
				agg.summary.GroupName = group.GroupName
			}
			if agg.seen[c.ID] {
				continue
			}
			agg.seen[c.ID] = true
			agg.summary.Members = append(agg.summary.Members, GroupMember{
				ContactID: c.ID,
				Name:      c.Name,
				Phone:     c.Phone,
			})
		}
	}

	summaries := make([]WhatsAppGroupSummary, 0, len(byID))
	for _, agg := range byID {
		agg.summary.MemberCount = len(agg.summary.Members)
		summaries = append(summaries, agg.summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].MemberCount != summaries[j].MemberCount {
			return summaries[i].MemberCount > summaries[j].MemberCount
		}
		return summaries[i].GroupID < summaries[j].GroupID
	})
	return summaries
}
