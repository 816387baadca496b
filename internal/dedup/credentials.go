package dedup

import (
	"sort"
	"strings"
	"time"

	"github.com/forensint/celltrace/internal/model"
)

// credentialEntry is one record feeding credential/account grouping.
type credentialEntry struct {
	credential *model.Credential
	account    *model.Account
	createdAt  time.Time
}

// GroupCredentials folds credentials and accounts into deduplicated
// groups keyed by (identity, service) with exact case-insensitive
// equality. The representative is the most recently created record in the
// group; ties keep the earlier-seen record.
//
// Identity falls back across fields: credentials use username then URL,
// accounts use username then email then account id. Records with no
// identity at all are unattributable and excluded from grouping.
func GroupCredentials(credentials []model.Credential, accounts []model.Account) []model.MergedCredential {
	type group struct {
		members []credentialEntry
		order   int
	}
	groups := make(map[string]*group)

	add := func(key string, entry credentialEntry) {
		if g, ok := groups[key]; ok {
			g.members = append(g.members, entry)
			return
		}
		groups[key] = &group{members: []credentialEntry{entry}, order: len(groups)}
	}

	for i := range credentials {
		c := &credentials[i]
		identity := c.Username
		if identity == "" {
			identity = c.URL
		}
		if identity == "" {
			continue
		}
		add(groupKey(identity, c.Application), credentialEntry{credential: c, createdAt: c.CreatedAt})
	}
	for i := range accounts {
		a := &accounts[i]
		identity := a.Username
		if identity == "" {
			identity = a.Email
		}
		if identity == "" {
			identity = a.UserID
		}
		if identity == "" {
			continue
		}
		add(groupKey(identity, a.Source), credentialEntry{account: a, createdAt: a.CreatedAt})
	}

	ordered := make([]*group, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].order < ordered[j].order })

	merged := make([]model.MergedCredential, 0, len(ordered))
	for _, g := range ordered {
		representative := g.members[0]
		for _, entry := range g.members[1:] {
			if entry.createdAt.After(representative.createdAt) {
				representative = entry
			}
		}

		m := model.MergedCredential{DuplicateCount: len(g.members)}
		if representative.credential != nil {
			m.Credential = representative.credential
			m.Type = "password"
		} else {
			m.Account = representative.account
			m.Type = "account"
		}
		merged = append(merged, m)
	}
	return merged
}

func groupKey(identity, service string) string {
	return strings.ToLower(strings.TrimSpace(identity)) + "\x00" + strings.ToLower(strings.TrimSpace(service))
}
