package dedup

import (
	"sort"
	"strings"

	"github.com/forensint/celltrace/internal/model"
)

// minReusePasswordLen excludes single-character noise (PINs truncated by
// the source tool, stray separators) from reuse analysis.
const minReusePasswordLen = 2

// AnalyzePasswordReuse builds the reverse index from password value to
// the distinct places it was observed. Usages are de-duplicated by
// (service, username, case, device) so re-ingesting an archive does not
// inflate counts. Results are ranked by usage count descending, ties by
// password for determinism.
//
// Passwords shorter than two characters or shaped like an email address
// are excluded: the extraction tools emit both as filler in the password
// column and neither is a secret worth correlating.
func AnalyzePasswordReuse(credentials []model.Credential) []model.PasswordReuse {
	type bucket struct {
		usages []model.ReuseUsage
		seen   map[string]bool
	}
	buckets := make(map[string]*bucket)
	var order []string

	for i := range credentials {
		c := &credentials[i]
		if len(c.Password) < minReusePasswordLen || model.ExtractEmailDomain(c.Password) != "" {
			continue
		}

		service := serviceLabel(c)
		dedupKey := strings.ToLower(strings.Join([]string{service, c.Username, c.CaseNumber, c.DeviceInfo}, "\x00"))

		b, ok := buckets[c.Password]
		if !ok {
			b = &bucket{seen: make(map[string]bool)}
			buckets[c.Password] = b
			order = append(order, c.Password)
		}
		if b.seen[dedupKey] {
			continue
		}
		b.seen[dedupKey] = true
		b.usages = append(b.usages, model.ReuseUsage{
			ID:         c.ID,
			Service:    service,
			Username:   c.Username,
			CaseNumber: c.CaseNumber,
			Device:     c.DeviceInfo,
			Suspect:    c.PersonName,
			URL:        c.URL,
			Category:   c.Category,
			Type:       "password",
		})
	}

	results := make([]model.PasswordReuse, 0, len(buckets))
	for _, password := range order {
		b := buckets[password]
		results = append(results, model.PasswordReuse{
			Password:   password,
			UsageCount: len(b.usages),
			Usages:     b.usages,
			IsReused:   len(b.usages) > 1,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].UsageCount != results[j].UsageCount {
			return results[i].UsageCount > results[j].UsageCount
		}
		return results[i].Password < results[j].Password
	})
	return results
}

// serviceLabel names the service a credential belongs to: a real URL when
// one was captured, otherwise the application, otherwise whatever raw
// service identifier the document carried.
func serviceLabel(c *model.Credential) string {
	if url := strings.TrimSpace(c.URL); url != "" && !isPlaceholderURL(url) {
		return url
	}
	if c.Application != "" {
		return c.Application
	}
	if c.RawData != nil {
		if id := c.RawData.Fields["ServiceIdentifier"]; id != "" {
			return id
		}
	}
	return "unknown"
}

// isPlaceholderURL recognizes filler the source tools write into the URL
// column when they have nothing.
func isPlaceholderURL(url string) bool {
	switch strings.ToLower(url) {
	case "n/a", "none", "null", "-":
		return true
	}
	return false
}
