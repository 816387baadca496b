package server

import (
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/forensint/celltrace/internal/database"
	"github.com/forensint/celltrace/internal/dedup"
	"github.com/forensint/celltrace/internal/model"
)

// excludedServiceTypes are account service types that hold raw key
// material rather than user-facing accounts. They stay out of the
// deduplicated credential view because they would dominate it with
// machine tokens.
var excludedServiceTypes = map[string]bool{
	"key":    true,
	"secret": true,
	"token":  true,
}

func parsePagination(q url.Values) (limit, offset int) {
	limit, _ = strconv.Atoi(q.Get("limit"))
	offset, _ = strconv.Atoi(q.Get("offset"))
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func contactFilterFromQuery(q url.Values) database.ContactFilter {
	limit, offset := parsePagination(q)
	return database.ContactFilter{
		CaseNumber:      q.Get("case"),
		PersonName:      q.Get("person"),
		DeviceInfo:      q.Get("device"),
		UploadSessionID: q.Get("session"),
		Source:          q.Get("source"),
		Category:        q.Get("category"),
		Search:          q.Get("q"),
		Limit:           limit,
		Offset:          offset,
	}
}

func credentialFilterFromQuery(q url.Values) database.CredentialFilter {
	limit, offset := parsePagination(q)
	return database.CredentialFilter{
		CaseNumber:      q.Get("case"),
		PersonName:      q.Get("person"),
		DeviceInfo:      q.Get("device"),
		UploadSessionID: q.Get("session"),
		Application:     q.Get("application"),
		Category:        q.Get("category"),
		Search:          q.Get("q"),
		Limit:           limit,
		Offset:          offset,
	}
}

func accountFilterFromQuery(q url.Values) database.AccountFilter {
	limit, offset := parsePagination(q)
	return database.AccountFilter{
		CaseNumber: q.Get("case"),
		PersonName: q.Get("person"),
		DeviceInfo: q.Get("device"),
		Source:     q.Get("source"),
		Category:   q.Get("category"),
		Search:     q.Get("q"),
		Limit:      limit,
		Offset:     offset,
	}
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	filter := contactFilterFromQuery(r.URL.Query())
	contacts, err := s.db.ListContacts(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"contacts": contacts,
		"count":    len(contacts),
	})
}

func (s *Server) handleDedupContacts(w http.ResponseWriter, r *http.Request) {
	filter := contactFilterFromQuery(r.URL.Query())
	contacts, err := s.db.ListContacts(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	merged := dedup.MergeContacts(contacts)
	writeJSON(w, http.StatusOK, map[string]any{
		"contacts":  merged,
		"count":     len(merged),
		"raw_count": len(contacts),
	})
}

func (s *Server) handleContactDetails(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		writeError(w, http.StatusBadRequest, "phone query parameter is required")
		return
	}
	target := model.NormalizePhone(phone)

	contacts, err := s.db.ListContacts(r.Context(), database.ContactFilter{
		CaseNumber: r.URL.Query().Get("case"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var matched []model.Contact
	for i := range contacts {
		if model.NormalizePhone(contacts[i].Phone) == target {
			matched = append(matched, contacts[i])
		}
	}

	var groups []model.WhatsAppGroup
	seen := make(map[string]bool)
	for i := range matched {
		for _, raw := range matched[i].WhatsAppGroups {
			group, ok := model.ParseWhatsAppGroup(raw)
			if !ok || seen[group.GroupID] {
				continue
			}
			seen[group.GroupID] = true
			groups = append(groups, group)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"phone":           target,
		"contacts":        matched,
		"whatsapp_groups": groups,
	})
}

func (s *Server) handleContactsByPhoto(w http.ResponseWriter, r *http.Request) {
	caseNumber := r.URL.Query().Get("case")
	if caseNumber == "" {
		writeError(w, http.StatusBadRequest, "case query parameter is required")
		return
	}

	contacts, err := s.db.ListContacts(r.Context(), database.ContactFilter{
		CaseNumber:    caseNumber,
		WithPhotoOnly: true,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type photoGroup struct {
		PhotoPath string          `json:"photo_path"`
		Contacts  []model.Contact `json:"contacts"`
	}
	byPhoto := make(map[string][]model.Contact)
	for i := range contacts {
		byPhoto[contacts[i].PhotoPath] = append(byPhoto[contacts[i].PhotoPath], contacts[i])
	}

	groups := make([]photoGroup, 0, len(byPhoto))
	for path, members := range byPhoto {
		groups = append(groups, photoGroup{PhotoPath: path, Contacts: members})
	}
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].Contacts) != len(groups[j].Contacts) {
			return len(groups[i].Contacts) > len(groups[j].Contacts)
		}
		return groups[i].PhotoPath < groups[j].PhotoPath
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"case_number": caseNumber,
		"groups":      groups,
	})
}

func (s *Server) handleListCredentials(w http.ResponseWriter, r *http.Request) {
	filter := credentialFilterFromQuery(r.URL.Query())
	credentials, err := s.db.ListCredentials(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"credentials": credentials,
		"count":       len(credentials),
	})
}

func (s *Server) handleDedupCredentials(w http.ResponseWriter, r *http.Request) {
	caseNumber := r.URL.Query().Get("case")

	credentials, err := s.db.ListCredentials(r.Context(), database.CredentialFilter{CaseNumber: caseNumber})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	accounts, err := s.db.ListAccounts(r.Context(), database.AccountFilter{CaseNumber: caseNumber})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	kept := accounts[:0]
	for i := range accounts {
		if excludedServiceTypes[strings.ToLower(accounts[i].ServiceType)] {
			continue
		}
		kept = append(kept, accounts[i])
	}

	merged := dedup.GroupCredentials(credentials, kept)
	writeJSON(w, http.StatusOK, map[string]any{
		"credentials": merged,
		"count":       len(merged),
	})
}

func (s *Server) handleCredentialDetails(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	application := r.URL.Query().Get("application")
	if username == "" {
		writeError(w, http.StatusBadRequest, "username query parameter is required")
		return
	}

	credentials, err := s.db.ListCredentials(r.Context(), database.CredentialFilter{
		CaseNumber: r.URL.Query().Get("case"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var matched []model.Credential
	for i := range credentials {
		c := &credentials[i]
		if !strings.EqualFold(c.Username, username) {
			continue
		}
		if application != "" && !strings.EqualFold(c.Application, application) {
			continue
		}
		matched = append(matched, *c)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"credentials": matched,
		"count":       len(matched),
	})
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	filter := accountFilterFromQuery(r.URL.Query())
	accounts, err := s.db.ListAccounts(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

func (s *Server) handleImportantAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.db.ListAccounts(r.Context(), database.AccountFilter{
		CaseNumber: r.URL.Query().Get("case"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	important := dedup.FilterImportantAccounts(accounts)
	writeJSON(w, http.StatusOK, map[string]any{
		"accounts": important,
		"count":    len(important),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}
	caseNumber := r.URL.Query().Get("case")

	contacts, err := s.db.ListContacts(r.Context(), database.ContactFilter{CaseNumber: caseNumber, Search: query})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	credentials, err := s.db.ListCredentials(r.Context(), database.CredentialFilter{CaseNumber: caseNumber, Search: query})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	accounts, err := s.db.ListAccounts(r.Context(), database.AccountFilter{CaseNumber: caseNumber, Search: query})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Contact hits collapse to merged views so one person does not
	// appear once per duplicate record.
	writeJSON(w, http.StatusOK, map[string]any{
		"query":       query,
		"contacts":    dedup.MergeContacts(contacts),
		"credentials": credentials,
		"accounts":    accounts,
	})
}

func (s *Server) handlePasswordReuse(w http.ResponseWriter, r *http.Request) {
	credentials, err := s.db.ListCredentials(r.Context(), database.CredentialFilter{
		CaseNumber: r.URL.Query().Get("case"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	reuse := dedup.AnalyzePasswordReuse(credentials)
	writeJSON(w, http.StatusOK, map[string]any{
		"reuse": reuse,
		"count": len(reuse),
	})
}

func (s *Server) handleFilterValues(w http.ResponseWriter, r *http.Request) {
	collection := mux.Vars(r)["collection"]
	field := r.URL.Query().Get("field")
	caseNumber := r.URL.Query().Get("case")
	if field == "" {
		writeError(w, http.StatusBadRequest, "field query parameter is required")
		return
	}

	var (
		values []string
		err    error
	)
	switch collection {
	case "contacts":
		values, err = s.db.DistinctContactValues(r.Context(), field, caseNumber)
	case "credentials":
		values, err = s.db.DistinctCredentialValues(r.Context(), field, caseNumber)
	case "accounts":
		values, err = s.db.DistinctAccountValues(r.Context(), field, caseNumber)
	default:
		writeError(w, http.StatusNotFound, "unknown collection "+collection)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"collection": collection,
		"field":      field,
		"values":     values,
	})
}
