package server

import (
	"net/http"
	"strings"

	"github.com/forensint/celltrace/internal/database"
	"github.com/forensint/celltrace/internal/dedup"
	"github.com/forensint/celltrace/internal/model"
)

func (s *Server) handleWhatsAppGroups(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.db.ListContacts(r.Context(), database.ContactFilter{
		CaseNumber: r.URL.Query().Get("case"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	groups := dedup.AggregateWhatsAppGroups(contacts)
	writeJSON(w, http.StatusOK, map[string]any{
		"groups": groups,
		"count":  len(groups),
	})
}

func (s *Server) handleWhatsAppGroupMembers(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("group")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "group query parameter is required")
		return
	}

	contacts, err := s.db.ListContacts(r.Context(), database.ContactFilter{
		CaseNumber: r.URL.Query().Get("case"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	for _, group := range dedup.AggregateWhatsAppGroups(contacts) {
		if group.GroupID == groupID {
			writeJSON(w, http.StatusOK, group)
			return
		}
	}
	writeError(w, http.StatusNotFound, "group "+groupID+" not found")
}

// suspectInfo is the per-suspect summary for one case: the owner phone
// from the ingestion profile plus the photo resolved through the dual
// phone-equality rule against stored contacts.
type suspectInfo struct {
	PersonName       string `json:"person_name"`
	DeviceInfo       string `json:"device_info,omitempty"`
	SuspectPhone     string `json:"suspect_phone,omitempty"`
	PhotoPath        string `json:"photo_path,omitempty"`
	ProfileImagePath string `json:"profile_image_path,omitempty"`
}

func (s *Server) handleSuspectInfo(w http.ResponseWriter, r *http.Request) {
	caseNumber := r.URL.Query().Get("case")
	if caseNumber == "" {
		writeError(w, http.StatusBadRequest, "case query parameter is required")
		return
	}

	profiles, err := s.db.ListProfiles(r.Context(), database.ProfileFilter{CaseNumber: caseNumber})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
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

	suspects := make([]suspectInfo, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		info := suspectInfo{
			PersonName:       p.PersonName,
			DeviceInfo:       p.DeviceInfo,
			SuspectPhone:     p.SuspectPhone,
			ProfileImagePath: p.ProfileImagePath,
		}
		if p.SuspectPhone != "" {
			for j := range contacts {
				if model.PhonesEqual(contacts[j].Phone, p.SuspectPhone) {
					info.PhotoPath = contacts[j].PhotoPath
					break
				}
			}
		}
		suspects = append(suspects, info)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"case_number": caseNumber,
		"suspects":    suspects,
	})
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	caseNumber := r.URL.Query().Get("case")
	profiles, err := s.db.ListProfiles(r.Context(), database.ProfileFilter{
		CaseNumber: caseNumber,
		PersonName: r.URL.Query().Get("person"),
		DeviceInfo: r.URL.Query().Get("device"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if caseNumber != "" && len(profiles) == 0 {
		writeError(w, http.StatusNotFound, "no profiles for case "+caseNumber)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"profiles": profiles,
		"count":    len(profiles),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetStats(r.Context(), r.URL.Query().Get("case"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCases(w http.ResponseWriter, r *http.Request) {
	cases, err := s.db.ListCases(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type caseInfo struct {
		CaseNumber string          `json:"case_number"`
		Stats      *database.Stats `json:"stats"`
	}
	infos := make([]caseInfo, 0, len(cases))
	for _, c := range cases {
		stats, err := s.db.GetStats(r.Context(), c)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		infos = append(infos, caseInfo{CaseNumber: c, Stats: stats})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"cases": infos,
		"count": len(infos),
	})
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/api/images/")
	if rel == "" {
		writeError(w, http.StatusBadRequest, "image path is required")
		return
	}

	abs, err := s.store.Resolve(rel)
	if err != nil {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}
	http.ServeFile(w, r, abs)
}
