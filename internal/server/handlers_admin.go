package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/forensint/celltrace/internal/database"
	"github.com/forensint/celltrace/internal/dedup"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if s.cfg.AdminUsername == "" {
		writeError(w, http.StatusServiceUnavailable, "admin login is not configured")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid login request body")
		return
	}

	if req.Username != s.cfg.AdminUsername {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"authenticated": true})
}

func (s *Server) handlePhotoCleanup(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.db.ListContacts(r.Context(), database.ContactFilter{
		CaseNumber:    r.URL.Query().Get("case"),
		WithPhotoOnly: true,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var ids []string
	for i := range contacts {
		if dedup.ShouldUnsetPhoto(&contacts[i]) {
			ids = append(ids, contacts[i].ID)
		}
	}

	cleared, err := s.db.UnsetContactPhotos(r.Context(), ids)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("photo cleanup finished", "examined", len(contacts), "cleared", cleared)
	writeJSON(w, http.StatusOK, map[string]any{
		"examined": len(contacts),
		"cleared":  cleared,
	})
}

func (s *Server) handleGroupCleanup(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.db.DeleteGroupArtifacts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("group cleanup finished", "deleted", deleted)
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sessionID := q.Get("session")
	caseNumber := q.Get("case")
	personName := q.Get("person")
	deviceInfo := q.Get("device")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session query parameter is required")
		return
	}

	ctx := r.Context()
	contacts, err := s.db.DeleteContactsBySession(ctx, sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	credentials, err := s.db.DeleteCredentialsBySession(ctx, sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Accounts and profiles carry no upload session id; the (case,
	// person, device) triple identifies their session.
	var accounts, profiles int64
	if caseNumber != "" && personName != "" {
		accounts, err = s.db.DeleteAccountsBySessionScope(ctx, caseNumber, personName, deviceInfo)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		profiles, err = s.db.DeleteProfilesBySessionScope(ctx, caseNumber, personName, deviceInfo)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		// Blobs share the scope layout, so the same triple removes them.
		if err := s.store.RemoveScope(caseNumber, personName, deviceInfo); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	s.logger.Info("session deleted",
		"session_id", sessionID,
		"contacts", contacts,
		"credentials", credentials,
		"accounts", accounts,
		"profiles", profiles,
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"contacts":    contacts,
		"credentials": credentials,
		"accounts":    accounts,
		"profiles":    profiles,
	})
}

func (s *Server) handleDeleteCase(w http.ResponseWriter, r *http.Request) {
	caseNumber := mux.Vars(r)["caseNumber"]

	ctx := r.Context()
	contacts, err := s.db.DeleteContactsByCase(ctx, caseNumber)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	credentials, err := s.db.DeleteCredentialsByCase(ctx, caseNumber)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	accounts, err := s.db.DeleteAccountsByCase(ctx, caseNumber)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	profiles, err := s.db.DeleteProfilesByCase(ctx, caseNumber)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.RemoveCase(caseNumber); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("case deleted",
		"case_number", caseNumber,
		"contacts", contacts,
		"credentials", credentials,
		"accounts", accounts,
		"profiles", profiles,
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"case_number": caseNumber,
		"contacts":    contacts,
		"credentials": credentials,
		"accounts":    accounts,
		"profiles":    profiles,
	})
}

func (s *Server) handleWipe(w http.ResponseWriter, r *http.Request) {
	if s.cfg.WipeKey == "" {
		writeError(w, http.StatusServiceUnavailable, "wipe is not configured")
		return
	}
	if r.Header.Get("X-Wipe-Key") != s.cfg.WipeKey {
		writeError(w, http.StatusForbidden, "invalid wipe key")
		return
	}

	if err := s.db.Wipe(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.Wipe(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Warn("database and blob store wiped")
	writeJSON(w, http.StatusOK, map[string]any{"wiped": true})
}
