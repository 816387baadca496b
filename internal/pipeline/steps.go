package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/forensint/celltrace/internal/archive"
	"github.com/forensint/celltrace/internal/database"
	"github.com/forensint/celltrace/internal/extractor"
	"github.com/forensint/celltrace/internal/model"
	"github.com/forensint/celltrace/internal/storage"
)

// NewIngestPipeline assembles the standard ingestion pipeline: unpack,
// device metadata, the three extractors, profile assembly, persistence.
func NewIngestPipeline(db *database.CaseDB, store *storage.Store, logger *slog.Logger) *Pipeline {
	p := New(WithLogger(logger))
	p.AddSteps(
		NewUnpackStep(logger),
		NewDeviceMetadataStep(logger),
		NewContactStep(store, logger),
		NewPasswordStep(logger),
		NewAccountStep(logger),
		NewProfileStep(store, logger),
		NewPersistStep(db, logger),
	)
	return p
}

// UnpackStep extracts the upload into an ephemeral workspace and
// classifies its contents.
type UnpackStep struct {
	logger *slog.Logger
}

// NewUnpackStep creates the unpack step.
func NewUnpackStep(logger *slog.Logger) *UnpackStep {
	return &UnpackStep{logger: logger}
}

// Name returns the step name.
func (s *UnpackStep) Name() string { return "unpack" }

// Do unpacks the archive, classifies its files, and indexes its images.
func (s *UnpackStep) Do(_ context.Context, ing *Ingestion) error {
	workspace, err := os.MkdirTemp("", "celltrace-ingest-*")
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	ing.Workspace = workspace

	if err := archive.Unpack(ing.ArchivePath, workspace); err != nil {
		return err
	}

	classified, err := archive.Classify(workspace)
	if err != nil {
		return err
	}
	ing.Classified = classified
	ing.Photos = archive.NewPhotoIndex(classified.ImageFiles)
	ing.OwnerPhone = archive.OwnerPhone(workspace)

	s.logger.Info("archive classified",
		"session", ing.UploadSessionID,
		"has_contacts", classified.ContactFile != "",
		"has_passwords", classified.PasswordFile != "",
		"has_accounts", classified.AccountFile != "",
		"images", len(classified.ImageFiles),
	)
	return nil
}

// unknownDeviceLabel is the display placeholder for archives whose
// documents never reveal the examined device.
const unknownDeviceLabel = "Unknown Device"

// DeviceMetadataStep resolves the device label from whichever report
// document yields one first.
type DeviceMetadataStep struct {
	logger *slog.Logger
}

// NewDeviceMetadataStep creates the device metadata step.
func NewDeviceMetadataStep(logger *slog.Logger) *DeviceMetadataStep {
	return &DeviceMetadataStep{logger: logger}
}

// Name returns the step name.
func (s *DeviceMetadataStep) Name() string { return "device_metadata" }

// Do parses the classified documents, accounts file first, until one
// resolves a device label.
func (s *DeviceMetadataStep) Do(_ context.Context, ing *Ingestion) error {
	candidates := []string{
		ing.Classified.AccountFile,
		ing.Classified.ContactFile,
		ing.Classified.PasswordFile,
	}

	for _, path := range candidates {
		if path == "" {
			continue
		}
		doc, err := parseDocumentFile(path)
		if err != nil {
			continue
		}
		if label := extractor.DeviceLabel(doc); label != "" {
			ing.DeviceInfo = label
			s.logger.Info("device resolved", "session", ing.UploadSessionID, "device", label)
			return nil
		}
	}
	ing.DeviceInfo = unknownDeviceLabel
	return nil
}

// ContactStep extracts contacts from every classified contact document
// and matches photos to them.
type ContactStep struct {
	store  *storage.Store
	logger *slog.Logger
}

// NewContactStep creates the contact extraction step.
func NewContactStep(store *storage.Store, logger *slog.Logger) *ContactStep {
	return &ContactStep{store: store, logger: logger}
}

// Name returns the step name.
func (s *ContactStep) Name() string { return "contacts" }

// Do extracts and enriches contacts. Matched archive photos are copied
// into blob storage with generated names so concurrent uploads into the
// same case never collide.
func (s *ContactStep) Do(_ context.Context, ing *Ingestion) error {
	path := ing.Classified.ContactFile
	if path == "" {
		return nil
	}
	doc, err := parseDocumentFile(path)
	if err != nil {
		recordParseFailure(ing, s.logger, path, err)
		return nil
	}
	ing.Stats.DocumentsParsed++

	for _, contact := range extractor.ExtractContacts(doc) {
		ing.stamp(&contact.CaseNumber, &contact.PersonName, &contact.DeviceInfo, &contact.UploadSessionID)
		contact.SuspectPhone = ing.OwnerPhone

		if imagePath := ing.Photos.MatchPhone(contact.Phone); imagePath != "" {
			rel, err := s.store.SaveFile(ing.CaseNumber, ing.PersonName, ing.DeviceInfo, imagePath)
			if err != nil {
				s.logger.Warn("failed to store contact photo",
					"session", ing.UploadSessionID, "image", imagePath, "error", err)
			} else {
				contact.PhotoPath = rel
				ing.Stats.PhotosMatched++
			}
		}
		ing.Contacts = append(ing.Contacts, contact)
	}
	return nil
}

// PasswordStep extracts credentials from every classified password
// document and categorizes them.
type PasswordStep struct {
	logger *slog.Logger
}

// NewPasswordStep creates the credential extraction step.
func NewPasswordStep(logger *slog.Logger) *PasswordStep {
	return &PasswordStep{logger: logger}
}

// Name returns the step name.
func (s *PasswordStep) Name() string { return "passwords" }

// Do extracts and categorizes credentials.
func (s *PasswordStep) Do(_ context.Context, ing *Ingestion) error {
	path := ing.Classified.PasswordFile
	if path == "" {
		return nil
	}
	doc, err := parseDocumentFile(path)
	if err != nil {
		recordParseFailure(ing, s.logger, path, err)
		return nil
	}
	ing.Stats.DocumentsParsed++

	for _, cred := range extractor.ExtractCredentials(doc) {
		ing.stamp(&cred.CaseNumber, &cred.PersonName, &cred.DeviceInfo, &cred.UploadSessionID)
		cred.Category = string(model.Categorize(cred.Application, "", cred.Username, "", cred.Password))
		cred.EmailDomain = model.ExtractEmailDomain(cred.Username)
		ing.Credentials = append(ing.Credentials, cred)
	}
	return nil
}

// AccountStep extracts service accounts from every classified account
// document and categorizes them.
type AccountStep struct {
	logger *slog.Logger
}

// NewAccountStep creates the account extraction step.
func NewAccountStep(logger *slog.Logger) *AccountStep {
	return &AccountStep{logger: logger}
}

// Name returns the step name.
func (s *AccountStep) Name() string { return "accounts" }

// Do extracts and categorizes accounts.
func (s *AccountStep) Do(_ context.Context, ing *Ingestion) error {
	path := ing.Classified.AccountFile
	if path == "" {
		return nil
	}
	doc, err := parseDocumentFile(path)
	if err != nil {
		recordParseFailure(ing, s.logger, path, err)
		return nil
	}
	ing.Stats.DocumentsParsed++

	for _, account := range extractor.ExtractAccounts(doc) {
		ing.stamp(&account.CaseNumber, &account.PersonName, &account.DeviceInfo, nil)
		account.Category = string(model.Categorize(account.Source, account.ServiceIdentifier, account.Username, account.Email, ""))
		account.EmailDomain = model.ExtractEmailDomain(account.Email)
		if account.EmailDomain == "" {
			account.EmailDomain = model.ExtractEmailDomain(account.Username)
		}
		ing.Accounts = append(ing.Accounts, account)
	}
	return nil
}

// ProfileStep assembles the suspect profile for the session: owner phone,
// observed emails, an account snapshot, and the resolved profile image.
type ProfileStep struct {
	store  *storage.Store
	logger *slog.Logger
}

// NewProfileStep creates the profile assembly step.
func NewProfileStep(store *storage.Store, logger *slog.Logger) *ProfileStep {
	return &ProfileStep{store: store, logger: logger}
}

// Name returns the step name.
func (s *ProfileStep) Name() string { return "suspect_profile" }

// Do builds the SuspectProfile from the accumulated records.
func (s *ProfileStep) Do(_ context.Context, ing *Ingestion) error {
	profile := &model.SuspectProfile{
		CaseNumber:   ing.CaseNumber,
		PersonName:   ing.PersonName,
		DeviceInfo:   ing.DeviceInfo,
		SuspectPhone: ing.OwnerPhone,
	}

	seen := make(map[string]bool)
	for i := range ing.Accounts {
		a := &ing.Accounts[i]
		if !a.HasIdentity() {
			continue
		}
		for _, candidate := range []string{a.Email, a.Username} {
			if model.ExtractEmailDomain(candidate) != "" && !seen[candidate] {
				seen[candidate] = true
				profile.Emails = append(profile.Emails, candidate)
			}
		}
		profile.UserAccounts = append(profile.UserAccounts, model.AccountSummary{
			Username:          a.Username,
			Email:             a.Email,
			Name:              a.Name,
			UserID:            a.UserID,
			Source:            a.Source,
			ServiceType:       a.ServiceType,
			ServiceIdentifier: a.ServiceIdentifier,
			Notes:             a.Notes,
			TimeCreated:       a.TimeCreated,
			Metadata:          a.Metadata,
		})
	}

	if imagePath := s.resolveProfileImage(ing); imagePath != "" {
		rel, err := s.store.SaveFile(ing.CaseNumber, ing.PersonName, ing.DeviceInfo, imagePath)
		if err != nil {
			s.logger.Warn("failed to store profile image",
				"session", ing.UploadSessionID, "image", imagePath, "error", err)
		} else {
			profile.ProfileImagePath = rel
			if data, err := os.ReadFile(imagePath); err == nil {
				profile.PhotoEXIF = extractor.ExtractPhotoEXIF(data)
			}
		}
	}

	ing.Profile = profile
	return nil
}

// resolveProfileImage picks the best candidate for the owner's profile
// photo. Account-declared photos win, preferring WhatsApp over Instagram
// over anything else; the archive-wide search strategies are the
// fallback.
func (s *ProfileStep) resolveProfileImage(ing *Ingestion) string {
	if path := s.accountProfileImage(ing); path != "" {
		return path
	}
	return ing.Photos.ProfileImage()
}

func (s *ProfileStep) accountProfileImage(ing *Ingestion) string {
	best := ""
	bestRank := 0
	for i := range ing.Accounts {
		a := &ing.Accounts[i]
		if a.ProfilePicPath == "" {
			continue
		}
		resolved := resolveWorkspacePath(ing, a.ProfilePicPath)
		if resolved == "" {
			continue
		}
		rank := sourceRank(a.Source)
		if best == "" || rank > bestRank {
			best = resolved
			bestRank = rank
		}
	}
	return best
}

func sourceRank(source string) int {
	lower := strings.ToLower(source)
	switch {
	case strings.Contains(lower, "whatsapp"):
		return 3
	case strings.Contains(lower, "instagram"):
		return 2
	default:
		return 1
	}
}

// resolveWorkspacePath maps a path declared inside a report document to a
// real file in the unpacked workspace. Declared paths are relative to the
// archive root, but vendor exports are inconsistent, so a basename search
// over the indexed images is the fallback.
func resolveWorkspacePath(ing *Ingestion, declared string) string {
	direct := filepath.Join(ing.Workspace, filepath.FromSlash(declared))
	if _, err := os.Stat(direct); err == nil {
		return direct
	}

	base := filepath.Base(filepath.FromSlash(declared))
	for _, image := range ing.Classified.ImageFiles {
		if filepath.Base(image) == base {
			return image
		}
	}
	return ""
}

// PersistStep bulk-writes the accumulated records, one write per record
// type, and upserts the suspect profile.
type PersistStep struct {
	db     *database.CaseDB
	logger *slog.Logger
}

// NewPersistStep creates the persistence step.
func NewPersistStep(db *database.CaseDB, logger *slog.Logger) *PersistStep {
	return &PersistStep{db: db, logger: logger}
}

// Name returns the step name.
func (s *PersistStep) Name() string { return "persist" }

// Do writes contacts, credentials, accounts, and the profile. A failed
// bulk write fails the ingestion; re-submitting the archive is safe
// because deduplication hides duplicate raw records at read time.
func (s *PersistStep) Do(ctx context.Context, ing *Ingestion) error {
	if err := s.db.InsertContacts(ctx, ing.Contacts); err != nil {
		return err
	}
	ing.Stats.ContactsStored = len(ing.Contacts)

	storedCredentials, err := s.db.InsertCredentials(ctx, ing.Credentials)
	if err != nil {
		return err
	}
	ing.Stats.CredentialsStored = storedCredentials

	storedAccounts, err := s.db.InsertAccounts(ctx, ing.Accounts)
	if err != nil {
		return err
	}
	ing.Stats.AccountsStored = storedAccounts

	if ing.Profile != nil {
		if _, err := s.db.UpsertProfile(ctx, ing.Profile, time.Now()); err != nil {
			return err
		}
	}

	s.logger.Info("ingestion persisted",
		"session", ing.UploadSessionID,
		"contacts", ing.Stats.ContactsStored,
		"credentials", ing.Stats.CredentialsStored,
		"accounts", ing.Stats.AccountsStored,
		"photos", ing.Stats.PhotosMatched,
	)
	return nil
}

func parseDocumentFile(path string) (*extractor.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document %s: %w", path, err)
	}
	defer f.Close()
	return extractor.ParseDocument(f)
}

func recordParseFailure(ing *Ingestion, logger *slog.Logger, path string, err error) {
	ing.Stats.DocumentsFailed++
	ing.ParseFailures = append(ing.ParseFailures, filepath.Base(path))
	logger.Warn("document parse failed",
		"session", ing.UploadSessionID,
		"document", filepath.Base(path),
		"error", err,
	)
}
