package database

import (
	"context"
	"testing"
	"time"

	"github.com/forensint/celltrace/internal/model"
)

func openTestDB(t *testing.T) *CaseDB {
	t.Helper()
	cdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = cdb.Close() })
	return cdb
}

func TestOpenRequiresExistingDatabase(t *testing.T) {
	t.Parallel()

	_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
	if err == nil {
		t.Error("Open() expected error when database does not exist")
	}
}

func TestInsertAndListContacts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cdb := openTestDB(t)

	contacts := []model.Contact{
		{
			CaseNumber: "C-100", PersonName: "Suspect A", DeviceInfo: "Samsung S21",
			UploadSessionID: "sess-1", Source: "WhatsApp", Name: "Ana Pop",
			Phone: "0722123456", WhatsAppGroups: []string{"family@g.us Family"},
			RawData: &model.RawData{XMLID: "c-1", Fields: map[string]string{"Name": "Ana Pop"}},
		},
		{
			CaseNumber: "C-100", PersonName: "Suspect A", DeviceInfo: "Samsung S21",
			UploadSessionID: "sess-1", Source: "Phonebook", Name: "Ion Vasile",
			Phone: "0744555666", PhotoPath: "C-100/Suspect A/photo.jpg",
		},
	}
	if err := cdb.InsertContacts(ctx, contacts); err != nil {
		t.Fatalf("InsertContacts() error = %v", err)
	}
	if contacts[0].ID == "" {
		t.Error("InsertContacts() must assign record IDs")
	}

	all, err := cdb.ListContacts(ctx, ContactFilter{CaseNumber: "C-100"})
	if err != nil {
		t.Fatalf("ListContacts() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("ListContacts() returned %d contacts, want 2", len(all))
	}

	bySource, err := cdb.ListContacts(ctx, ContactFilter{Source: "WhatsApp"})
	if err != nil {
		t.Fatalf("ListContacts(source) error = %v", err)
	}
	if len(bySource) != 1 || bySource[0].Name != "Ana Pop" {
		t.Errorf("source filter returned %v, want Ana Pop only", bySource)
	}
	if got := bySource[0].WhatsAppGroups; len(got) != 1 || got[0] != "family@g.us Family" {
		t.Errorf("WhatsAppGroups round trip = %v", got)
	}
	if bySource[0].RawData == nil || bySource[0].RawData.Fields["Name"] != "Ana Pop" {
		t.Errorf("RawData round trip = %+v", bySource[0].RawData)
	}

	withPhoto, err := cdb.ListContacts(ctx, ContactFilter{WithPhotoOnly: true})
	if err != nil {
		t.Fatalf("ListContacts(photo) error = %v", err)
	}
	if len(withPhoto) != 1 || withPhoto[0].Name != "Ion Vasile" {
		t.Errorf("photo filter returned %v, want Ion Vasile only", withPhoto)
	}

	searched, err := cdb.ListContacts(ctx, ContactFilter{Search: "0744"})
	if err != nil {
		t.Fatalf("ListContacts(search) error = %v", err)
	}
	if len(searched) != 1 || searched[0].Phone != "0744555666" {
		t.Errorf("search returned %v, want the 0744 contact", searched)
	}

	count, err := cdb.CountContacts(ctx, ContactFilter{CaseNumber: "C-100"})
	if err != nil {
		t.Fatalf("CountContacts() error = %v", err)
	}
	if count != 2 {
		t.Errorf("CountContacts() = %d, want 2", count)
	}
}

func TestGetContactNotFound(t *testing.T) {
	t.Parallel()
	cdb := openTestDB(t)

	contact, err := cdb.GetContact(context.Background(), "missing-id")
	if err != nil {
		t.Fatalf("GetContact() error = %v", err)
	}
	if contact != nil {
		t.Errorf("GetContact(missing) = %+v, want nil", contact)
	}
}

func TestDistinctContactValues(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cdb := openTestDB(t)

	err := cdb.InsertContacts(ctx, []model.Contact{
		{CaseNumber: "C-1", PersonName: "A", Source: "WhatsApp", Phone: "1"},
		{CaseNumber: "C-1", PersonName: "A", Source: "Telegram", Phone: "2"},
		{CaseNumber: "C-2", PersonName: "B", Source: "WhatsApp", Phone: "3"},
	})
	if err != nil {
		t.Fatalf("InsertContacts() error = %v", err)
	}

	sources, err := cdb.DistinctContactValues(ctx, "source", "C-1")
	if err != nil {
		t.Fatalf("DistinctContactValues() error = %v", err)
	}
	if len(sources) != 2 || sources[0] != "Telegram" || sources[1] != "WhatsApp" {
		t.Errorf("DistinctContactValues() = %v, want [Telegram WhatsApp]", sources)
	}

	if _, err := cdb.DistinctContactValues(ctx, "phone; DROP TABLE contacts", ""); err == nil {
		t.Error("DistinctContactValues() must reject non-whitelisted columns")
	}
}

func TestDeleteContactsBySession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cdb := openTestDB(t)

	err := cdb.InsertContacts(ctx, []model.Contact{
		{CaseNumber: "C-1", PersonName: "A", UploadSessionID: "sess-1", Phone: "1"},
		{CaseNumber: "C-1", PersonName: "A", UploadSessionID: "sess-2", Phone: "2"},
	})
	if err != nil {
		t.Fatalf("InsertContacts() error = %v", err)
	}

	deleted, err := cdb.DeleteContactsBySession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("DeleteContactsBySession() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted %d rows, want 1", deleted)
	}

	remaining, err := cdb.CountContacts(ctx, ContactFilter{})
	if err != nil {
		t.Fatalf("CountContacts() error = %v", err)
	}
	if remaining != 1 {
		t.Errorf("remaining contacts = %d, want 1", remaining)
	}
}

func TestDeleteGroupArtifacts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cdb := openTestDB(t)

	err := cdb.InsertContacts(ctx, []model.Contact{
		{CaseNumber: "C-1", PersonName: "A", Phone: "0722123456", Name: "Keep"},
		{CaseNumber: "C-1", PersonName: "A", Phone: "12036302account@g.us", Name: "Group"},
		{CaseNumber: "C-1", PersonName: "A", Phone: "1", UserID: "status@broadcast"},
	})
	if err != nil {
		t.Fatalf("InsertContacts() error = %v", err)
	}

	deleted, err := cdb.DeleteGroupArtifacts(ctx)
	if err != nil {
		t.Fatalf("DeleteGroupArtifacts() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted %d rows, want 2", deleted)
	}

	remaining, err := cdb.ListContacts(ctx, ContactFilter{})
	if err != nil {
		t.Fatalf("ListContacts() error = %v", err)
	}
	if len(remaining) != 1 || remaining[0].Name != "Keep" {
		t.Errorf("remaining = %v, want only the Keep contact", remaining)
	}
}

func TestUnsetContactPhotos(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cdb := openTestDB(t)

	contacts := []model.Contact{
		{CaseNumber: "C-1", PersonName: "A", Phone: "1", PhotoPath: "a.jpg"},
		{CaseNumber: "C-1", PersonName: "A", Phone: "2", PhotoPath: "b.jpg"},
	}
	if err := cdb.InsertContacts(ctx, contacts); err != nil {
		t.Fatalf("InsertContacts() error = %v", err)
	}

	changed, err := cdb.UnsetContactPhotos(ctx, []string{contacts[0].ID})
	if err != nil {
		t.Fatalf("UnsetContactPhotos() error = %v", err)
	}
	if changed != 1 {
		t.Errorf("changed %d rows, want 1", changed)
	}

	got, err := cdb.GetContact(ctx, contacts[0].ID)
	if err != nil {
		t.Fatalf("GetContact() error = %v", err)
	}
	if got.PhotoPath != "" {
		t.Errorf("PhotoPath = %q, want empty after unset", got.PhotoPath)
	}
}

func TestInsertCredentialsSkipsEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cdb := openTestDB(t)

	stored, err := cdb.InsertCredentials(ctx, []model.Credential{
		{CaseNumber: "C-1", PersonName: "A", Application: "Facebook", Username: "ana", Password: "pw"},
		{CaseNumber: "C-1", PersonName: "A", Application: "OrphanApp"},
	})
	if err != nil {
		t.Fatalf("InsertCredentials() error = %v", err)
	}
	if stored != 1 {
		t.Errorf("stored %d credentials, want 1 (empty record skipped)", stored)
	}

	count, err := cdb.CountCredentials(ctx, CredentialFilter{})
	if err != nil {
		t.Fatalf("CountCredentials() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountCredentials() = %d, want 1", count)
	}
}

func TestInsertAccountsSkipsNoIdentity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cdb := openTestDB(t)

	stored, err := cdb.InsertAccounts(ctx, []model.Account{
		{CaseNumber: "C-1", PersonName: "A", Source: "Instagram", Username: "ana",
			Metadata: map[string][]string{"Followers": {"412"}}},
		{CaseNumber: "C-1", PersonName: "A", Source: "Mystery", Name: "No Identity"},
	})
	if err != nil {
		t.Fatalf("InsertAccounts() error = %v", err)
	}
	if stored != 1 {
		t.Errorf("stored %d accounts, want 1 (identityless record skipped)", stored)
	}

	accounts, err := cdb.ListAccounts(ctx, AccountFilter{Source: "Instagram"})
	if err != nil {
		t.Fatalf("ListAccounts() error = %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("ListAccounts() returned %d accounts, want 1", len(accounts))
	}
	if got := accounts[0].Metadata["Followers"]; len(got) != 1 || got[0] != "412" {
		t.Errorf("Metadata round trip = %v", accounts[0].Metadata)
	}
}

func TestUpsertProfileSessionWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cdb := openTestDB(t)

	base := time.Now()
	first := &model.SuspectProfile{
		CaseNumber: "C-1", PersonName: "A", DeviceInfo: "Samsung S21",
		SuspectPhone: "+40722123456", Emails: []string{"a@gmail.com"},
	}
	firstID, err := cdb.UpsertProfile(ctx, first, base)
	if err != nil {
		t.Fatalf("UpsertProfile() error = %v", err)
	}

	// A retry within the window must update the same row.
	retry := &model.SuspectProfile{
		CaseNumber: "C-1", PersonName: "A", DeviceInfo: "Samsung S21",
		SuspectPhone: "+40722123456", Emails: []string{"a@gmail.com", "b@yahoo.com"},
	}
	retryID, err := cdb.UpsertProfile(ctx, retry, base.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("UpsertProfile(retry) error = %v", err)
	}
	if retryID != firstID {
		t.Errorf("retry created new profile %s, want update of %s", retryID, firstID)
	}

	// A later upload is a new extraction and must insert a new row.
	later := &model.SuspectProfile{
		CaseNumber: "C-1", PersonName: "A", DeviceInfo: "Samsung S21",
	}
	laterID, err := cdb.UpsertProfile(ctx, later, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("UpsertProfile(later) error = %v", err)
	}
	if laterID == firstID {
		t.Error("upload beyond the session window must insert a new profile")
	}

	profiles, err := cdb.ListProfiles(ctx, ProfileFilter{CaseNumber: "C-1"})
	if err != nil {
		t.Fatalf("ListProfiles() error = %v", err)
	}
	if len(profiles) != 2 {
		t.Errorf("ListProfiles() returned %d profiles, want 2", len(profiles))
	}
}

func TestGetStatsAndListCases(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cdb := openTestDB(t)

	if err := cdb.InsertContacts(ctx, []model.Contact{
		{CaseNumber: "C-1", PersonName: "A", Phone: "1"},
		{CaseNumber: "C-2", PersonName: "B", Phone: "2"},
	}); err != nil {
		t.Fatalf("InsertContacts() error = %v", err)
	}
	if _, err := cdb.InsertCredentials(ctx, []model.Credential{
		{CaseNumber: "C-3", PersonName: "C", Username: "u", Password: "p"},
	}); err != nil {
		t.Fatalf("InsertCredentials() error = %v", err)
	}

	stats, err := cdb.GetStats(ctx, "")
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.Contacts != 2 || stats.Credentials != 1 || stats.Cases != 3 {
		t.Errorf("GetStats() = %+v, want 2 contacts, 1 credential, 3 cases", stats)
	}

	cases, err := cdb.ListCases(ctx)
	if err != nil {
		t.Fatalf("ListCases() error = %v", err)
	}
	if len(cases) != 3 || cases[0] != "C-1" || cases[2] != "C-3" {
		t.Errorf("ListCases() = %v, want [C-1 C-2 C-3]", cases)
	}
}
