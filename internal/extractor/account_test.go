package extractor

import (
	"fmt"
	"testing"
)

func accountDocument(models string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<project xmlns="http://pa.cellebrite.com/report/2.0" name="Test Device">
  <decodedData>
    <modelType type="UserAccount">%s</modelType>
  </decodedData>
</project>`, models)
}

func TestExtractAccountsBasic(t *testing.T) {
	t.Parallel()

	doc := parseSample(t, accountDocument(`
      <model type="UserAccount" id="a-1">
        <field name="Source"><value>Instagram</value></field>
        <field name="Username"><value>ana.pop</value></field>
        <field name="Name"><value>Ana Pop</value></field>
        <field name="ServiceType"><value>Social</value></field>
        <field name="TimeCreated"><value>2023-04-01T10:00:00</value></field>
      </model>`))

	accounts := ExtractAccounts(doc)
	if len(accounts) != 1 {
		t.Fatalf("ExtractAccounts() returned %d accounts, want 1", len(accounts))
	}
	a := accounts[0]
	if a.Source != "Instagram" || a.Username != "ana.pop" || a.Name != "Ana Pop" {
		t.Errorf("unexpected account: %+v", a)
	}
	if a.RawData == nil || a.RawData.XMLID != "a-1" {
		t.Errorf("RawData.XMLID not captured: %+v", a.RawData)
	}
}

func TestExtractAccountsPendingLabelMetadata(t *testing.T) {
	t.Parallel()

	doc := parseSample(t, accountDocument(`
      <model type="UserAccount" id="a-2">
        <field name="Source"><value>Facebook</value></field>
        <field name="Username"><value>ana</value></field>
        <field name="Key"><value>Followers</value></field>
        <field name="Value"><value>412</value></field>
        <field name="Key"><value>Following</value></field>
        <field name="Value"><value>208</value></field>
        <field name="Value"><value>orphan value with no label</value></field>
        <field name="Value" domain="Bio"><value>traveler</value></field>
      </model>`))

	accounts := ExtractAccounts(doc)
	if len(accounts) != 1 {
		t.Fatalf("ExtractAccounts() returned %d accounts, want 1", len(accounts))
	}
	md := accounts[0].Metadata

	if got := md["Followers"]; len(got) != 1 || got[0] != "412" {
		t.Errorf("Metadata[Followers] = %v, want [412]", got)
	}
	if got := md["Following"]; len(got) != 1 || got[0] != "208" {
		t.Errorf("Metadata[Following] = %v, want [208]", got)
	}
	if got := md["Bio"]; len(got) != 1 || got[0] != "traveler" {
		t.Errorf("Metadata[Bio] = %v, want [traveler] (domain-tagged)", got)
	}

	// A label is consumed by exactly one value. The orphan value after
	// "Following" was consumed must not land anywhere.
	for key, values := range md {
		for _, v := range values {
			if v == "orphan value with no label" {
				t.Errorf("unlabeled value captured under %q", key)
			}
		}
	}
}

func TestExtractAccountsRejectsURLNames(t *testing.T) {
	t.Parallel()

	doc := parseSample(t, accountDocument(`
      <model type="UserAccount" id="a-3">
        <field name="Source"><value>Instagram</value></field>
        <field name="Username"><value>ana</value></field>
        <field name="Name"><value>https://scontent.cdninstagram.com/avatar.jpg</value></field>
      </model>`))

	accounts := ExtractAccounts(doc)
	if len(accounts) != 1 {
		t.Fatalf("ExtractAccounts() returned %d accounts, want 1", len(accounts))
	}
	if got := accounts[0].Name; got != "" {
		t.Errorf("Name = %q, want empty (URL artifacts rejected)", got)
	}
}

func TestExtractAccountsNotesAndURLs(t *testing.T) {
	t.Parallel()

	doc := parseSample(t, accountDocument(`
      <model type="UserAccount" id="a-4">
        <field name="Source"><value>TikTok</value></field>
        <field name="Username"><value>ana</value></field>
        <multiField name="Notes">
          <value>first</value>
          <value>second</value>
        </multiField>
        <multiField name="Url">
          <value>https://tiktok.com/@ana</value>
        </multiField>
      </model>`))

	accounts := ExtractAccounts(doc)
	if len(accounts) != 1 {
		t.Fatalf("ExtractAccounts() returned %d accounts, want 1", len(accounts))
	}
	a := accounts[0]
	if got, want := a.Notes, "first | second"; got != want {
		t.Errorf("Notes = %q, want %q", got, want)
	}
	if got := a.Metadata[metadataURLsKey]; len(got) != 1 || got[0] != "https://tiktok.com/@ana" {
		t.Errorf("Metadata[URLs] = %v, want the profile URL", got)
	}
}

func TestExtractAccountsProfilePhotoPath(t *testing.T) {
	t.Parallel()

	doc := parseSample(t, accountDocument(`
      <model type="UserAccount" id="a-5">
        <field name="Source"><value>WhatsApp</value></field>
        <field name="Username"><value>ana</value></field>
        <modelField name="Photos">
          <model type="ContactPhoto" id="ph-1">
            <field name="contactphoto_extracted_path"><value>files\Images\me.jpg</value></field>
          </model>
        </modelField>
      </model>`))

	accounts := ExtractAccounts(doc)
	if len(accounts) != 1 {
		t.Fatalf("ExtractAccounts() returned %d accounts, want 1", len(accounts))
	}
	if got, want := accounts[0].ProfilePicPath, "files/Images/me.jpg"; got != want {
		t.Errorf("ProfilePicPath = %q, want %q (backslashes normalized)", got, want)
	}
}

func TestExtractAccountsUserIDFromEntries(t *testing.T) {
	t.Parallel()

	doc := parseSample(t, accountDocument(`
      <model type="UserAccount" id="a-6">
        <field name="Source"><value>Snapchat</value></field>
        <field name="Username"><value>ana</value></field>
        <multiModelField name="Entries">
          <model type="UserID" id="e-1">
            <field name="Value"><value>uid-778899</value></field>
          </model>
        </multiModelField>
      </model>`))

	accounts := ExtractAccounts(doc)
	if len(accounts) != 1 {
		t.Fatalf("ExtractAccounts() returned %d accounts, want 1", len(accounts))
	}
	if got, want := accounts[0].UserID, "uid-778899"; got != want {
		t.Errorf("UserID = %q, want %q (backfilled from Entries)", got, want)
	}
}
