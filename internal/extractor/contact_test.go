package extractor

import (
	"fmt"
	"strings"
	"testing"
)

func contactDocument(models string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<project xmlns="http://pa.cellebrite.com/report/2.0" name="Test Device">
  <decodedData>
    <modelType type="Contact">%s</modelType>
  </decodedData>
</project>`, models)
}

func TestExtractContactsWhatsAppJIDOverride(t *testing.T) {
	t.Parallel()

	doc := parseSample(t, contactDocument(`
      <model type="Contact" id="c-1" deleted_state="Intact">
        <field name="Source"><value>WhatsApp</value></field>
        <field name="Name"><value>Ana Pop</value></field>
        <modelField name="UserID">
          <model type="UserID" id="u-1">
            <field name="Value"><value>40722123456@s.whatsapp.net</value></field>
            <field name="Category"><value>WhatsApp</value></field>
          </model>
        </modelField>
      </model>`))

	contacts := ExtractContacts(doc)
	if len(contacts) != 1 {
		t.Fatalf("ExtractContacts() returned %d contacts, want 1", len(contacts))
	}
	c := contacts[0]
	if got, want := c.Phone, "+40722123456"; got != want {
		t.Errorf("Phone = %q, want %q (derived from WhatsApp JID)", got, want)
	}
	if got, want := c.Category, "WhatsApp"; got != want {
		t.Errorf("Category = %q, want %q", got, want)
	}
	if c.RawData == nil || c.RawData.XMLID != "c-1" {
		t.Errorf("RawData.XMLID not captured: %+v", c.RawData)
	}
}

func TestExtractContactsJIDIgnoredForOtherSources(t *testing.T) {
	t.Parallel()

	doc := parseSample(t, contactDocument(`
      <model type="Contact" id="c-2">
        <field name="Source"><value>Telegram</value></field>
        <field name="Name"><value>Ion</value></field>
        <modelField name="PhoneNumbers">
          <model type="PhoneNumber" id="p-1">
            <field name="Value"><value>0744555666</value></field>
          </model>
        </modelField>
        <modelField name="UserID">
          <model type="UserID" id="u-2">
            <field name="Value"><value>40744555666@s.whatsapp.net</value></field>
          </model>
        </modelField>
      </model>`))

	contacts := ExtractContacts(doc)
	if len(contacts) != 1 {
		t.Fatalf("ExtractContacts() returned %d contacts, want 1", len(contacts))
	}
	if got, want := contacts[0].Phone, "0744555666"; got != want {
		t.Errorf("Phone = %q, want %q (JID only overrides for WhatsApp)", got, want)
	}
}

func TestExtractContactsDropsGroupsAndPhoneless(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		model string
	}{
		{
			name: "whatsapp group jid",
			model: `<model type="Contact" id="g-1">
              <field name="Source"><value>WhatsApp</value></field>
              <field name="Name"><value>Family Group</value></field>
              <modelField name="UserID">
                <model type="UserID" id="u-3">
                  <field name="Value"><value>12036302account@g.us</value></field>
                </model>
              </modelField>
            </model>`,
		},
		{
			name: "broadcast list",
			model: `<model type="Contact" id="g-2">
              <field name="Source"><value>WhatsApp</value></field>
              <modelField name="PhoneNumbers">
                <model type="PhoneNumber" id="p-2">
                  <field name="Value"><value>status@broadcast</value></field>
                </model>
              </modelField>
            </model>`,
		},
		{
			name: "no phone at all",
			model: `<model type="Contact" id="g-3">
              <field name="Source"><value>Phonebook</value></field>
              <field name="Name"><value>Orphan Entry</value></field>
            </model>`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := parseSample(t, contactDocument(tt.model))
			if got := ExtractContacts(doc); len(got) != 0 {
				t.Errorf("ExtractContacts() = %d contacts, want 0", len(got))
			}
		})
	}
}

func TestExtractContactsGroupsInCommon(t *testing.T) {
	t.Parallel()

	doc := parseSample(t, contactDocument(`
      <model type="Contact" id="c-3">
        <field name="Source"><value>WhatsApp</value></field>
        <field name="Name"><value>Maria</value></field>
        <modelField name="PhoneNumbers">
          <model type="PhoneNumber" id="p-3">
            <field name="Value"><value>+40733111222</value></field>
          </model>
        </modelField>
        <multiModelField name="AdditionalInfo">
          <model type="KeyValueModel" id="kv-1">
            <field name="Key"><value>Group in common</value></field>
            <field name="Value"><value>family@g.us~Family</value></field>
          </model>
          <model type="KeyValueModel" id="kv-2">
            <field name="Key"><value>Status</value></field>
            <field name="Value"><value>Hey there!</value></field>
          </model>
          <model type="KeyValueModel" id="kv-3">
            <field name="Key"><value>Group in common</value></field>
            <field name="Value"><value>work@g.us~Work Chat</value></field>
          </model>
        </multiModelField>
      </model>`))

	contacts := ExtractContacts(doc)
	if len(contacts) != 1 {
		t.Fatalf("ExtractContacts() returned %d contacts, want 1", len(contacts))
	}
	groups := contacts[0].WhatsAppGroups
	if len(groups) != 2 || groups[0] != "family@g.us~Family" || groups[1] != "work@g.us~Work Chat" {
		t.Errorf("WhatsAppGroups = %v, want the two group entries in order", groups)
	}
}

func TestOwnerPhoneFromFolderName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		folder string
		want   string
	}{
		{"native whatsapp folder", "WhatsApp_40752530087@s.whatsapp.net_Native", "+40752530087"},
		{"embedded in path segment", "Extraction/WhatsApp_40722123456@s.whatsapp.net", "+40722123456"},
		{"no jid", "Telegram_Backup_2024", ""},
		{"group jid does not match", "WhatsApp_12036302account@g.us_Native", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := OwnerPhoneFromFolderName(tt.folder); got != tt.want {
				t.Errorf("OwnerPhoneFromFolderName(%q) = %q, want %q", tt.folder, got, tt.want)
			}
		})
	}
}

func TestLooksLikeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  bool
	}{
		{"https://instagram.com/user", true},
		{"http://example.com", true},
		{"https://scontent.cdninstagram.com/v/photo.jpg", true},
		{"scontent-otp1-1.CDNINSTAGRAM.com/avatar", true},
		{"Ana Maria", false},
		{"", false},
	}

	for _, tt := range tests {
		tt := tt
		if got := LooksLikeURL(tt.value); got != tt.want {
			t.Errorf("LooksLikeURL(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestExtractContactsRawFieldsMatchExtraction(t *testing.T) {
	t.Parallel()

	doc := parseSample(t, contactDocument(`
      <model type="Contact" id="c-4">
        <field name="Source"><value>Phonebook</value></field>
        <field name="Name"><value>Vlad</value></field>
        <field name="Account"><value>vlad.acc</value></field>
        <modelField name="PhoneNumbers">
          <model type="PhoneNumber" id="p-4">
            <field name="Value"><value>0755000111</value></field>
          </model>
        </modelField>
      </model>`))

	contacts := ExtractContacts(doc)
	if len(contacts) != 1 {
		t.Fatalf("ExtractContacts() returned %d contacts, want 1", len(contacts))
	}
	c := contacts[0]

	// The raw fallback and the targeted extraction see the same first
	// occurrence of every field, so re-reading a record from raw data can
	// never contradict the typed fields.
	raw := c.RawData.Fields
	for field, typed := range map[string]string{
		"Source":  c.Source,
		"Name":    c.Name,
		"Account": c.Account,
		"Value":   c.Phone,
	} {
		if raw[field] != typed {
			t.Errorf("raw field %q = %q, diverges from typed value %q", field, raw[field], typed)
		}
	}

	if !strings.Contains(c.RawData.Models["PhoneNumber"][0]["Value"], "0755") {
		t.Error("PhoneNumber sub-model not captured in raw data")
	}
}
