package extractor

import (
	"strings"
	"testing"
)

const sampleReportXML = `<?xml version="1.0" encoding="utf-8"?>
<project xmlns="http://pa.cellebrite.com/report/2.0" name="Samsung GSM_SM-G991B Galaxy S21">
  <metadata section="Extraction Data">
    <item name="DeviceInfoSelectedManufacturer">SAMSUNG</item>
    <item name="DeviceInfoSelectedDeviceName">SM-G991B</item>
  </metadata>
  <decodedData>
    <modelType type="Contact">
      <model type="Contact" id="c-1" deleted_state="Intact" extractionId="0">
        <field name="Source"><value>WhatsApp</value></field>
        <field name="Name"><value>Ana Pop</value></field>
        <field name="Name"><value>Shadow Name</value></field>
        <multiField name="Notes">
          <value>first note</value>
          <value>second note</value>
        </multiField>
        <modelField name="UserID">
          <model type="UserID" id="u-1">
            <field name="Value"><value>40722123456@s.whatsapp.net</value></field>
            <field name="Category"><value>WhatsApp</value></field>
          </model>
        </modelField>
        <multiModelField name="AdditionalInfo">
          <model type="KeyValueModel" id="kv-1">
            <field name="Key"><value>Group in common</value></field>
            <field name="Value"><value>family@g.us~Family</value></field>
          </model>
        </multiModelField>
      </model>
    </modelType>
  </decodedData>
</project>`

func parseSample(t *testing.T, xmlText string) *Document {
	t.Helper()
	doc, err := ParseDocument(strings.NewReader(xmlText))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	return doc
}

func TestParseDocument(t *testing.T) {
	t.Parallel()

	doc := parseSample(t, sampleReportXML)

	if got, want := doc.ProjectName(), "Samsung GSM_SM-G991B Galaxy S21"; got != want {
		t.Errorf("ProjectName() = %q, want %q", got, want)
	}
	if got, want := doc.MetadataItem("DeviceInfoSelectedManufacturer"), "SAMSUNG"; got != want {
		t.Errorf("MetadataItem(manufacturer) = %q, want %q", got, want)
	}
	if got := doc.MetadataItem("NoSuchItem"); got != "" {
		t.Errorf("MetadataItem(missing) = %q, want empty", got)
	}
}

func TestParseDocumentInvalidXML(t *testing.T) {
	t.Parallel()

	if _, err := ParseDocument(strings.NewReader("<project><unclosed></project>")); err == nil {
		t.Error("ParseDocument() expected error for mismatched tags")
	}
}

func TestModelFieldResolution(t *testing.T) {
	t.Parallel()

	doc := parseSample(t, sampleReportXML)
	models := doc.Models(ModelTypeContact)
	if len(models) != 1 {
		t.Fatalf("Models(Contact) returned %d models, want 1", len(models))
	}
	m := models[0]

	if got, want := m.ID(), "c-1"; got != want {
		t.Errorf("ID() = %q, want %q", got, want)
	}
	if got, want := m.Attr("deleted_state"), "Intact"; got != want {
		t.Errorf("Attr(deleted_state) = %q, want %q", got, want)
	}

	// The first occurrence in document order wins for repeated names.
	if got, want := m.Field("Name"), "Ana Pop"; got != want {
		t.Errorf("Field(Name) = %q, want %q", got, want)
	}
	fields := m.Fields()
	if got, want := fields["Name"], "Ana Pop"; got != want {
		t.Errorf("Fields()[Name] = %q, want %q", got, want)
	}
	if got, want := fields["Value"], "40722123456@s.whatsapp.net"; got != want {
		t.Errorf("Fields()[Value] = %q, want %q", got, want)
	}

	notes := m.MultiField("Notes")
	if len(notes) != 2 || notes[0] != "first note" || notes[1] != "second note" {
		t.Errorf("MultiField(Notes) = %v, want [first note, second note]", notes)
	}

	kvs := m.MultiModelField("AdditionalInfo", "KeyValueModel")
	if len(kvs) != 1 {
		t.Fatalf("MultiModelField(AdditionalInfo) returned %d models, want 1", len(kvs))
	}
	if got, want := kvs[0].Field("Key"), "Group in common"; got != want {
		t.Errorf("KeyValueModel Key = %q, want %q", got, want)
	}
}

func TestSubModelFields(t *testing.T) {
	t.Parallel()

	doc := parseSample(t, sampleReportXML)
	m := doc.Models(ModelTypeContact)[0]

	captured := m.SubModelFields(ModelTypeContact)
	if _, ok := captured[ModelTypeContact]; ok {
		t.Error("SubModelFields must exclude the receiver's own type")
	}
	userIDs := captured["UserID"]
	if len(userIDs) != 1 {
		t.Fatalf("captured %d UserID sub-models, want 1", len(userIDs))
	}
	if got, want := userIDs[0]["Value"], "40722123456@s.whatsapp.net"; got != want {
		t.Errorf("UserID sub-model Value = %q, want %q", got, want)
	}
}
