package extractor

import (
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

// ReportNamespace is the XML namespace of Cellebrite report documents.
// Parsing matches on local element names and tolerates other namespaces,
// since vendor exports have shipped with several namespace revisions.
const ReportNamespace = "http://pa.cellebrite.com/report/2.0"

// Model type attributes recognized by the extractors. These are also the
// values the archive sniffer looks for when classifying XML files.
const (
	ModelTypeContact     = "Contact"
	ModelTypePassword    = "Password"
	ModelTypeUserAccount = "UserAccount"
)

// node is a generic XML element tree. We deliberately parse into a schema-
// less tree rather than typed structs because the report schema is only
// partially known: typed decoding would drop the unrecognized elements the
// raw-data fallback must capture.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []node     `xml:",any"`
	Text     string     `xml:",chardata"`
}

// attr returns the value of the named attribute, ignoring namespace.
func (n *node) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// walk visits n and every descendant in document order. The visitor
// returns false to stop the traversal early.
func (n *node) walk(fn func(*node) bool) bool {
	if !fn(n) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].walk(fn) {
			return false
		}
	}
	return true
}

// Document is a parsed report document.
type Document struct {
	root node
}

// ParseDocument parses report XML into a navigable Document.
// The decoder honors the document's declared character encoding; vendor
// exports are not always UTF-8.
func ParseDocument(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	// Some exports carry stray control characters; strict mode would
	// reject the whole document over them.
	dec.Strict = false

	var root node
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to parse report XML: %w", err)
	}
	return &Document{root: root}, nil
}

// ProjectName returns the name attribute of the document root, used as the
// last-resort device label.
func (d *Document) ProjectName() string {
	return d.root.attr("name")
}

// MetadataItem returns the text of the first metadata item element with
// the given name attribute, or "".
func (d *Document) MetadataItem(name string) string {
	var value string
	d.root.walk(func(n *node) bool {
		if n.XMLName.Local == "item" && n.attr("name") == name && n.Text != "" {
			value = trimText(n.Text)
			return false
		}
		return true
	})
	return value
}

// Models returns every model element of the given declared type, anywhere
// in the document, in document order.
func (d *Document) Models(modelType string) []*Model {
	return findModels(&d.root, modelType)
}

// Model wraps one model element.
type Model struct {
	n *node
}

// findModels collects model elements of the given type below root.
// root itself is never included.
func findModels(root *node, modelType string) []*Model {
	var models []*Model
	for i := range root.Children {
		root.Children[i].walk(func(n *node) bool {
			if n.XMLName.Local == "model" && n.attr("type") == modelType {
				models = append(models, &Model{n: n})
			}
			return true
		})
	}
	return models
}

// ID returns the model's id attribute.
func (m *Model) ID() string {
	return m.n.attr("id")
}

// Type returns the model's declared type attribute.
func (m *Model) Type() string {
	return m.n.attr("type")
}

// Attr returns an arbitrary attribute of the model element.
func (m *Model) Attr(name string) string {
	return m.n.attr(name)
}

// Field returns the first value text of the field with the given name
// attribute, searching the model and all sub-models in document order.
func (m *Model) Field(name string) string {
	var value string
	m.n.walk(func(n *node) bool {
		if n.XMLName.Local == "field" && n.attr("name") == name {
			if v := firstValueText(n); v != "" {
				value = v
				return false
			}
		}
		return true
	})
	return value
}

// Fields returns every named field below the model mapped to its first
// value text, including fields of nested sub-models. First occurrence
// wins so the map matches what Field returns for the same name.
func (m *Model) Fields() map[string]string {
	fields := make(map[string]string)
	m.n.walk(func(n *node) bool {
		if n.XMLName.Local == "field" {
			name := n.attr("name")
			if name == "" {
				return true
			}
			if v := firstValueText(n); v != "" {
				if _, ok := fields[name]; !ok {
					fields[name] = v
				}
			}
		}
		return true
	})
	return fields
}

// SubModels returns nested model elements of the given type, excluding
// the receiver itself.
func (m *Model) SubModels(modelType string) []*Model {
	return findModels(m.n, modelType)
}

// SubModelFields captures every nested sub-model as a field map, grouped
// by sub-model type. This feeds the raw-data fallback: sub-models whose
// types the extractor does not recognize are preserved verbatim.
func (m *Model) SubModelFields(excludeType string) map[string][]map[string]string {
	captured := make(map[string][]map[string]string)
	for i := range m.n.Children {
		m.n.Children[i].walk(func(n *node) bool {
			if n.XMLName.Local != "model" {
				return true
			}
			modelType := n.attr("type")
			if modelType == "" || modelType == excludeType {
				return true
			}
			sub := Model{n: n}
			if fields := sub.Fields(); len(fields) > 0 {
				captured[modelType] = append(captured[modelType], fields)
			}
			return true
		})
	}
	return captured
}

// MultiField returns the trimmed value texts of the multiField element
// with the given name attribute.
func (m *Model) MultiField(name string) []string {
	var values []string
	m.n.walk(func(n *node) bool {
		if n.XMLName.Local == "multiField" && n.attr("name") == name {
			n.walk(func(v *node) bool {
				if v.XMLName.Local == "value" {
					if text := trimText(v.Text); text != "" {
						values = append(values, text)
					}
				}
				return true
			})
			return false
		}
		return true
	})
	return values
}

// MultiModelField returns the nested models of the given type inside the
// multiModelField element with the given name attribute.
func (m *Model) MultiModelField(fieldName, modelType string) []*Model {
	var models []*Model
	m.n.walk(func(n *node) bool {
		if n.XMLName.Local == "multiModelField" && n.attr("name") == fieldName {
			models = append(models, findModels(n, modelType)...)
			return false
		}
		return true
	})
	return models
}

// FieldInfo is one field element observed during an ordered walk.
type FieldInfo struct {
	// Name is the field's name attribute.
	Name string
	// Domain is the field's domain attribute, when present. Domains tag
	// open-ended metadata values with their meaning.
	Domain string
	// Value is the first value text of the field.
	Value string
}

// WalkFields visits every field element below the model in document order.
// Order matters: the UserAccount shape expresses key/value metadata as a
// Key field whose meaning applies to the next Value field.
func (m *Model) WalkFields(fn func(FieldInfo)) {
	m.n.walk(func(n *node) bool {
		if n.XMLName.Local == "field" {
			name := n.attr("name")
			if name == "" {
				return true
			}
			fn(FieldInfo{
				Name:   name,
				Domain: n.attr("domain"),
				Value:  firstValueText(n),
			})
		}
		return true
	})
}

// firstValueText returns the trimmed text of the first value child.
func firstValueText(field *node) string {
	var text string
	for i := range field.Children {
		c := &field.Children[i]
		if c.XMLName.Local == "value" {
			text = trimText(c.Text)
			break
		}
	}
	return text
}

// trimText trims the whitespace padding XML indentation adds to text nodes.
func trimText(s string) string {
	start, end := 0, len(s)
	for start < end && isXMLSpace(s[start]) {
		start++
	}
	for end > start && isXMLSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isXMLSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
