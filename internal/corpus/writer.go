package corpus

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cohorttools/cohortsel/internal/criteria"
)

type outDocument struct {
	XMLName xml.Name `xml:"PatientMatching"`
	Text    *outText `xml:"TEXT,omitempty"`
	Tags    *outTags `xml:"TAGS,omitempty"`
}

type outText struct {
	Value string `xml:",cdata"`
}

type outTags struct {
	Entries []outTag
}

type outTag struct {
	XMLName xml.Name
	Met     string `xml:"met,attr"`
}

// Writer serializes patients back to the challenge XML format, which is
// also the submission format of the task.
type Writer struct {
	// Dir is the output directory; created on demand.
	Dir string
	// IncludeText and IncludeTags control which optional sections are
	// emitted. A submission typically carries both.
	IncludeText bool
	IncludeTags bool
	// Overwrite allows replacing existing files in Dir.
	Overwrite bool
}

// Write serializes one patient to Dir under its original filename.
func (w *Writer) Write(p *Patient) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", w.Dir, err)
	}

	path := filepath.Join(w.Dir, p.FileName)
	if !w.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("refusing to overwrite %s", path)
		}
	}

	data, err := MarshalPatient(p, w.IncludeText, w.IncludeTags)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing patient document %s: %w", path, err)
	}
	return nil
}

// WriteAll serializes a whole corpus.
func (w *Writer) WriteAll(patients []*Patient) error {
	for _, p := range patients {
		if err := w.Write(p); err != nil {
			return err
		}
	}
	return nil
}

// MarshalPatient renders the challenge XML document for a patient. The TEXT
// section is the untouched source text, so reading and writing a labelled
// document round-trips.
func MarshalPatient(p *Patient, includeText, includeTags bool) ([]byte, error) {
	doc := outDocument{}
	if includeText {
		doc.Text = &outText{Value: p.rawText}
	}
	if includeTags {
		tags := &outTags{Entries: make([]outTag, 0, criteria.Count())}
		for _, c := range criteria.All() {
			met := "not met"
			if p.Labels[c] {
				met = "met"
			}
			tags.Entries = append(tags.Entries, outTag{
				XMLName: xml.Name{Local: string(c)},
				Met:     met,
			})
		}
		doc.Tags = tags
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling patient %s: %w", p.ID, err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}
