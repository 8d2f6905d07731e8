package corpus

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cohorttools/cohortsel/internal/criteria"
	"github.com/cohorttools/cohortsel/internal/textproc"
)

// recordPattern splits a TEXT section into dated records. Each record starts
// with a "Record date:" header and ends at a separator line of at least one
// hundred asterisks.
var recordPattern = regexp.MustCompile(`(?s)Record date: (\d{4}-\d{2}-\d{2})\s*(.*?)\s*\*{100,}`)

const noteDateLayout = "2006-01-02"

type xmlDocument struct {
	XMLName xml.Name `xml:"PatientMatching"`
	Text    string   `xml:"TEXT"`
	Tags    *xmlTags `xml:"TAGS"`
}

type xmlTags struct {
	Entries []xmlTag `xml:",any"`
}

type xmlTag struct {
	XMLName xml.Name
	Met     string `xml:"met,attr"`
}

// ReadPatient parses one challenge XML document into a Patient. Both the
// TEXT and TAGS sections are optional: a missing TEXT yields a patient with
// no notes, a missing TAGS yields an unlabeled patient with every criterion
// defaulting to not met.
func ReadPatient(path string) (*Patient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("reading patient document: %w", err)
	}

	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Path: path, Reason: err.Error()}
	}

	fileName := filepath.Base(path)
	p := &Patient{
		ID:       strings.TrimSuffix(fileName, filepath.Ext(fileName)),
		FileName: fileName,
		Labels:   make(map[criteria.Criterion]bool, criteria.Count()),
		rawText:  doc.Text,
	}
	for _, c := range criteria.All() {
		p.Labels[c] = false
	}

	if err := parseNotes(p, doc.Text, path); err != nil {
		return nil, err
	}

	if doc.Tags != nil {
		p.Labeled = true
		for _, entry := range doc.Tags.Entries {
			c, err := criteria.Parse(entry.XMLName.Local)
			if err != nil {
				// Unknown elements inside TAGS are tolerated, matching the
				// challenge reader which only looks up the known criteria.
				continue
			}
			switch entry.Met {
			case "met":
				p.Labels[c] = true
			case "not met":
				p.Labels[c] = false
			default:
				return nil, &FormatError{
					Path:   path,
					Reason: fmt.Sprintf("criterion %s has invalid met attribute %q", c, entry.Met),
				}
			}
		}
	}

	return p, nil
}

func parseNotes(p *Patient, text, path string) error {
	matches := recordPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	type datedRecord struct {
		date time.Time
		text string
	}
	records := make([]datedRecord, 0, len(matches))
	var latest time.Time
	for _, m := range matches {
		d, err := time.Parse(noteDateLayout, m[1])
		if err != nil {
			return &FormatError{
				Path:   path,
				Reason: fmt.Sprintf("invalid record date %q", m[1]),
			}
		}
		if d.After(latest) {
			latest = d
		}
		records = append(records, datedRecord{date: d, text: m[2]})
	}

	// Note ages are measured against the most recent visit, which acts as
	// the patient's "now".
	p.Notes = make([]Note, 0, len(records))
	for _, r := range records {
		p.Notes = append(p.Notes, Note{
			Date:      r.date,
			RawText:   r.text,
			CleanText: textproc.Clean(r.text),
			AgeMonths: monthsBetween(r.date, latest),
		})
	}
	return nil
}
