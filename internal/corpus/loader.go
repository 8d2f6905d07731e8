package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scanner walks a corpus directory and yields one Patient per XML file in
// sorted filename order. Usage follows bufio.Scanner:
//
//	sc, err := corpus.NewScanner(dir)
//	for sc.Scan() {
//		p := sc.Patient()
//		...
//	}
//	if err := sc.Err(); err != nil { ... }
//
// Reset rewinds the scanner to the start of the corpus, so a single Scanner
// supports multiple passes.
type Scanner struct {
	dir   string
	files []string
	next  int
	cur   *Patient
	err   error
}

// NewScanner lists the corpus directory. It fails with NotFoundError when
// the directory does not exist.
func NewScanner(dir string) (*Scanner, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: dir}
		}
		return nil, fmt.Errorf("checking corpus directory: %w", err)
	}
	if !info.IsDir() {
		return nil, &FormatError{Path: dir, Reason: "corpus path is not a directory"}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing corpus directory %s: %w", dir, err)
	}

	// os.ReadDir returns entries sorted by filename, which fixes the
	// patient order for the whole run.
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".xml") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}

	return &Scanner{dir: dir, files: files}, nil
}

// Dir returns the corpus directory the scanner was created for.
func (s *Scanner) Dir() string {
	return s.dir
}

// Len returns the number of patient documents in the corpus.
func (s *Scanner) Len() int {
	return len(s.files)
}

// Scan advances to the next patient. It returns false at the end of the
// corpus or on the first parse error, which Err then reports.
func (s *Scanner) Scan() bool {
	if s.err != nil || s.next >= len(s.files) {
		return false
	}
	p, err := ReadPatient(s.files[s.next])
	s.next++
	if err != nil {
		s.err = err
		return false
	}
	s.cur = p
	return true
}

// Patient returns the patient produced by the last successful Scan.
func (s *Scanner) Patient() *Patient {
	return s.cur
}

// Err returns the first error encountered while scanning, if any.
func (s *Scanner) Err() error {
	return s.err
}

// Reset rewinds the scanner for another pass over the corpus.
func (s *Scanner) Reset() {
	s.next = 0
	s.cur = nil
	s.err = nil
}

// LoadAll reads the whole corpus eagerly.
func LoadAll(dir string) ([]*Patient, error) {
	sc, err := NewScanner(dir)
	if err != nil {
		return nil, err
	}
	patients := make([]*Patient, 0, sc.Len())
	for sc.Scan() {
		patients = append(patients, sc.Patient())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return patients, nil
}
