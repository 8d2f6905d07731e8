package textproc

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadStopwords reads a stopword list, one word per line. Blank lines are
// skipped.
func LoadStopwords(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening stopword list: %w", err)
	}
	defer f.Close()

	stopwords := make(map[string]struct{})
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		word := strings.TrimSpace(sc.Text())
		if word == "" {
			continue
		}
		stopwords[word] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading stopword list: %w", err)
	}
	return stopwords, nil
}
