package detect

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Labels are the class names of a model indexed by class number
type Labels []string

// LoadLabels reads a label file holding one class name per line.  Names are
// trimmed and trailing blank lines are dropped, blank lines in between keep
// their class number.
func LoadLabels(file string) (Labels, error) {

	f, err := os.Open(file)

	if err != nil {
		return nil, fmt.Errorf("error opening labels: %w", err)
	}

	defer f.Close()

	var labels Labels
	sc := bufio.NewScanner(f)

	for sc.Scan() {
		labels = append(labels, strings.TrimSpace(sc.Text()))
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("error reading labels: %w", err)
	}

	for len(labels) > 0 && labels[len(labels)-1] == "" {
		labels = labels[:len(labels)-1]
	}

	if len(labels) == 0 {
		return nil, fmt.Errorf("no labels in %s", file)
	}

	return labels, nil
}

// Index returns the class number of the named label, compared case
// insensitive
func (l Labels) Index(name string) (int, error) {

	for i, n := range l {
		if strings.EqualFold(n, name) {
			return i, nil
		}
	}

	return -1, fmt.Errorf("class %q not found in labels", name)
}

// Name returns the label of a class number, classes without a label are
// named by their number
func (l Labels) Name(class int) string {

	if class < 0 || class >= len(l) || l[class] == "" {
		return strconv.Itoa(class)
	}

	return l[class]
}
