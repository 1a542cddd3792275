package apt

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds a single control line; long Description fields exceed bufio's default
const maxLineSize = 1024 * 1024

// Stanza is one paragraph of a Debian control file
type Stanza map[string]string

// Get returns a field value, or the empty string when absent
func (s Stanza) Get(key string) string {
	return s[key]
}

// ParseControl parses a single-paragraph control file
func ParseControl(data []byte) (Stanza, error) {
	stanzas, err := ParseStanzas(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(stanzas) == 0 {
		return nil, fmt.Errorf("no control paragraph found")
	}
	return stanzas[0], nil
}

// ParseStanzas reads every paragraph of a control-format stream such as
// dpkg's status file, a Packages index or a Release file
func ParseStanzas(r io.Reader) ([]Stanza, error) {
	var stanzas []Stanza
	var current Stanza
	var currentKey string
	var currentValue strings.Builder

	flush := func() {
		if current != nil && currentKey != "" {
			current[currentKey] = currentValue.String()
		}
		currentKey = ""
		currentValue.Reset()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Text()

		// Empty line = end of paragraph
		if strings.TrimSpace(line) == "" {
			flush()
			if current != nil {
				stanzas = append(stanzas, current)
				current = nil
			}
			continue
		}

		if line[0] == '#' {
			continue
		}

		// Handle continuation lines (start with space)
		if line[0] == ' ' || line[0] == '\t' {
			if currentKey == "" {
				return nil, fmt.Errorf("continuation line without field: %q", line)
			}
			currentValue.WriteString("\n")
			currentValue.WriteString(strings.TrimSpace(line))
			continue
		}

		// Save previous key-value pair
		flush()

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed field line: %q", line)
		}

		if current == nil {
			current = make(Stanza)
		}
		currentKey = strings.TrimSpace(parts[0])
		currentValue.WriteString(strings.TrimSpace(parts[1]))
	}

	// Don't forget last paragraph
	flush()
	if current != nil {
		stanzas = append(stanzas, current)
	}

	return stanzas, scanner.Err()
}
