package script

import (
	"strconv"
	"strings"

	"fieldprof/domain/profile"
	"fieldprof/internal/errors"
)

// Parse re-loads a generated script into value/count pairs per
// distribution label. It is the reload half of the round trip: parsing a
// script generated from an untruncated profile recovers the same multiset
// of pairs.
func Parse(text string) (map[string][]profile.DistributionEntry, error) {
	out := map[string][]profile.DistributionEntry{}
	lines := strings.Split(text, "\n")

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if !strings.HasSuffix(line, "_Distribution:") {
			i++
			continue
		}
		label := strings.TrimSuffix(line, ":")

		if i+1 >= len(lines) || strings.TrimSpace(lines[i+1]) != "LOAD * INLINE [" {
			return nil, errors.InvalidInput("malformed script: missing inline block after " + label)
		}

		// Collect body lines until the closing footer, which names the
		// delimiter.
		body := []string{}
		j := i + 2
		footer := ""
		for ; j < len(lines); j++ {
			if strings.HasPrefix(strings.TrimSpace(lines[j]), "]") {
				footer = strings.TrimSpace(lines[j])
				break
			}
			body = append(body, lines[j])
		}
		if footer == "" {
			return nil, errors.InvalidInput("malformed script: unterminated inline block in " + label)
		}
		delim, err := footerDelimiter(footer)
		if err != nil {
			return nil, err
		}

		if len(body) == 0 {
			return nil, errors.InvalidInput("malformed script: empty inline block in " + label)
		}
		// First body line is the header row.
		entries := []profile.DistributionEntry{}
		for _, row := range body[1:] {
			if strings.TrimSpace(row) == "" {
				continue
			}
			idx := strings.LastIndex(row, delim)
			if idx < 0 {
				return nil, errors.InvalidInput("malformed script: row without delimiter in " + label)
			}
			count, err := strconv.Atoi(strings.TrimSpace(row[idx+len(delim):]))
			if err != nil {
				return nil, errors.Wrap(err, "malformed script: bad count in "+label)
			}
			entries = append(entries, profile.DistributionEntry{
				Value: row[:idx],
				Count: count,
			})
		}
		out[label] = entries
		i = j + 1
	}

	if len(out) == 0 {
		return nil, errors.InvalidInput("no distribution blocks found in script")
	}
	return out, nil
}

func footerDelimiter(footer string) (string, error) {
	start := strings.Index(footer, "'")
	end := strings.LastIndex(footer, "'")
	if start < 0 || end <= start {
		return "", errors.InvalidInput("malformed script: footer missing delimiter declaration")
	}
	escaped := footer[start+1 : end]
	if escaped == "\\t" {
		return "\t", nil
	}
	if len(escaped) != 1 {
		return "", errors.InvalidInput("malformed script: unsupported delimiter " + escaped)
	}
	return escaped, nil
}
