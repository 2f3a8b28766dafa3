package script

import (
	"fmt"
	"strings"
	"time"

	"fieldprof/domain/core"
	"fieldprof/domain/profile"
	"fieldprof/internal/errors"
)

// Generate renders previously computed field profiles as a re-loadable
// inline-data script. It is a pure function over the profiles: raw data
// is never re-scanned, and apart from the script ID and timestamp
// comments in the header the output is deterministic for identical
// inputs.
//
// MaxRowsPerField of 0 emits every retained pair. When the profile was
// already truncated upstream, "all" can only mean "all that was
// retained"; the block carries an explicit truncation note instead of
// presenting capped data as complete.
func Generate(profiles []profile.FieldProfile, sourceFileName string, opts profile.ScriptOptions) (string, error) {
	if len(profiles) == 0 {
		return "", errors.InvalidInput("no field profiles to generate a script from")
	}
	delim, err := opts.Delimiter.Char()
	if err != nil {
		return "", errors.InvalidInput(err.Error())
	}
	if opts.MaxRowsPerField < 0 {
		return "", errors.InvalidInput("max rows per field cannot be negative")
	}

	var b strings.Builder
	b.WriteString("// fieldprof inline load script\n")
	fmt.Fprintf(&b, "// Script: %s\n", core.NewScriptID())
	if sourceFileName != "" {
		fmt.Fprintf(&b, "// Source: %s\n", sourceFileName)
	}
	fmt.Fprintf(&b, "// Generated: %s\n", time.Now().UTC().Format(time.RFC3339))

	for _, fp := range profiles {
		b.WriteString("\n")
		writeFieldBlock(&b, fp, delim, opts.MaxRowsPerField)
	}
	return b.String(), nil
}

func writeFieldBlock(b *strings.Builder, fp profile.FieldProfile, delim string, maxRows int) {
	entries := fp.Distributions
	capped := false
	if maxRows > 0 && len(entries) > maxRows {
		entries = entries[:maxRows]
		capped = true
	}

	fmt.Fprintf(b, "// Field: %s (rows=%d, unique=%d, nulls=%d)\n",
		fp.FieldName, fp.TotalRows, fp.UniqueValueCount, fp.NullCount)
	if fp.Truncated && !capped {
		fmt.Fprintf(b, "// NOTE: distribution truncated at %d of %d distinct values during profiling\n",
			fp.TruncatedAt, fp.UniqueValueCount)
	}

	fmt.Fprintf(b, "%s_Distribution:\n", sanitizeLabel(fp.FieldName))
	b.WriteString("LOAD * INLINE [\n")
	fmt.Fprintf(b, "value%scount\n", delim)
	for _, e := range entries {
		fmt.Fprintf(b, "%s%s%d\n", sanitizeValue(e.Value, delim), delim, e.Count)
	}
	fmt.Fprintf(b, "](delimiter is '%s');\n", escapeDelim(delim))
}

// sanitizeLabel makes a field name usable as a table label.
func sanitizeLabel(name string) string {
	var out strings.Builder
	for _, r := range name {
		if r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			out.WriteRune(r)
		} else {
			out.WriteRune('_')
		}
	}
	if out.Len() == 0 {
		return "field"
	}
	return out.String()
}

// sanitizeValue keeps the inline block parseable: literal delimiters and
// newlines become spaces, square brackets become parentheses.
func sanitizeValue(value, delim string) string {
	r := strings.NewReplacer(
		delim, " ",
		"\r\n", " ",
		"\n", " ",
		"\r", " ",
		"[", "(",
		"]", ")",
	)
	return r.Replace(value)
}

func escapeDelim(delim string) string {
	if delim == "\t" {
		return "\\t"
	}
	return delim
}
