package gitconfig

import "strings"

// splitKey splits a fully qualified gitconfig key into two or three parts.
// A valid key is either section.key or section.subsection.key. The
// subsection may itself contain dots, the section and key name must not.
//
// Valid examples:
// - core.autocrlf
// - filter.nbstripout.clean
func splitKey(key string) (section, subsection, skey string) { //nolint:nonamedreturns
	n := strings.Index(key, ".")
	if n > 0 {
		section = key[:n]
	}

	if m := strings.LastIndex(key, "."); n != m && m > 0 && len(key) > m+1 {
		subsection = key[n+1 : m]
		skey = key[m+1:]

		return
	}

	skey = key[n+1:]

	return
}

// canonicalizeKey normalizes a key for use in the vars map. Sections and
// key names are case-insensitive per the git-config syntax rules,
// subsection names
// are case-sensitive. Invalid keys map to the empty string.
func canonicalizeKey(key string) string {
	if key == "" {
		return ""
	}

	section, subsection, skey := splitKey(key)
	section = strings.ToLower(section)
	skey = strings.ToLower(skey)

	if section == "" || skey == "" {
		return ""
	}

	if subsection == "" {
		return section + "." + skey
	}

	return section + "." + subsection + "." + skey
}

// parseLineForComment separates a value into content and comment parts at
// the first comment character (# or ;) outside of double quotes. The
// content is trimmed and stripped of surrounding quotes, the comment is
// returned without the delimiter.
func parseLineForComment(line string) (string, string) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, `"`) {
		// no quoted value string, plain cut is enough
		if value, comment, found := strings.Cut(line, "#"); found {
			return strings.TrimSpace(value), strings.TrimSpace(comment)
		}
		if value, comment, found := strings.Cut(line, ";"); found {
			return strings.TrimSpace(value), strings.TrimSpace(comment)
		}

		return line, ""
	}

	commentStart := -1
	inQuotes := false
loop:
	for i, r := range line {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case '#', ';':
			if !inQuotes {
				commentStart = i

				break loop
			}
		}
	}

	if commentStart < 0 {
		return strings.Trim(strings.TrimSpace(line), `"`), ""
	}

	content := strings.Trim(strings.TrimSpace(line[:commentStart]), `"`)
	comment := strings.TrimSpace(line[commentStart+1:])

	return content, comment
}
