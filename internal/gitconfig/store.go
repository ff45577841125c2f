package gitconfig

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gopasspw/gopass/pkg/debug"
)

var (
	keyValueTpl     = "\t%s = %s%s"
	keyTpl          = "\t%s%s"
	reQuotedComment = regexp.MustCompile(`"[^"]*[#;][^"]*"`)
	// "The variable names are case-insensitive, allow only alphanumeric characters and -, and must start with an alphabetic character."
	reValidKey = regexp.MustCompile(`^[a-z]+[a-z0-9-]*$`)
)

// Store is a single git configuration file, usually the per-user one.
//
// The raw text of the file is retained alongside the parsed variables so
// that comments, whitespace and section order survive a rewrite. All
// mutations (Set, Unset) are in-memory only; nothing reaches the disk
// until Flush is called. This is what allows a caller to compute a full
// set of changes and then persist them in a single atomic replace, or to
// abandon them without a trace.
//
// Store is not safe for concurrent use.
type Store struct {
	path string
	raw  strings.Builder
	vars map[string][]string
}

// LoadStore reads a gitconfig file from the given path.
//
// A missing file is not an error: the returned store is empty but bound to
// the path, so a later Flush creates the file. Any other read failure is
// reported as ErrStoreUnreadable.
func LoadStore(fn string) (*Store, error) {
	fh, err := os.Open(fn)
	if err != nil {
		if os.IsNotExist(err) {
			debug.V(1).Log("no config at %s, starting empty", fn)

			return &Store{path: fn, vars: map[string][]string{}}, nil
		}

		return nil, fmt.Errorf("%w: %s: %s", ErrStoreUnreadable, fn, err)
	}
	defer fh.Close() //nolint:errcheck

	s := ParseStore(fh)
	s.path = fn

	return s, nil
}

// ParseStore parses a gitconfig from the given reader. It never fails,
// invalid lines are silently skipped.
func ParseStore(r io.Reader) *Store {
	s := &Store{
		vars: make(map[string][]string, 42),
	}

	lines := s.parse(r, "", "", func(fk, k, v, comment, _ string) (string, bool) {
		fk = canonicalizeKey(fk)
		s.vars[fk] = append(s.vars[fk], v)

		return formatKeyValue(k, v, comment), false
	})

	s.raw.WriteString(strings.Join(lines, "\n"))
	s.raw.WriteString("\n")

	return s
}

// Path returns the file this store is bound to. Used for backup naming.
func (s *Store) Path() string {
	return s.path
}

// IsEmpty returns true if no variables are loaded and there is no raw
// content, i.e. the backing file was absent or blank.
func (s *Store) IsEmpty() bool {
	if s == nil || len(s.vars) == 0 {
		return true
	}

	return false
}

// Get returns the first value of the key and whether the key is present.
// Presence with an empty value is distinct from absence.
func (s *Store) Get(key string) (string, bool) {
	key = canonicalizeKey(key)
	vs, found := s.vars[key]
	if !found || len(vs) < 1 {
		return "", false
	}

	return vs[0], true
}

// IsSet returns true if the key is present, even with an empty value.
func (s *Store) IsSet(key string) bool {
	_, present := s.vars[canonicalizeKey(key)]

	return present
}

// Keys returns all keys present in the store, unordered.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.vars))
	for k := range s.vars {
		keys = append(keys, k)
	}

	return keys
}

// Set updates or adds a key in the store, in memory only.
//
// An existing key has its first value updated in place, preserving the
// surrounding formatting. A new key is appended to its section if the
// section exists, otherwise a new section is created at the end of the
// file. Call Flush to persist.
func (s *Store) Set(key, value string) error {
	section, _, subkey := splitKey(key)
	if section == "" || subkey == "" {
		return fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}

	if s.vars == nil {
		s.vars = make(map[string][]string, 16)
	}

	key = canonicalizeKey(key)

	vs, present := s.vars[key]
	if present && len(vs) > 0 && vs[0] == value {
		debug.V(1).Log("key %q already at %q, not rewriting", key, value)

		return nil
	}

	if vs == nil {
		vs = make([]string, 1)
	}
	vs[0] = value
	s.vars[key] = vs

	if !present {
		s.insertValue(key, value)

		return nil
	}

	var updated bool
	s.rewriteRaw(key, value, func(fKey, sKey, value, comment, line string) (string, bool) {
		if updated {
			return line, false
		}
		updated = true

		return formatKeyValue(sKey, value, comment), false
	})

	return nil
}

// Unset deletes a key from the store, in memory only. Deleting an absent
// key is a no-op. Sections are not removed, only keys within them.
func (s *Store) Unset(key string) error {
	key = canonicalizeKey(key)

	if _, present := s.vars[key]; !present {
		return nil
	}

	delete(s.vars, key)

	s.rewriteRaw(key, "", func(fKey, key, value, comment, _ string) (string, bool) {
		return "", true
	})

	return nil
}

// Flush persists the store to its backing file.
//
// The content is written to a temporary file in the target directory and
// moved into place with a rename, so the backing file is either fully
// replaced or left untouched. Failures are reported as ErrStoreUnwritable.
func (s *Store) Flush() error {
	if s.path == "" {
		debug.Log("no path set, not writing")

		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("%w: create %s: %s", ErrStoreUnwritable, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrStoreUnwritable, s.path, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.WriteString(s.raw.String()); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("%w: %s: %s", ErrStoreUnwritable, s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrStoreUnwritable, s.path, err)
	}

	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrStoreUnwritable, s.path, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrStoreUnwritable, s.path, err)
	}

	debug.V(1).Log("wrote config to %s", s.path)

	return nil
}

// Raw returns the current raw text of the store, as it would be written
// by Flush.
func (s *Store) Raw() string {
	return s.raw.String()
}

func (s *Store) insertValue(key, value string) {
	wSection, wSubsection, wKey := splitKey(key)

	sc := bufio.NewScanner(strings.NewReader(s.raw.String()))

	lines := make([]string, 0, 128)
	var section string
	var subsection string
	var written bool
	for sc.Scan() {
		line := sc.Text()

		lines = append(lines, line)

		if written {
			continue
		}
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			sec, subs, skip := parseSectionHeader(line)
			if skip {
				continue
			}
			section = sec
			subsection = subs
		}

		if section != wSection || subsection != wSubsection {
			continue
		}

		lines = append(lines, formatKeyValue(wKey, value, ""))
		written = true
	}

	// no matching section, append one at the end
	if !written {
		sect := fmt.Sprintf("[%s]", wSection)
		if wSubsection != "" {
			sect = fmt.Sprintf("[%s %q]", wSection, wSubsection)
		}
		lines = append(lines, sect)
		lines = append(lines, formatKeyValue(wKey, value, ""))
	}

	s.raw = strings.Builder{}
	s.raw.WriteString(strings.Join(lines, "\n"))
	s.raw.WriteString("\n")
}

// rewriteRaw rewrites the raw copy of the file. It backs both the set and
// the unset operation, with a different callback each.
func (s *Store) rewriteRaw(key, value string, cb parseFunc) {
	lines := s.parse(strings.NewReader(s.raw.String()), key, value, cb)

	s.raw = strings.Builder{}
	s.raw.WriteString(strings.Join(lines, "\n"))
	s.raw.WriteString("\n")
}

type parseFunc func(fqkn, skn, value, comment, fullLine string) (newLine string, skipLine bool)

// parse is a line based parser for the gitconfig subset we support. Every
// line is kept verbatim so the file can be reproduced almost exactly.
// Comments are skipped, section headers tracked, and for each key-value
// line the callback decides what to do: collect it (loading, key and value
// empty), replace it (set) or drop it (unset).
func (s *Store) parse(in io.Reader, key, value string, cb parseFunc) []string {
	wSection, wSubsection, wKey := splitKey(key)

	sc := bufio.NewScanner(in)

	lines := make([]string, 0, 128)
	var section string
	var subsection string
	for sc.Scan() {
		fullLine := sc.Text()

		lines = append(lines, fullLine)

		line := strings.TrimSpace(fullLine)
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			sec, subs, skip := parseSectionHeader(line)
			if skip {
				continue
			}
			section = sec
			subsection = subs
		}

		if key != "" && (section != wSection && subsection != wSubsection) {
			continue
		}

		// Reference: https://git-scm.com/docs/git-config#_syntax
		k, v, found := strings.Cut(line, "=")
		// bare boolean, e.g. a line with only the key
		if !found && !strings.HasPrefix(line, "[") && strings.TrimSpace(line) != "" {
			v = ""
			found = true
		}
		if !found {
			continue
		}

		// "Whitespace characters surrounding name, = and value are discarded."
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)

		// keep a copy of the original key for serialization
		ok := k
		// "The variable names are case-insensitive"
		k = strings.ToLower(k)

		if !reValidKey.MatchString(k) {
			debug.V(3).Log("invalid key %q in line %q", k, line)

			continue
		}

		fKey := section + "."
		if subsection != "" {
			fKey += subsection + "."
		}
		fKey += k
		if key == "" {
			wKey = ok
		}

		oValue, comment := splitValueComment(v)
		oValue = unescapeValue(oValue)

		if key != "" && key != fKey {
			continue
		}
		if key != "" {
			oValue = value
		}

		newLine, skip := cb(fKey, wKey, oValue, comment, fullLine)
		if skip {
			lines = lines[:len(lines)-1]

			continue
		}
		lines[len(lines)-1] = newLine
	}

	return lines
}

func formatKeyValue(key, value, comment string) string {
	if strings.TrimSpace(value) == "" {
		return fmt.Sprintf(keyTpl, key, comment)
	}

	return fmt.Sprintf(keyValueTpl, key, value, comment)
}

func parseSectionHeader(line string) (section, subsection string, skip bool) { //nolint:nonamedreturns
	line = strings.Trim(line, "[]")
	if line == "" {
		return "", "", true
	}
	wsp := strings.Index(line, " ")
	if wsp < 0 {
		return line, "", false
	}

	section = line[:wsp]
	subsection = line[wsp+1:]
	subsection = strings.ReplaceAll(subsection, "\\", "")
	subsection = strings.TrimPrefix(subsection, "\"")
	subsection = strings.TrimSuffix(subsection, "\"")

	return section, subsection, false
}

func splitValueComment(rValue string) (string, string) {
	// no comment, return early
	if !strings.ContainsAny(rValue, "#;") {
		// "If value needs to contain leading or trailing whitespace characters, it must be enclosed in double quotation marks (")."
		return strings.Trim(rValue, "\""), ""
	}

	// comment present, but not quoted
	if !reQuotedComment.MatchString(rValue) {
		comment := " " + rValue[strings.IndexAny(rValue, "#;"):]
		rValue = rValue[:strings.IndexAny(rValue, "#;")]
		rValue = strings.TrimSpace(rValue)
		rValue = strings.Trim(rValue, "\"")

		return rValue, comment
	}

	// comment present and quoted
	return parseLineForComment(rValue)
}

func unescapeValue(value string) string {
	// The only recognized escape sequences besides \" and \\ are
	// \n, \t and \b. Everything else is invalid and left alone.
	value = strings.ReplaceAll(value, `\\`, `\`)
	value = strings.ReplaceAll(value, `\"`, `"`)
	value = strings.ReplaceAll(value, `\n`, "\n")
	value = strings.ReplaceAll(value, `\t`, "\t")
	value = strings.ReplaceAll(value, `\b`, "\b")

	return value
}
