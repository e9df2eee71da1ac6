// Package dictfmt reads and writes auto-/user-dictionary files: a version
// header followed by one quoted token per line. The header lets two fuzzer
// builds refuse each other's dictionaries outright instead of silently
// misinterpreting escape sequences a newer format version introduced.
package dictfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/orizon-mutate/internal/xerrors"
)

// FormatVersion is the version this package writes and the constraint it
// requires on read.
const FormatVersion = "1.0.0"

// supportedConstraint accepts any 1.x dictionary: the header format itself
// hasn't changed since 1.0.0, so a ^1.0.0 constraint is the honest
// compatibility promise rather than an exact-match one.
const supportedConstraint = "^1.0.0"

const headerPrefix = "# orizon-mutate-dict "

// Load reads a dictionary file, validating its version header against
// supportedConstraint before parsing any tokens.
func Load(r io.Reader, path string) ([][]byte, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	if !scanner.Scan() {
		return nil, fmt.Errorf("%s: empty dictionary file", path)
	}

	header := scanner.Text()
	if err := checkHeader(header, path); err != nil {
		return nil, err
	}

	var tokens [][]byte

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tok, err := strconv.Unquote(line)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid dictionary entry %q: %w", path, line, err)
		}

		tokens = append(tokens, []byte(tok))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return tokens, nil
}

// Save writes tokens as a version-headered dictionary file.
func Save(w io.Writer, tokens [][]byte) error {
	if _, err := fmt.Fprintf(w, "%s%s\n", headerPrefix, FormatVersion); err != nil {
		return err
	}

	for _, tok := range tokens {
		if _, err := fmt.Fprintln(w, strconv.Quote(string(tok))); err != nil {
			return err
		}
	}

	return nil
}

func checkHeader(header, path string) error {
	if !strings.HasPrefix(header, headerPrefix) {
		return fmt.Errorf("%s: missing dictionary version header", path)
	}

	raw := strings.TrimSpace(strings.TrimPrefix(header, headerPrefix))

	got, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("%s: invalid dictionary version %q: %w", path, raw, err)
	}

	constraint, err := semver.NewConstraint(supportedConstraint)
	if err != nil {
		return err
	}

	if !constraint.Check(got) {
		return xerrors.DictionaryVersion(path, supportedConstraint, raw)
	}

	return nil
}
