package release

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// leadingVersionPattern captures up to three leading numeric components.
var leadingVersionPattern = regexp.MustCompile(`^(\d+)(?:\.(\d+))?(?:\.(\d+))?`)

// Normalize converts a raw release tag into a strict semantic version.
//
// A leading "v" is dropped, the text is cut at the first "-" into a core and a
// suffix, the core is completed to major.minor.patch and the suffix, if any,
// must form a valid pre-release. Build metadata is dropped. Normalizing a
// normalized version returns it unchanged.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "v")
	coreText, suffix, _ := strings.Cut(trimmed, "-")

	core, err := coerce(coreText)
	if err != nil {
		return "", &InvalidVersionFormatError{Version: raw, Err: err}
	}

	if suffix == "" {
		return core.String(), nil
	}

	full, err := semver.StrictNewVersion(core.String() + "-" + suffix)
	if err != nil {
		return "", &InvalidVersionFormatError{Version: raw, Err: err}
	}

	return semver.New(core.Major(), core.Minor(), core.Patch(), full.Prerelease(), "").String(), nil
}

// coerce completes the leading numeric portion of text to major.minor.patch.
func coerce(text string) (*semver.Version, error) {
	match := leadingVersionPattern.FindStringSubmatch(text)
	if match == nil {
		return nil, semver.ErrInvalidSemVer
	}

	var parts [3]uint64

	for i, group := range match[1:] {
		if group == "" {
			continue
		}

		value, err := strconv.ParseUint(group, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", group, err)
		}

		parts[i] = value
	}

	return semver.New(parts[0], parts[1], parts[2], "", ""), nil
}

// IsPrerelease reports whether the normalized version carries a pre-release part.
func IsPrerelease(normalized string) bool {
	v, err := semver.StrictNewVersion(normalized)
	if err != nil {
		return false
	}

	return v.Prerelease() != ""
}

// MajorMinor returns the "major.minor" line of a normalized version.
func MajorMinor(normalized string) (string, error) {
	v, err := semver.StrictNewVersion(normalized)
	if err != nil {
		return "", &InvalidVersionFormatError{Version: normalized, Err: err}
	}

	return fmt.Sprintf("%d.%d", v.Major(), v.Minor()), nil
}

// ParseConstraint parses a version spec using standard range semantics.
// Bare prefixes such as "0" or "0.29" match any version within the prefix.
func ParseConstraint(spec string) (*semver.Constraints, error) {
	constraint, err := semver.NewConstraint(strings.TrimSpace(spec))
	if err != nil {
		return nil, &InvalidVersionFormatError{Version: spec, Err: err}
	}

	return constraint, nil
}
