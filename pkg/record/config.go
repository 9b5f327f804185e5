package record

import (
	"path/filepath"
	"strconv"
	"strings"
)

// NoSuffix marks a config entry stored without a numeric suffix.
const NoSuffix = -1

// ConfigEntry is a stored config line split into its templated path and
// the disambiguating suffix.
type ConfigEntry struct {
	Path   string
	Suffix int
}

// ParseConfigEntry splits "home_dir/.vimrc_2" into {home_dir/.vimrc, 2}.
// Only a final "_<n>" on the base name counts, and n must not have leading
// zeros so that the entry renders back byte for byte.
func ParseConfigEntry(entry string) ConfigEntry {
	base := filepath.Base(entry)
	i := strings.LastIndexByte(base, '_')
	if i <= 0 {
		return ConfigEntry{Path: entry, Suffix: NoSuffix}
	}
	digits := base[i+1:]
	n, ok := parseSuffix(digits)
	if !ok {
		return ConfigEntry{Path: entry, Suffix: NoSuffix}
	}
	return ConfigEntry{Path: entry[:len(entry)-len(digits)-1], Suffix: n}
}

func parseSuffix(s string) (int, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// String renders the stored form.
func (c ConfigEntry) String() string {
	if c.Suffix == NoSuffix {
		return c.Path
	}
	return c.Path + "_" + strconv.Itoa(c.Suffix)
}

// MirrorName is the name of the entry's copy under the group's configs
// directory.
func (c ConfigEntry) MirrorName() string {
	return filepath.Base(c.String())
}

// BaseName is the base name of the original location.
func (c ConfigEntry) BaseName() string {
	return filepath.Base(c.Path)
}

// NeedsSuffix reports whether path would be misread as suffixed if stored
// bare. Such paths always carry an explicit suffix, starting at 0.
func NeedsSuffix(path string) bool {
	return ParseConfigEntry(path).Suffix != NoSuffix
}

// NewConfigEntry builds the entry for templated path with the lowest
// suffix whose mirror name is not taken.
func NewConfigEntry(path string, taken func(mirrorName string) bool) ConfigEntry {
	entry := ConfigEntry{Path: path, Suffix: NoSuffix}
	if NeedsSuffix(path) {
		entry.Suffix = 0
	}
	for taken(entry.MirrorName()) {
		entry.Suffix++
		if entry.Suffix == 0 {
			entry.Suffix = 1
		}
	}
	return entry
}
