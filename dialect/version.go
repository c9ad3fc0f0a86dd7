package dialect

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a dotted server version, such as MySQL's "8.0.13".
type Version struct {
	Major, Minor, Patch int
}

// ParseVersion parses a dotted version string. Minor and patch parts are
// optional; a trailing suffix after the patch ("8.0.13-log") is ignored.
func ParseVersion(s string) (Version, error) {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) == 3 {
		if i := strings.IndexAny(parts[2], "-+_~ "); i >= 0 {
			parts[2] = parts[2][:i]
		}
	}
	var v Version
	for i, target := range []*int{&v.Major, &v.Minor, &v.Patch} {
		if i >= len(parts) {
			break
		}
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version %q", s)
		}
		*target = n
	}
	return v, nil
}

// AtLeast reports whether v is not older than w.
func (v Version) AtLeast(w Version) bool {
	if v.Major != w.Major {
		return v.Major > w.Major
	}
	if v.Minor != w.Minor {
		return v.Minor > w.Minor
	}
	return v.Patch >= w.Patch
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
