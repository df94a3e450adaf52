package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nvalden/arsenal/internal/domain"
)

// Version is a parsed dot-separated catalog version. Missing components are
// zero, so "2.3" and "2.3.0" compare equal.
type Version struct {
	Major, Minor, Patch int
}

// ParseVersion parses a declared catalog version string. At most three
// non-negative numeric components are accepted.
func ParseVersion(s string) (Version, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Version{}, fmt.Errorf("%w: empty version", domain.ErrVersionFormat)
	}

	parts := strings.Split(trimmed, ".")
	if len(parts) > 3 {
		return Version{}, fmt.Errorf("%w: %q has more than three components", domain.ErrVersionFormat, s)
	}

	nums := [3]int{}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: %q component %q is not a non-negative integer", domain.ErrVersionFormat, s, part)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Compare returns -1, 0 or 1 ordering v against other.
func (v Version) Compare(other Version) int {
	pairs := [3][2]int{
		{v.Major, other.Major},
		{v.Minor, other.Minor},
		{v.Patch, other.Patch},
	}
	for _, p := range pairs {
		switch {
		case p[0] < p[1]:
			return -1
		case p[0] > p[1]:
			return 1
		}
	}
	return 0
}

// String renders the canonical three-component form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
