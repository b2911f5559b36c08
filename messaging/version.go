package messaging

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/plugrid/plugmsg-go/contracts"
)

// IsSupportedVersion reports whether a version tag is one of the supported
// protocol versions. Validation already enforces enum membership at the
// header level; this helper lets a transport reject versions up front.
func IsSupportedVersion(tag string) bool {
	v, err := semver.NewVersion(tag)
	if err != nil {
		return false
	}
	for _, supported := range contracts.SupportedVersions() {
		s, err := semver.NewVersion(supported)
		if err != nil {
			continue
		}
		if v.Equal(s) {
			return true
		}
	}
	return false
}

// NewestSupportedVersion returns the highest supported protocol version
// tag. It equals contracts.CurrentVersion.
func NewestSupportedVersion() string {
	newest := ""
	var newestParsed *semver.Version
	for _, tag := range contracts.SupportedVersions() {
		v, err := semver.NewVersion(tag)
		if err != nil {
			continue
		}
		if newestParsed == nil || v.GreaterThan(newestParsed) {
			newest = tag
			newestParsed = v
		}
	}
	return newest
}

// CompareVersions orders two protocol version tags. The result is negative
// when a is older than b, zero when equal, positive when newer.
func CompareVersions(a, b string) (int, error) {
	va, err := semver.NewVersion(a)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", a, err)
	}
	vb, err := semver.NewVersion(b)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", b, err)
	}
	return va.Compare(vb), nil
}
