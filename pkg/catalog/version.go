package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/calebmaier/swiftadd/pkg/errors"
)

// latestVersion finds the version to pin for a repository: the tag of
// the latest published release, falling back to the highest stable
// semver tag when the repository has never cut a release.
func (c *Client) latestVersion(ctx context.Context, fullName string, refresh bool) (string, error) {
	var release releaseResponse
	err := c.cached(ctx, "release:"+fullName, refresh, &release, func() error {
		return c.get(ctx, fmt.Sprintf("%s/repos/%s/releases/latest", c.baseURL, fullName), &release)
	})
	if err == nil && release.TagName != "" {
		return strings.TrimPrefix(release.TagName, "v"), nil
	}
	if err != nil && !errors.Is(err, errors.ErrCodePackageNotFound) {
		return "", err
	}

	var tags []tagResponse
	err = c.cached(ctx, "tags:"+fullName, refresh, &tags, func() error {
		return c.get(ctx, fmt.Sprintf("%s/repos/%s/tags", c.baseURL, fullName), &tags)
	})
	if err != nil {
		return "", err
	}

	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	best, ok := HighestStable(names)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidVersion, "%s has no version tags to pin", fullName)
	}
	return best, nil
}

// HighestStable returns the highest non-prerelease semantic version
// among tags, without a leading v. Tags that do not parse as semver are
// ignored.
func HighestStable(tags []string) (string, bool) {
	var best *semver.Version
	for _, tag := range tags {
		v, err := semver.NewVersion(strings.TrimPrefix(tag, "v"))
		if err != nil || v.Prerelease() != "" {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
		}
	}
	if best == nil {
		return "", false
	}
	return best.String(), true
}

// ValidateVersion checks a user-supplied version override.
func ValidateVersion(version string) error {
	if _, err := semver.NewVersion(strings.TrimPrefix(version, "v")); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidVersion, err, "invalid version %q", version)
	}
	return nil
}
