package publish

import (
	"context"

	"github.com/brewpub/brew-publisher-go/entities"
	"github.com/brewpub/brew-publisher-go/github"
)

// resolveRelease implements get-or-create semantics for a release tag: an
// existing release is reused, a missing one is created, and any failure other
// than not-found propagates unchanged. Re-running a publish for the same tag
// therefore never fails with "tag already exists".
func resolveRelease(ctx context.Context, client GitHubClient, repo, tag string) (release *entities.Release, created bool, err error) {
	release, err = client.GetReleaseByTag(ctx, repo, tag)
	if err == nil {
		return release, false, nil
	}
	if !github.IsNotFound(err) {
		return nil, false, err
	}
	release, err = client.CreateRelease(ctx, repo, tag)
	if err != nil {
		return nil, false, err
	}
	return release, true, nil
}
