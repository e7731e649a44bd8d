package publish

import (
	"context"

	"github.com/brewpub/brew-publisher-go/entities"
	"golang.org/x/exp/slices"
)

// clearConflictingAsset deletes an already attached asset carrying the same
// file name, if any. GitHub rejects uploads whose name collides with an
// existing asset on the same release, so deleting first makes re-publishing
// the same version replace the artifact instead of erroring.
func clearConflictingAsset(ctx context.Context, client GitHubClient, repo string, release *entities.Release, fileName string) (*entities.Asset, error) {
	index := slices.IndexFunc(release.Assets, func(asset entities.Asset) bool {
		return asset.Name == fileName
	})
	if index == -1 {
		return nil, nil
	}
	conflicting := release.Assets[index]
	if err := client.DeleteAsset(ctx, repo, conflicting.Id); err != nil {
		return nil, err
	}
	return &conflicting, nil
}
