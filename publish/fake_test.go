package publish

import (
	"context"

	"github.com/brewpub/brew-publisher-go/entities"
	"github.com/brewpub/brew-publisher-go/github"
)

// fakeClient implements GitHubClient with per-operation hooks and call
// counters, so tests can assert exactly which remote calls a step issued.
type fakeClient struct {
	createReleaseCalls int
	getReleaseCalls    int
	uploadCalls        int
	deleteCalls        int
	getContentsCalls   int
	putContentsCalls   int

	deletedAssetIds []int64
	putSha          string
	putShaSupplied  bool

	createReleaseFunc func(repo, tag string) (*entities.Release, error)
	getReleaseFunc    func(repo, tag string) (*entities.Release, error)
	uploadFunc        func(uploadUrl, filePath string) (*entities.Asset, error)
	deleteFunc        func(repo string, assetId int64) error
	getContentsFunc   func(repo, path string) (*entities.RepositoryFile, error)
	putContentsFunc   func(repo, path string, content []byte, message, sha string) error
}

func (f *fakeClient) CreateRelease(_ context.Context, repo, tag string) (*entities.Release, error) {
	f.createReleaseCalls++
	if f.createReleaseFunc != nil {
		return f.createReleaseFunc(repo, tag)
	}
	return &entities.Release{Id: 1, TagName: tag, UploadUrl: "https://uploads.example.com/1/assets{?name,label}"}, nil
}

func (f *fakeClient) GetReleaseByTag(_ context.Context, repo, tag string) (*entities.Release, error) {
	f.getReleaseCalls++
	if f.getReleaseFunc != nil {
		return f.getReleaseFunc(repo, tag)
	}
	return nil, github.ErrNotFound
}

func (f *fakeClient) UploadAsset(_ context.Context, uploadUrl, filePath string) (*entities.Asset, error) {
	f.uploadCalls++
	if f.uploadFunc != nil {
		return f.uploadFunc(uploadUrl, filePath)
	}
	return &entities.Asset{Id: 100, Name: "x.zip", BrowserDownloadUrl: "https://dl/x.zip"}, nil
}

func (f *fakeClient) DeleteAsset(_ context.Context, repo string, assetId int64) error {
	f.deleteCalls++
	f.deletedAssetIds = append(f.deletedAssetIds, assetId)
	if f.deleteFunc != nil {
		return f.deleteFunc(repo, assetId)
	}
	return nil
}

func (f *fakeClient) GetContents(_ context.Context, repo, path string) (*entities.RepositoryFile, error) {
	f.getContentsCalls++
	if f.getContentsFunc != nil {
		return f.getContentsFunc(repo, path)
	}
	return nil, nil
}

func (f *fakeClient) PutContents(_ context.Context, repo, path string, content []byte, message, sha string) error {
	f.putContentsCalls++
	f.putSha = sha
	f.putShaSupplied = sha != ""
	if f.putContentsFunc != nil {
		return f.putContentsFunc(repo, path, content, message, sha)
	}
	return nil
}
