package publish

import (
	"context"
	"testing"

	"github.com/brewpub/brew-publisher-go/entities"
	"github.com/brewpub/brew-publisher-go/github"
	"github.com/brewpub/brew-publisher-go/utils"
	"github.com/stretchr/testify/assert"
)

func TestUpsertFileOmitsShaForNewFile(t *testing.T) {
	client := &fakeClient{}

	err := upsertFile(context.Background(), client, "octocat/homebrew-tap", "Formula/mytool.rb", []byte("content"), "msg", false, &utils.NullLog{})
	assert.NoError(t, err)
	assert.Equal(t, 1, client.getContentsCalls)
	assert.Equal(t, 1, client.putContentsCalls)
	assert.False(t, client.putShaSupplied)
}

func TestUpsertFileSuppliesExistingSha(t *testing.T) {
	client := &fakeClient{
		getContentsFunc: func(repo, path string) (*entities.RepositoryFile, error) {
			return &entities.RepositoryFile{Sha: "abc123"}, nil
		},
	}

	err := upsertFile(context.Background(), client, "octocat/homebrew-tap", "Formula/mytool.rb", []byte("content"), "msg", false, &utils.NullLog{})
	assert.NoError(t, err)
	assert.Equal(t, "abc123", client.putSha)
}

func TestUpsertFileReadFailureIsFatalByDefault(t *testing.T) {
	client := &fakeClient{
		getContentsFunc: func(repo, path string) (*entities.RepositoryFile, error) {
			return nil, &github.ApiError{Status: 500, Body: "server error"}
		},
	}

	err := upsertFile(context.Background(), client, "octocat/homebrew-tap", "Formula/mytool.rb", []byte("content"), "msg", false, &utils.NullLog{})
	assert.Error(t, err)
	assert.Equal(t, 0, client.putContentsCalls)
}

func TestUpsertFileBestEffortReadProceedsAsNew(t *testing.T) {
	client := &fakeClient{
		getContentsFunc: func(repo, path string) (*entities.RepositoryFile, error) {
			return nil, &github.ApiError{Status: 500, Body: "server error"}
		},
	}

	err := upsertFile(context.Background(), client, "octocat/homebrew-tap", "Formula/mytool.rb", []byte("content"), "msg", true, &utils.NullLog{})
	assert.NoError(t, err)
	assert.Equal(t, 1, client.putContentsCalls)
	assert.False(t, client.putShaSupplied)
}
