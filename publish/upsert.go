package publish

import (
	"context"

	"github.com/brewpub/brew-publisher-go/utils"
	"github.com/pkg/errors"
)

// upsertFile creates or updates a text file in repo using the file's current
// content hash as the optimistic-concurrency token. The get-then-put sequence
// is not transactional; the remote's own conflict check on the write is the
// real correctness guarantee, this function only supplies the best-known hash
// as of the read.
//
// A failed existence check (anything other than a clean "absent") aborts the
// upsert unless bestEffortRead is set, in which case the file is treated as
// new and the remote is left to reject the write if it does exist.
func upsertFile(ctx context.Context, client GitHubClient, repo, path string, content []byte, message string, bestEffortRead bool, log utils.Log) error {
	sha := ""
	existing, err := client.GetContents(ctx, repo, path)
	switch {
	case err != nil && !bestEffortRead:
		return errors.Wrapf(err, "failed checking for existing file '%s'", path)
	case err != nil:
		log.Warn("Could not check for an existing", path, "- treating the file as new:", err)
	case existing != nil:
		sha = existing.Sha
	}
	return client.PutContents(ctx, repo, path, content, message, sha)
}
