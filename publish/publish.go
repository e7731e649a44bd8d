package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/brewpub/brew-publisher-go/entities"
	"github.com/brewpub/brew-publisher-go/utils"
)

// GitHubClient is the remote surface the publish workflow depends on.
// *github.Client implements it; tests substitute fakes.
type GitHubClient interface {
	CreateRelease(ctx context.Context, repo, tag string) (*entities.Release, error)
	GetReleaseByTag(ctx context.Context, repo, tag string) (*entities.Release, error)
	UploadAsset(ctx context.Context, uploadUrl, filePath string) (*entities.Asset, error)
	DeleteAsset(ctx context.Context, repo string, assetId int64) error
	GetContents(ctx context.Context, repo, path string) (*entities.RepositoryFile, error)
	PutContents(ctx context.Context, repo, path string, content []byte, message, sha string) error
}

// State identifies the current step of a publish run.
type State string

const (
	StateIdle                   State = "idle"
	StateHashing                State = "hashing"
	StateResolvingRelease       State = "resolving-release"
	StateResolvingAssetConflict State = "resolving-asset-conflict"
	StateUploading              State = "uploading"
	StateGeneratingManifest     State = "generating-manifest"
	StateUpsertingFile          State = "upserting-file"
	StateSucceeded              State = "succeeded"
	StateFailed                 State = "failed"
)

// EventSink receives each progress event as it is appended, in order. It is
// the one-way channel towards any presentation layer; the sink must not block.
type EventSink func(entities.Event)

// Result is the terminal outcome of one publish run. Events holds the full
// ordered transcript regardless of success or failure.
type Result struct {
	State        State
	Events       []entities.Event
	Digest       string
	Release      *entities.Release
	Asset        *entities.Asset
	ManifestPath string
}

// Publisher sequences a publish run: hash the artifact, resolve the release,
// clear a conflicting asset, upload, render the manifest and commit it to the
// tap repository. Steps run strictly in order, there is no automatic retry,
// and partially completed remote side effects are not rolled back; re-running
// the whole workflow is the recovery path (release resolution and asset
// replacement are idempotent).
type Publisher struct {
	client         GitHubClient
	log            utils.Log
	registry       *Registry
	sink           EventSink
	bestEffortRead bool
}

type PublisherOption func(*Publisher)

func WithLogger(log utils.Log) PublisherOption {
	return func(p *Publisher) {
		p.log = log
	}
}

// WithEventSink registers a callback invoked for every appended event.
func WithEventSink(sink EventSink) PublisherOption {
	return func(p *Publisher) {
		p.sink = sink
	}
}

// WithRegistry shares a run-lock registry between publishers. By default each
// Publisher carries its own.
func WithRegistry(registry *Registry) PublisherOption {
	return func(p *Publisher) {
		p.registry = registry
	}
}

// WithBestEffortRead makes a failed pre-write file-existence check non-fatal,
// matching the historical behavior. Off by default: a transient error while
// reading the current manifest hash would otherwise cause an unconditional
// create attempt against unknown remote state.
func WithBestEffortRead(bestEffort bool) PublisherOption {
	return func(p *Publisher) {
		p.bestEffortRead = bestEffort
	}
}

func NewPublisher(client GitHubClient, opts ...PublisherOption) *Publisher {
	publisher := &Publisher{
		client:   client,
		log:      &utils.NullLog{},
		registry: NewRegistry(),
	}
	for _, opt := range opts {
		opt(publisher)
	}
	return publisher
}

type run struct {
	*Publisher
	req    *entities.PublishRequest
	result *Result
}

// Publish executes one run for req. The returned Result is non-nil even on
// failure and carries the ordered event transcript; the error is the same
// failure reported by the terminal error event.
func (p *Publisher) Publish(ctx context.Context, req *entities.PublishRequest) (*Result, error) {
	r := &run{Publisher: p, req: req, result: &Result{State: StateIdle}}
	if err := req.Validate(); err != nil {
		return r.fail(err)
	}
	if err := p.registry.acquire(req.FullSourceRepo(), req.Version); err != nil {
		return r.fail(err)
	}
	defer p.registry.release(req.FullSourceRepo(), req.Version)
	return r.execute(ctx)
}

func (r *run) execute(ctx context.Context) (*Result, error) {
	req := r.req

	// Hash the artifact.
	if err := r.enter(ctx, StateHashing); err != nil {
		return r.fail(err)
	}
	r.emit(entities.SeverityInfo, "Computing SHA256 of "+req.ArtifactFileName()+"...")
	digest, err := utils.GetFileSha256(req.ArtifactPath)
	if err != nil {
		return r.fail(err)
	}
	r.result.Digest = digest
	r.emit(entities.SeveritySuccess, "SHA256: "+shortDigest(digest))

	// Resolve the release for the version tag.
	if err := r.enter(ctx, StateResolvingRelease); err != nil {
		return r.fail(err)
	}
	r.emit(entities.SeverityInfo, "Checking release "+req.Version+"...")
	release, created, err := resolveRelease(ctx, r.client, req.FullSourceRepo(), req.Version)
	if err != nil {
		return r.fail(err)
	}
	r.result.Release = release
	if created {
		r.emit(entities.SeverityInfo, "Created release "+req.Version)
	} else {
		r.emit(entities.SeverityWarning, "Release "+req.Version+" already exists, reusing it")
	}

	// Clear a same-named asset so the upload replaces instead of erroring.
	if err := r.enter(ctx, StateResolvingAssetConflict); err != nil {
		return r.fail(err)
	}
	deleted, err := clearConflictingAsset(ctx, r.client, req.FullSourceRepo(), release, req.ArtifactFileName())
	if err != nil {
		return r.fail(err)
	}
	if deleted != nil {
		r.emit(entities.SeverityWarning, fmt.Sprintf("Deleted existing asset %s (id %d)", deleted.Name, deleted.Id))
	}

	// Attach the artifact.
	if err := r.enter(ctx, StateUploading); err != nil {
		return r.fail(err)
	}
	r.emit(entities.SeverityInfo, "Uploading "+req.ArtifactFileName()+"...")
	asset, err := r.client.UploadAsset(ctx, release.UploadUrl, req.ArtifactPath)
	if err != nil {
		return r.fail(err)
	}
	r.result.Asset = asset

	// Render the manifest.
	if err := r.enter(ctx, StateGeneratingManifest); err != nil {
		return r.fail(err)
	}
	content, manifestPath, err := GenerateManifest(entities.ManifestSpec{
		Kind:        req.Kind,
		Name:        req.Name,
		Description: req.Description,
		Homepage:    req.Homepage,
		Version:     req.Version,
		Sha256:      digest,
		DownloadUrl: asset.BrowserDownloadUrl,
	})
	if err != nil {
		return r.fail(err)
	}
	r.result.ManifestPath = manifestPath

	// Commit the manifest to the tap repository.
	if err := r.enter(ctx, StateUpsertingFile); err != nil {
		return r.fail(err)
	}
	r.emit(entities.SeverityInfo, "Committing "+manifestPath+" to "+req.FullTapRepo()+"...")
	message := fmt.Sprintf("Update %s to %s (%s)", req.Name, req.Version, kindLabel(req.Kind))
	if err := upsertFile(ctx, r.client, req.FullTapRepo(), manifestPath, []byte(content), message, r.bestEffortRead, r.log); err != nil {
		return r.fail(err)
	}

	r.result.State = StateSucceeded
	r.emit(entities.SeveritySuccess, "Published "+req.Name+" "+req.Version)
	r.emit(entities.SeveritySuccess, "Install with: "+installHint(req))
	return r.result, nil
}

// enter moves the run to the next state, honoring cancellation between steps.
func (r *run) enter(ctx context.Context, state State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.result.State = state
	return nil
}

func (r *run) fail(err error) (*Result, error) {
	r.result.State = StateFailed
	r.emit(entities.SeverityError, err.Error())
	return r.result, err
}

func (r *run) emit(severity entities.Severity, message string) {
	event := entities.Event{Severity: severity, Message: message, Time: time.Now()}
	r.result.Events = append(r.result.Events, event)
	switch severity {
	case entities.SeverityWarning:
		r.log.Warn(message)
	case entities.SeverityError:
		r.log.Error(message)
	default:
		r.log.Info(message)
	}
	if r.sink != nil {
		r.sink(event)
	}
}

func installHint(req *entities.PublishRequest) string {
	if req.Kind == entities.Cask {
		return "brew install --cask " + req.FullTapRepo() + "/" + req.Name
	}
	return "brew install " + req.FullTapRepo() + "/" + req.Name
}

func kindLabel(kind entities.PublishKind) string {
	if kind == entities.Cask {
		return "Cask"
	}
	return "Formula"
}

func shortDigest(digest string) string {
	if len(digest) > 8 {
		return digest[:8] + "..."
	}
	return digest
}
