package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brewpub/brew-publisher-go/entities"
	"github.com/brewpub/brew-publisher-go/utils"
	"github.com/cheggaaa/pb/v3"
	ioutils "github.com/jfrog/gofrog/io"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

const (
	DefaultApiUrl = "https://api.github.com"

	acceptHeader      = "application/vnd.github+json"
	zipContentType    = "application/zip"
	defaultTimeout    = 5 * time.Minute
	defaultReleaseMsg = "Released via BrewPublisher"
)

// Client is a stateless typed client for the GitHub release, asset and
// contents endpoints. It owns auth-header injection and status validation and
// is safe to reuse across publish runs.
type Client struct {
	apiUrl     string
	token      string
	httpClient *http.Client
	timeout    time.Duration
	log        utils.Log
	progress   bool
}

type Option func(*Client)

// WithApiUrl overrides the GitHub API base URL. Used by tests.
func WithApiUrl(apiUrl string) Option {
	return func(c *Client) {
		c.apiUrl = strings.TrimSuffix(apiUrl, "/")
	}
}

func WithHttpClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the independent timeout applied to every remote call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithLogger(log utils.Log) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithProgress enables an upload progress bar when stderr is a terminal.
func WithProgress(progress bool) Option {
	return func(c *Client) {
		c.progress = progress
	}
}

func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	client := &Client{
		apiUrl:     DefaultApiUrl,
		token:      token,
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
		log:        &utils.NullLog{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// CreateRelease creates a non-draft release for tag in repo ("owner/name").
func (c *Client) CreateRelease(ctx context.Context, repo, tag string) (*entities.Release, error) {
	requestBody := map[string]interface{}{
		"tag_name":   tag,
		"name":       tag,
		"body":       defaultReleaseMsg,
		"draft":      false,
		"prerelease": false,
	}
	release := new(entities.Release)
	endpoint := fmt.Sprintf("%s/repos/%s/releases", c.apiUrl, repo)
	if err := c.sendJson(ctx, http.MethodPost, endpoint, requestBody, release); err != nil {
		return nil, errors.Wrapf(err, "failed creating release '%s' in %s", tag, repo)
	}
	return release, nil
}

// GetReleaseByTag fetches the release for tag. A 404 is returned as
// ErrNotFound, which callers are expected to recover from.
func (c *Client) GetReleaseByTag(ctx context.Context, repo, tag string) (*entities.Release, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/releases/tags/%s", c.apiUrl, repo, tag)
	status, responseBody, err := c.send(ctx, http.MethodGet, endpoint, "", nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, errors.Wrapf(ErrNotFound, "release '%s' in %s", tag, repo)
	}
	if err := validateStatus(status, responseBody); err != nil {
		return nil, err
	}
	release := new(entities.Release)
	if err := json.Unmarshal(responseBody, release); err != nil {
		return nil, errors.Wrap(err, "failed parsing release response")
	}
	return release, nil
}

// UploadAsset attaches the file at filePath to a release. uploadUrl is the
// release's upload_url URI template; the template suffix is stripped and the
// file name appended as the name query parameter.
func (c *Client) UploadAsset(ctx context.Context, uploadUrl, filePath string) (asset *entities.Asset, err error) {
	endpoint, err := expandUploadUrl(uploadUrl, filepath.Base(filePath))
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read artifact '%s'", filePath)
	}
	defer ioutils.Close(file, &err)
	fileInfo, err := file.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read artifact '%s'", filePath)
	}

	reader, finish := c.progressReader(file, fileInfo.Size())
	defer finish()

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	request, err := http.NewRequestWithContext(callCtx, http.MethodPost, endpoint, reader)
	if err != nil {
		return nil, err
	}
	request.ContentLength = fileInfo.Size()
	request.Header.Set("Authorization", "token "+c.token)
	request.Header.Set("Accept", acceptHeader)
	request.Header.Set("Content-Type", zipContentType)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer ioutils.Close(response.Body, &err)
	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	if err := validateStatus(response.StatusCode, responseBody); err != nil {
		return nil, err
	}
	asset = new(entities.Asset)
	if err := json.Unmarshal(responseBody, asset); err != nil {
		return nil, errors.Wrap(err, "failed parsing asset response")
	}
	return asset, nil
}

// DeleteAsset removes an asset from a release. A 404 is tolerated as success,
// the asset is already gone.
func (c *Client) DeleteAsset(ctx context.Context, repo string, assetId int64) error {
	endpoint := fmt.Sprintf("%s/repos/%s/releases/assets/%d", c.apiUrl, repo, assetId)
	status, responseBody, err := c.send(ctx, http.MethodDelete, endpoint, "", nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		c.log.Debug("asset", assetId, "already deleted")
		return nil
	}
	return validateStatus(status, responseBody)
}

// GetContents returns the current state of a file in repo, or nil (and no
// error) when the file does not exist yet.
func (c *Client) GetContents(ctx context.Context, repo, path string) (*entities.RepositoryFile, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/contents/%s", c.apiUrl, repo, path)
	status, responseBody, err := c.send(ctx, http.MethodGet, endpoint, "", nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err := validateStatus(status, responseBody); err != nil {
		return nil, err
	}
	file := new(entities.RepositoryFile)
	if err := json.Unmarshal(responseBody, file); err != nil {
		return nil, errors.Wrap(err, "failed parsing contents response")
	}
	return file, nil
}

// PutContents creates or updates a file in repo. When sha is non-empty it is
// included in the request body so the remote can reject writes based on stale
// state; it must be supplied whenever the file already exists.
func (c *Client) PutContents(ctx context.Context, repo, path string, content []byte, message, sha string) error {
	requestBody := map[string]interface{}{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
	}
	if sha != "" {
		requestBody["sha"] = sha
	}
	endpoint := fmt.Sprintf("%s/repos/%s/contents/%s", c.apiUrl, repo, path)
	if err := c.sendJson(ctx, http.MethodPut, endpoint, requestBody, nil); err != nil {
		return errors.Wrapf(err, "failed writing '%s' to %s", path, repo)
	}
	return nil
}

// AuthenticatedUser resolves the account behind the configured token.
func (c *Client) AuthenticatedUser(ctx context.Context) (*entities.User, error) {
	user := new(entities.User)
	if err := c.sendJson(ctx, http.MethodGet, c.apiUrl+"/user", nil, user); err != nil {
		return nil, errors.Wrap(err, "failed verifying token")
	}
	return user, nil
}

func (c *Client) sendJson(ctx context.Context, method, endpoint string, requestBody, out interface{}) error {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(encoded)
	}
	status, responseBody, err := c.send(ctx, method, endpoint, "application/json", bodyReader)
	if err != nil {
		return err
	}
	if err := validateStatus(status, responseBody); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(responseBody, out)
}

func (c *Client) send(ctx context.Context, method, endpoint, contentType string, body io.Reader) (status int, responseBody []byte, err error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	request, err := http.NewRequestWithContext(callCtx, method, endpoint, body)
	if err != nil {
		return 0, nil, errors.Wrapf(ErrInvalidEndpoint, "%s: %v", endpoint, err)
	}
	request.Header.Set("Authorization", "token "+c.token)
	request.Header.Set("Accept", acceptHeader)
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	c.log.Debug(method, endpoint)
	response, err := c.httpClient.Do(request)
	if err != nil {
		return 0, nil, err
	}
	defer ioutils.Close(response.Body, &err)
	responseBody, err = io.ReadAll(response.Body)
	if err != nil {
		return 0, nil, err
	}
	return response.StatusCode, responseBody, nil
}

// progressReader wraps the upload stream in a progress bar when running
// interactively. Returns the reader to use and a finalizer.
func (c *Client) progressReader(reader io.Reader, size int64) (io.Reader, func()) {
	if !c.progress || !isatty.IsTerminal(os.Stderr.Fd()) {
		return reader, func() {}
	}
	bar := pb.New64(size).SetMaxWidth(100).Start()
	return bar.NewProxyReader(reader), func() { bar.Finish() }
}

func validateStatus(status int, responseBody []byte) error {
	if status >= 200 && status <= 299 {
		return nil
	}
	return &ApiError{Status: status, Body: string(responseBody)}
}

// expandUploadUrl strips the "{?name,label}" template suffix from a release
// upload_url and appends the literal file name as the name query parameter.
func expandUploadUrl(uploadUrl, fileName string) (string, error) {
	clean := uploadUrl
	if index := strings.Index(clean, "{"); index != -1 {
		clean = clean[:index]
	}
	parsed, err := url.Parse(clean)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", errors.Wrapf(ErrInvalidEndpoint, "upload URL '%s'", uploadUrl)
	}
	query := parsed.Query()
	query.Set("name", fileName)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
