package entities

// Release is a tagged publication point on GitHub to which assets are attached.
// UploadUrl is a URI template ("...{?name,label}") as returned by the API.
type Release struct {
	Id        int64   `json:"id"`
	TagName   string  `json:"tag_name"`
	UploadUrl string  `json:"upload_url"`
	HtmlUrl   string  `json:"html_url"`
	Assets    []Asset `json:"assets"`
}

// Asset is a binary file attached to a release.
type Asset struct {
	Id                 int64  `json:"id"`
	Name               string `json:"name"`
	BrowserDownloadUrl string `json:"browser_download_url"`
}

// RepositoryFile describes the current state of a file in a repository.
// Sha is the optimistic-concurrency token required when overwriting it.
type RepositoryFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Sha  string `json:"sha"`
}

// User is the authenticated GitHub account.
type User struct {
	Id        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarUrl string `json:"avatar_url"`
}
