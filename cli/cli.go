package cli

import (
	gocontext "context"
	"encoding/json"
	"fmt"

	"github.com/brewpub/brew-publisher-go/entities"
	"github.com/brewpub/brew-publisher-go/github"
	"github.com/brewpub/brew-publisher-go/metadata"
	"github.com/brewpub/brew-publisher-go/publish"
	"github.com/brewpub/brew-publisher-go/utils"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	clitool "github.com/urfave/cli/v2"
)

const (
	tokenFlag       = "token"
	configFlag      = "config"
	fileFlag        = "file"
	nameFlag        = "name"
	versionFlag     = "version"
	descriptionFlag = "desc"
	homepageFlag    = "homepage"
	ownerFlag       = "owner"
	repoFlag        = "repo"
	tapFlag         = "tap"
	kindFlag        = "kind"
	requestFileFlag = "request-file"
	bestEffortFlag  = "best-effort-read"
	noProgressFlag  = "no-progress"
	urlFlag         = "url"
	sha256Flag      = "sha256"

	defaultTapRepo = "homebrew-tap"
)

func GetCommands(logger utils.Log) []*clitool.Command {
	tokenFlags := []clitool.Flag{
		&clitool.StringFlag{
			Name:    tokenFlag,
			Usage:   "GitHub token used for all API calls.` `",
			EnvVars: []string{"GITHUB_TOKEN"},
		},
		&clitool.StringFlag{
			Name:  configFlag,
			Usage: "[Optional] Path to a TOML config file with default values. Defaults to ~/.brewpub.toml.` `",
		},
	}

	publishFlags := append([]clitool.Flag{
		&clitool.StringFlag{Name: fileFlag, Usage: "Path to the zip artifact to publish.` `"},
		&clitool.StringFlag{Name: nameFlag, Usage: "Package name. Inferred from the artifact when omitted.` `"},
		&clitool.StringFlag{Name: versionFlag, Usage: "Version tag of the release. Inferred from the artifact when omitted.` `"},
		&clitool.StringFlag{Name: descriptionFlag, Usage: "[Optional] Package description.` `"},
		&clitool.StringFlag{Name: homepageFlag, Usage: "[Optional] Package homepage URL.` `"},
		&clitool.StringFlag{Name: ownerFlag, Usage: "Repository owner. Defaults to the authenticated user.` `"},
		&clitool.StringFlag{Name: repoFlag, Usage: "Source repository name (without the owner).` `"},
		&clitool.StringFlag{Name: tapFlag, Usage: fmt.Sprintf("Tap repository name. Defaults to '%s'.` `", defaultTapRepo)},
		&clitool.StringFlag{Name: kindFlag, Usage: "Package kind: 'formula' for CLI tools, 'cask' for macOS apps. Defaults to 'cask'.` `"},
		&clitool.StringFlag{Name: requestFileFlag, Usage: "[Optional] Load the whole publish request from a JSON file instead of flags.` `"},
		&clitool.BoolFlag{Name: bestEffortFlag, Usage: "[Optional] Treat a failed tap-file existence check as 'file is new' instead of aborting.` `"},
		&clitool.BoolFlag{Name: noProgressFlag, Usage: "[Optional] Disable the upload progress bar.` `"},
	}, tokenFlags...)

	return []*clitool.Command{
		{
			Name:      "publish",
			Usage:     "Publish a zip artifact as a GitHub release and update the Homebrew tap",
			UsageText: "brewpub publish --file dist/mytool-1.2.0.zip --repo mytool --kind formula",
			Flags:     publishFlags,
			Action: func(context *clitool.Context) error {
				return publishCmd(context, logger)
			},
		},
		{
			Name:      "render",
			Usage:     "Render a formula or cask manifest to stdout without touching the network",
			UsageText: "brewpub render --name mytool --version 1.2.0 --url https://... --sha256 ...",
			Flags: []clitool.Flag{
				&clitool.StringFlag{Name: nameFlag, Usage: "Package name.` `"},
				&clitool.StringFlag{Name: versionFlag, Usage: "Package version.` `"},
				&clitool.StringFlag{Name: descriptionFlag, Usage: "[Optional] Package description.` `"},
				&clitool.StringFlag{Name: homepageFlag, Usage: "[Optional] Package homepage URL.` `"},
				&clitool.StringFlag{Name: urlFlag, Usage: "Artifact download URL.` `"},
				&clitool.StringFlag{Name: sha256Flag, Usage: "Artifact SHA256 digest.` `"},
				&clitool.StringFlag{Name: kindFlag, Usage: "Package kind: 'formula' or 'cask'. Defaults to 'cask'.` `"},
			},
			Action: renderCmd,
		},
		{
			Name:      "whoami",
			Usage:     "Verify the configured token and print the authenticated user",
			UsageText: "brewpub whoami",
			Flags:     tokenFlags,
			Action: func(context *clitool.Context) error {
				return whoamiCmd(context, logger)
			},
		},
		{
			Name:      "inspect",
			Usage:     "Print the app bundle metadata found inside a zip artifact",
			UsageText: "brewpub inspect --file MyApp-1.0.zip",
			Flags: []clitool.Flag{
				&clitool.StringFlag{Name: fileFlag, Usage: "Path to the zip artifact.` `"},
			},
			Action: inspectCmd,
		},
	}
}

func publishCmd(context *clitool.Context, logger utils.Log) error {
	config, err := loadConfig(context)
	if err != nil {
		return err
	}

	var request *entities.PublishRequest
	if requestFile := context.String(requestFileFlag); requestFile != "" {
		request, err = LoadRequestFile(requestFile)
		if err != nil {
			return err
		}
	} else {
		request = requestFromFlags(context, config)
	}

	client, err := newClient(context, config, logger)
	if err != nil {
		return err
	}
	if err := completeRequest(context.Context, request, client, logger); err != nil {
		return err
	}
	if !entities.IsSemverTag(request.Version) {
		logger.Warn("Version tag", request.Version, "is not a semantic version")
	}

	publisher := publish.NewPublisher(
		client,
		publish.WithLogger(logger),
		publish.WithEventSink(printEvent),
		publish.WithBestEffortRead(context.Bool(bestEffortFlag)),
	)
	_, err = publisher.Publish(context.Context, request)
	return err
}

func renderCmd(context *clitool.Context) error {
	content, path, err := publish.GenerateManifest(entities.ManifestSpec{
		Kind:        kindOrDefault(context.String(kindFlag)),
		Name:        context.String(nameFlag),
		Description: context.String(descriptionFlag),
		Homepage:    context.String(homepageFlag),
		Version:     context.String(versionFlag),
		Sha256:      context.String(sha256Flag),
		DownloadUrl: context.String(urlFlag),
	})
	if err != nil {
		return err
	}
	fmt.Println("# " + path)
	fmt.Print(content)
	return nil
}

func whoamiCmd(context *clitool.Context, logger utils.Log) error {
	config, err := loadConfig(context)
	if err != nil {
		return err
	}
	client, err := newClient(context, config, logger)
	if err != nil {
		return err
	}
	user, err := client.AuthenticatedUser(context.Context)
	if err != nil {
		return err
	}
	if user.Name != "" {
		fmt.Printf("%s (%s)\n", user.Login, user.Name)
		return nil
	}
	fmt.Println(user.Login)
	return nil
}

func inspectCmd(context *clitool.Context) error {
	filePath := context.String(fileFlag)
	if filePath == "" {
		return errors.New("an artifact file must be provided")
	}
	info, err := metadata.Inspect(filePath)
	if err != nil {
		return err
	}
	encoded, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

func loadConfig(context *clitool.Context) (*utils.Config, error) {
	path := context.String(configFlag)
	if path == "" {
		defaultPath, err := utils.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}
	return utils.LoadConfig(path)
}

func newClient(context *clitool.Context, config *utils.Config, logger utils.Log) (*github.Client, error) {
	token := context.String(tokenFlag)
	if token == "" {
		token = config.Token
	}
	return github.NewClient(
		token,
		github.WithLogger(logger),
		github.WithProgress(!context.Bool(noProgressFlag)),
	)
}

func requestFromFlags(context *clitool.Context, config *utils.Config) *entities.PublishRequest {
	request := &entities.PublishRequest{
		ArtifactPath: context.String(fileFlag),
		Name:         context.String(nameFlag),
		Version:      context.String(versionFlag),
		Description:  context.String(descriptionFlag),
		Homepage:     context.String(homepageFlag),
		Owner:        context.String(ownerFlag),
		SourceRepo:   context.String(repoFlag),
		TapRepo:      context.String(tapFlag),
		Kind:         kindOrDefault(context.String(kindFlag)),
	}
	if request.Owner == "" {
		request.Owner = config.Owner
	}
	if request.Homepage == "" {
		request.Homepage = config.Homepage
	}
	if request.TapRepo == "" {
		request.TapRepo = config.TapRepo
	}
	if request.TapRepo == "" {
		request.TapRepo = defaultTapRepo
	}
	return request
}

// completeRequest fills request fields that can be derived instead of typed:
// name and version from the artifact's bundle metadata, owner from the
// authenticated user. Metadata extraction is best-effort and never fatal.
func completeRequest(ctx gocontext.Context, request *entities.PublishRequest, client *github.Client, logger utils.Log) error {
	if request.ArtifactPath != "" && (request.Name == "" || request.Version == "") {
		info, err := metadata.Inspect(request.ArtifactPath)
		if err != nil {
			logger.Debug("skipping artifact metadata:", err)
		} else {
			if request.Name == "" {
				request.Name = info.Name
			}
			if request.Version == "" {
				request.Version = info.Version
			}
		}
	}
	if request.SourceRepo == "" && request.Name != "" {
		request.SourceRepo = request.Name
	}
	if request.Owner == "" {
		user, err := client.AuthenticatedUser(ctx)
		if err != nil {
			return err
		}
		request.Owner = user.Login
	}
	return nil
}

// printEvent renders one publish event per line, colored by severity.
func printEvent(event entities.Event) {
	switch event.Severity {
	case entities.SeveritySuccess:
		color.Green(" ✔ %s", event.Message)
	case entities.SeverityWarning:
		color.Yellow(" ! %s", event.Message)
	case entities.SeverityError:
		color.Red(" ✘ %s", event.Message)
	default:
		fmt.Println(color.BlueString(" •"), event.Message)
	}
}

func kindOrDefault(kind string) entities.PublishKind {
	if kind == "" {
		return entities.Cask
	}
	return entities.PublishKind(kind)
}
