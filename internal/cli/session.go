package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/basher/internal/analyzer"
	"github.com/temirov/basher/internal/assistant"
	"github.com/temirov/basher/internal/cache"
	"github.com/temirov/basher/internal/config"
	"github.com/temirov/basher/internal/services/clipboard"
	"github.com/temirov/basher/internal/services/process"
	"github.com/temirov/basher/internal/utils"
	"github.com/temirov/basher/internal/verify"
	"github.com/temirov/basher/internal/version"
)

var errCacheDisabled = errors.New("analysis cache is disabled by configuration")

// dependencies are the process-level collaborators the commands share.
type dependencies struct {
	runner           process.Runner
	resolver         process.ExecutableResolver
	copier           clipboard.Copier
	stdin            io.Reader
	stdout           io.Writer
	stderr           io.Writer
	progressFile     *os.File
	workingDirectory string
}

func defaultDependencies() dependencies {
	return dependencies{
		runner:       process.NewSystemRunner(),
		resolver:     process.PathResolver{},
		copier:       clipboard.NewService(),
		stdin:        os.Stdin,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		progressFile: os.Stderr,
	}
}

type rootOptions struct {
	configPath  string
	debug       bool
	showVersion bool
}

// session lazily assembles configuration, logging and the assistant for one invocation.
type session struct {
	dependencies  dependencies
	options       *rootOptions
	loaded        bool
	configuration config.ApplicationConfiguration
	logger        *zap.Logger
	store         *cache.Store
	helper        *assistant.Assistant
}

func newSession(deps dependencies, options *rootOptions) *session {
	return &session{dependencies: deps, options: options}
}

func (session *session) load() error {
	if session.loaded {
		return nil
	}
	configuration, configErr := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: session.dependencies.workingDirectory,
		ExplicitFilePath: session.options.configPath,
	})
	if configErr != nil {
		return configErr
	}
	logger, loggerErr := utils.NewApplicationLogger(session.options.debug)
	if loggerErr != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerErr)
	}

	analysisConfiguration := configuration.Analysis
	detector := version.NewDetector(
		session.dependencies.runner,
		session.dependencies.resolver,
		version.WithProbeTimeout(config.DurationOr(analysisConfiguration.VersionTimeout, 0)),
		version.WithLogger(logger),
	)
	commandAnalyzer := analyzer.New(
		session.dependencies.runner,
		session.dependencies.resolver,
		detector,
		analyzer.Options{
			HelpTimeout:       config.DurationOr(analysisConfiguration.HelpTimeout, 0),
			CompletionTimeout: config.DurationOr(analysisConfiguration.CompletionTimeout, 0),
			FanOut:            config.IntOr(analysisConfiguration.FanOut, 0),
			NestedLimit:       config.IntOr(analysisConfiguration.NestedLimit, 0),
			CompletionLimit:   config.IntOr(analysisConfiguration.CompletionLimit, 0),
		},
		logger,
	)

	assistantConfig := assistant.Config{
		Analyzer:            commandAnalyzer,
		Verifier:            verify.NewVerifier(session.dependencies.resolver),
		ExtraSystemCommands: configuration.SystemCommands.Extra,
		Logger:              logger,
	}
	if !config.BoolOr(configuration.Cache.Disabled, false) {
		cachePath, pathErr := resolveCachePath(configuration.Cache)
		if pathErr != nil {
			return pathErr
		}
		session.store = cache.Open(cachePath, detector, cache.WithLogger(logger))
		assistantConfig.Cache = session.store
	}

	session.configuration = configuration
	session.logger = logger
	session.helper = assistant.New(assistantConfig)
	session.loaded = true
	return nil
}

func resolveCachePath(configuration config.CacheConfiguration) (string, error) {
	directory, err := configuration.ResolveCacheDirectory()
	if err != nil {
		return "", err
	}
	if directory == "" {
		return cache.DefaultPath(), nil
	}
	return filepath.Join(directory, cache.FileName), nil
}

func (session *session) cacheStore() (*cache.Store, error) {
	if session.store == nil {
		return nil, errCacheDisabled
	}
	return session.store, nil
}

func (session *session) close() {
	if session.logger != nil {
		_ = session.logger.Sync()
	}
}
