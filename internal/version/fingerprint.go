// Package version derives a version fingerprint for an installed CLI tool.
package version

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"

	"github.com/temirov/basher/internal/services/process"
	"github.com/temirov/basher/internal/types"
)

const (
	defaultProbeTimeout = 2 * time.Second
	mtimePrefix         = "mtime-"
)

// FingerprintKind classifies a fingerprint for display.
type FingerprintKind string

const (
	KindSemver  FingerprintKind = "semver"
	KindMtime   FingerprintKind = "mtime"
	KindOpaque  FingerprintKind = "opaque"
	KindUnknown FingerprintKind = "unknown"
)

var probeFlags = []string{"--version", "-v", "version"}

// versionPatterns are tried in order; the first capture wins.
var versionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)version\s+([0-9]+\.[0-9]+\.[0-9]+)`),
	regexp.MustCompile(`(?i)v?([0-9]+\.[0-9]+\.[0-9]+)`),
	regexp.MustCompile(`(?i)([0-9]+\.[0-9]+)`),
	regexp.MustCompile(`(?i)Version:\s*([^\s]+)`),
	regexp.MustCompile(`(?i)version\s+([^\s]+)`),
}

// FileStater reports file metadata.
type FileStater func(path string) (os.FileInfo, error)

// Detector produces version fingerprints by probing a command.
type Detector struct {
	runner   process.Runner
	resolver process.ExecutableResolver
	stat     FileStater
	timeout  time.Duration
	logger   *zap.Logger
}

// Option customizes a Detector.
type Option func(*Detector)

// WithProbeTimeout overrides the per-probe time budget.
func WithProbeTimeout(timeout time.Duration) Option {
	return func(detector *Detector) {
		if timeout > 0 {
			detector.timeout = timeout
		}
	}
}

// WithFileStater overrides how executable modification times are read.
func WithFileStater(stat FileStater) Option {
	return func(detector *Detector) {
		if stat != nil {
			detector.stat = stat
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(detector *Detector) {
		if logger != nil {
			detector.logger = logger
		}
	}
}

// NewDetector constructs a Detector.
func NewDetector(runner process.Runner, resolver process.ExecutableResolver, options ...Option) *Detector {
	detector := &Detector{
		runner:   runner,
		resolver: resolver,
		stat:     os.Stat,
		timeout:  defaultProbeTimeout,
		logger:   zap.NewNop(),
	}
	for _, option := range options {
		option(detector)
	}
	return detector
}

// Detect returns a version string, an mtime-based fingerprint, or "unknown".
func (detector *Detector) Detect(ctx context.Context, command string) string {
	executablePath, lookupErr := detector.resolver.LookPath(command)
	if lookupErr != nil {
		return types.UnknownVersion
	}

	for _, flag := range probeFlags {
		result := detector.runner.Run(ctx, detector.timeout, command, flag)
		if result.Err != nil {
			detector.logger.Debug("version probe failed", zap.String("command", command), zap.String("flag", flag), zap.Error(result.Err))
			continue
		}
		text := result.Stdout
		if strings.TrimSpace(text) == "" {
			text = result.Stderr
		}
		if extracted := ExtractVersion(text); extracted != "" {
			return extracted
		}
	}

	info, statErr := detector.stat(executablePath)
	if statErr != nil {
		detector.logger.Debug("stat executable failed", zap.String("path", executablePath), zap.Error(statErr))
		return types.UnknownVersion
	}
	return fmt.Sprintf("%s%d", mtimePrefix, info.ModTime().Unix())
}

// ExtractVersion applies the ordered version patterns to text.
func ExtractVersion(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	for _, pattern := range versionPatterns {
		if match := pattern.FindStringSubmatch(text); len(match) > 1 {
			return match[1]
		}
	}
	return ""
}

// Kind classifies a fingerprint.
func Kind(fingerprint string) FingerprintKind {
	trimmed := strings.TrimSpace(fingerprint)
	switch {
	case trimmed == "" || trimmed == types.UnknownVersion:
		return KindUnknown
	case strings.HasPrefix(trimmed, mtimePrefix):
		return KindMtime
	case semver.IsValid(canonicalSemver(trimmed)):
		return KindSemver
	default:
		return KindOpaque
	}
}

func canonicalSemver(value string) string {
	if strings.HasPrefix(value, "v") {
		return value
	}
	return "v" + value
}
