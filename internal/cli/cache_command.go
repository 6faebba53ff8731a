package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/basher/internal/output"
	"github.com/temirov/basher/internal/utils"
	"github.com/temirov/basher/internal/version"
)

const (
	cacheUse                  = "cache"
	cacheShortDescription     = "inspect or clear the analysis cache"
	cacheListUse              = "list"
	cacheListShortDescription = "list cached analyses"
	cacheClearUse             = "clear"
	cacheClearShortDesc       = "remove every cached analysis"
	cacheClearedMessageFormat = "Cleared analysis cache at %s\n"
)

type cacheListing struct {
	Path    string              `json:"path"`
	Entries []cacheListingEntry `json:"entries"`
}

type cacheListingEntry struct {
	Command      string                  `json:"command"`
	Version      string                  `json:"version"`
	VersionKind  version.FingerprintKind `json:"version_kind"`
	SourceMethod string                  `json:"source_method"`
	CachedAt     string                  `json:"cached_at,omitempty"`
}

// createCacheCommand returns the cache command group.
func createCacheCommand(activeSession *session) *cobra.Command {
	cacheCommand := &cobra.Command{
		Use:   cacheUse,
		Short: cacheShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	cacheCommand.AddCommand(createCacheListCommand(activeSession), createCacheClearCommand(activeSession))
	return cacheCommand
}

func createCacheListCommand(activeSession *session) *cobra.Command {
	var flags outputOptions

	listCommand := &cobra.Command{
		Use:   cacheListUse,
		Short: cacheListShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if err := activeSession.load(); err != nil {
				return err
			}
			resolved, resolveErr := flags.resolve(command, activeSession.configuration.Output)
			if resolveErr != nil {
				return resolveErr
			}
			store, storeErr := activeSession.cacheStore()
			if storeErr != nil {
				return storeErr
			}
			listing := cacheListing{Path: store.Path(), Entries: []cacheListingEntry{}}
			for _, entry := range store.Entries() {
				listed := cacheListingEntry{
					Command:      entry.Command,
					Version:      entry.Version,
					VersionKind:  version.Kind(entry.Version),
					SourceMethod: string(entry.SourceMethod),
					CachedAt:     utils.FormatCachedAt(entry.CachedAt),
				}
				listing.Entries = append(listing.Entries, listed)
			}
			rendered, renderErr := output.RenderValue(listing, resolved.format)
			if renderErr != nil {
				return renderErr
			}
			_, writeErr := fmt.Fprint(activeSession.dependencies.stdout, rendered)
			return writeErr
		},
	}
	listCommand.Flags().StringVar(&flags.format, formatFlagName, "", formatFlagDescription)
	return listCommand
}

func createCacheClearCommand(activeSession *session) *cobra.Command {
	return &cobra.Command{
		Use:   cacheClearUse,
		Short: cacheClearShortDesc,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if err := activeSession.load(); err != nil {
				return err
			}
			store, storeErr := activeSession.cacheStore()
			if storeErr != nil {
				return storeErr
			}
			if clearErr := store.Clear(); clearErr != nil {
				return clearErr
			}
			_, writeErr := fmt.Fprintf(activeSession.dependencies.stdout, cacheClearedMessageFormat, store.Path())
			return writeErr
		},
	}
}
