package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/basher/internal/config"
	"github.com/temirov/basher/internal/output"
	"github.com/temirov/basher/internal/tokenizer"
)

const tokenReportFormat = "tokens: %d (%s)\n"

type tokenOptions struct {
	enabled bool
	model   string
}

// outputOptions stores the rendering flags shared by document-producing commands.
type outputOptions struct {
	format      string
	copyEnabled bool
	tokens      tokenOptions
	noProgress  bool
}

func addOutputFlags(command *cobra.Command, options *outputOptions) {
	command.Flags().StringVar(&options.format, formatFlagName, "", formatFlagDescription)
	registerBooleanFlag(command.Flags(), &options.copyEnabled, copyFlagName, false, copyFlagDescription)
	registerBooleanFlag(command.Flags(), &options.tokens.enabled, tokensFlagName, false, tokensFlagDescription)
	command.Flags().StringVar(&options.tokens.model, modelFlagName, "", modelFlagDescription)
}

// resolve applies configuration defaults to flags the user did not set.
func (options outputOptions) resolve(command *cobra.Command, configuration config.OutputConfiguration) (outputOptions, error) {
	resolved := options
	if !command.Flags().Changed(formatFlagName) {
		resolved.format = configuration.Format
	}
	normalizedFormat, formatErr := output.NormalizeFormat(resolved.format)
	if formatErr != nil {
		return outputOptions{}, formatErr
	}
	resolved.format = normalizedFormat
	if !command.Flags().Changed(copyFlagName) {
		resolved.copyEnabled = config.BoolOr(configuration.Clipboard, false)
	}
	if !command.Flags().Changed(tokensFlagName) {
		resolved.tokens.enabled = config.BoolOr(configuration.Tokens.Enabled, false)
	}
	if !command.Flags().Changed(modelFlagName) {
		resolved.tokens.model = configuration.Tokens.Model
	}
	return resolved, nil
}

// emit renders a JSON tool document to stdout, then reports tokens and copies when requested.
func (session *session) emit(document string, options outputOptions) error {
	rendered, renderErr := output.Render(document, options.format)
	if renderErr != nil {
		return renderErr
	}
	if _, writeErr := fmt.Fprint(session.dependencies.stdout, rendered); writeErr != nil {
		return fmt.Errorf("write output: %w", writeErr)
	}
	if options.tokens.enabled {
		session.reportTokens(document, options.tokens.model)
	}
	if options.copyEnabled {
		if copyErr := session.dependencies.copier.Copy(rendered); copyErr != nil {
			session.logger.Warn("output not copied", zap.Error(copyErr))
		}
	}
	return nil
}

func (session *session) reportTokens(document, model string) {
	counter, resolvedModel, counterErr := tokenizer.NewCounter(model)
	if counterErr != nil {
		session.logger.Warn("token counting unavailable", zap.Error(counterErr))
		return
	}
	count, countErr := counter.CountString(document)
	if countErr != nil {
		session.logger.Warn("token counting failed", zap.Error(countErr))
		return
	}
	fmt.Fprintf(session.dependencies.stderr, tokenReportFormat, count, resolvedModel)
}
