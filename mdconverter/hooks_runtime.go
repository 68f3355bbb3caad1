package mdconverter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rgonek/telegraph-extract/converter"
)

func (s *state) applyLinkHook(input LinkInput) (string, error) {
	if s.config.LinkHook == nil {
		return input.Destination, nil
	}

	output, err := s.config.LinkHook(s.ctx, input)
	if err != nil {
		if errors.Is(err, ErrUnresolved) {
			if s.config.ResolutionMode == ResolutionStrict {
				return "", fmt.Errorf("unresolved link %q: %w", input.Destination, err)
			}
			s.addWarning(
				converter.WarningUnresolvedReference,
				"link",
				fmt.Sprintf("unresolved link %q; keeping original destination", input.Destination),
			)
			return input.Destination, nil
		}
		return "", fmt.Errorf("link hook failed: %w", err)
	}

	if !output.Handled {
		return input.Destination, nil
	}

	destination := strings.TrimSpace(output.Destination)
	if destination == "" {
		return "", errors.New("invalid link hook output: handled link output requires non-empty destination")
	}

	return destination, nil
}

func (s *state) applyMediaHook(input MediaInput) (string, converter.MediaKind, error) {
	if s.config.MediaHook == nil {
		return input.Destination, input.Kind, nil
	}

	output, err := s.config.MediaHook(s.ctx, input)
	if err != nil {
		if errors.Is(err, ErrUnresolved) {
			if s.config.ResolutionMode == ResolutionStrict {
				return "", "", fmt.Errorf("unresolved %s %q: %w", input.Kind, input.Destination, err)
			}
			s.addWarning(
				converter.WarningUnresolvedReference,
				string(input.Kind),
				fmt.Sprintf("unresolved %s %q; keeping original destination", input.Kind, input.Destination),
			)
			return input.Destination, input.Kind, nil
		}
		return "", "", fmt.Errorf("media hook failed: %w", err)
	}

	if !output.Handled {
		return input.Destination, input.Kind, nil
	}

	if err := validateMediaOutput(output); err != nil {
		return "", "", fmt.Errorf("invalid media hook output: %w", err)
	}

	kind := output.Kind
	if kind == "" {
		kind = input.Kind
	}

	return strings.TrimSpace(output.URL), kind, nil
}

func validateMediaOutput(output MediaOutput) error {
	if strings.TrimSpace(output.URL) == "" {
		return errors.New("handled media output requires non-empty url")
	}
	if output.Kind != "" && output.Kind != converter.MediaImage && output.Kind != converter.MediaVideo {
		return fmt.Errorf("unsupported media kind %q", output.Kind)
	}
	return nil
}
