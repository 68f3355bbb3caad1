package converter

import (
	"errors"
	"fmt"
	"strings"
)

func (s *state) applyMediaHook(input MediaInput) (string, error) {
	if s.config.MediaHook == nil {
		return input.URL, nil
	}

	output, err := s.config.MediaHook(s.ctx, input)
	if err != nil {
		if errors.Is(err, ErrUnresolved) {
			if s.config.ResolutionMode == ResolutionStrict {
				return "", fmt.Errorf("unresolved %s reference %q: %w", input.Kind, input.Src, err)
			}
			s.addWarning(
				WarningUnresolvedReference,
				string(input.Tag),
				fmt.Sprintf("unresolved %s reference %q; using normalized URL", input.Kind, input.Src),
			)
			return input.URL, nil
		}
		return "", fmt.Errorf("media hook failed: %w", err)
	}

	if !output.Handled {
		return input.URL, nil
	}

	if err := validateMediaOutput(output); err != nil {
		return "", fmt.Errorf("invalid media hook output: %w", err)
	}

	return strings.TrimSpace(output.URL), nil
}

func validateMediaOutput(output MediaOutput) error {
	if strings.TrimSpace(output.URL) == "" {
		return errors.New("handled media output requires non-empty url")
	}
	return nil
}

func cloneStringMap(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}

	dst := make(map[string]string, len(src))
	for key, value := range src {
		dst[key] = value
	}

	return dst
}
