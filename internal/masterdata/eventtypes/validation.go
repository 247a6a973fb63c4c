package eventtypes

import (
	"errors"
	"strings"
)

func (s *Service) validate(et EventType) error {
	if strings.TrimSpace(et.Code) == "" {
		return errors.New("event type code is required")
	}
	if strings.TrimSpace(et.Name) == "" {
		return errors.New("event type name is required")
	}
	return nil
}
