package app

import "time"

// NowCivil returns the current instant in the service's civil timezone.
func (s *Service) NowCivil() time.Time { return s.zone.Now() }
