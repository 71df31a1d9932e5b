package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/civiclens/portal-client/internal/core/domain"
	"github.com/civiclens/portal-client/internal/core/ports"
)

// SubmitService collects a complaint and posts it as one multipart request.
// Submission is anonymous, no bearer token is attached.
type SubmitService struct {
	gw      ports.Gateway
	locator ports.Locator
	log     zerolog.Logger
}

func NewSubmitService(gw ports.Gateway, locator ports.Locator, log zerolog.Logger) *SubmitService {
	return &SubmitService{gw: gw, locator: locator, log: log}
}

// ResolveLocation picks the submission coordinates by precedence: the
// high-accuracy fix taken when a photo is attached, then the loose fix from
// form load, then the fixed fallback coordinate.
func (s *SubmitService) ResolveLocation(ctx context.Context, photoAttached bool) domain.Coordinates {
	if photoAttached {
		if loc, err := s.locator.HighAccuracy(ctx); err == nil {
			return loc
		} else {
			s.log.Debug().Err(err).Msg("high-accuracy fix unavailable")
		}
	}
	if loc, err := s.locator.Current(ctx); err == nil {
		return loc
	} else {
		s.log.Debug().Err(err).Msg("geolocation unavailable, using fallback")
	}
	return domain.FallbackLocation
}

// Submit validates and posts a new complaint. Category defaults to pothole
// (the form's preselected option) and the location is resolved here unless
// the input already carries one. Returns the created report with its
// server-assigned identifier.
func (s *SubmitService) Submit(ctx context.Context, in ports.SubmitReportInput) (*domain.Report, error) {
	if in.Category == "" {
		in.Category = domain.CategoryPothole
	}
	if !domain.ValidCategory(in.Category) {
		return nil, &domain.ValidationError{Message: "unknown category " + string(in.Category)}
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if (in.Location == domain.Coordinates{}) {
		in.Location = s.ResolveLocation(ctx, in.Photo != nil)
	}

	report, err := s.gw.SubmitReport(ctx, in)
	if err != nil {
		s.log.Error().Err(err).Str("title", in.Title).Msg("report submission failed")
		return nil, err
	}
	s.log.Info().Str("report_id", report.ID).Str("category", string(in.Category)).Msg("report submitted")
	return report, nil
}
