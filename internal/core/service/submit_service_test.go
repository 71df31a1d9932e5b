package service

import (
	"context"
	"testing"

	"github.com/civiclens/portal-client/internal/core/domain"
	"github.com/civiclens/portal-client/internal/core/ports"
)

type stubLocator struct {
	fix        *domain.Coordinates
	precise    *domain.Coordinates
	currentErr error
	preciseErr error
}

func (l *stubLocator) Current(context.Context) (domain.Coordinates, error) {
	if l.fix == nil || l.currentErr != nil {
		return domain.Coordinates{}, ports.ErrLocationUnavailable
	}
	return *l.fix, nil
}

func (l *stubLocator) HighAccuracy(context.Context) (domain.Coordinates, error) {
	if l.precise == nil || l.preciseErr != nil {
		return domain.Coordinates{}, ports.ErrLocationUnavailable
	}
	return *l.precise, nil
}

func TestSubmitService_ResolveLocation_Precedence(t *testing.T) {
	loose := domain.Coordinates{Lat: 12.97, Lng: 77.59}
	precise := domain.Coordinates{Lat: 12.9716, Lng: 77.5946}

	cases := []struct {
		name          string
		locator       *stubLocator
		photoAttached bool
		want          domain.Coordinates
	}{
		{"photo with precise fix", &stubLocator{fix: &loose, precise: &precise}, true, precise},
		{"photo but precise fix denied", &stubLocator{fix: &loose}, true, loose},
		{"no photo ignores precise fix", &stubLocator{fix: &loose, precise: &precise}, false, loose},
		{"all fixes denied", &stubLocator{}, false, domain.FallbackLocation},
		{"photo, all fixes denied", &stubLocator{}, true, domain.FallbackLocation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewSubmitService(&stubGateway{}, tc.locator, discardLogger)
			got := svc.ResolveLocation(context.Background(), tc.photoAttached)
			if got != tc.want {
				t.Errorf("ResolveLocation = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestSubmitService_FallbackCoordinates(t *testing.T) {
	if domain.FallbackLocation.Lat != 23.6102 || domain.FallbackLocation.Lng != 85.2799 {
		t.Fatalf("fallback coordinate drifted: %+v", domain.FallbackLocation)
	}
}

func TestSubmitService_Submit_DefaultsCategoryToPothole(t *testing.T) {
	var got ports.SubmitReportInput
	svc := NewSubmitService(&stubGateway{submitFn: func(_ context.Context, in ports.SubmitReportInput) (*domain.Report, error) {
		got = in
		return &domain.Report{ID: "srv-1", Title: in.Title, Category: in.Category}, nil
	}}, &stubLocator{}, discardLogger)

	report, err := svc.Submit(context.Background(), ports.SubmitReportInput{Title: "Large pothole on MG Road"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.Category != domain.CategoryPothole {
		t.Errorf("expected category to default to pothole, got %q", got.Category)
	}
	if report.ID != "srv-1" {
		t.Errorf("expected server-assigned id, got %q", report.ID)
	}
}

func TestSubmitService_Submit_RequiresTitle(t *testing.T) {
	called := false
	svc := NewSubmitService(&stubGateway{submitFn: func(context.Context, ports.SubmitReportInput) (*domain.Report, error) {
		called = true
		return nil, nil
	}}, &stubLocator{}, discardLogger)

	_, err := svc.Submit(context.Background(), ports.SubmitReportInput{Description: "no title"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if called {
		t.Error("gateway must not be called for invalid input")
	}
}

func TestSubmitService_Submit_RejectsUnknownCategory(t *testing.T) {
	svc := NewSubmitService(&stubGateway{}, &stubLocator{}, discardLogger)
	_, err := svc.Submit(context.Background(), ports.SubmitReportInput{Title: "x", Category: "graffiti"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitService_Submit_PhotoUpgradesLocationFix(t *testing.T) {
	loose := domain.Coordinates{Lat: 12.97, Lng: 77.59}
	precise := domain.Coordinates{Lat: 12.9716, Lng: 77.5946}

	var got ports.SubmitReportInput
	svc := NewSubmitService(&stubGateway{submitFn: func(_ context.Context, in ports.SubmitReportInput) (*domain.Report, error) {
		got = in
		return &domain.Report{ID: "srv-2"}, nil
	}}, &stubLocator{fix: &loose, precise: &precise}, discardLogger)

	_, err := svc.Submit(context.Background(), ports.SubmitReportInput{
		Title:    "Street light not working",
		Category: domain.CategoryStreetlight,
		Photo:    &ports.PhotoAttachment{Filename: "light.jpg", Content: []byte("jpeg")},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.Location != precise {
		t.Errorf("photo submission must use the high-accuracy fix, got %+v", got.Location)
	}
}

func TestSubmitService_Submit_KeepsCallerLocation(t *testing.T) {
	chosen := domain.Coordinates{Lat: 1.1, Lng: 2.2}
	var got ports.SubmitReportInput
	svc := NewSubmitService(&stubGateway{submitFn: func(_ context.Context, in ports.SubmitReportInput) (*domain.Report, error) {
		got = in
		return &domain.Report{ID: "srv-3"}, nil
	}}, &stubLocator{}, discardLogger)

	_, err := svc.Submit(context.Background(), ports.SubmitReportInput{Title: "t", Location: chosen})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.Location != chosen {
		t.Errorf("explicit location must be kept, got %+v", got.Location)
	}
}
