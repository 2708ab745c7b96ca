package handler

import (
	"strings"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	}
}

func toProfileInput(req profileRequest) ports.ProfileInput {
	return ports.ProfileInput{Name: req.Name, Phone: req.Phone}
}

func toContactInput(req contactRequest) ports.ContactInput {
	return ports.ContactInput{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Relationship: req.Relationship,
	}
}

func toCreateIncidentInput(req createIncidentRequest, idempotencyKey string) ports.CreateIncidentInput {
	in := ports.CreateIncidentInput{
		Type:           domain.IncidentType(strings.TrimSpace(req.IncidentType)),
		Description:    req.Description,
		LocationLabel:  req.Location,
		IsAnonymous:    req.IsAnonymous,
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
	}
	if req.Coordinates != nil {
		in.Location = toLocationSample(req.Coordinates.Latitude, req.Coordinates.Longitude, req.Coordinates.AccuracyM)
	}
	return in
}

func toTriggerInput(req triggerRequest) ports.TriggerInput {
	in := ports.TriggerInput{Notes: req.Notes}
	if req.Location != nil {
		in.Location = toLocationSample(req.Location.Latitude, req.Location.Longitude, req.Location.AccuracyM)
	}
	return in
}

// toLocationSample returns nil unless both coordinates are present.
func toLocationSample(lat, lon, accuracy *float64) *domain.LocationSample {
	if lat == nil || lon == nil {
		return nil
	}
	return &domain.LocationSample{Latitude: *lat, Longitude: *lon, AccuracyM: accuracy}
}
