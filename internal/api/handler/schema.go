package handler

import (
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// --- Contacts ---

type profileRequest struct {
	Name  string `json:"name"  validate:"max=100"`
	Phone string `json:"phone" validate:"max=32"`
}

type contactRequest struct {
	Name         string `json:"name"         validate:"required"`
	Phone        string `json:"phone"        validate:"required"`
	Email        string `json:"email"        validate:"omitempty,email"`
	Relationship string `json:"relationship"`
}

// --- Location ---

type locationRequest struct {
	Latitude  *float64 `json:"latitude"   validate:"required,latitude"`
	Longitude *float64 `json:"longitude"  validate:"required,longitude"`
	AccuracyM *float64 `json:"accuracy_m" validate:"omitempty,gte=0"`
}

// --- Incidents ---

type createIncidentRequest struct {
	IncidentType string           `json:"incident_type" validate:"required"`
	Description  string           `json:"description"   validate:"required"`
	Location     string           `json:"location"      validate:"required"`
	Coordinates  *locationRequest `json:"coordinates"`
	IsAnonymous  bool             `json:"is_anonymous"`
}

type evidenceRequest struct {
	FileRef string `json:"file_ref" validate:"required,max=512"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

type incidentListResponse struct {
	Items []domain.IncidentCase `json:"items"`
	Count int                   `json:"count"`
}

// --- SOS ---

// triggerRequest leaves location unvalidated so a missing or out-of-range
// sample surfaces as the core's location error.
type triggerRequest struct {
	Location *locationBody `json:"location"`
	Notes    string        `json:"notes"`
}

type locationBody struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	AccuracyM *float64 `json:"accuracy_m"`
}

type triggerResponse struct {
	Alert         *domain.SOSAlert      `json:"alert"`
	NotifiedCount int                   `json:"notified_count"`
	Dispatch      domain.DispatchReport `json:"dispatch"`
}

type alertListResponse struct {
	Items []domain.SOSAlert `json:"items"`
	Count int               `json:"count"`
}

// --- Admin ---

type hotspotResponse struct {
	Points []domain.HotspotPoint `json:"points"`
	Count  int                   `json:"count"`
}

type healthResponse struct {
	Status string `json:"status"`
}
