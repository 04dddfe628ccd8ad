package venue

// VenueRequest is bound from multipart forms (with optional photo and
// floor_plan files) or from JSON.
type VenueRequest struct {
	Name           string `form:"name" json:"name" validate:"required,max=255"`
	Description    string `form:"description" json:"description"`
	DimensionM     string `form:"dimension_m" json:"dimension_m" validate:"max=100"`
	DimensionF     string `form:"dimension_f" json:"dimension_f" validate:"max=100"`
	SetupBanquet   *int   `form:"setup_banquet" json:"setup_banquet" validate:"omitempty,gte=0"`
	SetupClassroom *int   `form:"setup_classroom" json:"setup_classroom" validate:"omitempty,gte=0"`
	SetupTheater   *int   `form:"setup_theater" json:"setup_theater" validate:"omitempty,gte=0"`
	SetupReception *int   `form:"setup_reception" json:"setup_reception" validate:"omitempty,gte=0"`
}

func (r *VenueRequest) apply(v *Venue) {
	v.Name = r.Name
	v.Description = r.Description
	v.DimensionM = r.DimensionM
	v.DimensionF = r.DimensionF
	v.SetupBanquet = r.SetupBanquet
	v.SetupClassroom = r.SetupClassroom
	v.SetupTheater = r.SetupTheater
	v.SetupReception = r.SetupReception
}

type VenueResponse struct {
	*Venue
	PhotoURL     *string `json:"photo_url"`
	FloorPlanURL *string `json:"floor_plan_url"`
}

type urlFunc func(path string) string

func toResponse(v *Venue, url urlFunc) VenueResponse {
	return VenueResponse{
		Venue:        v,
		PhotoURL:     optionalURL(v.Photo, url),
		FloorPlanURL: optionalURL(v.FloorPlan, url),
	}
}

func toResponses(venues []Venue, url urlFunc) []VenueResponse {
	out := make([]VenueResponse, 0, len(venues))
	for i := range venues {
		out = append(out, toResponse(&venues[i], url))
	}
	return out
}

func optionalURL(path string, url urlFunc) *string {
	if path == "" {
		return nil
	}
	u := url(path)
	return &u
}
