package dto

// ── holidays ──

type ListHolidaysRequest struct {
	Year int `form:"year" binding:"omitempty,min=2000,max=2100"`
}

// UpsertHolidayRequest creates or replaces the holiday of Date.
type UpsertHolidayRequest struct {
	Date       string `json:"date"        binding:"required"`
	Name       string `json:"name"        binding:"required,max=120"`
	SeasonType string `json:"season_type" binding:"omitempty,oneof=low high holiday"` // default holiday
	IsActive   *bool  `json:"is_active"`                                              // default true
}

type HolidayResponse struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Name       string `json:"name"`
	SeasonType string `json:"season_type"`
	IsActive   bool   `json:"is_active"`
}

type ImportHolidaysResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Dates    []string `json:"dates"`
}

// ImportHolidaysRequest imports a calendar by URL. A multipart "file" upload
// takes precedence over it.
type ImportHolidaysRequest struct {
	URL        string `json:"url"         form:"url"`
	SeasonType string `json:"season_type" form:"season_type" binding:"omitempty,oneof=low high holiday"`
}
