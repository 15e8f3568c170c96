package flow

// GPSPoint is one timestamped location sample.
type GPSPoint struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	// Timestamp is ISO-8601.
	Timestamp string `json:"timestamp" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// SOSInput triggers an emergency alert.
type SOSInput struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Message   string   `json:"message,omitempty" validate:"max=1000"`
}

// SOSOutput is shown to the user after an alert.
type SOSOutput struct {
	ConfirmationMessage string `json:"confirmation_message" validate:"required"`
}

// ReportInput asks for a device report.
type ReportInput struct {
	DeviceID  string `json:"device_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
	Timeframe string `json:"timeframe" validate:"required"`
}

// ReportOutput is a single-paragraph device report.
type ReportOutput struct {
	Report string `json:"report" validate:"required"`
}

// GeofenceSuggestionInput carries the history suggestions are drawn from.
type GeofenceSuggestionInput struct {
	DeviceID   string     `json:"device_id" validate:"required"`
	GPSHistory []GPSPoint `json:"gps_history" validate:"required,min=1,dive"`
}

// GeofenceSuggestion is one proposed circular geofence.
type GeofenceSuggestion struct {
	Name        string  `json:"name" validate:"required"`
	Latitude    float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Radius      float64 `json:"radius" validate:"gt=0"` // meters
	Description string  `json:"description,omitempty"`
}

// GeofenceSuggestionOutput holds 3 to 5 suggestions.
type GeofenceSuggestionOutput struct {
	GeofenceSuggestions []GeofenceSuggestion `json:"geofence_suggestions" validate:"min=3,max=5,dive"`
}

// TripSummaryInput carries the samples of one trip.
type TripSummaryInput struct {
	DeviceID string     `json:"device_id" validate:"required"`
	GPSData  []GPSPoint `json:"gps_data" validate:"required,min=1,dive"`
}

// TripSummaryOutput is a free-text trip summary.
type TripSummaryOutput struct {
	Summary string `json:"summary" validate:"required"`
}
