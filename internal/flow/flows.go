package flow

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/config"
	"github.com/abhishekpnaik05/vigitrack/internal/genai"
)

// SOSFallbackMessage is returned when the SOS flow gets no output.
const SOSFallbackMessage = "SOS alert received. Emergency contacts have been notified and help is on the way to your location."

// SOSAlertSubject is the subject line of the SOS email.
const SOSAlertSubject = "SOS Alert Triggered!"

const sosPrompt = `You are an emergency response assistant for the VigiTrack fleet tracking app.
A user has just triggered an SOS alert.

Location: latitude {{.Latitude}}, longitude {{.Longitude}}
{{- if .Message}}
Message from the user: "{{.Message}}"
{{- end}}

Follow these steps in order:
1. Write a short alert message that includes the location{{if .Message}} and the user's message{{end}}.
2. Call sendSms with to "{{.SMS}}" and the alert as the message.
3. Call sendWhatsApp with to "{{.WhatsApp}}" and the alert as the message.
4. Call sendEmail with to "{{.Email}}", subject "` + SOSAlertSubject + `" and the alert as the body.
5. Reply to the user with a calm confirmation, under 50 words, saying their emergency contacts were notified and help is on the way.`

const reportPrompt = `You are a fleet analyst for the VigiTrack app.
Write a performance report for device {{.DeviceID}} belonging to user {{.UserID}}, covering the last {{.Timeframe}}.

Live telemetry is not attached. Treat the device as a commercial vehicle and use these representative figures:
- Total distance: 2,345 km over 58 trips
- Average trip duration: 45 minutes
- Geofence alerts: 12 (8 entries, 4 exits), mostly at "Main Warehouse"
- Offline incidents: 2, totalling 3 hours

Example of the expected shape:
"Over the last 30 days the vehicle covered 2,345 km across 58 trips ... It was offline twice for a total of 3 hours, so connectivity on its northern route should be checked."

Respond with a single paragraph of plain prose and no headings.`

const geofenceSuggestionPrompt = `You are a geofencing assistant for the VigiTrack app.
Here is the GPS history of device {{.DeviceID}} as JSON:

{{json .GPSHistory}}

Identify the places this device visits or lingers at most often, such as depots, customer sites and rest stops.
Suggest between 3 and 5 circular geofences around them. For each one give a short name, the center latitude and longitude, a radius in meters and a one-sentence description of why it is worth monitoring.`

const tripSummaryPrompt = `You are a trip analyst for the VigiTrack app.
Summarize the trip of device {{.DeviceID}} from these GPS samples:
{{range .GPSData}}
- Timestamp: {{.Timestamp}}, Latitude: {{.Latitude}}, Longitude: {{.Longitude}}
{{- end}}

In two or three sentences describe the route taken, the approximate duration and any stops or unusual movement.`

type sosPromptData struct {
	Latitude  float64
	Longitude float64
	Message   string
	config.SOSContacts
}

func geofenceSuggestionSchema() *genai.Schema {
	suggestion := genai.Object(map[string]*genai.Schema{
		"name":        genai.String("Short name for the place."),
		"latitude":    genai.Number("Center latitude."),
		"longitude":   genai.Number("Center longitude."),
		"radius":      genai.Number("Radius in meters."),
		"description": genai.String("Why the place is worth monitoring."),
	}, "name", "latitude", "longitude", "radius")

	return genai.Object(map[string]*genai.Schema{
		"geofence_suggestions": genai.Array(suggestion, "Between 3 and 5 suggested geofences.", 3, 5),
	}, "geofence_suggestions")
}

// Set holds the four assistant flows.
type Set struct {
	SOS              *Flow[SOSInput, SOSOutput]
	Report           *Flow[ReportInput, ReportOutput]
	SuggestGeofences *Flow[GeofenceSuggestionInput, GeofenceSuggestionOutput]
	SummarizeTrip    *Flow[TripSummaryInput, TripSummaryOutput]
}

// NewSet builds the flows. sosTools are offered to the model during the SOS flow.
func NewSet(gen genai.Generator, sosTools []genai.Tool, contacts config.SOSContacts, logger *zap.Logger) *Set {
	return &Set{
		SOS: New(Definition[SOSInput, SOSOutput]{
			Name:   "sos",
			Prompt: sosPrompt,
			PromptData: func(in SOSInput) any {
				return sosPromptData{Latitude: *in.Latitude, Longitude: *in.Longitude, Message: in.Message, SOSContacts: contacts}
			},
			Tools:    sosTools,
			FromText: func(s string) SOSOutput { return SOSOutput{ConfirmationMessage: s} },
			Fallback: func(SOSInput) SOSOutput { return SOSOutput{ConfirmationMessage: SOSFallbackMessage} },
		}, gen, logger),

		Report: New(Definition[ReportInput, ReportOutput]{
			Name:     "report",
			Prompt:   reportPrompt,
			FromText: func(s string) ReportOutput { return ReportOutput{Report: s} },
			Fallback: func(in ReportInput) ReportOutput {
				return ReportOutput{Report: fmt.Sprintf("A report for device %s is not available right now. Please try again later.", in.DeviceID)}
			},
		}, gen, logger),

		SuggestGeofences: New(Definition[GeofenceSuggestionInput, GeofenceSuggestionOutput]{
			Name:   "geofence_suggestions",
			Prompt: geofenceSuggestionPrompt,
			Schema: geofenceSuggestionSchema(),
		}, gen, logger),

		SummarizeTrip: New(Definition[TripSummaryInput, TripSummaryOutput]{
			Name:     "trip_summary",
			Prompt:   tripSummaryPrompt,
			FromText: func(s string) TripSummaryOutput { return TripSummaryOutput{Summary: s} },
		}, gen, logger),
	}
}
