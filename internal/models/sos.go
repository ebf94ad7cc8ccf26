package models

// Location is a resolved position from the client-side geolocation
// collaborator. The backend never acquires location itself.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type SOSRequest struct {
	Location *Location `json:"location"`
}

// SOSDispatch is the composed alert handed to the platform's native message
// composer. SMSLink is an sms: URI with the message pre-filled.
type SOSDispatch struct {
	Message    string   `json:"message"`
	Recipients []string `json:"recipients"`
	SMSLink    string   `json:"sms_link"`
}
