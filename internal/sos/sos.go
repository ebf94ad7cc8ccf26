package sos

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/disasterprep/backend/internal/models"
)

var (
	ErrNoContacts = errors.New("no emergency contacts configured")
	ErrNoLocation = errors.New("location is required for an SOS alert")
)

const messageTemplate = "EMERGENCY! This is an SOS alert from %s. I am in need of immediate assistance. My current location is: %s"

// BuildMessage renders the fixed SOS message with the student's name and a
// Google Maps link to their coordinates. The wording is fixed — students do
// not compose SOS messages under stress.
func BuildMessage(studentName string, loc models.Location) string {
	mapsLink := fmt.Sprintf("https://www.google.com/maps?q=%s,%s",
		formatCoord(loc.Latitude), formatCoord(loc.Longitude))
	return fmt.Sprintf(messageTemplate, studentName, mapsLink)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Dispatch builds the SOS payload for a student: the message, the recipient
// phone list, and an sms: link the client can open directly.
func Dispatch(profile *models.StudentProfile, loc *models.Location) (*models.SOSDispatch, error) {
	if len(profile.Details.EmergencyContacts) == 0 {
		return nil, ErrNoContacts
	}
	if loc == nil {
		return nil, ErrNoLocation
	}

	recipients := make([]string, 0, len(profile.Details.EmergencyContacts))
	for _, c := range profile.Details.EmergencyContacts {
		recipients = append(recipients, c.Phone)
	}

	message := BuildMessage(profile.Details.Name, *loc)
	smsLink := fmt.Sprintf("sms:%s?body=%s", strings.Join(recipients, ","), encodeBody(message))

	return &models.SOSDispatch{
		Message:    message,
		Recipients: recipients,
		SMSLink:    smsLink,
	}, nil
}

// encodeBody percent-encodes the message for an sms: URI. Spaces must become
// %20, not +: sms: URIs are not HTML form data, and messaging apps render a
// literal + for form encoding.
func encodeBody(message string) string {
	return strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}
