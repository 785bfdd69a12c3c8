package event

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// InviteURL is the shareable join link for an event.
func InviteURL(appBaseURL string, eventID int) string {
	return fmt.Sprintf("%s/events/%d/join", strings.TrimSuffix(appBaseURL, "/"), eventID)
}

// InviteQR renders the join link as a QR code PNG, for printing on crew
// call sheets or showing on a phone at the dock.
func InviteQR(appBaseURL string, eventID, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(InviteURL(appBaseURL, eventID), qrcode.Medium, size)
}
