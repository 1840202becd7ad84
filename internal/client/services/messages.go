package services

import (
	"errors"

	"github.com/Rajgupta764/legal-saarthi/internal/client/client"
)

// User-facing messages. The backend and the UI speak Hindi.
const (
	MsgLoginSuccess  = "लॉगिन सफल"
	MsgLoginFailed   = "लॉगिन विफल"
	MsgLoginError    = "लॉगिन में त्रुटि। कृपया पुनः प्रयास करें।"
	MsgSignupSuccess = "पंजीकरण सफल"
	MsgSignupFailed  = "पंजीकरण विफल"
	MsgSignupError   = "पंजीकरण में त्रुटि। कृपया पुनः प्रयास करें।"

	MsgConnectivity = "सर्वर से कनेक्ट नहीं हो पा रहा। कृपया इंटरनेट जाँचें।"
	MsgTimeout      = "समय समाप्त। कृपया पुनः प्रयास करें।"
	MsgGeneric      = "कुछ गलत हो गया। कृपया पुनः प्रयास करें।"
)

// UserMessage turns an API error into text for the user: the backend's own
// message when it sent one, then timeout and connectivity messages, then
// fallback (or MsgGeneric when fallback is empty).
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var (
		le *client.LogicalError
		se *client.StatusError
	)
	switch {
	case errors.As(err, &le) && le.Message != "":
		return le.Message
	case errors.As(err, &se) && se.Message != "":
		return se.Message
	case errors.Is(err, client.ErrTimeout):
		return MsgTimeout
	case errors.Is(err, client.ErrUnavailable):
		return MsgConnectivity
	case fallback != "":
		return fallback
	default:
		return MsgGeneric
	}
}
