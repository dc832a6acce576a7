package utils

import (
	"strings"

	"go.mau.fi/whatsmeow/types"
)

// ContactNumberFromJID strips the server (and device) part of a WhatsApp
// routing address: "33612345678:3@s.whatsapp.net" -> "33612345678".
func ContactNumberFromJID(jid string) string {
	jid = strings.TrimSpace(jid)
	if jid == "" {
		return ""
	}
	if parsed, err := types.ParseJID(jid); err == nil && parsed.User != "" {
		return parsed.User
	}
	number, _, _ := strings.Cut(jid, "@")
	number, _, _ = strings.Cut(number, ":")
	return number
}

// IsGroupJID reports whether jid addresses a group chat.
func IsGroupJID(jid string) bool {
	return strings.HasSuffix(strings.TrimSpace(jid), "@"+types.GroupServer)
}

// NumberToJID turns a bare phone number into a user JID. Values that already
// carry a server are returned unchanged.
func NumberToJID(number string) string {
	number = strings.TrimSpace(number)
	if number == "" || strings.Contains(number, "@") {
		return number
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	return types.NewJID(digits, types.DefaultUserServer).String()
}
