package registry

import "strings"

// ClientRecord is a single client identity record. Records are immutable
// once a snapshot is built; no component mutates them after load.
type ClientRecord struct {
	ClientID            string               `json:"client_id"`
	PersonalInfo        PersonalInfo         `json:"personal_info"`
	Location            Location             `json:"location"`
	PlatformIdentifiers []PlatformIdentifier `json:"platform_identifiers,omitempty"`
}

// PersonalInfo carries the identifying personal fields of a client.
type PersonalInfo struct {
	GivenName      string   `json:"given_name"`
	FamilyName     string   `json:"family_name"`
	Emails         []string `json:"emails,omitempty"`
	ContactNumbers []string `json:"contact_numbers,omitempty"`
}

// Location is the client's registered address. All components are optional;
// address_1 holds the unit line and address_2 the street line.
type Location struct {
	Unit     string `json:"address_1,omitempty"`
	Street   string `json:"address_2,omitempty"`
	Suburb   string `json:"suburb,omitempty"`
	Postcode string `json:"postcode,omitempty"`
}

// PlatformIdentifier links a client to an account on an external platform.
// The identifiers map holds platform-specific keys such as client_id,
// display_name, or acn.
type PlatformIdentifier struct {
	Platform    string            `json:"platform"`
	Identifiers map[string]string `json:"identifiers,omitempty"`
}

// FullName returns "given family" with surrounding whitespace trimmed.
// Empty when the record has no name at all.
func (r *ClientRecord) FullName() string {
	return strings.TrimSpace(r.PersonalInfo.GivenName + " " + r.PersonalInfo.FamilyName)
}

// IsZero reports whether the location carries no components.
func (l Location) IsZero() bool {
	return l.Unit == "" && l.Street == "" && l.Suburb == "" && l.Postcode == ""
}

// CandidateAddress joins the present location components in unit, street,
// suburb, postcode order into a single comparable line.
func (l Location) CandidateAddress() string {
	parts := make([]string, 0, 4)
	for _, part := range []string{l.Unit, l.Street, l.Suburb, l.Postcode} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}
