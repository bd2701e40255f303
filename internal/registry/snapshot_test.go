package registry

import (
	"errors"
	"strings"
	"testing"
)

const flatRegistry = `{
  "CL00001": {
    "personal_info": {
      "given_name": "Alice",
      "family_name": "Nguyen",
      "emails": ["a@x.com", "alice.nguyen@example.com"],
      "contact_numbers": ["+61 400 111 222"]
    },
    "location": {
      "address_2": "12 Smith St",
      "suburb": "Parkville",
      "postcode": "3052"
    },
    "platform_identifiers": [
      {"platform": "shiftcare_da", "identifiers": {"client_id": "SC-901", "display_name": "Alice N"}}
    ]
  },
  "CL00002": {
    "personal_info": {
      "given_name": "Bob",
      "family_name": "Carter",
      "emails": ["bob@y.org"]
    },
    "location": {
      "address_1": "Unit 4",
      "address_2": "88 Ocean Ave",
      "suburb": "Brighton",
      "postcode": "3186"
    }
  }
}`

const envelopeRegistry = `{
  "metadata": {"generated_at": "2026-05-01", "version": 3},
  "clients": [
    {
      "client_id": "CL00010",
      "personal_info": {"given_name": "Cara", "family_name": "Lim", "emails": ["cara@z.net"]}
    },
    {
      "client_id": "CL00011",
      "personal_info": {"given_name": "Cara", "family_name": "Lim"}
    }
  ]
}`

func loadSnapshot(t *testing.T, payload string) *Snapshot {
	t.Helper()
	snapshot, err := Load(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return snapshot
}

func TestLoadFlatFormat(t *testing.T) {
	snapshot := loadSnapshot(t, flatRegistry)

	if snapshot.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", snapshot.Len())
	}
	client := snapshot.Client("CL00001")
	if client == nil {
		t.Fatal("Client(CL00001) = nil")
	}
	if client.ClientID != "CL00001" {
		t.Errorf("ClientID backfilled from key = %q, want CL00001", client.ClientID)
	}
	if got := client.FullName(); got != "Alice Nguyen" {
		t.Errorf("FullName() = %q", got)
	}
}

func TestLoadEnvelopeFormat(t *testing.T) {
	snapshot := loadSnapshot(t, envelopeRegistry)

	if snapshot.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", snapshot.Len())
	}
	if snapshot.Client("CL00010") == nil || snapshot.Client("CL00011") == nil {
		t.Fatal("envelope clients not keyed by client_id")
	}
}

func TestLoadEnvelopeDuplicateIDFirstWins(t *testing.T) {
	payload := `{
	  "clients": [
	    {"client_id": "CL00020", "personal_info": {"given_name": "Dana", "family_name": "Reed"}},
	    {"client_id": "CL00020", "personal_info": {"given_name": "Duplicate", "family_name": "Entry"}}
	  ]
	}`
	snapshot := loadSnapshot(t, payload)

	if snapshot.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", snapshot.Len())
	}
	if got := snapshot.Client("CL00020").FullName(); got != "Dana Reed" {
		t.Errorf("duplicate id kept %q, want first entry Dana Reed", got)
	}
}

func TestLoadInvalidFormat(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"top-level array", `[{"client_id": "CL1"}]`},
		{"scalar", `42`},
		{"envelope entry missing id", `{"clients": [{"personal_info": {}}]}`},
		{"flat record not an object", `{"CL1": "nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.payload))
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("Load() error = %v, want ErrInvalidFormat", err)
			}
		})
	}
}

func TestFindByEmail(t *testing.T) {
	snapshot := loadSnapshot(t, flatRegistry)

	if got := snapshot.FindByEmail("A@X.COM"); got != "CL00001" {
		t.Errorf("FindByEmail(mixed case) = %q, want CL00001", got)
	}
	if got := snapshot.FindByEmail("nobody@nowhere.com"); got != "" {
		t.Errorf("FindByEmail(unknown) = %q, want empty", got)
	}
}

func TestFindByEmailDuplicateFirstWins(t *testing.T) {
	payload := `{
      "CL00002": {"personal_info": {"given_name": "B", "family_name": "B", "emails": ["shared@x.com"]}},
      "CL00001": {"personal_info": {"given_name": "A", "family_name": "A", "emails": ["shared@x.com"]}}
    }`
	snapshot := loadSnapshot(t, payload)
	if got := snapshot.FindByEmail("shared@x.com"); got != "CL00001" {
		t.Errorf("duplicate email resolved to %q, want lowest id CL00001", got)
	}
}

func TestFindByNameCollisions(t *testing.T) {
	snapshot := loadSnapshot(t, envelopeRegistry)

	ids := snapshot.FindByName("cara lim")
	if len(ids) != 2 || ids[0] != "CL00010" || ids[1] != "CL00011" {
		t.Errorf("FindByName = %v, want [CL00010 CL00011]", ids)
	}
	if got := snapshot.FindByName("Nobody Here"); len(got) != 0 {
		t.Errorf("FindByName(unknown) = %v, want empty", got)
	}
}

func TestFindByPlatformIdentifier(t *testing.T) {
	snapshot := loadSnapshot(t, flatRegistry)

	if got := snapshot.FindByPlatformIdentifier("shiftcare_da", "SC-901"); got != "CL00001" {
		t.Errorf("verbatim identifier = %q, want CL00001", got)
	}
	if got := snapshot.FindByPlatformIdentifier("shiftcare_da", "Alice N"); got != "CL00001" {
		t.Errorf("display name falls back to lowercase = %q, want CL00001", got)
	}
	if got := snapshot.FindByPlatformIdentifier("stripe", "SC-901"); got != "" {
		t.Errorf("unknown platform = %q, want empty", got)
	}
}
