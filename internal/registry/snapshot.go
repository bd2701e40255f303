package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrInvalidFormat indicates the registry file matched neither supported
// top-level shape. Loading aborts and no partial snapshot is published.
var ErrInvalidFormat = errors.New("invalid client registry format")

// Snapshot is one immutable load of the client registry together with its
// derived lookup indices. All iteration happens in ascending client-id
// order, so equal-score ties and duplicate identifiers resolve
// deterministically to the lowest client id (first-wins).
type Snapshot struct {
	clients map[string]*ClientRecord
	ids     []string

	emailIndex    map[string]string
	nameIndex     map[string][]string
	platformIndex map[string]map[string]string
}

type envelope struct {
	Metadata map[string]any    `json:"metadata"`
	Clients  []json.RawMessage `json:"clients"`
}

// Load parses a registry snapshot from r, accepting either a flat
// id-to-record mapping or a {metadata, clients: [...]} envelope, and builds
// the email, name, and platform indices.
func Load(r io.Reader) (*Snapshot, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("%w: top level is not a JSON object", ErrInvalidFormat)
	}

	clients := make(map[string]*ClientRecord)

	if _, ok := top["clients"]; ok {
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("%w: malformed clients envelope", ErrInvalidFormat)
		}
		for i, entry := range env.Clients {
			var record ClientRecord
			if err := json.Unmarshal(entry, &record); err != nil {
				return nil, fmt.Errorf("%w: client entry %d is not an object", ErrInvalidFormat, i)
			}
			if strings.TrimSpace(record.ClientID) == "" {
				return nil, fmt.Errorf("%w: client entry %d missing client_id", ErrInvalidFormat, i)
			}
			// Duplicate ids keep the first entry, matching every other
			// first-wins collision in the snapshot.
			if _, dup := clients[record.ClientID]; dup {
				continue
			}
			clients[record.ClientID] = &record
		}
	} else {
		for id, entry := range top {
			var record ClientRecord
			if err := json.Unmarshal(entry, &record); err != nil {
				return nil, fmt.Errorf("%w: record %q is not an object", ErrInvalidFormat, id)
			}
			if record.ClientID == "" {
				record.ClientID = id
			}
			clients[id] = &record
		}
	}

	snapshot := &Snapshot{clients: clients}
	snapshot.buildIndices()
	return snapshot, nil
}

// LoadFile loads a registry snapshot from a JSON file on disk.
func LoadFile(path string) (*Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	defer file.Close()
	return Load(file)
}

func (s *Snapshot) buildIndices() {
	s.ids = make([]string, 0, len(s.clients))
	for id := range s.clients {
		s.ids = append(s.ids, id)
	}
	sort.Strings(s.ids)

	s.emailIndex = make(map[string]string)
	s.nameIndex = make(map[string][]string)
	s.platformIndex = make(map[string]map[string]string)

	for _, id := range s.ids {
		client := s.clients[id]

		for _, email := range client.PersonalInfo.Emails {
			key := strings.ToLower(strings.TrimSpace(email))
			if key == "" {
				continue
			}
			if _, taken := s.emailIndex[key]; !taken {
				s.emailIndex[key] = id
			}
		}

		if name := client.FullName(); name != "" {
			key := strings.ToLower(name)
			s.nameIndex[key] = append(s.nameIndex[key], id)
		}

		for _, platformID := range client.PlatformIdentifiers {
			platform := platformID.Platform
			if platform == "" {
				continue
			}
			sub := s.platformIndex[platform]
			if sub == nil {
				sub = make(map[string]string)
				s.platformIndex[platform] = sub
			}
			if clientID := platformID.Identifiers["client_id"]; clientID != "" {
				if _, taken := sub[clientID]; !taken {
					sub[clientID] = id
				}
			}
			if displayName := platformID.Identifiers["display_name"]; displayName != "" {
				key := strings.ToLower(displayName)
				if _, taken := sub[key]; !taken {
					sub[key] = id
				}
			}
		}
	}
}

// Len returns the number of clients in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.clients)
}

// ClientIDs returns the snapshot's client ids in ascending order. The
// returned slice is shared and must not be mutated.
func (s *Snapshot) ClientIDs() []string {
	return s.ids
}

// Client returns the record for the given client id, or nil when absent.
func (s *Snapshot) Client(id string) *ClientRecord {
	return s.clients[id]
}

// FindByEmail performs a case-insensitive exact lookup and returns the
// matching client id, or "" when the email is not indexed.
func (s *Snapshot) FindByEmail(email string) string {
	return s.emailIndex[strings.ToLower(strings.TrimSpace(email))]
}

// FindByName performs a case-insensitive exact lookup on "given family"
// and returns every colliding client id, in ascending id order.
func (s *Snapshot) FindByName(name string) []string {
	return s.nameIndex[strings.ToLower(strings.TrimSpace(name))]
}

// FindByPlatformIdentifier resolves a platform-specific identifier, trying
// the identifier verbatim and then lowercased (display names are indexed
// lowercase). Returns "" when the platform or identifier is unknown.
func (s *Snapshot) FindByPlatformIdentifier(platform, identifier string) string {
	sub := s.platformIndex[platform]
	if sub == nil {
		return ""
	}
	if id, ok := sub[identifier]; ok {
		return id
	}
	return sub[strings.ToLower(identifier)]
}
