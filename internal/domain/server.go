package domain

// Server is one hosted game server as reported live by the provider.
type Server struct {
	ID      string
	Address string
	Domain  string
	Version string
}

// Matches compares id against both string forms, exactly and case-sensitively.
func (s Server) Matches(id ServerIdentifier) bool {
	if id == "" {
		return false
	}
	return string(id) == s.Address || string(id) == s.Domain
}

func (s Server) Identifiers() []ServerIdentifier {
	ids := make([]ServerIdentifier, 0, 2)
	if s.Address != "" {
		ids = append(ids, ServerIdentifier(s.Address))
	}
	if s.Domain != "" && s.Domain != s.Address {
		ids = append(ids, ServerIdentifier(s.Domain))
	}
	return ids
}

func (s Server) DisplayName() string {
	if s.Address != "" {
		return s.Address
	}
	return s.Domain
}

// CacheIdentifiers flattens servers into the identifier set kept on a UserEntry.
func CacheIdentifiers(servers []Server) []ServerIdentifier {
	ids := make([]ServerIdentifier, 0, len(servers)*2)
	seen := make(map[ServerIdentifier]struct{}, len(servers)*2)
	for _, server := range servers {
		for _, id := range server.Identifiers() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

type ResolvedTarget struct {
	Account  UserID
	Username string
	Server   Server
}
