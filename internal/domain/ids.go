package domain

// DefaultAlias is the identifier token that stands for a chat's default server.
const DefaultAlias = "default"

type ChatID string

type UserID string

// ServerIdentifier names a hosted server by either its address or its domain.
type ServerIdentifier string

func (id ServerIdentifier) IsDefaultAlias() bool {
	return string(id) == DefaultAlias
}
