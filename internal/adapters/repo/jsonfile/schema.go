package jsonfile

import "github.com/bnema/acs/internal/domain"

type fileSchema struct {
	Guilds map[string]guildSchema `json:"guilds"`
	Users  map[string]userSchema  `json:"users"`
}

type guildSchema struct {
	LoggedUsers []string `json:"logged_users"`
	Default     string   `json:"default,omitempty"`
}

type userSchema struct {
	Username string   `json:"username"`
	Servers  []string `json:"servers"`
}

func toSchema(cfg domain.Config) fileSchema {
	file := fileSchema{
		Guilds: make(map[string]guildSchema, len(cfg.Guilds)),
		Users:  make(map[string]userSchema, len(cfg.Users)),
	}

	for id, guild := range cfg.Guilds {
		users := make([]string, 0, len(guild.LoggedUsers))
		for _, user := range guild.LoggedUsers {
			users = append(users, string(user))
		}
		file.Guilds[string(id)] = guildSchema{LoggedUsers: users, Default: string(guild.Default)}
	}

	for id, user := range cfg.Users {
		servers := make([]string, 0, len(user.Servers))
		for _, server := range user.Servers {
			servers = append(servers, string(server))
		}
		file.Users[string(id)] = userSchema{Username: user.Username, Servers: servers}
	}

	return file
}

func fromSchema(file fileSchema) domain.Config {
	cfg := domain.Config{
		Guilds: make(map[domain.ChatID]domain.GuildEntry, len(file.Guilds)),
		Users:  make(map[domain.UserID]domain.UserEntry, len(file.Users)),
	}

	for id, guild := range file.Guilds {
		users := make([]domain.UserID, 0, len(guild.LoggedUsers))
		for _, user := range guild.LoggedUsers {
			users = append(users, domain.UserID(user))
		}
		cfg.Guilds[domain.ChatID(id)] = domain.GuildEntry{
			LoggedUsers: users,
			Default:     domain.ServerIdentifier(guild.Default),
		}
	}

	for id, user := range file.Users {
		servers := make([]domain.ServerIdentifier, 0, len(user.Servers))
		for _, server := range user.Servers {
			servers = append(servers, domain.ServerIdentifier(server))
		}
		cfg.Users[domain.UserID(id)] = domain.UserEntry{Username: user.Username, Servers: servers}
	}

	return cfg
}
