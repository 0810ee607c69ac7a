package domain

import "slices"

// Config is the whole persisted chat/user linkage state.
type Config struct {
	Guilds map[ChatID]GuildEntry
	Users  map[UserID]UserEntry
}

type GuildEntry struct {
	// LoggedUsers keeps login order; resolution walks it front to back.
	LoggedUsers []UserID
	Default     ServerIdentifier
}

type UserEntry struct {
	Username string
	// Servers is the last known identifier snapshot and may be stale.
	Servers []ServerIdentifier
}

type UserUpdate struct {
	Username Optional[string]
	Servers  Optional[[]ServerIdentifier]
}

func NewConfig() Config {
	return Config{
		Guilds: map[ChatID]GuildEntry{},
		Users:  map[UserID]UserEntry{},
	}
}

func (g GuildEntry) HasDefault() bool {
	return g.Default != ""
}

func (g GuildEntry) HasUser(id UserID) bool {
	return slices.Contains(g.LoggedUsers, id)
}

func (u UserEntry) HasServer(id ServerIdentifier) bool {
	return slices.Contains(u.Servers, id)
}

// Normalize replaces nil maps and slices with empty ones.
func (c *Config) Normalize() {
	if c.Guilds == nil {
		c.Guilds = map[ChatID]GuildEntry{}
	}
	if c.Users == nil {
		c.Users = map[UserID]UserEntry{}
	}
	for id, guild := range c.Guilds {
		if guild.LoggedUsers == nil {
			guild.LoggedUsers = []UserID{}
			c.Guilds[id] = guild
		}
	}
	for id, user := range c.Users {
		if user.Servers == nil {
			user.Servers = []ServerIdentifier{}
			c.Users[id] = user
		}
	}
}

func (c Config) Clone() Config {
	clone := Config{
		Guilds: make(map[ChatID]GuildEntry, len(c.Guilds)),
		Users:  make(map[UserID]UserEntry, len(c.Users)),
	}
	for id, guild := range c.Guilds {
		guild.LoggedUsers = slices.Clone(guild.LoggedUsers)
		clone.Guilds[id] = guild
	}
	for id, user := range c.Users {
		user.Servers = slices.Clone(user.Servers)
		clone.Users[id] = user
	}
	clone.Normalize()
	return clone
}

// UpsertUser merges update into the existing entry. Unset fields keep their
// previous value; a set empty server list clears the cache.
func (c *Config) UpsertUser(id UserID, update UserUpdate) {
	c.Normalize()

	entry, ok := c.Users[id]
	if !ok {
		entry = UserEntry{Servers: []ServerIdentifier{}}
	}
	if username, ok := update.Username.Get(); ok {
		entry.Username = username
	}
	if servers, ok := update.Servers.Get(); ok {
		entry.Servers = slices.Clone(servers)
		if entry.Servers == nil {
			entry.Servers = []ServerIdentifier{}
		}
	}

	c.Users[id] = entry
}

// RefreshServers replaces the cached identifiers of an existing user entry.
// It reports false, and changes nothing, when the user has no entry.
func (c *Config) RefreshServers(id UserID, servers []ServerIdentifier) bool {
	c.Normalize()

	entry, ok := c.Users[id]
	if !ok {
		return false
	}
	entry.Servers = slices.Clone(servers)
	if entry.Servers == nil {
		entry.Servers = []ServerIdentifier{}
	}
	c.Users[id] = entry
	return true
}

func (c *Config) ensureGuild(chat ChatID) GuildEntry {
	c.Normalize()

	guild, ok := c.Guilds[chat]
	if !ok {
		guild = GuildEntry{LoggedUsers: []UserID{}}
	}
	return guild
}

// LinkUser appends user to the chat's login order unless it is already there.
func (c *Config) LinkUser(chat ChatID, user UserID) {
	guild := c.ensureGuild(chat)
	if !guild.HasUser(user) {
		guild.LoggedUsers = append(guild.LoggedUsers, user)
	}
	c.Guilds[chat] = guild
}

func (c *Config) SetDefault(chat ChatID, id ServerIdentifier) {
	guild := c.ensureGuild(chat)
	guild.Default = id
	c.Guilds[chat] = guild
}

// UnlinkUser removes user from chat. The user entry is dropped once no chat
// references it; the returned entry is the dropped one.
func (c *Config) UnlinkUser(chat ChatID, user UserID) (UserEntry, bool, error) {
	c.Normalize()

	guild, ok := c.Guilds[chat]
	if !ok {
		return UserEntry{}, false, ErrNoSuchGuild
	}
	if !guild.HasUser(user) {
		return UserEntry{}, false, ErrNotLinked
	}

	guild.LoggedUsers = slices.DeleteFunc(guild.LoggedUsers, func(id UserID) bool { return id == user })
	c.Guilds[chat] = guild

	entry, dropped := c.pruneUser(user)
	return entry, dropped, nil
}

// DetachGuild deletes the chat entry and every user entry it orphans.
func (c *Config) DetachGuild(chat ChatID) ([]UserEntry, error) {
	c.Normalize()

	guild, ok := c.Guilds[chat]
	if !ok {
		return nil, ErrNoSuchGuild
	}
	delete(c.Guilds, chat)

	orphaned := make([]UserEntry, 0, len(guild.LoggedUsers))
	for _, user := range guild.LoggedUsers {
		if entry, dropped := c.pruneUser(user); dropped {
			orphaned = append(orphaned, entry)
		}
	}

	return orphaned, nil
}

// UsernameReferenced reports whether any remaining user entry uses username.
func (c Config) UsernameReferenced(username string) bool {
	for _, user := range c.Users {
		if user.Username == username {
			return true
		}
	}
	return false
}

func (c *Config) pruneUser(user UserID) (UserEntry, bool) {
	for _, guild := range c.Guilds {
		if guild.HasUser(user) {
			return UserEntry{}, false
		}
	}

	entry, ok := c.Users[user]
	if !ok {
		return UserEntry{}, false
	}
	delete(c.Users, user)
	return entry, true
}
