package discord

// InteractionType is the inbound interaction kind.
type InteractionType int

const (
	InteractionPing               InteractionType = 1
	InteractionApplicationCommand InteractionType = 2
)

// OptionType tags a command option's value type.
type OptionType int

const (
	OptionSubCommand OptionType = 1
	OptionString     OptionType = 3
	OptionInteger    OptionType = 4
	OptionBoolean    OptionType = 5
)

// Interaction is an inbound command event from the platform.
type Interaction struct {
	ID            string          `json:"id"`
	ApplicationID string          `json:"application_id"`
	Type          InteractionType `json:"type"`
	Data          InteractionData `json:"data"`
	GuildID       string          `json:"guild_id,omitempty"`
	ChannelID     string          `json:"channel_id,omitempty"`
	Member        *Member         `json:"member,omitempty"`
	Token         string          `json:"token"`
	Version       int             `json:"version"`
}

type InteractionData struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Options Options `json:"options,omitempty"`
}

type Member struct {
	User *User `json:"user,omitempty"`
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// UserID returns the invoking user's id, or "" when unknown.
func (i *Interaction) UserID() string {
	if i.Member == nil || i.Member.User == nil {
		return ""
	}
	return i.Member.User.ID
}

// CommandOption is one name/value pair in an interaction's option list.
// Values arrive as loose JSON; use the Options accessors instead of
// reading Value directly.
type CommandOption struct {
	Name    string     `json:"name"`
	Type    OptionType `json:"type"`
	Value   any        `json:"value,omitempty"`
	Options Options    `json:"options,omitempty"`
}

// Options is an ordered option list with typed lookup-by-name helpers.
type Options []CommandOption

func (o Options) find(name string) (CommandOption, bool) {
	for _, opt := range o {
		if opt.Name == name {
			return opt, true
		}
	}
	return CommandOption{}, false
}

// String returns the named string option.
func (o Options) String(name string) (string, bool) {
	opt, ok := o.find(name)
	if !ok {
		return "", false
	}
	s, ok := opt.Value.(string)
	return s, ok
}

// Int returns the named integer option. JSON numbers decode as float64,
// so both representations are accepted.
func (o Options) Int(name string) (int64, bool) {
	opt, ok := o.find(name)
	if !ok {
		return 0, false
	}
	switch v := opt.Value.(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

// Bool returns the named boolean option.
func (o Options) Bool(name string) (bool, bool) {
	opt, ok := o.find(name)
	if !ok {
		return false, false
	}
	b, ok := opt.Value.(bool)
	return b, ok
}

// Sub returns the first option when it is a subcommand, or false when
// the list is empty.
func (o Options) Sub() (CommandOption, bool) {
	if len(o) == 0 {
		return CommandOption{}, false
	}
	return o[0], true
}
