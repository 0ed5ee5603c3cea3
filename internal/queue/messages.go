package queue

// Command tags for deferred work items.
const (
	CommandGold  = "gold"
	CommandJudge = "judge"
)

// PayloadOption is one name/value pair carried with a work item.
type PayloadOption struct {
	Name  string `json:"name"`
	Value any    `json:"value,omitempty"`
}

// CommandPayload is a durable description of one unit of deferred work.
// It must carry everything the async processor needs to both do the work
// and deliver the final reply; the processor has no access back to the
// original request.
type CommandPayload struct {
	Command          string          `json:"command"`
	ApplicationID    string          `json:"applicationId"`
	InteractionToken string          `json:"interactionToken"`
	GuildID          string          `json:"guildId,omitempty"`
	UserID           string          `json:"userId,omitempty"`
	Options          []PayloadOption `json:"options"`
}

// IntOption returns the named integer option, or def when absent or
// not a number.
func (p CommandPayload) IntOption(name string, def int64) int64 {
	for _, o := range p.Options {
		if o.Name != name {
			continue
		}
		switch v := o.Value.(type) {
		case float64:
			return int64(v)
		case int64:
			return v
		}
	}
	return def
}

// StringOption returns the named string option.
func (p CommandPayload) StringOption(name string) (string, bool) {
	for _, o := range p.Options {
		if o.Name == name {
			s, ok := o.Value.(string)
			return s, ok
		}
	}
	return "", false
}

// VoicePayload asks the voice worker to speak text in a guild.
type VoicePayload struct {
	GuildID string `json:"guildId"`
	UserID  string `json:"userId"`
	Text    string `json:"text"`
}
