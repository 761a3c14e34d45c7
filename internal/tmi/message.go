package tmi

import (
	"errors"
	"strconv"
	"strings"
)

// ErrEmptyMessage is returned when parsing a blank line.
var ErrEmptyMessage = errors.New("empty message")

// Message is one parsed IRC line.
type Message struct {
	Tags    map[string]string
	Prefix  string
	Command string
	Params  []string
}

// ParseMessage parses an IRC line with optional IRCv3 tags.
func ParseMessage(line string) (Message, error) {
	var msg Message
	line = strings.TrimRight(line, "\r\n")

	if strings.HasPrefix(line, "@") {
		end := strings.IndexByte(line, ' ')
		if end < 0 {
			return msg, errors.New("tags without command")
		}
		msg.Tags = parseTags(line[1:end])
		line = strings.TrimLeft(line[end+1:], " ")
	}

	if strings.HasPrefix(line, ":") {
		end := strings.IndexByte(line, ' ')
		if end < 0 {
			return msg, errors.New("prefix without command")
		}
		msg.Prefix = line[1:end]
		line = strings.TrimLeft(line[end+1:], " ")
	}

	for line != "" {
		if strings.HasPrefix(line, ":") {
			msg.Params = append(msg.Params, line[1:])
			break
		}
		end := strings.IndexByte(line, ' ')
		if end < 0 {
			msg.Params = append(msg.Params, line)
			break
		}
		msg.Params = append(msg.Params, line[:end])
		line = strings.TrimLeft(line[end+1:], " ")
	}

	if len(msg.Params) == 0 {
		return msg, ErrEmptyMessage
	}
	msg.Command = strings.ToUpper(msg.Params[0])
	msg.Params = msg.Params[1:]
	return msg, nil
}

// Nick returns the nickname part of the prefix ("nick!user@host").
func (m Message) Nick() string {
	if i := strings.IndexByte(m.Prefix, '!'); i >= 0 {
		return m.Prefix[:i]
	}
	return m.Prefix
}

// Param returns the i-th parameter, or "" if absent.
func (m Message) Param(i int) string {
	if i < len(m.Params) {
		return m.Params[i]
	}
	return ""
}

// Trailing returns the last parameter.
func (m Message) Trailing() string {
	if len(m.Params) == 0 {
		return ""
	}
	return m.Params[len(m.Params)-1]
}

// Channel returns the first parameter with its "#" removed.
func (m Message) Channel() string {
	return strings.TrimPrefix(m.Param(0), "#")
}

// Tag returns a tag value, or "" if absent.
func (m Message) Tag(name string) string {
	return m.Tags[name]
}

// IntTag returns a tag parsed as an integer, or zero if absent or malformed.
func (m Message) IntTag(name string) int {
	n, err := strconv.Atoi(m.Tags[name])
	if err != nil {
		return 0
	}
	return n
}

func parseTags(raw string) map[string]string {
	tags := make(map[string]string)
	for _, pair := range strings.Split(raw, ";") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		tags[key] = unescapeTagValue(value)
	}
	return tags
}

func unescapeTagValue(value string) string {
	if !strings.Contains(value, `\`) {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(value) {
			break
		}
		switch value[i] {
		case 's':
			b.WriteByte(' ')
		case ':':
			b.WriteByte(';')
		case 'r':
			b.WriteByte('\r')
		case 'n':
			b.WriteByte('\n')
		default:
			b.WriteByte(value[i])
		}
	}
	return b.String()
}

// tagsFromMessage lifts the commonly used tags into a Tags value.
func tagsFromMessage(m Message) Tags {
	tags := Tags{
		DisplayName: m.Tag("display-name"),
		Bits:        m.IntTag("bits"),
		ID:          m.Tag("id"),
		Color:       m.Tag("color"),
		All:         m.Tags,
	}
	if sent, err := strconv.ParseInt(m.Tag("tmi-sent-ts"), 10, 64); err == nil && sent > 0 {
		tags.Timestamp = sent / 1000
		tags.TimeMilliseconds = int(sent % 1000)
	}
	if raw := m.Tag("badges"); raw != "" {
		tags.Badges = make(map[string]string)
		for _, badge := range strings.Split(raw, ",") {
			name, version, _ := strings.Cut(badge, "/")
			tags.Badges[name] = version
		}
	}
	return tags
}
