package handler

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"
)

// PrefixStore persists per-guild prefix overrides.
type PrefixStore interface {
	All() (map[string]string, error)
	Set(guildID, prefix string) error
	Delete(guildID string) error
}

// PrefixTable resolves which prefix a message used. Default prefixes
// (the configured literal plus the bot mention forms) are compiled into
// a single pattern once the bot's own id is known; guild overrides are
// literal, case-insensitive matches loaded from the store.
type PrefixTable struct {
	mu            sync.RWMutex
	defaultPrefix string
	guildRegex    *regexp.Regexp
	dmRegex       *regexp.Regexp
	custom        map[string]string
	store         PrefixStore
}

// NewPrefixTable creates a table with the given default prefix.
func NewPrefixTable(defaultPrefix string, store PrefixStore) *PrefixTable {
	return &PrefixTable{
		defaultPrefix: defaultPrefix,
		custom:        make(map[string]string),
		store:         store,
	}
}

// prefixPattern builds `^(alternation)\s*(\w+)(?:\s+(.+))?$`: the
// command name is a contiguous word, the rest (if any) is the argument
// tail.
func prefixPattern(prefixes []string) string {
	return `(?i)^(` + strings.Join(prefixes, "|") + `)\s*(\w+)(?:\s+(.+))?$`
}

// Prepare compiles the prefix patterns. Callable only after login,
// because the bot mention forms need the bot's own user id. It also
// loads the stored guild overrides.
func (t *PrefixTable) Prepare(botID string) error {
	alternatives := []string{
		regexp.QuoteMeta(t.defaultPrefix),
		`<@` + botID + `>`,
		`<@!` + botID + `>`,
	}

	guildRegex, err := regexp.Compile(prefixPattern(alternatives))
	if err != nil {
		return fmt.Errorf("compile prefix pattern: %w", err)
	}
	// direct messages also accept a bare command, hence the empty
	// alternative
	dmRegex, err := regexp.Compile(prefixPattern(append(alternatives, "")))
	if err != nil {
		return fmt.Errorf("compile dm prefix pattern: %w", err)
	}

	custom := map[string]string{}
	if t.store != nil {
		stored, err := t.store.All()
		if err != nil {
			return fmt.Errorf("load guild prefixes: %w", err)
		}
		for guildID, prefix := range stored {
			custom[guildID] = strings.ToLower(prefix)
		}
	}

	t.mu.Lock()
	t.guildRegex = guildRegex
	t.dmRegex = dmRegex
	t.custom = custom
	t.mu.Unlock()
	return nil
}

// Ready reports whether Prepare has run.
func (t *PrefixTable) Ready() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.guildRegex != nil
}

// Separate splits content into (prefix, command, argument tail). ok is
// false when the message is not a command invocation; Separate has no
// side effects and is safe to call repeatedly.
func (t *PrefixTable) Separate(content, guildID string) (prefix, command, tail string, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.guildRegex == nil {
		return "", "", "", false
	}

	if guildID == "" {
		return regexMatch(t.dmRegex, content)
	}

	custom, hasCustom := t.custom[guildID]
	if !hasCustom {
		return regexMatch(t.guildRegex, content)
	}

	if !strings.HasPrefix(strings.ToLower(content), custom) {
		return "", "", "", false
	}
	command, tail = splitCommandTail(content[len(custom):])
	if command == "" {
		return "", "", "", false
	}
	return custom, command, tail, true
}

// LocalPrefix returns the prefix users should type in the given scope.
func (t *PrefixTable) LocalPrefix(guildID string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if guildID != "" {
		if custom, ok := t.custom[guildID]; ok {
			return custom
		}
	}
	return t.defaultPrefix
}

// SetCustom stores a guild prefix override.
func (t *PrefixTable) SetCustom(guildID, prefix string) error {
	prefix = strings.ToLower(prefix)
	if t.store != nil {
		if err := t.store.Set(guildID, prefix); err != nil {
			return err
		}
	}
	t.mu.Lock()
	t.custom[guildID] = prefix
	t.mu.Unlock()
	return nil
}

// ClearCustom removes a guild prefix override.
func (t *PrefixTable) ClearCustom(guildID string) error {
	if t.store != nil {
		if err := t.store.Delete(guildID); err != nil {
			return err
		}
	}
	t.mu.Lock()
	delete(t.custom, guildID)
	t.mu.Unlock()
	return nil
}

func regexMatch(re *regexp.Regexp, content string) (string, string, string, bool) {
	m := re.FindStringSubmatch(content)
	if m == nil {
		return "", "", "", false
	}
	return m[1], m[2], m[3], true
}

// splitCommandTail splits "  cmd   rest of tail" into ("cmd", "rest of tail").
func splitCommandTail(s string) (string, string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	idx := strings.IndexFunc(s, unicode.IsSpace)
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimLeftFunc(s[idx:], unicode.IsSpace)
}
