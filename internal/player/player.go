// Package player persists characters and their equipment in a relational
// store. All queries are parameterized; player state is always re-read
// from the store, never cached across commands.
package player

import (
	"errors"
	"fmt"

	"github.com/tarakania/rpg-bot/internal/rpg"
)

var (
	ErrUnknownPlayer        = errors.New("unknown player")
	ErrNickOrIDUsed         = errors.New("nick or id already in use")
	ErrItemNotFound         = errors.New("item not in inventory")
	ErrItemUnequippable     = errors.New("item cannot be equipped")
	ErrItemAlreadyEquipped  = errors.New("item already equipped")
	ErrItemNotEquipped      = errors.New("item not equipped")
)

// Player is one character row.
type Player struct {
	DiscordID  string
	Nick       string
	RaceID     int
	ClassID    int
	LocationID int
	XP         int
	Money      int
	Inventory  []int // item ids, duplicates allowed
}

// Level derives the character level from accumulated experience.
func (p *Player) Level() int { return rpg.XPToLevel(p.XP) }

// XPToNextLevel returns how much experience is missing for the next level.
func (p *Player) XPToNextLevel() int { return rpg.LevelToXP(p.Level()+1) - p.XP }

// HasItem reports whether the inventory contains the given item id.
func (p *Player) HasItem(itemID int) bool {
	for _, id := range p.Inventory {
		if id == itemID {
			return true
		}
	}
	return false
}

func (p *Player) String() string { return p.Nick }

// Equipment holds the item id occupying each slot, nil when empty.
type Equipment struct {
	DiscordID  string
	Weapon     *int
	Helmet     *int
	Chestplate *int
	Leggings   *int
	Boots      *int
	Shield     *int
}

// Slots lists every equipment slot in storage order.
var Slots = []string{"weapon", "helmet", "chestplate", "leggings", "boots", "shield"}

// Slot returns the item id in the named slot, nil when empty or unknown.
func (e *Equipment) Slot(name string) *int {
	switch name {
	case "weapon":
		return e.Weapon
	case "helmet":
		return e.Helmet
	case "chestplate":
		return e.Chestplate
	case "leggings":
		return e.Leggings
	case "boots":
		return e.Boots
	case "shield":
		return e.Shield
	}
	return nil
}

func (e *Equipment) setSlot(name string, id *int) {
	switch name {
	case "weapon":
		e.Weapon = id
	case "helmet":
		e.Helmet = id
	case "chestplate":
		e.Chestplate = id
	case "leggings":
		e.Leggings = id
	case "boots":
		e.Boots = id
	case "shield":
		e.Shield = id
	}
}

// Contains reports whether the given item id is equipped in any slot.
func (e *Equipment) Contains(itemID int) bool {
	for _, slot := range Slots {
		if id := e.Slot(slot); id != nil && *id == itemID {
			return true
		}
	}
	return false
}

// Items resolves every equipped item through the catalogs, skipping
// ids the catalogs no longer know.
func (e *Equipment) Items(catalogs *rpg.Catalogs) []rpg.Item {
	var out []rpg.Item
	for _, slot := range Slots {
		id := e.Slot(slot)
		if id == nil {
			continue
		}
		if it, err := catalogs.ItemByID(*id); err == nil {
			out = append(out, it)
		}
	}
	return out
}

// Stat names used by races, classes and item modifiers.
var StatNames = []string{"strength", "agility", "vitality", "intelligence", "will", "protection", "magic_strength"}

const (
	baseStatValue = 10

	vitalityToHealthRatio      = 20
	intelligenceToManaRatio    = 20
	baseActionPoints           = 4
	agilityToActionPointsRatio = 0.1
)

// Stats is the derived stat block for a character.
type Stats struct {
	Values       map[string]int
	Health       int
	Mana         int
	ActionPoints int
}

// ComputeStats derives a stat block from base values, race and class
// bonuses and equipped item modifiers.
func ComputeStats(p *Player, eq *Equipment, catalogs *rpg.Catalogs) (*Stats, error) {
	race, err := catalogs.RaceByID(p.RaceID)
	if err != nil {
		return nil, fmt.Errorf("race %d: %w", p.RaceID, err)
	}
	class, err := catalogs.ClassByID(p.ClassID)
	if err != nil {
		return nil, fmt.Errorf("class %d: %w", p.ClassID, err)
	}

	values := make(map[string]int, len(StatNames))
	for _, name := range StatNames {
		values[name] = baseStatValue + race.Stats[name] + class.Stats[name]
	}
	if eq != nil {
		for _, it := range eq.Items(catalogs) {
			for name, mod := range it.Modifiers {
				values[name] += mod
			}
		}
	}

	return &Stats{
		Values:       values,
		Health:       values["vitality"] * vitalityToHealthRatio,
		Mana:         values["intelligence"] * intelligenceToManaRatio,
		ActionPoints: baseActionPoints + int(float64(values["agility"])*agilityToActionPointsRatio),
	}, nil
}
