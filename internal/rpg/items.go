package rpg

import "fmt"

// ItemKind tags the item variant. Kind-specific fields on Item are only
// meaningful for the matching kind.
type ItemKind string

const (
	ItemWeapon     ItemKind = "weapon"
	ItemArmor      ItemKind = "armor"
	ItemConsumable ItemKind = "consumable"
	ItemIngredient ItemKind = "ingredient"
)

// Item is a single catalog item. Weapons and armor are equippable;
// armor additionally declares which equipment slot it occupies.
type Item struct {
	ID   int      `yaml:"-"`
	Name string   `yaml:"name"`
	Kind ItemKind `yaml:"kind"`

	// weapon
	Damage string `yaml:"damage,omitempty"`
	Ammo   *int   `yaml:"ammo,omitempty"`

	// armor
	Slot string `yaml:"slot,omitempty"`

	// consumable
	Effect string `yaml:"effect,omitempty"`

	// stat modifiers applied while equipped
	Modifiers map[string]int `yaml:"modifiers,omitempty"`
}

// Equippable reports whether the item can occupy an equipment slot.
func (i Item) Equippable() bool {
	return i.Kind == ItemWeapon || i.Kind == ItemArmor
}

// SlotName returns the equipment slot the item occupies, or "" for
// items that cannot be equipped.
func (i Item) SlotName() string {
	switch i.Kind {
	case ItemWeapon:
		return SlotWeapon
	case ItemArmor:
		return i.Slot
	}
	return ""
}

func (i Item) String() string {
	return fmt.Sprintf("%s[%d]", i.Name, i.ID)
}

func (i Item) validate() error {
	switch i.Kind {
	case ItemWeapon:
		if i.Damage == "" {
			return fmt.Errorf("weapon %q has no damage", i.Name)
		}
	case ItemArmor:
		if !validArmorSlot(i.Slot) {
			return fmt.Errorf("armor %q has invalid slot %q", i.Name, i.Slot)
		}
	case ItemConsumable, ItemIngredient:
	default:
		return fmt.Errorf("item %q has unknown kind %q", i.Name, i.Kind)
	}
	return nil
}

// Equipment slot names. SlotWeapon is implied by the weapon kind; armor
// declares one of the remaining slots.
const SlotWeapon = "weapon"

// ArmorSlots lists every slot an armor piece may declare.
var ArmorSlots = []string{"helmet", "chestplate", "leggings", "boots", "shield"}

func validArmorSlot(s string) bool {
	for _, slot := range ArmorSlots {
		if s == slot {
			return true
		}
	}
	return false
}
