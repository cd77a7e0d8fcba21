package player

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/tarakania/rpg-bot/internal/rpg"
)

const schema = `
CREATE TABLE IF NOT EXISTS players (
	discord_id TEXT PRIMARY KEY,
	nick       TEXT NOT NULL UNIQUE,
	race       INTEGER NOT NULL,
	class      INTEGER NOT NULL,
	location   INTEGER NOT NULL,
	xp         INTEGER NOT NULL DEFAULT 0,
	money      INTEGER NOT NULL DEFAULT 0,
	inventory  TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS equipment (
	discord_id TEXT PRIMARY KEY REFERENCES players(discord_id) ON DELETE CASCADE,
	weapon     INTEGER,
	helmet     INTEGER,
	chestplate INTEGER,
	leggings   INTEGER,
	boots      INTEGER,
	shield     INTEGER
);
`

// slotColumns whitelists equipment column names. Slot names always pass
// through this map before reaching SQL text.
var slotColumns = map[string]string{
	"weapon":     "weapon",
	"helmet":     "helmet",
	"chestplate": "chestplate",
	"leggings":   "leggings",
	"boots":      "boots",
	"shield":     "shield",
}

// Store is the relational player store.
type Store struct {
	db *sql.DB
}

// querier is the subset of *sql.DB and *sql.Tx the store runs its
// statements through.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewStore opens (and bootstraps) the SQLite database at path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Create inserts a new player together with an empty equipment row.
// locationID <= 0 defaults to the race's start location.
func (s *Store) Create(ctx context.Context, discordID, nick string, race rpg.Race, class rpg.Class, locationID int) (*Player, error) {
	if locationID <= 0 {
		locationID = race.StartLocation
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO players (discord_id, nick, race, class, location) VALUES (?, ?, ?, ?, ?)",
		discordID, nick, race.ID, class.ID, locationID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrNickOrIDUsed
		}
		return nil, fmt.Errorf("insert player: %w", err)
	}

	_, err = tx.ExecContext(ctx, "INSERT INTO equipment (discord_id) VALUES (?)", discordID)
	if err != nil {
		return nil, fmt.Errorf("insert equipment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.ByID(ctx, discordID)
}

// ByID fetches a player by Discord user id.
func (s *Store) ByID(ctx context.Context, discordID string) (*Player, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT discord_id, nick, race, class, location, xp, money, inventory FROM players WHERE discord_id = ?",
		discordID,
	)
	return scanPlayer(row)
}

// ByNick fetches a player by character nickname.
func (s *Store) ByNick(ctx context.Context, nick string) (*Player, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT discord_id, nick, race, class, location, xp, money, inventory FROM players WHERE nick = ?",
		nick,
	)
	return scanPlayer(row)
}

// Delete removes a player and, via cascade, their equipment.
func (s *Store) Delete(ctx context.Context, discordID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM players WHERE discord_id = ?", discordID)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUnknownPlayer
	}
	return nil
}

// saveInventory writes the full inventory id list back to the row.
func (s *Store) saveInventory(ctx context.Context, discordID string, inventory []int) error {
	return s.writeInventory(ctx, s.db, discordID, inventory)
}

func (s *Store) writeInventory(ctx context.Context, q querier, discordID string, inventory []int) error {
	raw, err := json.Marshal(inventory)
	if err != nil {
		return err
	}
	res, err := q.ExecContext(ctx,
		"UPDATE players SET inventory = ? WHERE discord_id = ?", string(raw), discordID,
	)
	if err != nil {
		return fmt.Errorf("update inventory: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUnknownPlayer
	}
	return nil
}

// readInventory loads the stored inventory id list.
func (s *Store) readInventory(ctx context.Context, q querier, discordID string) ([]int, error) {
	var raw string
	err := q.QueryRowContext(ctx,
		"SELECT inventory FROM players WHERE discord_id = ?", discordID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnknownPlayer
	}
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}
	var inventory []int
	if err := json.Unmarshal([]byte(raw), &inventory); err != nil {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}
	return inventory, nil
}

// AddItem appends an item to the player's inventory.
func (s *Store) AddItem(ctx context.Context, p *Player, item rpg.Item) error {
	p.Inventory = append(p.Inventory, item.ID)
	return s.saveInventory(ctx, p.DiscordID, p.Inventory)
}

// RemoveItem removes one copy of the item from the inventory.
func (s *Store) RemoveItem(ctx context.Context, p *Player, item rpg.Item) error {
	for i, id := range p.Inventory {
		if id == item.ID {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
			return s.saveInventory(ctx, p.DiscordID, p.Inventory)
		}
	}
	return ErrItemNotFound
}

// EquipmentByID fetches the equipment row for a player.
func (s *Store) EquipmentByID(ctx context.Context, discordID string) (*Equipment, error) {
	return s.equipment(ctx, s.db, discordID)
}

func (s *Store) equipment(ctx context.Context, q querier, discordID string) (*Equipment, error) {
	row := q.QueryRowContext(ctx,
		"SELECT discord_id, weapon, helmet, chestplate, leggings, boots, shield FROM equipment WHERE discord_id = ?",
		discordID,
	)

	eq := &Equipment{}
	var weapon, helmet, chestplate, leggings, boots, shield sql.NullInt64
	err := row.Scan(&eq.DiscordID, &weapon, &helmet, &chestplate, &leggings, &boots, &shield)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnknownPlayer
	}
	if err != nil {
		return nil, fmt.Errorf("scan equipment: %w", err)
	}

	eq.Weapon = nullableID(weapon)
	eq.Helmet = nullableID(helmet)
	eq.Chestplate = nullableID(chestplate)
	eq.Leggings = nullableID(leggings)
	eq.Boots = nullableID(boots)
	eq.Shield = nullableID(shield)
	return eq, nil
}

// Equip places an equippable inventory item into its slot and returns
// the item it replaced, if any. The slot and inventory updates run in a
// single transaction against the stored row, so concurrent equips for
// the same player cannot duplicate the item.
func (s *Store) Equip(ctx context.Context, p *Player, item rpg.Item, catalogs *rpg.Catalogs) (*rpg.Item, error) {
	if !item.Equippable() {
		return nil, ErrItemUnequippable
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stored, err := s.readInventory(ctx, tx, p.DiscordID)
	if err != nil {
		return nil, err
	}
	if !containsID(stored, item.ID) {
		return nil, ErrItemNotFound
	}

	eq, err := s.equipment(ctx, tx, p.DiscordID)
	if err != nil {
		return nil, err
	}

	slot := item.SlotName()
	current := eq.Slot(slot)
	if current != nil && *current == item.ID {
		return nil, ErrItemAlreadyEquipped
	}

	// the item moves out of the inventory into the slot; whatever it
	// replaced moves back
	inventory := make([]int, 0, len(stored))
	removed := false
	for _, id := range stored {
		if id == item.ID && !removed {
			removed = true
			continue
		}
		inventory = append(inventory, id)
	}
	if current != nil {
		inventory = append(inventory, *current)
	}

	if err := s.setSlot(ctx, tx, p.DiscordID, slot, &item.ID); err != nil {
		return nil, err
	}
	if err := s.writeInventory(ctx, tx, p.DiscordID, inventory); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	p.Inventory = inventory

	if current == nil {
		return nil, nil
	}
	replaced, err := catalogs.ItemByID(*current)
	if err != nil {
		return nil, nil // stale id from a removed catalog entry
	}
	return &replaced, nil
}

// Unequip clears the slot holding the given item and returns it to the
// inventory, in one transaction.
func (s *Store) Unequip(ctx context.Context, p *Player, item rpg.Item) error {
	if !item.Equippable() {
		return ErrItemUnequippable
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stored, err := s.readInventory(ctx, tx, p.DiscordID)
	if err != nil {
		return err
	}
	eq, err := s.equipment(ctx, tx, p.DiscordID)
	if err != nil {
		return err
	}

	slot := item.SlotName()
	current := eq.Slot(slot)
	if current == nil || *current != item.ID {
		return ErrItemNotEquipped
	}

	inventory := append(stored, item.ID)
	if err := s.setSlot(ctx, tx, p.DiscordID, slot, nil); err != nil {
		return err
	}
	if err := s.writeInventory(ctx, tx, p.DiscordID, inventory); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	p.Inventory = inventory
	return nil
}

func (s *Store) setSlot(ctx context.Context, q querier, discordID, slot string, itemID *int) error {
	column, ok := slotColumns[slot]
	if !ok {
		return fmt.Errorf("unknown equipment slot %q", slot)
	}

	var value any
	if itemID != nil {
		value = *itemID
	}
	_, err := q.ExecContext(ctx,
		fmt.Sprintf("UPDATE equipment SET %s = ? WHERE discord_id = ?", column),
		value, discordID,
	)
	if err != nil {
		return fmt.Errorf("update equipment: %w", err)
	}
	return nil
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// AddXP adds experience and returns the updated player.
func (s *Store) AddXP(ctx context.Context, p *Player, amount int) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE players SET xp = xp + ? WHERE discord_id = ?", amount, p.DiscordID,
	)
	if err != nil {
		return fmt.Errorf("update xp: %w", err)
	}
	p.XP += amount
	return nil
}

// AddMoney adjusts the player's money balance (amount may be negative).
func (s *Store) AddMoney(ctx context.Context, p *Player, amount int) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE players SET money = money + ? WHERE discord_id = ?", amount, p.DiscordID,
	)
	if err != nil {
		return fmt.Errorf("update money: %w", err)
	}
	p.Money += amount
	return nil
}

func scanPlayer(row *sql.Row) (*Player, error) {
	p := &Player{}
	var inventory string
	err := row.Scan(&p.DiscordID, &p.Nick, &p.RaceID, &p.ClassID, &p.LocationID, &p.XP, &p.Money, &inventory)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnknownPlayer
	}
	if err != nil {
		return nil, fmt.Errorf("scan player: %w", err)
	}
	if err := json.Unmarshal([]byte(inventory), &p.Inventory); err != nil {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}
	return p, nil
}

func nullableID(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	id := int(v.Int64)
	return &id
}

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrConstraint
	}
	return false
}
