// Package rpg holds the static game catalogs: items, races, classes and
// locations. Catalogs are loaded once from YAML files at startup and can
// be reloaded as a unit; lookups go through explicit per-type tables.
package rpg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrUnknownObject is returned by catalog lookups that find nothing.
var ErrUnknownObject = errors.New("unknown object")

// Race is a playable race. StartLocation is the location id new players
// of this race begin in.
type Race struct {
	ID            int            `yaml:"-"`
	Name          string         `yaml:"name"`
	StartLocation int            `yaml:"start_location"`
	Stats         map[string]int `yaml:"stats,omitempty"`
}

func (r Race) String() string { return fmt.Sprintf("%s[%d]", r.Name, r.ID) }

// Class is a playable class.
type Class struct {
	ID    int            `yaml:"-"`
	Name  string         `yaml:"name"`
	Stats map[string]int `yaml:"stats,omitempty"`
}

func (c Class) String() string { return fmt.Sprintf("%s[%d]", c.Name, c.ID) }

// Location is a world location.
type Location struct {
	ID   int    `yaml:"-"`
	Name string `yaml:"name"`
}

func (l Location) String() string { return fmt.Sprintf("%s[%d]", l.Name, l.ID) }

// Catalogs is the full set of loaded game data. All lookup methods are
// safe for concurrent use; ReloadAll swaps the whole set atomically.
type Catalogs struct {
	mu  sync.RWMutex
	dir string

	items     map[int]Item
	races     map[int]Race
	classes   map[int]Class
	locations map[int]Location

	itemNames     map[string]int
	raceNames     map[string]int
	classNames    map[string]int
	locationNames map[string]int
}

// Load reads every catalog file under dir (items.yaml, races.yaml,
// classes.yaml, locations.yaml).
func Load(dir string) (*Catalogs, error) {
	c := &Catalogs{dir: dir}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

// ReloadAll re-reads all catalog files. On failure the previous catalogs
// stay in place.
func (c *Catalogs) ReloadAll() error {
	return c.load()
}

func (c *Catalogs) load() error {
	items := make(map[int]Item)
	if err := readCatalogFile(c.dir, "items.yaml", items); err != nil {
		return err
	}
	for id, it := range items {
		it.ID = id
		if err := it.validate(); err != nil {
			return fmt.Errorf("items.yaml: %w", err)
		}
		items[id] = it
	}

	races := make(map[int]Race)
	if err := readCatalogFile(c.dir, "races.yaml", races); err != nil {
		return err
	}
	for id, r := range races {
		r.ID = id
		races[id] = r
	}

	classes := make(map[int]Class)
	if err := readCatalogFile(c.dir, "classes.yaml", classes); err != nil {
		return err
	}
	for id, cl := range classes {
		cl.ID = id
		classes[id] = cl
	}

	locations := make(map[int]Location)
	if err := readCatalogFile(c.dir, "locations.yaml", locations); err != nil {
		return err
	}
	for id, l := range locations {
		l.ID = id
		locations[id] = l
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = items
	c.races = races
	c.classes = classes
	c.locations = locations

	c.itemNames = make(map[string]int, len(items))
	for id, it := range items {
		c.itemNames[strings.ToLower(it.Name)] = id
	}
	c.raceNames = make(map[string]int, len(races))
	for id, r := range races {
		c.raceNames[strings.ToLower(r.Name)] = id
	}
	c.classNames = make(map[string]int, len(classes))
	for id, cl := range classes {
		c.classNames[strings.ToLower(cl.Name)] = id
	}
	c.locationNames = make(map[string]int, len(locations))
	for id, l := range locations {
		c.locationNames[strings.ToLower(l.Name)] = id
	}

	return nil
}

// readCatalogFile decodes a YAML mapping of id -> object into out.
// A missing file is treated as an empty catalog.
func readCatalogFile[T any](dir, name string, out map[int]T) error {
	raw, err := os.ReadFile(filepath.Join(dir, "rpg", name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// ItemByID looks an item up by catalog id.
func (c *Catalogs) ItemByID(id int) (Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.items[id]
	if !ok {
		return Item{}, ErrUnknownObject
	}
	return it, nil
}

// ItemByName looks an item up by lowercase name.
func (c *Catalogs) ItemByName(name string) (Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.itemNames[strings.ToLower(name)]
	if !ok {
		return Item{}, ErrUnknownObject
	}
	return c.items[id], nil
}

// Items returns all items sorted by id.
func (c *Catalogs) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RaceByID looks a race up by id.
func (c *Catalogs) RaceByID(id int) (Race, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.races[id]
	if !ok {
		return Race{}, ErrUnknownObject
	}
	return r, nil
}

// RaceByName looks a race up by lowercase name.
func (c *Catalogs) RaceByName(name string) (Race, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.raceNames[strings.ToLower(name)]
	if !ok {
		return Race{}, ErrUnknownObject
	}
	return c.races[id], nil
}

// Races returns all races sorted by id.
func (c *Catalogs) Races() []Race {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Race, 0, len(c.races))
	for _, r := range c.races {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ClassByID looks a class up by id.
func (c *Catalogs) ClassByID(id int) (Class, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cl, ok := c.classes[id]
	if !ok {
		return Class{}, ErrUnknownObject
	}
	return cl, nil
}

// ClassByName looks a class up by lowercase name.
func (c *Catalogs) ClassByName(name string) (Class, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.classNames[strings.ToLower(name)]
	if !ok {
		return Class{}, ErrUnknownObject
	}
	return c.classes[id], nil
}

// Classes returns all classes sorted by id.
func (c *Catalogs) Classes() []Class {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Class, 0, len(c.classes))
	for _, cl := range c.classes {
		out = append(out, cl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LocationByID looks a location up by id.
func (c *Catalogs) LocationByID(id int) (Location, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.locations[id]
	if !ok {
		return Location{}, ErrUnknownObject
	}
	return l, nil
}

// LocationByName looks a location up by lowercase name.
func (c *Catalogs) LocationByName(name string) (Location, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.locationNames[strings.ToLower(name)]
	if !ok {
		return Location{}, ErrUnknownObject
	}
	return c.locations[id], nil
}
