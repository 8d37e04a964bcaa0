package hydro

import "fmt"

// Warning is a non-fatal integrity finding from network assembly.
type Warning struct {
	Tier    string // table the discarded records came from
	Loaded  int    // records loaded from input
	Kept    int    // records reachable from a lake
	Message string
}

// Discarded returns the number of records that did not make it into the
// network.
func (w Warning) Discarded() int { return w.Loaded - w.Kept }

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s (%d of %d kept)", w.Tier, w.Message, w.Kept, w.Loaded)
}

// Stats counts the entities of each tier.
type Stats struct {
	Lakes       int `json:"lakes"`
	Tributaries int `json:"tributaries"`
	Catchments  int `json:"catchments"`
	Reaches     int `json:"reaches"`
	Structures  int `json:"structures"`
}

// Network is a fully assembled hydrography: a set of lakes and everything
// they transitively own. It is read-only once built, so queries may run
// concurrently.
type Network struct {
	lakes       []*Lake
	tributaries []*Tributary
	catchments  []*Catchment
	reaches     []*Reach
	structures  []Structure

	lakeByID      map[string]*Lake
	tributaryByID map[string]*Tributary
	catchmentByID map[string]*Catchment
	reachByID     map[string]*Reach
	structureByID map[string]Structure
	warnings      []Warning
}

// NewNetwork collects the entities owned by lakes by walking
// Lake, Tributary, then Catchment and Reach, then Structure. Entities
// reached more than once are listed once.
func NewNetwork(lakes ...*Lake) *Network {
	n := &Network{
		lakeByID:      make(map[string]*Lake),
		tributaryByID: make(map[string]*Tributary),
		catchmentByID: make(map[string]*Catchment),
		reachByID:     make(map[string]*Reach),
		structureByID: make(map[string]Structure),
	}
	for _, l := range lakes {
		if l == nil || n.lakeByID[l.ID()] == l {
			continue
		}
		n.lakeByID[l.ID()] = l
		n.lakes = append(n.lakes, l)
		for _, t := range l.Members() {
			if n.tributaryByID[t.ID()] == t {
				continue
			}
			n.tributaryByID[t.ID()] = t
			n.tributaries = append(n.tributaries, t)
			for _, c := range t.catchments {
				if n.catchmentByID[c.ID()] != c {
					n.catchmentByID[c.ID()] = c
					n.catchments = append(n.catchments, c)
				}
			}
			for _, r := range t.Members() {
				if n.reachByID[r.ID()] == r {
					continue
				}
				n.reachByID[r.ID()] = r
				n.reaches = append(n.reaches, r)
				for _, s := range r.Members() {
					if n.structureByID[s.ID()] != s {
						n.structureByID[s.ID()] = s
						n.structures = append(n.structures, s)
					}
				}
			}
		}
	}
	return n
}

// Lakes returns every lake.
func (n *Network) Lakes() []*Lake { return append([]*Lake(nil), n.lakes...) }

// Tributaries returns every tributary.
func (n *Network) Tributaries() []*Tributary { return append([]*Tributary(nil), n.tributaries...) }

// Catchments returns every catchment reachable from a lake.
func (n *Network) Catchments() []*Catchment { return append([]*Catchment(nil), n.catchments...) }

// Reaches returns every reach reachable from a lake.
func (n *Network) Reaches() []*Reach { return append([]*Reach(nil), n.reaches...) }

// Structures returns every structure reachable from a lake.
func (n *Network) Structures() []Structure { return append([]Structure(nil), n.structures...) }

// Lake looks up a lake by id.
func (n *Network) Lake(id string) (*Lake, bool) {
	l, ok := n.lakeByID[id]
	return l, ok
}

// Tributary looks up a tributary by id.
func (n *Network) Tributary(id string) (*Tributary, bool) {
	t, ok := n.tributaryByID[id]
	return t, ok
}

// Catchment looks up a catchment by id.
func (n *Network) Catchment(id string) (*Catchment, bool) {
	c, ok := n.catchmentByID[id]
	return c, ok
}

// Reach looks up a reach by id.
func (n *Network) Reach(id string) (*Reach, bool) {
	r, ok := n.reachByID[id]
	return r, ok
}

// Structure looks up a structure by id.
func (n *Network) Structure(id string) (Structure, bool) {
	s, ok := n.structureByID[id]
	return s, ok
}

// Warnings returns the integrity warnings recorded during assembly.
func (n *Network) Warnings() []Warning { return append([]Warning(nil), n.warnings...) }

// Stats returns the number of entities per tier.
func (n *Network) Stats() Stats {
	return Stats{
		Lakes:       len(n.lakes),
		Tributaries: len(n.tributaries),
		Catchments:  len(n.catchments),
		Reaches:     len(n.reaches),
		Structures:  len(n.structures),
	}
}
