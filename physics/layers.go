package physics

// AllMask selects every layer.
const AllMask uint = ^uint(0)

const (
	LayerDefault uint = 1 << iota
	LayerCharacter
	LayerPlatform
	LayerSensor
)

// Layers describes which layers a collider belongs to and which it interacts with.
type Layers struct {
	Memberships uint `yaml:"memberships"`
	Filters     uint `yaml:"filters"`
}

var AllLayers = Layers{Memberships: AllMask, Filters: AllMask}

func (l Layers) Interacts(other Layers) bool {
	return l.Memberships&other.Filters != 0 && other.Memberships&l.Filters != 0
}

// QueryFilter limits spatial queries to colliders whose memberships intersect
// Mask and that are not explicitly excluded.
type QueryFilter struct {
	Mask     uint
	Excluded map[ColliderID]struct{}
}

func NewQueryFilter() QueryFilter {
	return QueryFilter{Mask: AllMask, Excluded: make(map[ColliderID]struct{})}
}

func (f QueryFilter) WithMask(mask uint) QueryFilter {
	f.Mask = mask
	return f
}

func (f *QueryFilter) Exclude(ids ...ColliderID) {
	if f.Excluded == nil {
		f.Excluded = make(map[ColliderID]struct{}, len(ids))
	}
	for _, id := range ids {
		f.Excluded[id] = struct{}{}
	}
}

// Reset restores the filter to accept everything.
func (f *QueryFilter) Reset() {
	f.Mask = AllMask
	clear(f.Excluded)
}

func (f QueryFilter) Allows(id ColliderID, layers Layers) bool {
	if layers.Memberships&f.Mask == 0 {
		return false
	}
	_, excluded := f.Excluded[id]
	return !excluded
}
