package building

import "strings"

// registry keeps entities by ID and remembers insertion order.
type registry[T any] struct {
	items map[string]T
	order []string
}

func newRegistry[T any]() registry[T] {
	return registry[T]{items: make(map[string]T)}
}

func (r *registry[T]) add(id string, v T) bool {
	if _, exists := r.items[id]; exists {
		return false
	}
	r.items[id] = v
	r.order = append(r.order, id)
	return true
}

func (r *registry[T]) get(id string) (T, bool) {
	v, ok := r.items[id]
	return v, ok
}

func (r *registry[T]) list() []T {
	out := make([]T, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out
}

func (r *registry[T]) clone(copyFn func(T) T) registry[T] {
	c := registry[T]{
		items: make(map[string]T, len(r.items)),
		order: append([]string(nil), r.order...),
	}
	for id, v := range r.items {
		c.items[id] = copyFn(v)
	}
	return c
}

// Building is the aggregate that owns materials, noise sources, spaces and
// walls. It is not safe for concurrent use; callers that share a Building
// across goroutines must serialise access (see pkg/habitat).
type Building struct {
	Name string

	materials registry[Material]
	sources   registry[NoiseSource]
	spaces    registry[Space]

	walls     map[WallKey]Wall
	wallOrder []WallKey

	seq uint64
}

// New creates an empty building.
func New(name string) *Building {
	return &Building{
		Name:      name,
		materials: newRegistry[Material](),
		sources:   newRegistry[NoiseSource](),
		spaces:    newRegistry[Space](),
		walls:     make(map[WallKey]Wall),
	}
}

func (b *Building) nextSeq() uint64 {
	b.seq++
	return b.seq
}

// AddMaterial registers a material. IDs are unique.
func (b *Building) AddMaterial(m Material) error {
	if strings.TrimSpace(m.ID) == "" {
		return NewError("AddMaterial").Material(m.ID).Cause(ErrEmptyID).Build()
	}
	m.Seq = b.seq + 1
	if !b.materials.add(m.ID, m) {
		return NewError("AddMaterial").Material(m.ID).Cause(ErrDuplicateID).Build()
	}
	b.nextSeq()
	return nil
}

// AddNoiseSource registers a noise source. Intensity must not be negative.
func (b *Building) AddNoiseSource(s NoiseSource) error {
	if strings.TrimSpace(s.ID) == "" {
		return NewError("AddNoiseSource").Source(s.ID).Cause(ErrEmptyID).Build()
	}
	if s.Intensity < 0 {
		return NewError("AddNoiseSource").Source(s.ID).Cause(ErrNegativeValue).Build()
	}
	s.Seq = b.seq + 1
	if !b.sources.add(s.ID, s) {
		return NewError("AddNoiseSource").Source(s.ID).Cause(ErrDuplicateID).Build()
	}
	b.nextSeq()
	return nil
}

// AddSpace registers a space.
func (b *Building) AddSpace(s Space) error {
	if strings.TrimSpace(s.ID) == "" {
		return NewError("AddSpace").Space(s.ID).Cause(ErrEmptyID).Build()
	}
	s = s.clone()
	s.Seq = b.seq + 1
	if !b.spaces.add(s.ID, s) {
		return NewError("AddSpace").Space(s.ID).Cause(ErrDuplicateID).Build()
	}
	b.nextSeq()
	return nil
}

// AddWall joins two registered spaces. The material is not checked against
// the registry: an unknown material is reported when noise is evaluated.
func (b *Building) AddWall(x, y, materialID string) error {
	key := NewWallKey(x, y)
	if x == y {
		return NewError("AddWall").Wall(key).Cause(ErrSelfLoop).Build()
	}
	for _, id := range []string{x, y} {
		if _, ok := b.spaces.get(id); !ok {
			return NewError("AddWall").Space(id).Cause(ErrSpaceNotFound).Build()
		}
	}
	if _, exists := b.walls[key]; exists {
		return NewError("AddWall").Wall(key).Cause(ErrDuplicateID).Build()
	}
	b.walls[key] = Wall{Key: key, MaterialID: materialID, Seq: b.nextSeq()}
	b.wallOrder = append(b.wallOrder, key)
	return nil
}

// Material looks up a material by ID.
func (b *Building) Material(id string) (Material, bool) {
	return b.materials.get(id)
}

// NoiseSource looks up a noise source by ID.
func (b *Building) NoiseSource(id string) (NoiseSource, bool) {
	return b.sources.get(id)
}

// Space looks up a space by ID. The returned value is a copy.
func (b *Building) Space(id string) (Space, bool) {
	s, ok := b.spaces.get(id)
	if !ok {
		return Space{}, false
	}
	return s.clone(), true
}

// Wall looks up the wall between two spaces in either order.
func (b *Building) Wall(x, y string) (Wall, bool) {
	w, ok := b.walls[NewWallKey(x, y)]
	return w, ok
}

// Materials returns all materials in registration order.
func (b *Building) Materials() []Material {
	return b.materials.list()
}

// NoiseSources returns all noise sources in registration order.
func (b *Building) NoiseSources() []NoiseSource {
	return b.sources.list()
}

// Spaces returns copies of all spaces in registration order.
func (b *Building) Spaces() []Space {
	out := b.spaces.list()
	for i := range out {
		out[i] = out[i].clone()
	}
	return out
}

// SpaceIDs returns space IDs in registration order.
func (b *Building) SpaceIDs() []string {
	return append([]string(nil), b.spaces.order...)
}

// HasSpace reports whether id is a registered space.
func (b *Building) HasSpace(id string) bool {
	_, ok := b.spaces.get(id)
	return ok
}

// Walls returns all walls in registration order.
func (b *Building) Walls() []Wall {
	out := make([]Wall, 0, len(b.wallOrder))
	for _, k := range b.wallOrder {
		out = append(out, b.walls[k])
	}
	return out
}

// WallsOf returns the walls touching spaceID in registration order.
func (b *Building) WallsOf(spaceID string) []Wall {
	var out []Wall
	for _, k := range b.wallOrder {
		if k.Touches(spaceID) {
			out = append(out, b.walls[k])
		}
	}
	return out
}

// Neighbors returns the spaces sharing a wall with spaceID, in wall
// registration order.
func (b *Building) Neighbors(spaceID string) []string {
	var out []string
	for _, k := range b.wallOrder {
		if k.Touches(spaceID) {
			out = append(out, k.Other(spaceID))
		}
	}
	return out
}

// Degree returns the number of walls touching spaceID.
func (b *Building) Degree(spaceID string) int {
	n := 0
	for _, k := range b.wallOrder {
		if k.Touches(spaceID) {
			n++
		}
	}
	return n
}

// MaterialIndex returns a fresh map of materials keyed by ID.
func (b *Building) MaterialIndex() map[string]Material {
	out := make(map[string]Material, len(b.materials.items))
	for id, m := range b.materials.items {
		out[id] = m
	}
	return out
}

// SourceIndex returns a fresh map of noise sources keyed by ID.
func (b *Building) SourceIndex() map[string]NoiseSource {
	out := make(map[string]NoiseSource, len(b.sources.items))
	for id, s := range b.sources.items {
		out[id] = s
	}
	return out
}

// WallIndex returns a fresh map from wall key to material ID.
func (b *Building) WallIndex() map[WallKey]string {
	out := make(map[WallKey]string, len(b.walls))
	for k, w := range b.walls {
		out[k] = w.MaterialID
	}
	return out
}

// AssignActivity sets a space's activity label and threshold. A nil
// threshold clears it.
func (b *Building) AssignActivity(spaceID, activity string, threshold *float64) error {
	s, ok := b.spaces.get(spaceID)
	if !ok {
		return NewError("AssignActivity").Space(spaceID).Cause(ErrSpaceNotFound).Build()
	}
	s.Activity = activity
	if threshold != nil {
		v := *threshold
		s.Threshold = &v
	} else {
		s.Threshold = nil
	}
	b.spaces.items[spaceID] = s
	return nil
}

// SetWallMaterial replaces the material of an existing wall. The material
// must be registered.
func (b *Building) SetWallMaterial(x, y, materialID string) error {
	key := NewWallKey(x, y)
	w, ok := b.walls[key]
	if !ok {
		return NewError("SetWallMaterial").Wall(key).Cause(ErrWallNotFound).Build()
	}
	if _, ok := b.materials.get(materialID); !ok {
		return NewError("SetWallMaterial").Material(materialID).Cause(ErrMaterialNotFound).Build()
	}
	w.MaterialID = materialID
	b.walls[key] = w
	return nil
}

// UpdateNoiseSource changes an existing source's frequency and intensity.
func (b *Building) UpdateNoiseSource(id string, frequency int, intensity float64) error {
	s, ok := b.sources.get(id)
	if !ok {
		return NewError("UpdateNoiseSource").Source(id).Cause(ErrSourceNotFound).Build()
	}
	if intensity < 0 {
		return NewError("UpdateNoiseSource").Source(id).Cause(ErrNegativeValue).Build()
	}
	s.Frequency = frequency
	s.Intensity = intensity
	b.sources.items[id] = s
	return nil
}

// Clone returns a deep copy that shares no state with b.
func (b *Building) Clone() *Building {
	c := &Building{
		Name:      b.Name,
		materials: b.materials.clone(func(m Material) Material { return m }),
		sources:   b.sources.clone(func(s NoiseSource) NoiseSource { return s }),
		spaces:    b.spaces.clone(Space.clone),
		walls:     make(map[WallKey]Wall, len(b.walls)),
		wallOrder: append([]WallKey(nil), b.wallOrder...),
		seq:       b.seq,
	}
	for k, w := range b.walls {
		c.walls[k] = w
	}
	return c
}
