package building

// WallKey is an unordered pair of distinct space IDs, stored with A < B.
type WallKey struct {
	A string `json:"a"`
	B string `json:"b"`
}

// NewWallKey canonicalises the pair so (x, y) and (y, x) are the same key.
func NewWallKey(x, y string) WallKey {
	if y < x {
		x, y = y, x
	}
	return WallKey{A: x, B: y}
}

// Touches reports whether spaceID is one of the endpoints.
func (k WallKey) Touches(spaceID string) bool {
	return k.A == spaceID || k.B == spaceID
}

// Other returns the endpoint that is not spaceID.
func (k WallKey) Other(spaceID string) string {
	if k.A == spaceID {
		return k.B
	}
	return k.A
}

// Less orders keys by A then B.
func (k WallKey) Less(o WallKey) bool {
	if k.A != o.A {
		return k.A < o.A
	}
	return k.B < o.B
}

func (k WallKey) String() string {
	return k.A + "|" + k.B
}

// Wall is an adjacency edge carrying one material.
type Wall struct {
	Key        WallKey `json:"key"`
	MaterialID string  `json:"material_id"`
	Seq        uint64  `json:"seq"`
}
