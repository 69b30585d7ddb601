package tileset

import (
	"fmt"
	"strings"
)

// Policy selects what happens when a document is semantically invalid.
type Policy int

const (
	// PolicyStrict fails the load on any issue.
	PolicyStrict Policy = iota
	// PolicyLenient drops what cannot be used and keeps the rest. Issues
	// that leave the tileset unaddressable still fail the load.
	PolicyLenient
)

func (p Policy) String() string {
	if p == PolicyLenient {
		return "lenient"
	}
	return "strict"
}

// ParsePolicy maps "strict" / "lenient" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return PolicyStrict, nil
	case "lenient":
		return PolicyLenient, nil
	}
	return PolicyStrict, fmt.Errorf("unknown policy %q", s)
}

// IssueKind classifies a semantic-integrity problem.
type IssueKind int

const (
	IssueDuplicateTile IssueKind = iota + 1
	IssueTileOutOfRange
	IssueDegenerateObject
	IssueUnsupportedShape
	IssueDanglingFrame
	IssueEmptyAnimation
	IssueMissingTileImage
	IssueMissingAtlasImage
	IssueColumnMismatch
	IssueTileCountMismatch
)

var issueNames = map[IssueKind]string{
	IssueDuplicateTile:     "duplicate_tile",
	IssueTileOutOfRange:    "tile_out_of_range",
	IssueDegenerateObject:  "degenerate_object",
	IssueUnsupportedShape:  "unsupported_shape",
	IssueDanglingFrame:     "dangling_frame",
	IssueEmptyAnimation:    "empty_animation",
	IssueMissingTileImage:  "missing_tile_image",
	IssueMissingAtlasImage: "missing_atlas_image",
	IssueColumnMismatch:    "column_mismatch",
	IssueTileCountMismatch: "tile_count_mismatch",
}

func (k IssueKind) String() string {
	if name, ok := issueNames[k]; ok {
		return name
	}
	return "unknown"
}

// Fatal reports whether the issue rejects the tileset under every policy.
func (k IssueKind) Fatal() bool {
	return k == IssueMissingAtlasImage || k == IssueColumnMismatch
}

// Issue is one semantic-integrity problem found by Validate.
type Issue struct {
	Kind     IssueKind
	TileID   uint32
	ObjectID uint32
	Frame    int // animation frame index, for IssueDanglingFrame
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Kind, i.Message)
}

// Validate lists every semantic-integrity issue of ts. It never mutates ts.
func Validate(ts *Tileset) []Issue {
	var issues []Issue
	issues = append(issues, validateLayout(ts)...)

	seen := make(map[uint32]bool, len(ts.Tiles))
	for i := range ts.Tiles {
		t := &ts.Tiles[i]
		if seen[t.ID] {
			issues = append(issues, Issue{
				Kind:    IssueDuplicateTile,
				TileID:  t.ID,
				Message: fmt.Sprintf("tile %d declared more than once", t.ID),
			})
			continue
		}
		seen[t.ID] = true
		issues = append(issues, validateTile(ts, t)...)
	}

	return issues
}

func validateLayout(ts *Tileset) []Issue {
	if ts.Mode() == ModeCollection {
		declared := countDistinct(ts.Tiles)
		if ts.TileCount != declared {
			return []Issue{{
				Kind:    IssueTileCountMismatch,
				Message: fmt.Sprintf("tilecount=%d but %d tiles declared", ts.TileCount, declared),
			}}
		}
		return nil
	}

	if ts.Image == nil || ts.Image.Width <= 0 || ts.Image.Height <= 0 {
		return []Issue{{
			Kind:    IssueMissingAtlasImage,
			Message: fmt.Sprintf("columns=%d but no atlas image", ts.Columns),
		}}
	}

	cols, rows := AtlasGrid(ts)
	var issues []Issue
	if cols != ts.Columns {
		issues = append(issues, Issue{
			Kind: IssueColumnMismatch,
			Message: fmt.Sprintf("columns=%d but %dpx atlas fits %d columns",
				ts.Columns, ts.Image.Width, cols),
		})
	}
	if ts.TileCount > cols*rows {
		issues = append(issues, Issue{
			Kind: IssueColumnMismatch,
			Message: fmt.Sprintf("tilecount=%d exceeds %dx%d atlas grid",
				ts.TileCount, cols, rows),
		})
	}
	return issues
}

func validateTile(ts *Tileset, t *Tile) []Issue {
	var issues []Issue

	if ts.Mode() == ModeAtlas && int64(t.ID) >= int64(ts.TileCount) {
		issues = append(issues, Issue{
			Kind:    IssueTileOutOfRange,
			TileID:  t.ID,
			Message: fmt.Sprintf("tile %d outside tilecount=%d", t.ID, ts.TileCount),
		})
	}
	if ts.Mode() == ModeCollection && (t.Image == nil || t.Image.Source == "") {
		issues = append(issues, Issue{
			Kind:    IssueMissingTileImage,
			TileID:  t.ID,
			Message: fmt.Sprintf("tile %d has no image", t.ID),
		})
	}

	for _, o := range t.Objects() {
		if o.Width <= 0 || o.Height <= 0 {
			issues = append(issues, Issue{
				Kind:     IssueDegenerateObject,
				TileID:   t.ID,
				ObjectID: o.ID,
				Message: fmt.Sprintf("tile %d object %d has size %gx%g",
					t.ID, o.ID, o.Width, o.Height),
			})
		}
		if o.Shape == ShapeUnsupported {
			issues = append(issues, Issue{
				Kind:     IssueUnsupportedShape,
				TileID:   t.ID,
				ObjectID: o.ID,
				Message:  fmt.Sprintf("tile %d object %d is not a rectangle or ellipse", t.ID, o.ID),
			})
		}
	}

	if t.Animation != nil && len(t.Animation) == 0 {
		issues = append(issues, Issue{
			Kind:    IssueEmptyAnimation,
			TileID:  t.ID,
			Message: fmt.Sprintf("tile %d has an animation without frames", t.ID),
		})
	}
	for i, f := range t.Animation {
		if !ts.HasTile(f.TileID) {
			issues = append(issues, Issue{
				Kind:    IssueDanglingFrame,
				TileID:  t.ID,
				Frame:   i,
				Message: fmt.Sprintf("tile %d frame %d references unknown tile %d", t.ID, i, f.TileID),
			})
		}
	}

	return issues
}

// AtlasGrid returns how many columns and rows of tiles fit in the atlas
// image once margin and spacing are accounted for.
func AtlasGrid(ts *Tileset) (cols, rows int) {
	if ts.Image == nil || ts.TileWidth <= 0 || ts.TileHeight <= 0 {
		return 0, 0
	}
	w := ts.Image.Width - 2*ts.Margin + ts.Spacing
	h := ts.Image.Height - 2*ts.Margin + ts.Spacing
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	return w / (ts.TileWidth + ts.Spacing), h / (ts.TileHeight + ts.Spacing)
}

// Apply validates ts and enforces the policy. Under PolicyStrict any issue
// returns a *ValidationError. Under PolicyLenient a degraded copy is returned
// together with the issues that were worked around; ts itself is untouched.
func Apply(ts *Tileset, policy Policy) (*Tileset, []Issue, error) {
	issues := Validate(ts)
	if len(issues) == 0 {
		return ts, nil, nil
	}

	var fatal []Issue
	for _, i := range issues {
		if policy == PolicyStrict || i.Kind.Fatal() {
			fatal = append(fatal, i)
		}
	}
	if len(fatal) > 0 {
		return nil, issues, &ValidationError{Path: ts.Path, Issues: fatal}
	}

	return degrade(ts, issues), issues, nil
}

func degrade(ts *Tileset, issues []Issue) *Tileset {
	type objKey struct{ tile, object uint32 }
	dropTile := make(map[uint32]bool)
	dropAnim := make(map[uint32]bool)
	dropObj := make(map[objKey]bool)

	for _, i := range issues {
		switch i.Kind {
		case IssueTileOutOfRange:
			dropTile[i.TileID] = true
		case IssueDegenerateObject, IssueUnsupportedShape:
			dropObj[objKey{i.TileID, i.ObjectID}] = true
		case IssueDanglingFrame, IssueEmptyAnimation:
			dropAnim[i.TileID] = true
		}
	}

	out := *ts
	out.Tiles = make([]Tile, 0, len(ts.Tiles))
	seen := make(map[uint32]bool, len(ts.Tiles))
	for _, t := range ts.Tiles {
		if seen[t.ID] || dropTile[t.ID] {
			continue
		}
		seen[t.ID] = true

		if dropAnim[t.ID] {
			t.Animation = nil
		}
		if t.Group != nil {
			group := *t.Group
			group.Objects = make([]CollisionObject, 0, len(t.Group.Objects))
			for _, o := range t.Group.Objects {
				if !dropObj[objKey{t.ID, o.ID}] {
					group.Objects = append(group.Objects, o)
				}
			}
			t.Group = &group
		}
		out.Tiles = append(out.Tiles, t)
	}
	return &out
}

func countDistinct(tiles []Tile) int {
	ids := make(map[uint32]struct{}, len(tiles))
	for _, t := range tiles {
		ids[t.ID] = struct{}{}
	}
	return len(ids)
}
