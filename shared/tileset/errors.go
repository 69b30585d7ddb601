package tileset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformed is matched by every *ParseError.
	ErrMalformed = errors.New("malformed tileset document")
	// ErrInvalid is matched by every *ValidationError.
	ErrInvalid = errors.New("invalid tileset")

	ErrAssetMissing = errors.New("image not found")
	ErrAssetSize    = errors.New("image size mismatch")
	ErrAssetCorrupt = errors.New("image unreadable")
)

// ParseError reports a document that does not follow the TSX grammar.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse TSX %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformed, e.Err}
}

// ValidationError carries the issues that made a strict load fail.
type ValidationError struct {
	Path   string
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		msgs = append(msgs, i.String())
	}
	return fmt.Sprintf("validate TSX %s: %d issue(s): %s", e.Path, len(e.Issues), strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// AssetError reports an image referenced by a tileset that cannot be used.
type AssetError struct {
	Tileset string
	TileID  uint32
	Atlas   bool
	Path    string
	Err     error
}

func (e *AssetError) Error() string {
	if e.Atlas {
		return fmt.Sprintf("%s: atlas image %s: %v", e.Tileset, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: tile %d image %s: %v", e.Tileset, e.TileID, e.Path, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}
