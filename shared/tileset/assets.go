package tileset

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// CheckAssets verifies that every image referenced by ts exists in fsys and,
// when its format is known, has the declared pixel size. Problems are
// returned as *AssetError values; they never invalidate the parsed tileset.
func CheckAssets(fsys fs.FS, ts *Tileset) []*AssetError {
	var errs []*AssetError

	if ts.Image != nil {
		if err := checkImage(fsys, ts.Image); err != nil {
			errs = append(errs, &AssetError{
				Tileset: ts.Path,
				Atlas:   true,
				Path:    ts.Image.Path,
				Err:     err,
			})
		}
	}

	for _, t := range ts.Tiles {
		if t.Image == nil {
			continue
		}
		if err := checkImage(fsys, t.Image); err != nil {
			errs = append(errs, &AssetError{
				Tileset: ts.Path,
				TileID:  t.ID,
				Path:    t.Image.Path,
				Err:     err,
			})
		}
	}

	return errs
}

func checkImage(fsys fs.FS, img *Image) error {
	if img.Path == "" {
		return ErrAssetMissing
	}

	f, err := fsys.Open(img.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrAssetMissing
		}
		return fmt.Errorf("%w: %v", ErrAssetCorrupt, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if errors.Is(err, image.ErrFormat) {
		// Unknown format, existence is all we can check
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAssetCorrupt, err)
	}

	if cfg.Width != img.Width || cfg.Height != img.Height {
		return fmt.Errorf("%w: declared %dx%d, file is %dx%d",
			ErrAssetSize, img.Width, img.Height, cfg.Width, cfg.Height)
	}
	return nil
}
