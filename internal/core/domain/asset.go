package domain

import (
	"fmt"
	"strings"
)

const assetRefPrefix = "image"

// An AssetRef identifies an uploaded image asset.
//
// The format is "image-<hash>-<width>x<height>-<ext>".
type AssetRef string

type AssetRefParts struct {
	Hash       string
	Dimensions string
	Ext        string
}

func NewAssetRef(hash string, width, height int, ext string) AssetRef {
	return AssetRef(fmt.Sprintf(
		"%s-%s-%dx%d-%s", assetRefPrefix, hash, width, height, ext,
	))
}

func (r AssetRef) Parts() (AssetRefParts, error) {
	const op = "AssetRef.Parts"

	segs := strings.Split(string(r), "-")
	if len(segs) != 4 || segs[0] != assetRefPrefix {
		return AssetRefParts{}, fmt.Errorf("%s: %w: %q", op, ErrInvalidAssetRef, r)
	}
	for _, s := range segs[1:] {
		if s == "" {
			return AssetRefParts{}, fmt.Errorf("%s: %w: %q", op, ErrInvalidAssetRef, r)
		}
	}
	return AssetRefParts{Hash: segs[1], Dimensions: segs[2], Ext: segs[3]}, nil
}

// FileName returns the name the asset is stored and served under.
func (r AssetRef) FileName() (string, error) {
	p, err := r.Parts()
	if err != nil {
		return "", err
	}
	return p.Hash + "-" + p.Dimensions + "." + p.Ext, nil
}

// An ImageURLBuilder derives display URLs from asset references.
type ImageURLBuilder struct {
	BaseURL string
}

func (b ImageURLBuilder) URL(ref AssetRef) (string, error) {
	const op = "ImageURLBuilder.URL"
	name, err := ref.FileName()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return strings.TrimRight(b.BaseURL, "/") + "/" + name, nil
}
