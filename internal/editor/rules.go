package editor

import (
	"fmt"

	"studio/internal/domain"
)

// Text levels understood by the default size rules.
const (
	LevelHeading1  = "heading-1"
	LevelHeading2  = "heading-2"
	LevelHeading3  = "heading-3"
	LevelParagraph = "paragraph"
)

// DefaultSize returns the size a freshly added block of type t gets when the
// caller did not provide one.
func DefaultSize(t domain.BlockType, content domain.Content) (domain.Size, error) {
	switch t {
	case domain.BlockTypeText:
		switch content.StringAt("level") {
		case LevelHeading1:
			return domain.Size{Width: domain.Pct(80), Height: domain.Auto}, nil
		case LevelHeading2:
			return domain.Size{Width: domain.Pct(70), Height: domain.Auto}, nil
		case LevelHeading3:
			return domain.Size{Width: domain.Pct(60), Height: domain.Auto}, nil
		default:
			return domain.Size{Width: domain.Pct(50), Height: domain.Auto}, nil
		}
	case domain.BlockTypeImage:
		return domain.Size{Width: domain.Pct(40), Height: domain.Pct(30)}, nil
	case domain.BlockTypePackageList:
		return domain.Size{Width: domain.Pct(60), Height: domain.Auto}, nil
	case domain.BlockTypeEmbeddedAsset:
		return domain.Size{Width: domain.Pct(100), Height: domain.Pct(100)}, nil
	default:
		return domain.Size{}, fmt.Errorf("%w: %q", domain.ErrInvalidBlockType, t)
	}
}

// assetKey names the content field holding an external asset reference.
func assetKey(t domain.BlockType) (string, bool) {
	switch t {
	case domain.BlockTypeImage, domain.BlockTypeEmbeddedAsset:
		return "src", true
	case domain.BlockTypeText, domain.BlockTypePackageList:
		return "", false
	default:
		return "", false
	}
}

// normalizeSize fills unset dimensions from the type's default rule.
func normalizeSize(b domain.Block) (domain.Block, error) {
	def, err := DefaultSize(b.Type, b.Content)
	if err != nil {
		return b, err
	}
	if b.Size.Width.IsZero() {
		b.Size.Width = def.Width
	}
	if b.Size.Height.IsZero() {
		b.Size.Height = def.Height
	}
	return b, nil
}
