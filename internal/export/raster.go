package export

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"studio/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Canvas rasterizer: draws resolved pages with gg
// ─────────────────────────────────────────────────────────────

const lineSpacing = 1.4

// Font sizes in canvas pixels, before oversampling.
var levelFontSize = map[string]float64{
	"heading-1": 32,
	"heading-2": 24,
	"heading-3": 20,
	"paragraph": 14,
}

// CanvasRasterizer draws blocks in ascending z-index onto a canvas of
// Width x Height pixels, multiplied by the oversampling scale.
type CanvasRasterizer struct {
	Width    int
	Height   int
	AssetDir string

	once    sync.Once
	fontErr error
	regular *truetype.Font
	bold    *truetype.Font
}

func NewCanvasRasterizer(width, height int, assetDir string) *CanvasRasterizer {
	return &CanvasRasterizer{Width: width, Height: height, AssetDir: assetDir}
}

func (r *CanvasRasterizer) Rasterize(ctx context.Context, page domain.PageState, theme domain.Theme, scale float64) (image.Image, error) {
	if err := r.loadFonts(); err != nil {
		return nil, err
	}
	if scale <= 0 {
		scale = 1
	}
	w := int(float64(r.Width) * scale)
	h := int(float64(r.Height) * scale)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid canvas %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetHexColor(theme.Color("background", "#ffffff"))
	dc.Clear()

	blocks := append([]domain.ResolvedBlock(nil), page.Blocks...)
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Effective.Style.ZIndex() < blocks[j].Effective.Style.ZIndex()
	})

	for _, rb := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !rb.Effective.Visible {
			continue
		}
		if err := r.drawBlock(dc, rb, theme, scale); err != nil {
			return nil, fmt.Errorf("block %s: %w", rb.Block.ID, err)
		}
	}
	return dc.Image(), nil
}

type box struct {
	x, y, w, h float64
}

func (r *CanvasRasterizer) drawBlock(dc *gg.Context, rb domain.ResolvedBlock, theme domain.Theme, scale float64) error {
	cw, ch := float64(dc.Width()), float64(dc.Height())
	eff := rb.Effective
	b := box{x: eff.Position.X.Of(cw), y: eff.Position.Y.Of(ch)}
	if eff.Size.Width.Auto {
		b.w = cw - b.x
	} else {
		b.w = eff.Size.Width.Value.Of(cw)
	}
	if !eff.Size.Height.Auto {
		b.h = eff.Size.Height.Value.Of(ch)
	}

	switch rb.Block.Type {
	case domain.BlockTypeText:
		return r.drawText(dc, b, rb, theme, scale)
	case domain.BlockTypeImage:
		return r.drawImage(dc, b, rb, theme)
	case domain.BlockTypePackageList:
		return r.drawPackages(dc, b, rb, theme, scale)
	case domain.BlockTypeEmbeddedAsset:
		return r.drawEmbedded(dc, b, rb, theme)
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidBlockType, rb.Block.Type)
	}
}

func (r *CanvasRasterizer) drawText(dc *gg.Context, b box, rb domain.ResolvedBlock, theme domain.Theme, scale float64) error {
	level := rb.Block.Content.StringAt("level")
	size, ok := levelFontSize[level]
	if !ok {
		size = levelFontSize["paragraph"]
	}
	if v, ok := number(rb.Effective.Style["fontSize"]); ok && v > 0 {
		size = v
	}
	face := r.face(strings.HasPrefix(level, "heading"), size*scale)
	defer face.Close()
	dc.SetFontFace(face)

	text := rb.Block.Content.StringAt("text")
	if b.h == 0 {
		lines := dc.WordWrap(text, b.w)
		b.h = float64(max(1, len(lines))) * dc.FontHeight() * lineSpacing
	}
	fillBackground(dc, b, rb.Effective.Style)

	dc.SetHexColor(color(rb.Effective.Style, "color", theme.Color("text", "#222222")))
	dc.DrawStringWrapped(text, b.x, b.y, 0, 0, b.w, lineSpacing, align(rb.Effective.Style))
	strokeBorder(dc, b, rb.Effective.Style, scale)
	return nil
}

func (r *CanvasRasterizer) drawPackages(dc *gg.Context, b box, rb domain.ResolvedBlock, theme domain.Theme, scale float64) error {
	face := r.face(false, levelFontSize["paragraph"]*scale)
	defer face.Close()
	dc.SetFontFace(face)

	lines := packageLines(rb.Block.Content["items"])
	lh := dc.FontHeight() * lineSpacing
	if b.h == 0 {
		b.h = float64(max(1, len(lines))) * lh
	}
	fillBackground(dc, b, rb.Effective.Style)

	dc.SetHexColor(color(rb.Effective.Style, "color", theme.Color("text", "#222222")))
	for i, line := range lines {
		dc.DrawStringAnchored(line, b.x, b.y+float64(i)*lh, 0, 1)
	}
	strokeBorder(dc, b, rb.Effective.Style, scale)
	return nil
}

func (r *CanvasRasterizer) drawImage(dc *gg.Context, b box, rb domain.ResolvedBlock, theme domain.Theme) error {
	src := rb.Block.Content.StringAt("src")
	if src == "" {
		return placeholder(dc, b, theme)
	}
	img, err := imaging.Open(r.assetPath(src))
	if err != nil {
		return fmt.Errorf("open asset %s: %w", src, err)
	}
	if b.h == 0 {
		bounds := img.Bounds()
		b.h = b.w * float64(bounds.Dy()) / float64(max(1, bounds.Dx()))
	}
	if b.w < 1 || b.h < 1 {
		return nil
	}
	fitted := imaging.Fill(img, int(b.w), int(b.h), imaging.Center, imaging.Lanczos)
	dc.DrawImage(fitted, int(b.x), int(b.y))
	return nil
}

// drawEmbedded paints image assets full size; other formats get a labelled frame.
func (r *CanvasRasterizer) drawEmbedded(dc *gg.Context, b box, rb domain.ResolvedBlock, theme domain.Theme) error {
	src := rb.Block.Content.StringAt("src")
	switch strings.ToLower(filepath.Ext(src)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff":
		return r.drawImage(dc, b, rb, theme)
	}
	if b.h == 0 {
		b.h = float64(dc.Height()) - b.y
	}
	return placeholder(dc, b, theme)
}

func (r *CanvasRasterizer) assetPath(src string) string {
	if filepath.IsAbs(src) || r.AssetDir == "" {
		return src
	}
	return filepath.Join(r.AssetDir, src)
}

func (r *CanvasRasterizer) loadFonts() error {
	r.once.Do(func() {
		if r.regular, r.fontErr = truetype.Parse(goregular.TTF); r.fontErr != nil {
			return
		}
		r.bold, r.fontErr = truetype.Parse(gobold.TTF)
	})
	if r.fontErr != nil {
		return fmt.Errorf("load fonts: %w", r.fontErr)
	}
	return nil
}

func (r *CanvasRasterizer) face(bold bool, size float64) font.Face {
	f := r.regular
	if bold {
		f = r.bold
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull})
}

// ── drawing helpers ──

func fillBackground(dc *gg.Context, b box, style domain.Style) {
	bg := color(style, "background", "")
	if bg == "" || b.w <= 0 || b.h <= 0 {
		return
	}
	dc.SetHexColor(bg)
	dc.DrawRectangle(b.x, b.y, b.w, b.h)
	dc.Fill()
}

func strokeBorder(dc *gg.Context, b box, style domain.Style, scale float64) {
	bc := color(style, "borderColor", "")
	bw, ok := number(style["borderWidth"])
	if bc == "" || !ok || bw <= 0 {
		return
	}
	dc.SetHexColor(bc)
	dc.SetLineWidth(bw * scale)
	dc.DrawRectangle(b.x, b.y, b.w, b.h)
	dc.Stroke()
}

func placeholder(dc *gg.Context, b box, theme domain.Theme) error {
	if b.h == 0 {
		b.h = b.w * 0.75
	}
	dc.SetHexColor(theme.Color("muted", "#eeeeee"))
	dc.DrawRectangle(b.x, b.y, b.w, b.h)
	dc.Fill()
	return nil
}

func align(style domain.Style) gg.Align {
	switch style["textAlign"] {
	case "center":
		return gg.AlignCenter
	case "right":
		return gg.AlignRight
	default:
		return gg.AlignLeft
	}
}

func color(style domain.Style, key, fallback string) string {
	if s, ok := style[key].(string); ok && strings.HasPrefix(s, "#") {
		return s
	}
	return fallback
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(n, "px"), 64)
		return f, err == nil
	}
	return 0, false
}

// packageLines renders package list items; items are names or
// {name, price} objects.
func packageLines(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		switch t := it.(type) {
		case string:
			out = append(out, "• "+t)
		case map[string]any:
			name, _ := t["name"].(string)
			line := "• " + name
			if price, ok := number(t["price"]); ok {
				line += "  " + strconv.FormatFloat(price, 'f', 2, 64)
			}
			out = append(out, line)
		}
	}
	return out
}
