package tileview

import (
	_ "embed"
	"fmt"
	"image"
	"regexp"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"
)

// DefaultShader is the Kage program used when Config.ShaderURL is empty.
// It samples the tile texture and multiplies it by the Alpha uniform.
//
//go:embed shaders/viewer.kage
var DefaultShader []byte

// Uniform names set by the viewer on every frame.
const uniformAlpha = "Alpha"

// Texture is a backend-owned tile texture.
type Texture interface {
	// Release frees the texture. The texture must not be drawn afterwards.
	Release() error
}

// Program is a compiled shader with named uniforms.
type Program interface {
	// SetUniform stores a uniform value for the next Draw. Names the shader
	// does not declare fail with ErrUnknownResourceBinding.
	SetUniform(name string, value any) error
}

// Frame is everything needed to draw the image once.
type Frame struct {
	// Matrix maps image pixels to screen pixels.
	Matrix Mat3
	// Tiles are drawn in order; tile i uses Vertices[i*6 : i*6+6].
	Tiles    []Tile
	Vertices []QuadVertex
}

// Backend is the rendering collaborator. Implementations own every GPU
// resource; the viewer only asks for textures and releases them.
type Backend interface {
	MaxTextureSize() int
	Compile(src []byte) (Program, error)
	// NewTexture uploads the src pixels in r into a width x height texture
	// anchored at its top-left corner. The rest of the texture is transparent.
	NewTexture(src image.Image, r image.Rectangle, width, height int) (Texture, error)
	Clear(c Color)
	Draw(p Program, f Frame) error
}

// Scheduler requests that the host call the viewer's frame callback soon.
type Scheduler interface {
	RequestFrame()
}

// --- Ebitengine backend ---

// ebitenMaxTextureSize is the largest tile edge the ebiten backend accepts.
const ebitenMaxTextureSize = 4096

// EbitenBackend renders tiles with a Kage shader onto an ebiten target image.
// Call SetTarget with the screen at the start of each Draw.
type EbitenBackend struct {
	target *ebiten.Image

	vertices []ebiten.Vertex
	indices  []uint16
}

// NewEbitenBackend creates a backend with no target.
func NewEbitenBackend() *EbitenBackend {
	return &EbitenBackend{
		vertices: make([]ebiten.Vertex, verticesPerTile),
		indices:  []uint16{0, 1, 2, 3, 4, 5},
	}
}

// SetTarget sets the image subsequent Clear and Draw calls render into.
func (b *EbitenBackend) SetTarget(target *ebiten.Image) {
	b.target = target
}

// MaxTextureSize implements Backend.
func (b *EbitenBackend) MaxTextureSize() int {
	return ebitenMaxTextureSize
}

// Compile implements Backend.
func (b *EbitenBackend) Compile(src []byte) (Program, error) {
	shader, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceCompile, err)
	}
	return &ebitenProgram{
		shader:   shader,
		declared: kageUniforms(src),
		values:   make(map[string]any),
	}, nil
}

// NewTexture implements Backend.
func (b *EbitenBackend) NewTexture(src image.Image, r image.Rectangle, width, height int) (Texture, error) {
	if width <= 0 || height <= 0 || r.Dx() > width || r.Dy() > height {
		return nil, fmt.Errorf("tileview: texture %dx%d cannot hold %v", width, height, r)
	}
	padded := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(padded, image.Rect(0, 0, r.Dx(), r.Dy()), src, r.Min, draw.Src)

	img := ebiten.NewImageWithOptions(padded.Rect, &ebiten.NewImageOptions{Unmanaged: true})
	img.WritePixels(padded.Pix)
	return &ebitenTexture{img: img}, nil
}

// Clear implements Backend.
func (b *EbitenBackend) Clear(c Color) {
	if b.target == nil {
		return
	}
	c.A = 1
	b.target.Fill(c.toRGBA())
}

// Draw implements Backend. Vertices are transformed on the CPU; the shader
// only samples and applies the uniforms.
func (b *EbitenBackend) Draw(p Program, f Frame) error {
	if b.target == nil {
		return nil
	}
	prog, ok := p.(*ebitenProgram)
	if !ok {
		return fmt.Errorf("tileview: program %T was not compiled by the ebiten backend", p)
	}
	if len(f.Vertices) < len(f.Tiles)*verticesPerTile {
		return fmt.Errorf("tileview: %d vertices for %d tiles", len(f.Vertices), len(f.Tiles))
	}

	op := &ebiten.DrawTrianglesShaderOptions{Uniforms: prog.values}
	for i, t := range f.Tiles {
		tex, ok := t.Texture.(*ebitenTexture)
		if !ok || tex.img == nil {
			continue
		}
		quad := f.Vertices[i*verticesPerTile : (i+1)*verticesPerTile]
		for j, q := range quad {
			x, y := f.Matrix.Apply(float64(q.X), float64(q.Y))
			b.vertices[j] = ebiten.Vertex{
				DstX:   float32(x),
				DstY:   float32(y),
				SrcX:   q.U * float32(t.Width),
				SrcY:   q.V * float32(t.Height),
				ColorR: 1,
				ColorG: 1,
				ColorB: 1,
				ColorA: 1,
			}
		}
		op.Images[0] = tex.img
		b.target.DrawTrianglesShader(b.vertices, b.indices, prog.shader, op)
	}
	return nil
}

type ebitenTexture struct {
	img *ebiten.Image
}

func (t *ebitenTexture) Release() error {
	if t.img == nil {
		return fmt.Errorf("tileview: texture already released")
	}
	t.img.Deallocate()
	t.img = nil
	return nil
}

type ebitenProgram struct {
	shader   *ebiten.Shader
	declared map[string]bool
	values   map[string]any
}

func (p *ebitenProgram) SetUniform(name string, value any) error {
	if !p.declared[name] {
		return fmt.Errorf("%w: uniform %q", ErrUnknownResourceBinding, name)
	}
	p.values[name] = value
	return nil
}

// kageVarRe matches top-level uniform declarations: "var Name type" on one
// line, or each "Name type" line inside a "var ( ... )" block.
var (
	kageVarRe      = regexp.MustCompile(`(?m)^var\s+([A-Z]\w*)`)
	kageVarBlockRe = regexp.MustCompile(`(?ms)^var\s*\((.*?)^\)`)
	kageBlockLine  = regexp.MustCompile(`(?m)^\s*([A-Z]\w*)`)
)

// kageUniforms returns the exported top-level variables of a Kage program,
// which ebiten exposes as uniforms.
func kageUniforms(src []byte) map[string]bool {
	names := make(map[string]bool)
	for _, m := range kageVarRe.FindAllSubmatch(src, -1) {
		names[string(m[1])] = true
	}
	for _, block := range kageVarBlockRe.FindAllSubmatch(src, -1) {
		for _, m := range kageBlockLine.FindAllSubmatch(block[1], -1) {
			names[string(m[1])] = true
		}
	}
	return names
}

// EbitenScheduler asks ebiten for a frame. Pair it with
// ebiten.FPSModeVsyncOffMinimum so idle viewers do not redraw.
type EbitenScheduler struct{}

// RequestFrame implements Scheduler.
func (EbitenScheduler) RequestFrame() {
	ebiten.ScheduleFrame()
}
