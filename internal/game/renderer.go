package game

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// The render shell is a dim echo of the soundscape: every body is a
// glow sprite at its projected view-plane position, pulsing with the
// ship's resonance. The game is fully playable with the window ignored.

const MaxSpriteRender = 4096

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

type Renderer struct {
	glowProg uint32

	spriteVAO uint32
	spriteVBO uint32

	uHalf       int32
	uResolution int32

	// Reusable render buffer to avoid per-frame heap allocations.
	buf []float32
}

func NewRenderer() (*Renderer, error) {
	glowProg, err := linkProgram(pointVertSrc, glowFragSrc)
	if err != nil {
		return nil, fmt.Errorf("glow program: %w", err)
	}

	r := &Renderer{glowProg: glowProg}

	// Sprite VAO/VBO: streaming buffer for point sprites.
	// Each sprite: 8 floats (x, y, size, r, g, b, a, pulse).
	var sVAO, sVBO uint32
	gl.GenVertexArrays(1, &sVAO)
	gl.GenBuffers(1, &sVBO)
	gl.BindVertexArray(sVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, sVBO)

	stride := int32(8 * 4)
	gl.BufferData(gl.ARRAY_BUFFER, MaxSpriteRender*int(stride), nil, gl.STREAM_DRAW)
	// aWorldPos (vec2)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, glOffset(0))
	// aSize (float)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 1, gl.FLOAT, false, stride, glOffset(2*4))
	// aColor (vec4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, glOffset(3*4))
	// aPulse (float)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 1, gl.FLOAT, false, stride, glOffset(7*4))
	r.spriteVAO = sVAO
	r.spriteVBO = sVBO

	gl.UseProgram(glowProg)
	r.uHalf = gl.GetUniformLocation(glowProg, gl.Str("uHalf\x00"))
	r.uResolution = gl.GetUniformLocation(glowProg, gl.Str("uResolution\x00"))
	gl.Uniform1f(r.uHalf, UniverseHalf)

	gl.BindVertexArray(0)
	return r, nil
}

func (r *Renderer) Destroy() {
	if r.spriteVBO != 0 {
		gl.DeleteBuffers(1, &r.spriteVBO)
	}
	if r.spriteVAO != 0 {
		gl.DeleteVertexArrays(1, &r.spriteVAO)
	}
	if r.glowProg != 0 {
		gl.DeleteProgram(r.glowProg)
	}
}

func bodyColor(kind BodyViewKind) (cr, cg, cb float32) {
	switch kind {
	case ViewStar:
		return 1.0, 0.9, 0.6
	case ViewPlanet:
		return 0.4, 0.9, 0.5
	case ViewNebula:
		return 0.7, 0.4, 0.9
	case ViewRift:
		return 0.3, 0.9, 1.0
	}
	return 1, 1, 1
}

func bodySize(kind BodyViewKind) float32 {
	switch kind {
	case ViewStar:
		return 10
	case ViewPlanet:
		return 6
	case ViewNebula:
		return 24
	case ViewRift:
		return 8
	}
	return 6
}

func (r *Renderer) push(x, y, size, cr, cg, cb, a, pulse float32) {
	r.buf = append(r.buf, x, y, size, cr, cg, cb, a, pulse)
}

// Draw renders one snapshot: all bodies plus the ship at its own
// projected position, then swaps nothing — the caller owns the loop.
func (r *Renderer) Draw(snap RenderSnapshot, fbW, fbH int) {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.ClearColor(0.01, 0.01, 0.03, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	r.buf = r.buf[:0]
	pulse := float32(snap.MeanRes)
	for _, b := range snap.Bodies {
		cr, cg, cb := bodyColor(b.Kind)
		r.push(float32(b.X), float32(b.Y), bodySize(b.Kind), cr, cg, cb, 1, pulse)
	}

	// Ship: brightness and size track mean resonance, with a slow
	// breathing term so a perfectly tuned ship still visibly lives.
	sx, sy := Project(snap.Position, snap.ViewRotation)
	breathe := float32(0.5 + 0.5*math.Sin(float64(pulse)*math.Pi))
	r.push(float32(sx), float32(sy), 14, 0.9, 0.95, 1.0, 1, pulse*breathe)

	if len(r.buf) == 0 {
		return
	}
	count := len(r.buf) / 8
	if count > MaxSpriteRender {
		count = MaxSpriteRender
	}

	r.drawGlowBuf(r.buf, count, fbW, fbH)
}

// DrawGlow renders an externally built glow sprite buffer, same
// 8-float format as the internal one.
func (r *Renderer) DrawGlow(buf []float32, fbW, fbH int) {
	if len(buf) == 0 {
		return
	}
	count := len(buf) / 8
	if count > MaxSpriteRender {
		count = MaxSpriteRender
	}
	r.drawGlowBuf(buf, count, fbW, fbH)
}

func (r *Renderer) drawGlowBuf(buf []float32, count, fbW, fbH int) {
	gl.UseProgram(r.glowProg)
	gl.BindVertexArray(r.spriteVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.spriteVBO)
	gl.Uniform2f(r.uResolution, float32(fbW), float32(fbH))
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE)
	gl.BufferData(gl.ARRAY_BUFFER, count*8*4, gl.Ptr(buf), gl.STREAM_DRAW)
	gl.DrawArrays(gl.POINTS, 0, int32(count))
	gl.Disable(gl.BLEND)
	gl.BindVertexArray(0)
}
