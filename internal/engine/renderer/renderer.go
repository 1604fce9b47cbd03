// Package renderer draws the collider wireframe view with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/charctl/internal/engine/debug"
	"github.com/Faultbox/charctl/internal/engine/shader"
	"github.com/Faultbox/charctl/internal/logger"
)

// ClearColor is the background color.
var ClearColor = [4]float32{0, 1, 1, 1}

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	// FOV is the vertical field of view in degrees.
	FOV  float32
	Near float32
	Far  float32
}

// lineBuffer is a VAO/VBO pair holding colored line vertices.
type lineBuffer struct {
	vao      uint32
	vbo      uint32
	count    int32
	capacity int
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	program uint32
	uMVP    int32

	// scene holds the static colliders, uploaded once.
	scene lineBuffer
	// actor holds colliders that move, re-uploaded every frame.
	actor lineBuffer

	log *zap.Logger
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	if cfg.Near <= 0 {
		cfg.Near = 0.1
	}
	if cfg.Far <= cfg.Near {
		cfg.Far = 1000
	}
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(ClearColor[0], ClearColor[1], ClearColor[2], ClearColor[3])

	var err error
	r.program, err = shader.CompileProgram(shader.LineVertex, shader.LineFragment)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.uMVP = shader.GetUniform(r.program, "uMVP")

	r.scene = newLineBuffer()
	r.actor = newLineBuffer()

	r.Resize(cfg.Width, cfg.Height)
	r.log.Debug("line renderer ready", zap.Uint32("program", r.program))
	return r, nil
}

func newLineBuffer() lineBuffer {
	var b lineBuffer
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)

	stride := int32(debug.VertexStride * 4)
	// Position attribute (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// Color attribute (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return b
}

// upload replaces the buffer contents, growing the GL store when needed.
func (b *lineBuffer) upload(vs []debug.Vertex, usage uint32) {
	b.count = int32(len(vs))
	if len(vs) == 0 {
		return
	}
	data := debug.Flatten(vs)
	size := len(data) * 4

	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	if size > b.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, unsafe.Pointer(&data[0]), usage)
		b.capacity = size
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, unsafe.Pointer(&data[0]))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (b *lineBuffer) draw() {
	if b.count == 0 {
		return
	}
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.LINES, 0, b.count)
	gl.BindVertexArray(0)
}

func (b *lineBuffer) release() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
	}
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.scene.release()
	r.actor.release()
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// SetScene uploads the static collider wireframes.
func (r *Renderer) SetScene(vs []debug.Vertex) {
	r.scene.upload(vs, gl.STATIC_DRAW)
	r.log.Debug("scene wireframe uploaded", zap.Int("vertices", len(vs)))
}

// Projection returns the perspective projection for the current viewport.
func (r *Renderer) Projection() mgl32.Mat4 {
	aspect := float32(r.config.Width) / float32(r.config.Height)
	return mgl32.Perspective(mgl32.DegToRad(r.config.FOV), aspect, r.config.Near, r.config.Far)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw renders the static scene plus the moving wireframes actor from the
// camera view.
func (r *Renderer) Draw(view mgl32.Mat4, actor []debug.Vertex) {
	r.actor.upload(actor, gl.DYNAMIC_DRAW)

	mvp := r.Projection().Mul4(view)
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.uMVP, 1, false, &mvp[0])

	r.scene.draw()
	r.actor.draw()
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.UseProgram(0)
}

// ReadPixels reads the back buffer as RGBA, bottom row first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	if w <= 0 || h <= 0 {
		return nil, 0, 0
	}
	pixels := make([]byte, w*h*4)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}
