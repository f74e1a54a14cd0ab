// Package glrender sphere-traces scenes in an OpenGL fragment shader.
package glrender

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"strings"

	"github.com/gmlewis/fractal-renderer/march"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// Renderer is a march.Renderer implementation using OpenGL. Each pixel of
// a fullscreen quad runs the trace; the framebuffer is read back with
// glReadPixels, whose bottom-up row order matches march.Render.
type Renderer struct {
	window *glfw.Window
	width  int
	height int
	view   bool

	program  uint32
	vao      uint32
	vbo      uint32
	uniforms map[string]int32
	light    march.Light
}

var _ march.Renderer = &Renderer{}

var uniformNames = []string{
	"u_cameraPosition",
	"u_cameraDirection",
	"u_minDistance",
	"u_maxDistance",
	"u_maxSteps",
	"u_width",
	"u_height",
	"u_lightPosition",
	"u_diffuseColor",
	"u_diffusePower",
	"u_specularColor",
	"u_specularPower",
}

func (r *Renderer) Init(width, height int, view bool) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("bad image size %vx%v", width, height)
	}
	if r.window != nil && (r.width != width || r.height != height) {
		r.Close()
	}
	r.width = width
	r.height = height
	r.view = view

	if r.window == nil {
		err := glfw.Init()
		if err != nil {
			return fmt.Errorf("glfw.Init: %w", err)
		}

		glfw.WindowHint(glfw.Resizable, glfw.False)
		glfw.WindowHint(glfw.ContextVersionMajor, 4)
		glfw.WindowHint(glfw.ContextVersionMinor, 1)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
		if !r.view {
			glfw.WindowHint(glfw.Visible, glfw.False)
		}
		r.window, err = glfw.CreateWindow(width, height, "Fractal Renderer", nil, nil)
		if err != nil {
			return fmt.Errorf("CreateWindow(%v,%v): %w", width, height, err)
		}
		r.window.MakeContextCurrent()

		err = gl.Init()
		if err != nil {
			return fmt.Errorf("gl.Init: %w", err)
		}

		version := gl.GoStr(gl.GetString(gl.VERSION))
		log.Println("OpenGL version", version)
	}
	return nil
}

// Prepare compiles the fragment shader for scene and shader. Both must
// implement march.KernelSource.
func (r *Renderer) Prepare(scene march.Scene, shader march.Shader) error {
	if r.window == nil {
		return errors.New("renderer not initialized")
	}
	fragmentShader, err := march.GLSLFragment(scene, shader)
	if err != nil {
		return err
	}
	r.light = march.ShaderLight(shader)

	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
	if r.program, err = newProgram(march.GLSLVertex, fragmentShader); err != nil {
		return fmt.Errorf("newProgram: %w", err)
	}

	gl.UseProgram(r.program)
	r.uniforms = make(map[string]int32, len(uniformNames))
	for _, name := range uniformNames {
		r.uniforms[name] = gl.GetUniformLocation(r.program, gl.Str(name+"\x00"))
	}

	gl.BindFragDataLocation(r.program, 0, gl.Str("outputColor\x00"))

	// Configure the vertex data
	if r.vao == 0 {
		gl.GenVertexArrays(1, &r.vao)
		gl.BindVertexArray(r.vao)

		gl.GenBuffers(1, &r.vbo)
		gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
		gl.BufferData(gl.ARRAY_BUFFER, len(march.FullscreenQuad)*4, gl.Ptr(march.FullscreenQuad), gl.STATIC_DRAW)
	}
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	vertAttrib := uint32(gl.GetAttribLocation(r.program, gl.Str("vert\x00")))
	gl.EnableVertexAttribArray(vertAttrib)
	gl.VertexAttribPointer(vertAttrib, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))

	gl.Disable(gl.DEPTH_TEST)
	gl.ClearColor(0.0, 0.0, 0.0, 1.0)

	return nil
}

func (r *Renderer) Render(params march.ImageParameters) ([]byte, error) {
	if r.program == 0 {
		return nil, errors.New("renderer not prepared")
	}
	if err := march.CheckSize(params, r.width, r.height); err != nil {
		return nil, err
	}
	if e := gl.GetError(); e != gl.NO_ERROR {
		log.Printf("Render, before gl.Clear: GL ERROR: %v", e)
	}

	width, height := r.window.GetFramebufferSize()
	if width < r.width || height < r.height {
		return nil, fmt.Errorf("framebuffer %vx%v is smaller than image %vx%v", width, height, r.width, r.height)
	}
	gl.Viewport(0, 0, int32(r.width), int32(r.height))
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(r.program)
	r.setUniforms(params)

	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(march.FullscreenQuad)/2))

	if e := gl.GetError(); e != gl.NO_ERROR {
		return nil, fmt.Errorf("gl.DrawArrays: GL error %v", e)
	}

	pix := make([]byte, params.BufferLen())
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(r.width), int32(r.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pix[0]))

	if e := gl.GetError(); e != gl.NO_ERROR {
		return nil, fmt.Errorf("gl.ReadPixels: GL error %v", e)
	}

	// Maintenance
	r.window.SwapBuffers()
	glfw.PollEvents()

	return pix, nil
}

func (r *Renderer) setUniforms(params march.ImageParameters) {
	maxDistance := params.MaxDistance
	if maxDistance == 0 {
		maxDistance = march.DefaultMaxDistance
	}
	u := r.uniforms
	gl.Uniform3fv(u["u_cameraPosition"], 1, &params.CameraPosition[0])
	gl.Uniform3fv(u["u_cameraDirection"], 1, &params.CameraDirection[0])
	gl.Uniform1f(u["u_minDistance"], params.MinDistance)
	gl.Uniform1f(u["u_maxDistance"], maxDistance)
	gl.Uniform1i(u["u_maxSteps"], int32(params.MaxSteps))
	gl.Uniform1f(u["u_width"], float32(params.Width))
	gl.Uniform1f(u["u_height"], float32(params.Height))
	gl.Uniform3fv(u["u_lightPosition"], 1, &r.light.Position[0])
	gl.Uniform3fv(u["u_diffuseColor"], 1, &r.light.DiffuseColor[0])
	gl.Uniform1f(u["u_diffusePower"], r.light.DiffusePower)
	gl.Uniform3fv(u["u_specularColor"], 1, &r.light.SpecularColor[0])
	gl.Uniform1f(u["u_specularPower"], r.light.SpecularPower)
}

func (r *Renderer) Close() {
	if r.window != nil {
		glfw.Terminate()
		r.window = nil
		r.program, r.vao, r.vbo = 0, 0, 0
	}
}

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}

	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}

	program := gl.CreateProgram()

	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))

		return 0, fmt.Errorf("failed to link program: %v", log)
	}

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))

		return 0, fmt.Errorf("failed to compile %v: %v", source, log)
	}

	return shader, nil
}
