// fractal-render renders a signed-distance scene to an image file and
// can optionally export the scene as a binvox voxel model.
//
// Usage:
//
//	fractal-render -scene sierpinski -shading phong -out sierpinski.png
//	fractal-render -config scene.json -backend webgpu -out frame.tiff
//	fractal-render -scene sphere -binvox sphere -voxel 0.01
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gmlewis/fractal-renderer/binvox"
	"github.com/gmlewis/fractal-renderer/config"
	"github.com/gmlewis/fractal-renderer/glrender"
	"github.com/gmlewis/fractal-renderer/imgout"
	"github.com/gmlewis/fractal-renderer/march"
	"github.com/gmlewis/fractal-renderer/wgpurender"
)

var (
	configFile = flag.String("config", "", "JSON render configuration")
	width      = flag.String("width", "", "image width in pixels")
	height     = flag.String("height", "", "image height in pixels")
	camera     = flag.String("camera", "", "camera position as x,y,z")
	direction  = flag.String("dir", "", "camera direction as x,y,z")
	maxSteps   = flag.String("steps", "", "maximum sphere-tracing steps per ray")
	minDist    = flag.String("min", "", "hit distance threshold")
	sceneName  = flag.String("scene", "", "scene: "+strings.Join(march.SceneNames(), ", "))
	shading    = flag.String("shading", "", "shading: "+strings.Join(march.ShaderNames, ", "))
	backend    = flag.String("backend", "cpu", "renderer: cpu, webgpu or opengl")
	view       = flag.Bool("view", false, "show the OpenGL window while rendering")
	out        = flag.String("out", "", "output image (.png, .bmp, .tif or .tiff)")
	binvoxOut  = flag.String("binvox", "", "base filename for a binvox export of the scene")
	voxelSize  = flag.Float64("voxel", 0.02, "binvox voxel size in model units")
	extent     = flag.Float64("extent", 1, "binvox export covers [-extent,extent] on each axis")
)

func main() {
	flag.Parse()

	if *out == "" && *binvoxOut == "" {
		log.Fatalf("Nothing to do: set -out and/or -binvox")
	}

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			log.Fatalf("config.Load: %v", err)
		}
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	scene, shader, err := cfg.SceneAndShader()
	if err != nil {
		log.Fatal(err)
	}

	if *out != "" {
		r, err := newRenderer(*backend)
		if err != nil {
			log.Fatal(err)
		}
		if err := render(r, cfg.Params(), scene, shader, *out); err != nil {
			log.Fatalf("render: %v", err)
		}
	}

	if *binvoxOut != "" {
		e := float32(*extent)
		slicer, err := march.NewSlicer(scene, [3]float32{-e, -e, -e}, [3]float32{e, e, e}, float32(*voxelSize))
		if err != nil {
			log.Fatalf("NewSlicer: %v", err)
		}
		if err := binvox.Slice(*binvoxOut, slicer); err != nil {
			log.Fatalf("binvox.Slice: %v", err)
		}
	}

	log.Println("Done.")
}

// applyFlags overrides cfg with any values given on the command line.
// Unparseable numbers leave the configured value unchanged.
func applyFlags(cfg *config.Config) {
	cfg.Width = config.ParseUint(*width, cfg.Width)
	cfg.Height = config.ParseUint(*height, cfg.Height)
	cfg.CameraPosition = config.ParseVec3String(*camera, cfg.CameraPosition)
	cfg.CameraDirection = config.ParseVec3String(*direction, cfg.CameraDirection)
	cfg.MaxSteps = config.ParseInt(*maxSteps, cfg.MaxSteps)
	cfg.MinDistance = config.ParseFloat(*minDist, cfg.MinDistance)
	if *sceneName != "" {
		cfg.Scene = *sceneName
	}
	if *shading != "" {
		cfg.Shading = *shading
	}
}

func newRenderer(name string) (march.Renderer, error) {
	switch name {
	case "cpu":
		return &march.CPURenderer{}, nil
	case "webgpu":
		return &wgpurender.Renderer{}, nil
	case "opengl", "gl":
		return &glrender.Renderer{}, nil
	}
	return nil, fmt.Errorf("unknown backend %q (want cpu, webgpu or opengl)", name)
}

func render(r march.Renderer, params march.ImageParameters, scene march.Scene, shader march.Shader, filename string) error {
	if err := r.Init(int(params.Width), int(params.Height), *view); err != nil {
		return fmt.Errorf("Init: %w", err)
	}
	defer r.Close()

	if err := r.Prepare(scene, shader); err != nil {
		return fmt.Errorf("Prepare: %w", err)
	}

	start := time.Now()
	pix, err := r.Render(params)
	if err != nil {
		return fmt.Errorf("Render: %w", err)
	}
	log.Printf("Rendered %vx%v with %v backend in %v", params.Width, params.Height, *backend, time.Since(start))

	img := march.NewImage(int(params.Width), int(params.Height), pix)
	if err := imgout.Save(filename, img); err != nil {
		return err
	}
	log.Printf("Wrote %v", filename)
	return nil
}
