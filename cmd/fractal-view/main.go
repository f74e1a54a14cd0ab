// fractal-view renders a signed-distance scene on the CPU and shows it in
// a window. Press Escape to quit.
package main

import (
	"flag"
	"log"
	"strings"

	"github.com/gmlewis/fractal-renderer/config"
	"github.com/gmlewis/fractal-renderer/march"
	"github.com/gmlewis/fractal-renderer/viewer"
)

var (
	configFile = flag.String("config", "", "JSON render configuration")
	width      = flag.String("width", "", "window width in pixels")
	height     = flag.String("height", "", "window height in pixels")
	camera     = flag.String("camera", "", "camera position as x,y,z")
	sceneName  = flag.String("scene", "", "scene: "+strings.Join(march.SceneNames(), ", "))
	shading    = flag.String("shading", "", "shading: "+strings.Join(march.ShaderNames, ", "))
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			log.Fatalf("config.Load: %v", err)
		}
	}
	cfg.Width = config.ParseUint(*width, cfg.Width)
	cfg.Height = config.ParseUint(*height, cfg.Height)
	cfg.CameraPosition = config.ParseVec3String(*camera, cfg.CameraPosition)
	if *sceneName != "" {
		cfg.Scene = *sceneName
	}
	if *shading != "" {
		cfg.Shading = *shading
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	scene, shader, err := cfg.SceneAndShader()
	if err != nil {
		log.Fatal(err)
	}

	r := &march.CPURenderer{}
	params := cfg.Params()
	if err := r.Init(int(params.Width), int(params.Height), true); err != nil {
		log.Fatal(err)
	}
	defer r.Close()
	if err := r.Prepare(scene, shader); err != nil {
		log.Fatal(err)
	}

	title := "Fractal Renderer: " + cfg.Scene
	if err := viewer.Run(title, int(params.Width), int(params.Height), func() ([]byte, error) {
		return r.Render(params)
	}); err != nil {
		log.Fatalf("viewer.Run: %v", err)
	}
}
