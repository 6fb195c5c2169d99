// Command viewer renders a rotating lit cube over a floor, lit by a shadow casting directional
// light and a point light, with the built-in Blinn-Phong program.
//
// Drag with the middle mouse button to orbit and scroll to zoom. Shaders below the configured
// shader directory are hot reloaded.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine"
	"github.com/Carmen-Shannon/oxy-render/engine/camera"
	"github.com/Carmen-Shannon/oxy-render/engine/config"
	"github.com/Carmen-Shannon/oxy-render/engine/light"
	"github.com/Carmen-Shannon/oxy-render/engine/mesh"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/program"
	"github.com/Carmen-Shannon/oxy-render/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

func run() error {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	configPath := fs.String("config", "", "a YAML or TOML engine configuration")
	profile := fs.Bool("profile", false, "log frame statistics once per second")
	debug := fs.Bool("debug", false, "log at debug level")
	texturePath := fs.String("texture", "", "a PNG or JPEG image to wrap the cube in")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// ── Camera ──────────────────────────────────────────────────────────
	controller := camera.NewCameraController(
		camera.WithPivot(0, 0.5, 0),
		camera.WithOrbit(8, 0.6, 0.4),
		camera.WithRadiusBounds(2, 40),
	)
	cam := camera.NewCamera(
		camera.WithFov(mgl32.DegToRad(45)),
		camera.WithAspect(float32(cfg.Window.Width)/float32(cfg.Window.Height)),
		camera.WithClipPlanes(0.1, 200),
		camera.WithController(controller),
	)

	// ── Engine + Window ─────────────────────────────────────────────────
	eng, err := engine.NewEngine(
		engine.WithConfig(cfg),
		engine.WithLogger(logger),
		engine.WithProfiling(*profile),
		engine.WithTickRate(60),
		engine.WithCamera(cam),
	)
	if err != nil {
		return err
	}
	r := eng.Renderer()

	// ── Program + Materials ─────────────────────────────────────────────
	lit, err := r.CreateProgram("Blinn-Phong",
		program.WithVertexSource(renderer.BuiltinShaderDir+"/blinn_phong.vert"),
		program.WithFragmentSource(renderer.BuiltinShaderDir+"/blinn_phong.frag"),
		program.WithFeatures(map[string]string{"SHADOWS_ENABLED": ""}),
	)
	if err != nil {
		return fmt.Errorf("failed to compile lit program: %w", err)
	}

	cubeTexture := common.Checkerboard(4, 1, [4]byte{255, 255, 255, 255}, [4]byte{255, 255, 255, 255})
	if *texturePath != "" {
		f, err := os.Open(*texturePath)
		if err != nil {
			return err
		}
		cubeTexture, err = common.DecodeTexture(f)
		f.Close()
		if err != nil {
			return err
		}
	}
	cubeDiffuse, err := uploadTexture(r.Device(), cubeTexture)
	if err != nil {
		return err
	}
	floorDiffuse, err := uploadTexture(r.Device(), common.Checkerboard(256, 8, [4]byte{230, 230, 230, 255}, [4]byte{90, 90, 90, 255}))
	if err != nil {
		return err
	}

	newMaterial := func(name string, texture gpu.Texture, diffuse mgl32.Vec3, shininess float32) material.Material {
		m := r.CreateMaterial(name, material.WithProgram(lit), material.WithTexture("uniform_tex_diffuse", texture))
		if err := m.SetBlockValue("_Regular_BlinnPhong", "color_diffuse", diffuse); err != nil {
			logger.Warn("material value rejected", "material", name, "error", err)
		}
		if err := m.SetBlockValue("_Regular_BlinnPhong", "shininess", shininess); err != nil {
			logger.Warn("material value rejected", "material", name, "error", err)
		}
		return m
	}
	cubeMaterial := newMaterial("Cube", cubeDiffuse, mgl32.Vec3{0.8, 0.3, 0.2}, 64)
	floorMaterial := newMaterial("Floor", floorDiffuse, mgl32.Vec3{1, 1, 1}, 8)

	// ── Geometry ────────────────────────────────────────────────────────
	// Meshes and textures live as long as the context, which Run tears down.
	cubeMesh, err := mesh.NewMesh("cube", r.Device(), mesh.Cube()...)
	if err != nil {
		return err
	}
	floorMesh, err := mesh.NewMesh("floor", r.Device(), mesh.Plane(20, 4)...)
	if err != nil {
		return err
	}

	cubeTransform := transform.NewTransform(transform.WithTranslation(0, 1, 0))
	cube := renderer.NewRenderable(cubeMesh, cubeMaterial,
		renderer.WithTransform(cubeTransform),
		renderer.WithShadows(true, true),
	)
	floor := renderer.NewRenderable(floorMesh, floorMaterial, renderer.WithShadows(false, true))
	for _, renderable := range []renderer.Renderable{cube, floor} {
		if err := r.AddRenderable(renderable, renderer.QueueGeometry); err != nil {
			return err
		}
	}

	// ── Lights ──────────────────────────────────────────────────────────
	sun := light.NewLight(light.LightTypeDirectional,
		light.WithPosition(10, 20, 10),
		light.WithDirection(-1, -2, -1),
		light.WithColors(mgl32.Vec3{0.1, 0.1, 0.12}, mgl32.Vec3{1.0, 0.95, 0.85}, mgl32.Vec3{1, 1, 1}),
	)
	r.AddDirectionalLight(sun)

	fill := light.NewLight(light.LightTypePoint,
		light.WithPosition(-4, 3, 3),
		light.WithColors(mgl32.Vec3{}, mgl32.Vec3{0.2, 0.4, 1.0}, mgl32.Vec3{0.2, 0.4, 1.0}),
		light.WithAttenuation(1, 0.09, 0.032),
	)
	r.AddPointLight(fill)

	// ── Input ───────────────────────────────────────────────────────────
	var dragging bool
	var lastX, lastY int32
	w := eng.Window()
	w.SetMiddleMouseDownCallback(func(x, y int32) {
		dragging, lastX, lastY = true, x, y
	})
	w.SetMiddleMouseUpCallback(func(x, y int32) {
		dragging = false
	})
	w.SetMouseMoveCallback(func(x, y int32) {
		if dragging {
			controller.Drag(float32(x-lastX), float32(y-lastY))
			lastX, lastY = x, y
		}
	})
	w.SetScrollCallback(controller.Zoom)

	// ── Loop ────────────────────────────────────────────────────────────
	var angle float32
	eng.SetTickCallback(func(dt float32) {
		angle += dt * 0.8
		cubeTransform.SetEulerAngles(angle*0.5, angle, 0)
	})

	return eng.Run()
}

func uploadTexture(device gpu.Device, data common.TextureData) (gpu.Texture, error) {
	texture, err := device.CreateTexture(gpu.TextureDescriptor{
		Width:   data.Width,
		Height:  data.Height,
		Format:  gpu.TextureFormatSRGBA8,
		Pixels:  data.Pixels,
		Wrap:    gpu.TextureWrapRepeat,
		Mipmaps: true,
	})
	if err != nil {
		return gpu.Texture{}, fmt.Errorf("failed to create texture: %w", err)
	}
	return texture, nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "viewer: %v\n", err)
		os.Exit(1)
	}
}
