package gui

import (
	"fmt"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/neuroviz/internal/gui/orbit"
	"github.com/san-kum/neuroviz/internal/layout"
	"github.com/san-kum/neuroviz/internal/netmodel"
	"github.com/san-kum/neuroviz/internal/scene"
)

// edgeAlpha is the opacity of connection lines.
const edgeAlpha = 0.2

var (
	ColBg      = rl.NewColor(10, 10, 15, 255)
	ColText    = rl.NewColor(200, 200, 210, 255)
	ColTextDim = rl.NewColor(90, 90, 110, 255)
	ColCard    = rl.NewColor(20, 20, 30, 220)
)

type App struct {
	Scene  *scene.Scene
	Log    *log.Logger
	Camera rl.Camera3D
	Orbit  orbit.Orbit
	Font   rl.Font
	Frame  scene.Frame
	Paused bool

	pointer bool
	quit    bool
}

func initWindow() {
	rl.InitWindow(1280, 720, "neuroviz")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp mounts sc and sets up a camera matching the default view.
func NewApp(sc *scene.Scene, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}
	if !sc.Mounted() {
		sc.Mount()
	}
	o := orbit.New()
	return &App{
		Scene: sc,
		Log:   logger,
		Camera: rl.NewCamera3D(
			vec(o.Eye()),
			rl.NewVector3(0, 0, 0),
			rl.NewVector3(0, 1, 0),
			50.0,
			rl.CameraPerspective,
		),
		Orbit: o,
		Font:  loadFont(),
	}
}

// Run opens a window on sc and blocks until it is closed. The scene is
// unmounted on return.
func Run(sc *scene.Scene, logger *log.Logger) {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp(sc, logger)
	defer func() {
		if sc.Mounted() {
			sc.Unmount()
		}
	}()
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

func vec(v layout.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func unvec(v rl.Vector3) layout.Vec3 {
	return layout.Vec3{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

func color(hex string, intensity, alpha float64) rl.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return rl.ColorAlpha(ColText, float32(alpha))
	}
	r, g, b := netmodel.Emit(c, intensity).RGB255()
	return rl.NewColor(r, g, b, uint8(alpha*255))
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		a.quit = true
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Paused = !a.Paused
	}
	if rl.IsKeyPressed(rl.KeyA) {
		a.Orbit.AutoRotate = !a.Orbit.AutoRotate
	}

	dt := float64(rl.GetFrameTime())
	dragging := rl.IsMouseButtonDown(rl.MouseLeftButton)
	if dragging {
		d := rl.GetMouseDelta()
		a.Orbit.Drag(float64(d.X), float64(d.Y))
	} else {
		a.Orbit.Advance(dt)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.Orbit.Zoom(float64(wheel))
	}
	a.Camera.Position = vec(a.Orbit.Eye())

	if !dragging {
		a.pick()
	}

	if a.Paused {
		dt = 0
	}
	f, err := a.Scene.Tick(dt)
	if err != nil {
		a.Log.Error("scene tick failed", "err", err)
		a.quit = true
		return
	}
	a.Frame = f
}

// pick hovers the neuron under the mouse.
func (a *App) pick() {
	ray := rl.GetMouseRay(rl.GetMousePosition(), a.Camera)
	id, ok := orbit.PickNeuron(unvec(ray.Position), unvec(ray.Direction), a.Frame.Neurons)
	switch {
	case ok:
		a.pointer = true
		if !a.Scene.Hover().Is(id) {
			if err := a.Scene.PointerEnter(id.Layer, id.Index); err != nil {
				a.Log.Debug("pointer enter", "neuron", id, "err", err)
			}
		}
	case a.pointer:
		a.pointer = false
		if err := a.Scene.PointerLeave(); err != nil {
			a.Log.Debug("pointer leave", "err", err)
		}
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	a.drawScene()
	a.drawHUD()
	rl.EndDrawing()
}

func (a *App) drawScene() {
	rl.BeginMode3D(a.Camera)
	for _, e := range a.Frame.Edges {
		rl.DrawLine3D(vec(e.From), vec(e.To), color(e.Color, 1, edgeAlpha))
	}
	for _, p := range a.Frame.Particles {
		rl.DrawSphere(vec(p.Pos), scene.ParticleRadius, color(p.Color, 1, 1))
	}
	for _, n := range a.Frame.Neurons {
		rl.DrawSphere(vec(n.Pos), scene.NeuronRadius, color(n.Color, n.Emissive, 1))
	}
	rl.EndMode3D()
}

func (a *App) drawText(text string, x, y int, size int, col rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, col)
}

func (a *App) drawHUD() {
	a.drawText("NEURAL NETWORK", 30, 30, 24, ColText)
	if a.Paused {
		a.drawText("PAUSED", 30, 60, 16, ColTextDim)
	}

	x, y := int32(1280-300), int32(30)
	for _, c := range a.Frame.Cards {
		border := ColTextDim
		if c.Selected {
			border = color(c.Color, 1, 1)
		}
		h := int32(56)
		if c.Selected && c.HasFeature {
			h = 80
		}
		rl.DrawRectangle(x, y, 270, h, ColCard)
		rl.DrawRectangleLines(x, y, 270, h, border)
		a.drawText(c.Name, int(x)+12, int(y)+8, 18, color(c.Color, 1, 1))
		a.drawText(fmt.Sprintf("%d neurons", c.Neurons), int(x)+12, int(y)+32, 14, ColTextDim)
		if c.Selected && c.HasFeature {
			a.drawText("> "+c.Feature, int(x)+12, int(y)+54, 16, ColText)
		}
		y += h + 10
	}

	st := a.Scene.Stats()
	rl.DrawRectangle(x, y, 270, 96, ColCard)
	a.drawText("Model Stats", int(x)+12, int(y)+8, 18, ColText)
	a.drawText(fmt.Sprintf("Layers       %d", st.Layers), int(x)+12, int(y)+34, 14, ColTextDim)
	a.drawText(fmt.Sprintf("Neurons      %d", st.Neurons), int(x)+12, int(y)+52, 14, ColTextDim)
	a.drawText(fmt.Sprintf("Connections  %d", st.Connections), int(x)+12, int(y)+70, 14, ColTextDim)

	a.drawText("[DRAG] ORBIT  [WHEEL] ZOOM  [SPACE] PAUSE  [A] ROTATE  [Q] QUIT", 30, 680, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 1180, 680, 14, ColTextDim)
}
