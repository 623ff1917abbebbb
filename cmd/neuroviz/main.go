package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/neuroviz/internal/config"
	"github.com/san-kum/neuroviz/internal/connect"
	"github.com/san-kum/neuroviz/internal/export"
	"github.com/san-kum/neuroviz/internal/gui"
	"github.com/san-kum/neuroviz/internal/netmodel"
	"github.com/san-kum/neuroviz/internal/scene"
	"github.com/san-kum/neuroviz/internal/server"
	"github.com/san-kum/neuroviz/internal/storage"
	"github.com/san-kum/neuroviz/internal/viz"
)

var (
	dataDir       string
	configFile    string
	preset        string
	verbose       bool
	frameRate     int
	theme         string
	rate          float64
	edgeOffset    float64
	layerSpacing  float64
	neuronSpacing float64
	// export-svg
	svgOut  string
	atTime  float64
	hoverAt string
	braille bool
	// export-dot
	dotOut string
	dotSVG bool
	// record
	frames  int
	dt      float64
	recName string
	jsonOut string
	// serve
	addr string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "neuroviz",
		Short:         "layered neural network visualizer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
		RunE: runView,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	pf.StringVar(&preset, "preset", config.DefaultPreset, "network preset")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.IntVar(&frameRate, "fps", config.DefaultFPS, "frames per second")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "terminal theme")
	pf.Float64Var(&rate, "rate", config.DefaultRate, "particle flow rate (cycles per second)")
	pf.Float64Var(&edgeOffset, "edge-offset", config.DefaultEdgeOffset, "phase offset between edges")
	pf.Float64Var(&layerSpacing, "layer-spacing", 4, "distance between layers")
	pf.Float64Var(&neuronSpacing, "neuron-spacing", 0.8, "distance between neurons")

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "terminal view",
		RunE:  runView,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "3d window view",
		RunE:  runGUI,
	}

	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "print neuron positions",
		RunE:  printLayout,
	}

	edgesCmd := &cobra.Command{
		Use:   "edges",
		Short: "print connections",
		RunE:  printEdges,
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "print model stats",
		RunE:  printStats,
	}

	validateCmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "validate a config file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  validateConfig,
	}

	svgCmd := &cobra.Command{
		Use:   "export-svg",
		Short: "render one frame to svg",
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&svgOut, "output", "o", "frame.svg", "output file")
	svgCmd.Flags().Float64Var(&atTime, "at", 0, "seconds of animation before the frame")
	svgCmd.Flags().StringVar(&hoverAt, "hover", "", "hovered neuron as layer:neuron")
	svgCmd.Flags().BoolVar(&braille, "braille", false, "export the terminal canvas instead")

	dotCmd := &cobra.Command{
		Use:   "export-dot",
		Short: "export topology as graphviz dot",
		RunE:  exportDOT,
	}
	dotCmd.Flags().StringVarP(&dotOut, "output", "o", "-", "output file (- for stdout)")
	dotCmd.Flags().BoolVar(&dotSVG, "svg", false, "render to svg with graphviz")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "capture frames headless",
		RunE:  recordFrames,
	}
	recordCmd.Flags().IntVar(&frames, "frames", 120, "number of frames")
	recordCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "seconds between frames")
	recordCmd.Flags().StringVar(&recName, "name", "", "recording name (defaults to preset)")
	recordCmd.Flags().StringVar(&jsonOut, "json", "", "also write frames as json (- for stdout)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recordings",
		RunE:  listRecordings,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the scene over http",
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list network presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(viewCmd, guiCmd, layoutCmd, edgesCmd, statsCmd, validateCmd,
		svgCmd, dotCmd, recordCmd, listCmd, serveCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file if given and applies flags the user set
// explicitly on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
		loggerFromContext(cmd.Context()).Debug("loaded config", "path", configFile)
	}

	flags := cmd.Flags()
	if flags.Changed("preset") || (configFile == "" && len(cfg.Network) == 0) {
		cfg.Preset = preset
		cfg.Network = nil
	}
	if flags.Changed("data") || configFile == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("rate") {
		cfg.Rate = rate
	}
	if flags.Changed("edge-offset") {
		cfg.EdgeOffset = edgeOffset
	}
	if flags.Changed("layer-spacing") {
		cfg.Spacing.Layer = layerSpacing
	}
	if flags.Changed("neuron-spacing") {
		cfg.Spacing.Neuron = neuronSpacing
	}
	if cmd.Flags().Lookup("addr") != nil && (flags.Changed("addr") || configFile == "") {
		cfg.Server.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildScene(cmd *cobra.Command) (*scene.Scene, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	net, err := cfg.BuildNetwork()
	if err != nil {
		return nil, nil, err
	}
	return scene.New(net, cfg.SceneOptions()), cfg, nil
}

func runView(cmd *cobra.Command, args []string) error {
	sc, cfg, err := buildScene(cmd)
	if err != nil {
		return err
	}
	return viz.Run(sc, viz.Options{FPS: cfg.FPS, Theme: cfg.Theme, Logger: loggerFromContext(cmd.Context())})
}

func runGUI(cmd *cobra.Command, args []string) error {
	sc, _, err := buildScene(cmd)
	if err != nil {
		return err
	}
	gui.Run(sc, loggerFromContext(cmd.Context()))
	return nil
}

func printLayout(cmd *cobra.Command, args []string) error {
	sc, _, err := buildScene(cmd)
	if err != nil {
		return err
	}
	net := sc.Network()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LAYER\tNEURON\tX\tY\tZ\tFEATURE")
	for l, layer := range sc.Layout().Positions {
		for n, p := range layer {
			feature, _ := net.Feature(netmodel.NeuronID{Layer: l, Index: n})
			fmt.Fprintf(w, "%d\t%d\t%.2f\t%.2f\t%.2f\t%s\n", l, n, p.X, p.Y, p.Z, feature)
		}
	}
	return w.Flush()
}

func printEdges(cmd *cobra.Command, args []string) error {
	sc, _, err := buildScene(cmd)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PAIR\tINDEX\tSOURCE\tTARGET\tCOLOR")
	for p, pair := range sc.Connections() {
		for _, c := range pair {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", p, c.Index, c.Source(), c.Target(), c.Color)
		}
	}
	return w.Flush()
}

func printStats(cmd *cobra.Command, args []string) error {
	sc, _, err := buildScene(cmd)
	if err != nil {
		return err
	}
	st := sc.Stats()
	net := sc.Network()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "layers:       %d\n", st.Layers)
	fmt.Fprintf(out, "neurons:      %d\n", st.Neurons)
	fmt.Fprintf(out, "connections:  %d\n\n", st.Connections)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LAYER\tNAME\tNEURONS\tCOLOR\tFEATURES")
	for i, l := range net.Layers() {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", i, l.Name, st.PerLayer[i], l.Color, strings.Join(l.Features, ", "))
	}
	return w.Flush()
}

func validateConfig(cmd *cobra.Command, args []string) error {
	path := configFile
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no config file given")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	net, err := cfg.BuildNetwork()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d layers, %d neurons)\n", path, net.Len(), net.TotalNeurons())
	return nil
}

func parseNeuron(s string) (netmodel.NeuronID, error) {
	l, n, ok := strings.Cut(s, ":")
	if !ok {
		return netmodel.NeuronID{}, fmt.Errorf("neuron %q: want layer:neuron", s)
	}
	layer, err := strconv.Atoi(l)
	if err != nil {
		return netmodel.NeuronID{}, fmt.Errorf("neuron %q: %w", s, err)
	}
	index, err := strconv.Atoi(n)
	if err != nil {
		return netmodel.NeuronID{}, fmt.Errorf("neuron %q: %w", s, err)
	}
	return netmodel.NeuronID{Layer: layer, Index: index}, nil
}

// frameAt returns the frame shown after t seconds, with the given neuron
// hovered if hoverSpec is set.
func frameAt(sc *scene.Scene, t float64, hoverSpec string) (scene.Frame, error) {
	sc.Mount()
	defer sc.Unmount()
	if hoverSpec != "" {
		id, err := parseNeuron(hoverSpec)
		if err != nil {
			return scene.Frame{}, err
		}
		if err := sc.PointerEnter(id.Layer, id.Index); err != nil {
			return scene.Frame{}, err
		}
	}
	return sc.Tick(t)
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	loggerFromContext(cmd.Context()).Info("wrote", "path", path, "bytes", len(data))
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	sc, cfg, err := buildScene(cmd)
	if err != nil {
		return err
	}
	f, err := frameAt(sc, atTime, hoverAt)
	if err != nil {
		return err
	}
	var svg string
	if braille {
		canvas := viz.NewCanvas(72, 24)
		cam := viz.NewCamera()
		cam.AutoRotate = false
		viz.DrawFrame(canvas, f, cam, viz.GetTheme(cfg.Theme))
		svg = export.CanvasToSVG(canvas, 4)
	} else {
		svg = export.FrameToSVG(f, export.DefaultSVGOptions())
	}
	return writeOutput(cmd, svgOut, []byte(svg))
}

func exportDOT(cmd *cobra.Command, args []string) error {
	sc, _, err := buildScene(cmd)
	if err != nil {
		return err
	}
	dot := export.ToDOT(sc.Network(), sc.Connections())
	if !dotSVG {
		return writeOutput(cmd, dotOut, []byte(dot))
	}
	prog := newProgress(loggerFromContext(cmd.Context()))
	svg, err := export.RenderSVG(cmd.Context(), dot)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d connections", connect.Count(sc.Connections())))
	return writeOutput(cmd, dotOut, svg)
}

func recordFrames(cmd *cobra.Command, args []string) error {
	sc, cfg, err := buildScene(cmd)
	if err != nil {
		return err
	}
	if frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", frames)
	}
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	captured, err := storage.Capture(sc, frames, dt)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	name := recName
	if name == "" {
		name = cfg.Preset
	}
	if name == "" {
		name = "custom"
	}
	rec, err := st.Save(name, sc, captured, dt)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Recorded %d frames", rec.Frames))
	fmt.Fprintln(cmd.OutOrStdout(), rec.ID)

	if jsonOut != "" {
		return storage.ExportJSON(jsonOut, *rec, captured)
	}
	return nil
}

func listRecordings(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	recs, err := storage.New(cfg.DataDir).List()
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no recordings")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tFRAMES\tDT\tNEURONS\tCONNECTIONS")
	for _, r := range recs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%d\t%d\n",
			r.ID, r.Name, r.Timestamp.Format(time.DateTime), r.Frames, r.Dt, r.Neurons, r.Connections)
	}
	return w.Flush()
}

func serve(cmd *cobra.Command, args []string) error {
	sc, cfg, err := buildScene(cmd)
	if err != nil {
		return err
	}
	srv := server.New(sc, server.Options{FPS: cfg.FPS, Logger: loggerFromContext(cmd.Context())})
	return srv.ListenAndServe(cmd.Context(), cfg.Server.Addr)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tLAYERS\tNEURONS")
	for _, name := range config.ListPresets() {
		layers := config.GetPreset(name)
		counts := make([]string, len(layers))
		for i, l := range layers {
			counts[i] = strconv.Itoa(l.NeuronCount)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, len(layers), strings.Join(counts, "-"))
	}
	return w.Flush()
}
