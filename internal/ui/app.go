package ui

import (
	"context"
	"fmt"
	"time"

	"riskmap/internal/debug"
	"riskmap/internal/geo"
	"riskmap/internal/layer"
	"riskmap/internal/lifecycle"
	"riskmap/internal/render"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb/geojson"
)

const (
	appTitle   = "Kathmandu Risk Visualization"
	panelWidth = 40
	footerHelp = "q quit  Tab panel  ↑↓ select  Space toggle  hjkl pan  +/- zoom  0 reset  c cursor  f fit  r retry"
)

// DataSource reads the layer configuration and the layer data
type DataSource interface {
	layer.Source
	layer.Fetcher
}

// Options configures the application
type Options struct {
	ConfigPath  string
	RadiusKm    float64
	AspectRatio float64
	Parallelism int
	Basemap     []*geojson.FeatureCollection
}

// configEvent carries the result of loading the layer configuration
type configEvent struct {
	tcell.EventTime
	configs []layer.Config
	err     error
}

type styledLine struct {
	text  string
	style tcell.Style
}

// layerEvent carries the result of loading one layer
type layerEvent struct {
	tcell.EventTime
	result layer.Result
}

// App is the main application controller
type App struct {
	screen       tcell.Screen
	source       DataSource
	opts         Options
	mapView      *MapView
	panel        *LayerPanel
	detailView   *DetailView
	coord        *lifecycle.Coordinator
	loader       *layer.Loader
	configs      []layer.Config
	visible      *layer.Visibility
	configErr    error
	configLoaded bool
	mapLoaded    bool
	buttons      tcell.ButtonMask
	quit         chan struct{}
	ctx          context.Context
	cancel       context.CancelFunc
}

// NewApp creates a new application on the terminal
func NewApp(source DataSource, opts Options) (*App, error) {
	// Initialize tcell screen
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}

	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}

	screen.SetStyle(tcell.StyleDefault)
	screen.EnableMouse()
	screen.Clear()

	return newApp(screen, source, opts), nil
}

// newApp builds the application on an initialized screen
func newApp(screen tcell.Screen, source DataSource, opts Options) *App {
	if opts.RadiusKm <= 0 {
		opts.RadiusKm = DefaultRadiusKm
	}
	if opts.AspectRatio <= 0 {
		opts.AspectRatio = 2.0
	}

	width, height := screen.Size()
	mapX, mapY, mapW, mapH, px, py, pw, ph := layout(width, height)

	mapView := NewMapView(mapX, mapY, mapW, mapH, opts.RadiusKm, opts.AspectRatio)
	mapView.SetBasemap(opts.Basemap)

	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		screen:     screen,
		source:     source,
		opts:       opts,
		mapView:    mapView,
		panel:      NewLayerPanel(px, py, pw, ph),
		detailView: NewDetailView(mapX, mapY, max(mapW-pw, 0), mapH),
		coord:      lifecycle.New(),
		loader:     layer.NewLoader(source, opts.Parallelism),
		visible:    layer.NewVisibility(nil),
		quit:       make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// layout splits the screen: a header row, the map, a footer row, and the panel docked right over the map
func layout(width, height int) (mapX, mapY, mapW, mapH, panelX, panelY, panelW, panelH int) {
	mapX, mapY = 0, 1
	mapW, mapH = width, max(height-2, 0)

	panelW = min(panelWidth, width/2)
	panelX, panelY = width-panelW, mapY
	panelH = mapH

	return
}

// Run starts the application main loop
func (a *App) Run() error {
	defer a.cleanup()

	events := make(chan tcell.Event, 64)
	go a.screen.ChannelEvents(events, a.quit)

	go a.loadConfigs()

	ticker := time.NewTicker(100 * time.Millisecond) // 10 FPS
	defer ticker.Stop()

	a.render()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !a.handleEvent(ev) {
				return nil // Quit requested
			}

		case <-ticker.C:
			a.render()
		}
	}
}

// loadConfigs reads the layer configuration and hands it to the event loop
func (a *App) loadConfigs() {
	configs, err := layer.LoadConfigs(a.ctx, a.source, a.opts.ConfigPath)

	ev := &configEvent{configs: configs, err: err}
	ev.SetEventNow()
	a.post(ev)
}

// loadLayers marks the layers loading and fetches them in the background
func (a *App) loadLayers(configs []layer.Config) {
	if len(configs) == 0 {
		return
	}

	for _, cfg := range configs {
		a.coord.Begin(cfg.ID)
	}

	go func() {
		err := a.loader.Load(a.ctx, configs, nil, func(r layer.Result) {
			ev := &layerEvent{result: r}
			ev.SetEventNow()
			a.post(ev)
		})
		if err != nil {
			debug.Log("layer loading stopped: %v", err)
		}
	}()
}

// post delivers an event to the event loop, waiting while the queue is full
func (a *App) post(ev tcell.Event) {
	for {
		if err := a.screen.PostEvent(ev); err == nil {
			return
		}

		select {
		case <-a.ctx.Done():
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// render renders the current view to the screen
func (a *App) render() {
	a.screen.Clear()

	if !a.configLoaded {
		a.drawLoading()
		a.screen.Show()
		return
	}

	a.drawHeader()

	a.mapView.Draw(a.screen, a.status())
	a.mapLoaded = true

	a.panel.Draw(a.screen, a.visible, a.coord)
	a.detailView.Draw(a.screen)

	a.screen.Show()
}

// status returns the map badge: loading wins over errors, and each error gets a line
func (a *App) status() []StatusLine {
	switch {
	case a.coord.IsLoading():
		return []StatusLine{{"Loading layers...", render.StyleLoading}}

	case a.coord.IsError():
		lines := []StatusLine{{"Error loading some layers", render.StyleError}}
		for _, err := range a.coord.Errors(a.configs) {
			lines = append(lines, StatusLine{err.Error(), render.StyleDim})
		}
		return lines
	}

	return nil
}

// drawLoading draws the startup screen, with the error when the configuration failed to load
func (a *App) drawLoading() {
	width, height := a.screen.Size()

	lines := []styledLine{{"Loading risk visualization app...", render.StyleHeader}}
	if a.configErr != nil {
		lines = append(lines,
			styledLine{a.configErr.Error(), render.StyleError},
			styledLine{"Press q to quit", render.StyleDim},
		)
	}

	top := height/2 - len(lines)/2
	for i, line := range lines {
		x := max((width-len(line.text))/2, 0)
		drawText(a.screen, x, top+i, line.text, width, line.style)
	}
}

func (a *App) drawHeader() {
	width, height := a.screen.Size()

	drawText(a.screen, 1, 0, appTitle, width-2, render.StyleHeader)

	count := fmt.Sprintf("%d datasets available", len(a.configs))
	if len(appTitle)+len(count)+4 <= width {
		drawText(a.screen, width-1-len(count), 0, count, len(count), render.StyleDim)
	}

	drawText(a.screen, 1, height-1, footerHelp, width-2, render.StyleDim)
}

// handleEvent processes keyboard, mouse and loader events.
// Returns false when the application should quit.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *configEvent:
		a.handleConfig(ev)

	case *layerEvent:
		a.coord.Apply(ev.result)
		a.reconcile()

	case *tcell.EventKey:
		return a.handleKey(ev)

	case *tcell.EventMouse:
		a.handleMouse(ev)

	case *tcell.EventResize:
		a.handleResize()
	}

	return true
}

// handleConfig installs the layer configuration and starts loading every layer
func (a *App) handleConfig(ev *configEvent) {
	if ev.err != nil {
		a.configErr = ev.err
		debug.Warn("layer configuration failed to load", "path", a.opts.ConfigPath, "error", ev.err)
		return
	}

	a.configs = ev.configs
	a.visible = layer.NewVisibility(ev.configs)
	a.panel.SetConfigs(ev.configs)
	a.configLoaded = true

	debug.Log("loaded %d layer configurations", len(ev.configs))

	a.render()
	a.loadLayers(a.coord.Pending(a.mapLoaded, a.configs))
}

// reconcile mounts exactly the visible layers with data, closing a popup whose layer went away
func (a *App) reconcile() {
	a.coord.Reconcile(a.mapView.Renderer(), a.configs, a.visible)

	if sel := a.mapView.Selection(); sel != nil && !a.coord.Mounted(sel.Layer.ID) {
		a.mapView.ClearSelection()
		a.detailView.Close()
	}
}

// toggle flips a layer's visibility unless its data is loading or failed
func (a *App) toggle(cfg layer.Config) {
	if !a.coord.ToggleAllowed(cfg.ID) {
		debug.Log("toggle of layer %s ignored while %s", cfg.ID, a.coord.Query(cfg.ID).Status)
		return
	}

	a.visible.Toggle(cfg.ID)
	a.reconcile()
}

// retryFailed reloads every layer that failed
func (a *App) retryFailed() {
	var failed []layer.Config
	for _, cfg := range a.configs {
		if a.coord.Query(cfg.ID).Status == lifecycle.StatusFailed {
			failed = append(failed, cfg)
		}
	}
	a.loadLayers(failed)
}

// fitSelected zooms the map to the highlighted layer's data
func (a *App) fitSelected() {
	cfg, ok := a.panel.GetSelected()
	if !ok {
		return
	}

	if bounds, ok := geo.CollectionBounds(a.coord.Query(cfg.ID).Data); ok {
		a.mapView.FitBounds(bounds)
	}
}

// selectAt opens the popup for the feature under a screen position, or closes it
func (a *App) selectAt(x, y int) {
	a.showSelection(a.mapView.Select(x, y), x, y)
}

// showSelection opens the popup for sel anchored at a screen position, or closes it when sel is nil
func (a *App) showSelection(sel *render.Selection, x, y int) {
	if sel == nil {
		a.detailView.Close()
		return
	}

	a.detailView.Show(PopupContent(sel.Feature.Properties, sel.Layer), x, y)
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	if !a.configLoaded {
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
			return false
		}
		return true
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		switch {
		case a.detailView.Visible():
			a.detailView.Close()
			a.mapView.ClearSelection()
		case a.mapView.CursorMode():
			a.mapView.ToggleCursor()
		default:
			return false
		}

	case tcell.KeyCtrlC:
		return false

	case tcell.KeyEnter:
		if a.mapView.CursorMode() {
			x, y := a.mapView.CursorScreenPos()
			a.showSelection(a.mapView.SelectAtCursor(), x, y)
		} else if cfg, ok := a.panel.GetSelected(); ok {
			a.toggle(cfg)
		}

	case tcell.KeyTab, tcell.KeyBacktab:
		a.panel.SwitchTab()

	case tcell.KeyUp:
		if a.mapView.CursorMode() {
			a.mapView.Move(0, -1)
		} else {
			a.panel.SelectPrev()
		}

	case tcell.KeyDown:
		if a.mapView.CursorMode() {
			a.mapView.Move(0, 1)
		} else {
			a.panel.SelectNext()
		}

	case tcell.KeyLeft:
		a.mapView.Move(-1, 0)

	case tcell.KeyRight:
		a.mapView.Move(1, 0)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return false

		case ' ':
			if cfg, ok := a.panel.GetSelected(); ok {
				a.toggle(cfg)
			}

		case 'h':
			a.mapView.Move(-1, 0)
		case 'l':
			a.mapView.Move(1, 0)
		case 'k':
			a.mapView.Move(0, -1)
		case 'j':
			a.mapView.Move(0, 1)

		case '+', '=':
			a.mapView.ZoomIn()

		case '-', '_':
			a.mapView.ZoomOut()

		case '0':
			a.mapView.Reset()

		case 'c', 'C':
			a.mapView.ToggleCursor()

		case 'f', 'F':
			a.fitSelected()

		case 'r', 'R':
			a.retryFailed()
		}
	}

	return true
}

// handleMouse acts on the press of the primary button only; drag and release events
// that follow the press are ignored
func (a *App) handleMouse(ev *tcell.EventMouse) {
	pressed := ev.Buttons()&tcell.Button1 != 0 && a.buttons&tcell.Button1 == 0
	a.buttons = ev.Buttons()

	if !a.configLoaded || !pressed {
		return
	}

	x, y := ev.Position()

	if a.panel.Contains(x, y) {
		if cfg, ok := a.panel.Click(x, y); ok {
			a.toggle(cfg)
		}
		return
	}

	if a.mapView.Contains(x, y) {
		a.selectAt(x, y)
	}
}

// handleResize handles terminal resize events
func (a *App) handleResize() {
	a.screen.Sync()
	width, height := a.screen.Size()

	mapX, mapY, mapW, mapH, px, py, pw, ph := layout(width, height)

	a.mapView.UpdateDimensions(mapX, mapY, mapW, mapH)
	a.panel.UpdateDimensions(px, py, pw, ph)
	a.detailView.UpdateDimensions(mapX, mapY, max(mapW-pw, 0), mapH)
}

// cleanup performs cleanup before exit
func (a *App) cleanup() {
	if a.cancel != nil {
		a.cancel()
	}

	select {
	case <-a.quit:
	default:
		close(a.quit)
	}

	if a.screen != nil {
		a.screen.Fini()
	}
}
