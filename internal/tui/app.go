package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"edroute/internal/api"
	"edroute/internal/log"
	"edroute/internal/tui/components"
)

// App is the main tview application. It implements api.TuiAPI: the
// tracker service calls back into it, and every callback hops onto the
// UI goroutine through QueueUpdateDraw.
type App struct {
	app      *tview.Application
	routeAPI api.RouteAPI

	pages    *tview.Pages
	mainGrid *tview.Grid

	// UI Components
	menuComponent   *components.MenuComponent
	routeList       *components.RouteListComponent
	targetPanel     *components.TargetPanelComponent
	statusComponent *components.StatusComponent

	modalVisible bool
	version      string

	// Callback notifications funnel through one worker so updates hit
	// the screen in the order they were sent.
	updates     chan func()
	updatesDone chan struct{}
	draw        func(func())
}

// NewApplication creates and configures the tview application
func NewApplication(opts api.Options) *App {
	a := &App{
		app:             tview.NewApplication(),
		menuComponent:   components.NewMenuComponent(),
		routeList:       components.NewRouteListComponent(),
		targetPanel:     components.NewTargetPanelComponent(),
		statusComponent: components.NewStatusComponent(),
		version:         "dev",
		updates:         make(chan func(), 64),
		updatesDone:     make(chan struct{}),
	}
	a.draw = func(update func()) { a.app.QueueUpdateDraw(update) }
	go a.processUpdates()

	a.setupUI()
	a.setupInputHandling()

	// Start the tracker service with this app as its notification sink
	a.routeAPI = api.Start(opts, a)

	return a
}

// SetVersionInfo records build information for the status line
func (a *App) SetVersionInfo(version, commit, date string) {
	a.version = version
	log.Info("Starting", "version", version, "commit", commit, "date", date)
}

// Run starts the application event loop and blocks until exit
func (a *App) Run() error {
	err := a.app.Run()
	close(a.updatesDone)
	a.routeAPI.Shutdown()
	return err
}

// setupUI configures the user interface layout
func (a *App) setupUI() {
	a.mainGrid = tview.NewGrid().
		SetRows(1, 0, 1).
		SetColumns(0, 36).
		SetBorders(false)

	// Menu bar on top, status bar on the bottom, both spanning the width
	a.mainGrid.AddItem(a.menuComponent.GetView(), 0, 0, 1, 2, 0, 0, false)
	a.mainGrid.AddItem(a.routeList.GetView(), 1, 0, 1, 1, 0, 0, true)
	a.mainGrid.AddItem(a.targetPanel.GetView(), 1, 1, 1, 1, 0, 0, false)
	a.mainGrid.AddItem(a.statusComponent.GetWrapper(), 2, 0, 1, 2, 0, 0, false)

	a.pages = tview.NewPages()
	a.pages.AddPage("main", a.mainGrid, true, true)

	a.app.SetRoot(a.pages, true)
}

// setupInputHandling configures the global keybindings
func (a *App) setupInputHandling() {
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if a.modalVisible {
			return event
		}
		switch event.Rune() {
		case 'q', 'Q':
			a.app.Stop()
			return nil
		case 's', 'S':
			a.routeAPI.SkipTarget()
			return nil
		case 'c', 'C':
			a.routeAPI.ClearRoute()
			return nil
		case 'l', 'L':
			a.showLoadCSVDialog()
			return nil
		case 'f', 'F':
			a.fetchStaleSystems()
			return nil
		case 'o', 'O':
			a.showSettingsDialog()
			return nil
		}
		return event
	})
}

func (a *App) fetchStaleSystems() {
	settings := a.routeAPI.Settings()
	if settings.FactionName == "" {
		a.showSettingsDialog()
		return
	}
	a.routeAPI.LoadStaleSystems(settings.FactionName, settings.MinAgeHours, settings.MaxSystems)
}

func (a *App) showLoadCSVDialog() {
	settings := a.routeAPI.Settings()
	dialog := components.NewInputDialog("Load route CSV", "Path", settings.CSVPath,
		func(path string) {
			a.closeModal()
			if path != "" {
				a.routeAPI.LoadCSV(path)
			}
		},
		a.closeModal)
	a.showModal(dialog.GetForm(), 64, 7)
}

func (a *App) showSettingsDialog() {
	dialog := components.NewSettingsDialog(a.routeAPI.Settings(),
		func(settings api.Settings) {
			a.closeModal()
			a.routeAPI.UpdateSettings(settings)
		},
		a.closeModal)
	a.showModal(dialog.GetForm(), 64, 13)
}

func (a *App) showErrorModal(message string) {
	modal := tview.NewModal().
		SetText(message).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(int, string) { a.closeModal() })
	a.pages.AddPage("dialog", modal, true, true)
	a.modalVisible = true
	a.app.SetFocus(modal)
}

func (a *App) showModal(p tview.Primitive, width, height int) {
	a.pages.AddPage("dialog", centered(p, width, height), true, true)
	a.modalVisible = true
	a.app.SetFocus(p)
}

func (a *App) closeModal() {
	a.pages.RemovePage("dialog")
	a.modalVisible = false
	a.app.SetFocus(a.mainGrid)
}

// centered wraps a primitive in flexes so it floats mid-screen
func centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}

// queue hands a UI mutation to the update worker without blocking the
// tracker's event goroutine.
func (a *App) queue(update func()) {
	select {
	case a.updates <- update:
	case <-a.updatesDone:
	}
}

// processUpdates applies queued mutations one at a time on the UI
// goroutine, preserving notification order.
func (a *App) processUpdates() {
	for {
		select {
		case update := <-a.updates:
			a.draw(update)
		case <-a.updatesDone:
			return
		}
	}
}

// TuiAPI implementation

func (a *App) OnRouteLoaded(info api.RouteInfo) {
	a.queue(func() {
		a.routeList.SetRoute(info)
		switch info.State {
		case "idle":
			a.targetPanel.ShowIdle()
		case "complete":
			a.targetPanel.ShowComplete()
		}
		if len(info.Entries) > 0 {
			a.statusComponent.SetMessage(
				fmt.Sprintf("Loaded %d systems from %s", len(info.Entries), info.Source))
		}
	})
}

func (a *App) OnNextTargetChanged(target api.TargetInfo) {
	a.queue(func() {
		a.targetPanel.ShowTarget(target)
		if a.routeAPI != nil {
			a.routeList.SetRoute(a.routeAPI.RouteSnapshot())
		}
	})
}

func (a *App) OnRouteCompleted() {
	a.queue(func() {
		a.targetPanel.ShowComplete()
		if a.routeAPI != nil {
			a.routeList.SetRoute(a.routeAPI.RouteSnapshot())
		}
		a.statusComponent.SetMessage("Route complete")
	})
}

func (a *App) OnLocationChanged(system string) {
	a.queue(func() {
		a.statusComponent.SetCurrentSystem(system)
	})
}

func (a *App) OnStatusMessage(message string) {
	a.queue(func() {
		a.statusComponent.SetMessage(message)
	})
}

func (a *App) OnTrackerError(err error) {
	log.Error("Tracker error", "error", err)
	a.queue(func() {
		a.statusComponent.SetError(err.Error())
		a.showErrorModal(err.Error())
	})
}
