package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/searchbot/internal/backend"
	"github.com/jask/searchbot/internal/config"
	"github.com/jask/searchbot/internal/files"
	"github.com/jask/searchbot/internal/pane"
)

const healthTimeout = 10 * time.Second

// HealthChecker probes the backend once at startup.
type HealthChecker interface {
	Health(ctx context.Context) (backend.HealthResponse, error)
}

type Deps struct {
	Backend pane.Backend
	Health  HealthChecker
	Logger  *zap.Logger
}

type inputField int

const (
	inputQuery inputField = iota
	inputPrompt
	inputOCRPath
	inputMessage
	inputPDFPath
	inputQuestion
	inputCount
)

// App is the tabbed front end. All pane state lives in the shell; App owns
// the text inputs, layout and the commands that reach the backend.
type App struct {
	ctx     context.Context
	backend pane.Backend
	health  HealthChecker
	log     *zap.Logger
	cfg     config.Config
	keys    *KeyRegistry
	shell   *pane.Shell

	inputs   [inputCount]textinput.Model
	pdfField inputField

	width     int
	height    int
	status    string
	statusErr bool
	quitting  bool
}

type outcomeMsg pane.Outcome

type fileLoadedMsg struct {
	tab    pane.Tab
	epoch  uint64
	upload backend.Upload
	err    error
}

type imagesSavedMsg struct {
	paths []string
	err   error
}

type healthMsg struct {
	ok  bool
	err error
}

func New(ctx context.Context, cfg config.Config, deps Deps) *App {
	start, err := pane.ParseTab(cfg.UI.StartTab)
	if err != nil {
		start = pane.TabSearch
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		ctx:      ctx,
		backend:  deps.Backend,
		health:   deps.Health,
		log:      log.Named("tui"),
		cfg:      cfg,
		keys:     NewKeyRegistry(DefaultKeyBindings()),
		shell:    pane.NewShell(start),
		pdfField: inputPDFPath,
		width:    100,
		height:   32,
	}
	placeholders := [inputCount]string{
		inputQuery:    "Ask anything…",
		inputPrompt:   "Describe an image…",
		inputOCRPath:  "path to a JPG or PNG",
		inputMessage:  "Type a message…",
		inputPDFPath:  "path to a PDF",
		inputQuestion: "Ask about the document…",
	}
	for i := range a.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 0
		ti.Cursor.SetMode(cursor.CursorStatic)
		a.inputs[i] = ti
	}
	a.resizeInputs()
	a.focusActive()
	return a
}

func (a *App) Init() tea.Cmd {
	return a.checkHealth()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.resizeInputs()
		return a, nil
	case tea.KeyMsg:
		return a.handleKey(msg)
	case outcomeMsg:
		a.deliver(pane.Outcome(msg))
		return a, nil
	case fileLoadedMsg:
		return a, a.attach(msg)
	case imagesSavedMsg:
		if msg.err != nil {
			a.setStatus(pane.Describe(msg.err), true)
			return a, nil
		}
		a.setStatus(fmt.Sprintf("Saved %d image(s) to %s", len(msg.paths), a.cfg.Images.Dir), false)
		return a, nil
	case healthMsg:
		switch {
		case msg.err != nil:
			a.setStatus("Backend unreachable: "+msg.err.Error(), true)
		case !msg.ok:
			a.setStatus("Backend not ready", true)
		default:
			a.setStatus("Backend online · "+a.cfg.Backend.URL, false)
		}
		return a, nil
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.keys.Action(msg, a.scope()) {
	case actionQuit:
		a.quitting = true
		return a, tea.Quit
	case actionNextTab:
		return a, a.switchTab((a.shell.Active() + 1) % pane.Tab(len(pane.Tabs())))
	case actionPrevTab:
		n := pane.Tab(len(pane.Tabs()))
		return a, a.switchTab((a.shell.Active() + n - 1) % n)
	case actionJumpTab:
		if len(msg.Runes) == 1 {
			return a, a.switchTab(pane.Tab(msg.Runes[0] - '1'))
		}
		return a, nil
	case actionSubmit:
		return a, a.submit()
	case actionClearImages:
		a.shell.Image = a.shell.Image.Clear()
		return a, nil
	case actionSaveImages:
		return a, a.saveImages()
	case actionNextField:
		a.pdfField = inputQuestion
		return a, a.focusActive()
	case actionPrevField:
		a.pdfField = inputPDFPath
		return a, a.focusActive()
	}
	return a, a.updateInput(msg)
}

func (a *App) scope() string {
	switch a.shell.Active() {
	case pane.TabImage:
		return scopeImage
	case pane.TabOCR:
		return scopeOCR
	case pane.TabChat:
		return scopeChat
	case pane.TabPDF:
		if a.pdfField == inputQuestion {
			return scopePDFQuestion
		}
		return scopePDFFile
	}
	return scopeSearch
}

func (a *App) activeField() inputField {
	switch a.shell.Active() {
	case pane.TabImage:
		return inputPrompt
	case pane.TabOCR:
		return inputOCRPath
	case pane.TabChat:
		return inputMessage
	case pane.TabPDF:
		return a.pdfField
	}
	return inputQuery
}

func fieldsFor(t pane.Tab) []inputField {
	switch t {
	case pane.TabSearch:
		return []inputField{inputQuery}
	case pane.TabImage:
		return []inputField{inputPrompt}
	case pane.TabOCR:
		return []inputField{inputOCRPath}
	case pane.TabChat:
		return []inputField{inputMessage}
	case pane.TabPDF:
		return []inputField{inputPDFPath, inputQuestion}
	}
	return nil
}

func (a *App) focusActive() tea.Cmd {
	active := a.activeField()
	var cmd tea.Cmd
	for i := range a.inputs {
		if inputField(i) == active {
			cmd = a.inputs[i].Focus()
			continue
		}
		a.inputs[i].Blur()
	}
	return cmd
}

func (a *App) resizeInputs() {
	w := max(10, a.width-8)
	for i := range a.inputs {
		a.inputs[i].Width = w
	}
}

func (a *App) switchTab(t pane.Tab) tea.Cmd {
	left := a.shell.Active()
	if !a.shell.Switch(t) {
		return nil
	}
	for _, f := range fieldsFor(left) {
		a.inputs[f].Reset()
	}
	if left == pane.TabPDF {
		a.pdfField = inputPDFPath
	}
	a.log.Debug("switch tab", zap.Stringer("from", left), zap.Stringer("to", t))
	return a.focusActive()
}

func (a *App) updateInput(msg tea.KeyMsg) tea.Cmd {
	f := a.activeField()
	var cmd tea.Cmd
	a.inputs[f], cmd = a.inputs[f].Update(msg)
	v := a.inputs[f].Value()
	switch f {
	case inputQuery:
		a.shell.Search.Query = v
	case inputPrompt:
		a.shell.Image.Prompt = v
	case inputMessage:
		a.shell.Chat.Message = v
	case inputQuestion:
		a.shell.PDF.Question = v
	}
	return cmd
}

func (a *App) pathValue(f inputField) string {
	return strings.TrimSpace(a.inputs[f].Value())
}

func (a *App) submit() tea.Cmd {
	switch a.shell.Active() {
	case pane.TabSearch:
		return a.dispatch(a.shell.SubmitSearch())
	case pane.TabImage:
		return a.dispatch(a.shell.GenerateImage())
	case pane.TabChat:
		return a.dispatch(a.shell.SendChat())
	case pane.TabOCR:
		path := a.pathValue(inputOCRPath)
		if path == "" || a.shell.Busy(pane.TabOCR) {
			return nil
		}
		return a.loadFile(pane.TabOCR, path, files.KindImage)
	case pane.TabPDF:
		if a.pdfField == inputQuestion {
			return a.dispatch(a.shell.AskPDF())
		}
		path := a.pathValue(inputPDFPath)
		if path == "" || a.shell.Busy(pane.TabPDF) {
			return nil
		}
		return a.loadFile(pane.TabPDF, path, files.KindPDF)
	}
	return nil
}

func (a *App) dispatch(env *pane.Envelope) tea.Cmd {
	if env == nil {
		return nil
	}
	a.log.Debug("dispatch",
		zap.Stringer("tab", env.Tab),
		zap.String("call", string(env.Request.Call)),
		zap.Uint64("epoch", env.Epoch))
	ctx, b, e := a.ctx, a.backend, *env
	return func() tea.Msg {
		return outcomeMsg(pane.Run(ctx, b, e))
	}
}

func (a *App) loadFile(t pane.Tab, path string, kind files.Kind) tea.Cmd {
	epoch := a.shell.Epoch(t)
	return func() tea.Msg {
		up, err := files.Load(path, kind)
		return fileLoadedMsg{tab: t, epoch: epoch, upload: up, err: err}
	}
}

func (a *App) attach(msg fileLoadedMsg) tea.Cmd {
	if msg.epoch != a.shell.Epoch(msg.tab) {
		a.log.Debug("dropped stale file", zap.Stringer("tab", msg.tab))
		return nil
	}
	switch msg.tab {
	case pane.TabOCR:
		if msg.err != nil {
			a.shell.OCR.Err = msg.err
			a.shell.OCR.Text = ""
			return nil
		}
		a.shell.OCR = a.shell.OCR.Attach(msg.upload)
		return a.dispatch(a.shell.RunOCR())
	case pane.TabPDF:
		if msg.err != nil {
			a.shell.PDF.Status = pane.Describe(msg.err)
			return nil
		}
		a.shell.PDF = a.shell.PDF.Attach(msg.upload)
		return a.dispatch(a.shell.UploadPDF())
	}
	return nil
}

func (a *App) deliver(o pane.Outcome) {
	if !a.shell.Deliver(o) {
		a.log.Debug("dropped stale result",
			zap.Stringer("tab", o.Tab),
			zap.String("call", string(o.Result.Call)),
			zap.Uint64("epoch", o.Epoch))
		return
	}
	if o.Result.Err != nil {
		a.log.Warn("request failed",
			zap.Stringer("tab", o.Tab),
			zap.String("call", string(o.Result.Call)),
			zap.Error(o.Result.Err))
	}
	if o.Tab == pane.TabChat {
		a.inputs[inputMessage].SetValue(a.shell.Chat.Message)
	}
}

func (a *App) saveImages() tea.Cmd {
	imgs := slices.Clone(a.shell.Image.Images)
	if len(imgs) == 0 {
		a.setStatus("No images to save", true)
		return nil
	}
	dir := a.cfg.Images.Dir
	return func() tea.Msg {
		raws := make([][]byte, 0, len(imgs))
		for i, img := range imgs {
			data, err := img.Decode()
			if err != nil {
				return imagesSavedMsg{err: fmt.Errorf("image %d: %w", i+1, err)}
			}
			raws = append(raws, data)
		}
		paths, err := files.SavePNGs(dir, raws)
		return imagesSavedMsg{paths: paths, err: err}
	}
}

func (a *App) checkHealth() tea.Cmd {
	if a.health == nil {
		return nil
	}
	ctx, h := a.ctx, a.health
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, healthTimeout)
		defer cancel()
		resp, err := h.Health(ctx)
		return healthMsg{ok: err == nil && resp.OK, err: err}
	}
}

func (a *App) setStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
}
