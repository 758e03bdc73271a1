package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/CK6170/cgscale-go/lcd"
	"github.com/CK6170/cgscale-go/render"
	"github.com/CK6170/cgscale-go/scale"
	"github.com/CK6170/cgscale-go/session"
)

type screen int

const (
	screenEntry screen = iota
	screenLive
	screenCalibrate
)

type modeStatus int

const (
	statusIdle modeStatus = iota
	statusRunning
	statusDone
	statusError
)

type model struct {
	scr screen

	// entry
	configInput textinput.Model
	simMode     bool

	configPath string
	sess       *session.Session
	lastErr    error
	infoLine   string

	// live
	snap      scale.Snapshot
	mon       *scale.Monitor
	liveRunID int

	// calibration
	weightsInput textinput.Model
	calSteps     []session.CalStep
	calStepIdx   int
	cal          session.Calibration
	calStatus    modeStatus
	calResult    *session.CalResult
	calSaved     string
	calRunID     int

	// cancellation for long-running mode work
	modeCtx    context.Context
	modeCancel context.CancelFunc
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	readyBadge  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")).Padding(0, 1)
	busyBadge   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")).Padding(0, 1)
	idleBadge   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("8")).Padding(0, 1)
	stableBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14")).Padding(0, 1)
	lcdStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Foreground(lipgloss.Color("10"))
)

func initialModel() model {
	in := textinput.New()
	in.Placeholder = "Path to config.json"
	in.Focus()
	in.CharLimit = 512
	in.Width = 60

	wi := textinput.New()
	wi.Placeholder = "Reference weights in grams, e.g. 200, 500"
	wi.CharLimit = 128
	wi.Width = 60

	m := model{
		scr:          screenEntry,
		configInput:  in,
		weightsInput: wi,
	}
	// support passing config path as arg
	if len(os.Args) > 1 && strings.TrimSpace(os.Args[1]) != "" {
		m.configInput.SetValue(os.Args[1])
		m.configInput.CursorEnd()
	}
	return m
}

type errMsg struct{ err error }
type connectedMsg struct {
	sess       *session.Session
	configPath string
}
type disconnectedMsg struct{}

type liveSnapMsg struct {
	runID int
	snap  scale.Snapshot
}
type liveTickStoppedMsg struct{ runID int }
type monitorStoppedMsg struct {
	runID int
	err   error
}

type calStepDoneMsg struct {
	runID   int
	stepIdx int
	step    session.CalStep
	net     [2]float64
}
type calFitMsg struct {
	runID int
	res   *session.CalResult
}
type calSavedMsg struct {
	runID int
	path  string
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.teardown()
			return m, tea.Quit
		}

		switch m.scr {
		case screenEntry:
			return m.updateEntryKey(msg)
		case screenLive:
			return m.updateLiveKey(msg)
		case screenCalibrate:
			return m.updateCalibrateKey(msg)
		}

	case errMsg:
		m.lastErr = msg.err
		if m.scr == screenCalibrate {
			m.calStatus = statusError
		}
		return m, nil

	case connectedMsg:
		m.sess = msg.sess
		m.configPath = msg.configPath
		m.lastErr = nil
		mode := "bridge " + m.sess.Config.SERIAL.PORT
		if f, _ := m.sess.Simulated(); f != nil {
			mode = "simulator"
		}
		m.infoLine = fmt.Sprintf("Connected (%s). Taring...", mode)
		return m.startLive()

	case disconnectedMsg:
		m.sess = nil
		m.infoLine = "Disconnected"
		m.scr = screenEntry
		return m, nil

	case liveSnapMsg:
		if msg.runID != m.liveRunID || m.scr != screenLive {
			return m, nil
		}
		m.snap = msg.snap
		return m, m.nextLiveTick(m.modeCtx, m.liveRunID)

	case liveTickStoppedMsg:
		return m, nil

	case monitorStoppedMsg:
		if msg.runID != m.liveRunID {
			return m, nil
		}
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.lastErr = msg.err
			m.scr = screenEntry
		}
		return m, nil

	case calStepDoneMsg:
		if msg.runID != m.calRunID {
			return m, nil
		}
		if msg.step.Kind == session.CalStepWeight {
			if err := m.cal.AddPoint(msg.step.Channel, msg.step.Grams, msg.net[msg.step.Channel]); err != nil {
				return m, func() tea.Msg { return errMsg{err: err} }
			}
		}
		m.calStepIdx++
		if m.calStepIdx >= len(m.calSteps) {
			m.calStatus = statusRunning
			return m, m.fitCmd(m.calRunID)
		}
		m.calStatus = statusIdle
		return m, nil

	case calFitMsg:
		if msg.runID != m.calRunID {
			return m, nil
		}
		m.calResult = msg.res
		m.calStatus = statusDone
		return m, nil

	case calSavedMsg:
		if msg.runID != m.calRunID {
			return m, nil
		}
		m.calSaved = msg.path
		m.infoLine = "Calibration saved to " + msg.path
		return m, nil
	}

	// default: let inputs update
	switch m.scr {
	case screenEntry:
		var cmd tea.Cmd
		m.configInput, cmd = m.configInput.Update(msg)
		return m, cmd
	case screenCalibrate:
		var cmd tea.Cmd
		m.weightsInput, cmd = m.weightsInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("CG Scale") + "\n")
	b.WriteString(helpStyle.Render("Ctrl+C to quit.") + "\n\n")
	if m.infoLine != "" {
		b.WriteString(okStyle.Render(m.infoLine) + "\n")
	}
	if m.lastErr != nil {
		b.WriteString(errStyle.Render("Error: "+m.lastErr.Error()) + "\n")
	}
	b.WriteString("\n")

	switch m.scr {
	case screenEntry:
		b.WriteString(m.viewEntry())
	case screenLive:
		b.WriteString(m.viewLive())
	case screenCalibrate:
		b.WriteString(m.viewCalibrate())
	}
	return b.String()
}

func (m model) viewEntry() string {
	var b strings.Builder
	b.WriteString("Config JSON:\n")
	b.WriteString(m.configInput.View() + "\n\n")
	mode := "bridge"
	if m.simMode {
		mode = "simulator"
	}
	b.WriteString(fmt.Sprintf("Source: %s\n\n", mode))
	b.WriteString(helpStyle.Render("Enter to connect. Tab toggles bridge/simulator.") + "\n")
	return b.String()
}

func (m model) viewLive() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Live") + "\n\n")
	snap := m.snap

	b.WriteString(fmt.Sprintf("front %s  rear %s",
		stateBadge(snap.FrontState), stateBadge(snap.RearState)))
	if snap.Taring {
		b.WriteString("  " + busyBadge.Render("taring"))
	}
	if snap.Stable {
		b.WriteString("  " + stableBadge.Render("stable"))
	}
	b.WriteString("\n\n")

	r := snap.Reading
	b.WriteString(fmt.Sprintf("Front: %sg   Rear: %sg\n",
		render.FormatCentigrams(r.Front), render.FormatCentigrams(r.Rear)))
	b.WriteString(render.WeightLine(r.Total) + "\n")
	b.WriteString(render.CGLine(r.CG) + "\n\n")

	b.WriteString(lcdPanel(r, snap.Stable) + "\n")
	if snap.LastError != "" {
		b.WriteString(errStyle.Render("sample: "+snap.LastError) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("t tare · c calibrate · d disconnect") + "\n")
	return b.String()
}

func (m model) viewCalibrate() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Calibration") + "\n\n")
	if m.sess == nil {
		b.WriteString(errStyle.Render("Not connected.") + "\n")
		return b.String()
	}

	if len(m.calSteps) == 0 {
		b.WriteString("Reference weights:\n")
		b.WriteString(m.weightsInput.View() + "\n\n")
		b.WriteString(helpStyle.Render("Enter the known weights, then press Enter. b goes back.") + "\n")
		return b.String()
	}

	if m.calResult != nil {
		res := m.calResult
		b.WriteString("Fitted factors:\n")
		b.WriteString(fmt.Sprintf("  front: %.3f counts/g  (R²=%.4f, %d points)\n",
			res.Front.Factor, res.Front.R2, res.Front.Points))
		b.WriteString(fmt.Sprintf("  rear:  %.3f counts/g  (R²=%.4f, %d points)\n\n",
			res.Rear.Factor, res.Rear.R2, res.Rear.Points))
		if m.calSaved != "" {
			b.WriteString(okStyle.Render("Saved to "+m.calSaved) + "\n\n")
		}
		b.WriteString(helpStyle.Render("s save · b back to live") + "\n")
		return b.String()
	}

	step := m.calSteps[m.calStepIdx]
	b.WriteString(fmt.Sprintf("Step %d/%d  %s\n%s\n\n", m.calStepIdx+1, len(m.calSteps), step.Label, step.Prompt))
	switch m.calStatus {
	case statusRunning:
		b.WriteString("Sampling...\n")
	default:
		b.WriteString(helpStyle.Render("Enter to run this step. b goes back.") + "\n")
	}
	return b.String()
}

func stateBadge(st scale.ChannelState) string {
	switch st {
	case scale.ChannelReady:
		return readyBadge.Render("ready")
	case scale.ChannelStabilizing:
		return busyBadge.Render("stabilizing")
	default:
		return idleBadge.Render("idle")
	}
}

// lcdPanel draws the same frame the hardware display would show.
func lcdPanel(r scale.Reading, stable bool) string {
	buf := lcd.NewBuffer()
	sink, err := render.NewDisplaySink(buf)
	if err != nil {
		return ""
	}
	_ = sink.Render(render.Frame{Reading: r, Stable: stable})
	lines := buf.Lines()
	return lcdStyle.Render(lines[0] + "\n" + lines[1])
}

func (m *model) teardown() {
	if m.modeCancel != nil {
		m.modeCancel()
		m.modeCancel = nil
	}
	m.modeCtx = nil
	if m.sess != nil {
		_ = m.sess.Close()
		m.sess = nil
	}
}

func (m *model) stopMode() {
	if m.modeCancel != nil {
		m.modeCancel()
		m.modeCancel = nil
	}
	m.modeCtx = nil
}

func (m model) updateEntryKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "enter":
		if m.sess != nil {
			return m, nil
		}
		path := strings.TrimSpace(m.configInput.Value())
		if path == "" {
			return m, func() tea.Msg { return errMsg{err: fmt.Errorf("config path is empty")} }
		}
		return m, connectCmd(path, m.simMode)
	case "tab":
		m.simMode = !m.simMode
		return m, nil
	}
	var cmd tea.Cmd
	m.configInput, cmd = m.configInput.Update(k)
	return m, cmd
}

func (m model) updateLiveKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "t":
		if m.mon != nil {
			m.mon.RequestTare()
		}
		return m, nil
	case "c":
		m.stopMode()
		m.calRunID++
		m.modeCtx, m.modeCancel = context.WithCancel(context.Background())
		m.scr = screenCalibrate
		m.calSteps = nil
		m.calStepIdx = 0
		m.cal = session.Calibration{}
		m.calStatus = statusIdle
		m.calResult = nil
		m.calSaved = ""
		m.weightsInput.Focus()
		return m, textinput.Blink
	case "d":
		m.teardown()
		m.mon = nil
		return m, func() tea.Msg { return disconnectedMsg{} }
	}
	return m, nil
}

func (m model) updateCalibrateKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "b":
		if m.calStatus == statusRunning {
			return m, nil
		}
		m.stopMode()
		m.calRunID++
		m.weightsInput.Blur()
		return m.startLive()
	case "s":
		if m.calResult != nil && m.calSaved == "" {
			return m, m.saveCalibrationCmd(m.calRunID)
		}
	case "enter":
		if m.calStatus == statusRunning {
			return m, nil
		}
		if len(m.calSteps) == 0 {
			weights, err := parseWeights(m.weightsInput.Value())
			if err != nil {
				return m, func() tea.Msg { return errMsg{err: err} }
			}
			steps, err := session.BuildCalibrationPlan(weights)
			if err != nil {
				return m, func() tea.Msg { return errMsg{err: err} }
			}
			m.calSteps = steps
			m.calStepIdx = 0
			m.weightsInput.Blur()
			m.lastErr = nil
			return m, nil
		}
		if m.calStepIdx < len(m.calSteps) {
			m.calStatus = statusRunning
			return m, m.runCalStepCmd(m.modeCtx, m.calRunID, m.calSteps[m.calStepIdx], m.calStepIdx)
		}
		return m, nil
	}
	if len(m.calSteps) == 0 {
		var cmd tea.Cmd
		m.weightsInput, cmd = m.weightsInput.Update(k)
		return m, cmd
	}
	return m, nil
}

// startLive builds a fresh monitor and kicks off its goroutine plus the
// snapshot tick.
func (m model) startLive() (tea.Model, tea.Cmd) {
	if m.sess == nil {
		return m, nil
	}
	m.stopMode()
	m.liveRunID++
	m.modeCtx, m.modeCancel = context.WithCancel(context.Background())
	m.scr = screenLive
	m.snap = scale.Snapshot{}

	mon, err := m.sess.NewMonitor(nil, nil)
	if err != nil {
		return m, func() tea.Msg { return errMsg{err: err} }
	}
	m.mon = mon
	return m, tea.Batch(
		runMonitorCmd(m.modeCtx, m.liveRunID, mon),
		m.nextLiveTick(m.modeCtx, m.liveRunID),
	)
}

func connectCmd(path string, sim bool) tea.Cmd {
	return func() tea.Msg {
		cfg, err := session.LoadConfig(path)
		if err != nil {
			return errMsg{err: err}
		}
		if sim {
			return connectedMsg{sess: session.ConnectSim(cfg), configPath: path}
		}
		if _, err := session.EnsureSerialPort(path, cfg, true); err != nil {
			return errMsg{err: err}
		}
		sess, err := session.Connect(cfg)
		if err != nil {
			return errMsg{err: err}
		}
		return connectedMsg{sess: sess, configPath: path}
	}
}

func runMonitorCmd(ctx context.Context, runID int, mon *scale.Monitor) tea.Cmd {
	return func() tea.Msg {
		err := mon.Run(ctx)
		return monitorStoppedMsg{runID: runID, err: err}
	}
}

func (m model) nextLiveTick(ctx context.Context, runID int) tea.Cmd {
	mon := m.mon
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		if ctx == nil || mon == nil {
			return liveTickStoppedMsg{runID: runID}
		}
		select {
		case <-ctx.Done():
			return liveTickStoppedMsg{runID: runID}
		default:
		}
		return liveSnapMsg{runID: runID, snap: mon.Snapshot()}
	})
}

func (m model) runCalStepCmd(ctx context.Context, runID int, step session.CalStep, stepIdx int) tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		if sess == nil {
			return errMsg{err: fmt.Errorf("not connected")}
		}
		if ctx == nil {
			return errMsg{err: fmt.Errorf("mode context not set")}
		}
		cfg := sess.Config
		if step.Kind == session.CalStepZero {
			window := time.Duration(cfg.STABILIZE) * time.Millisecond
			if err := session.TareForCalibration(ctx, sess.Front, sess.Rear, window); err != nil {
				return errMsg{err: err}
			}
			return calStepDoneMsg{runID: runID, stepIdx: stepIdx, step: step}
		}
		net, err := session.SampleNet(ctx, sess.Front, sess.Rear, cfg.IGNORE, cfg.AVG, nil)
		if err != nil {
			return errMsg{err: err}
		}
		return calStepDoneMsg{runID: runID, stepIdx: stepIdx, step: step, net: net}
	}
}

func (m model) fitCmd(runID int) tea.Cmd {
	cal := m.cal
	return func() tea.Msg {
		res, err := cal.Fit()
		if err != nil {
			return errMsg{err: err}
		}
		return calFitMsg{runID: runID, res: res}
	}
}

func (m model) saveCalibrationCmd(runID int) tea.Cmd {
	sess, path, res := m.sess, m.configPath, m.calResult
	return func() tea.Msg {
		if sess == nil || res == nil {
			return errMsg{err: fmt.Errorf("nothing to save")}
		}
		res.Apply(sess.Config)
		out := session.CalibratedPath(path)
		if err := session.SaveCalibratedConfig(out, sess.Config); err != nil {
			return errMsg{err: err}
		}
		return calSavedMsg{runID: runID, path: out}
	}
}

func parseWeights(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("no reference weights entered")
	}
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		w, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("weight %q: %w", f, err)
		}
		out = append(out, w)
	}
	return out, nil
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}
