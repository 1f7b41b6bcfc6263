package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/ebeyhan/tubesim/internal/billiard"
	"github.com/ebeyhan/tubesim/internal/wall"
)

const (
	frameRate   = 60
	trailLen    = 90
	historyLen  = 120
	graphHeight = 4
	graphWidth  = 32
)

// TickMsg drives playback at a fixed frame rate.
type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Model replays a stored run. Positions between contact records are
// interpolated, so the playback clock can move at any speed without
// touching the integrator.
type Model struct {
	wall wall.Wall
	recs []billiard.Record
	run  int

	tau      float64 // playback clock in simulation seconds
	duration float64
	speed    float64
	playing  bool
	showHelp bool

	canvas *Canvas
	frame  *Frame
	trail  [][2]float64
	radii  []float64
}

func NewModel(w wall.Wall, run int, recs []billiard.Record, width, height int) *Model {
	if width <= 0 {
		width = 64
	}
	if height <= 0 {
		height = 28
	}

	c := NewCanvas(width, height)
	r := w.OuterRadius()

	m := &Model{
		wall:    w,
		recs:    recs,
		run:     run,
		speed:   1,
		playing: true,
		canvas:  c,
		frame:   NewFrame(c, -r, r, -r, r),
	}
	if len(recs) > 0 {
		m.duration = recs[len(recs)-1].Time
	}
	m.restart()
	return m
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if !m.playing && m.tau >= m.duration {
				m.restart()
			}
			m.playing = !m.playing
		case "r":
			m.restart()
			m.playing = true
		case "+", "=":
			m.speed *= 1.5
			if m.speed > 64 {
				m.speed = 64
			}
		case "-", "_":
			m.speed /= 1.5
			if m.speed < 1.0/64 {
				m.speed = 1.0 / 64
			}
		case "[":
			m.scrub(-m.duration / 50)
		case "]":
			m.scrub(m.duration / 50)
		case "h", "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.playing {
			m.advance(m.speed / frameRate)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) restart() {
	m.tau = 0
	m.trail = m.trail[:0]
	m.radii = m.radii[:0]
	if len(m.recs) > 0 {
		x, z := billiard.PositionAt(m.recs, 0)
		m.trail = append(m.trail, [2]float64{x, z})
		m.radii = append(m.radii, math.Hypot(x, z))
	}
	m.draw()
}

func (m *Model) advance(dt float64) {
	m.tau += dt
	if m.tau >= m.duration {
		m.tau = m.duration
		m.playing = false
	}

	x, z := billiard.PositionAt(m.recs, m.tau)
	m.trail = append(m.trail, [2]float64{x, z})
	if len(m.trail) > trailLen {
		m.trail = m.trail[len(m.trail)-trailLen:]
	}
	m.radii = append(m.radii, math.Hypot(x, z))
	if len(m.radii) > historyLen {
		m.radii = m.radii[len(m.radii)-historyLen:]
	}

	m.draw()
}

func (m *Model) scrub(dt float64) {
	m.tau += dt
	if m.tau < 0 {
		m.tau = 0
	}
	if m.tau > m.duration {
		m.tau = m.duration
	}

	x, z := billiard.PositionAt(m.recs, m.tau)
	m.trail = append(m.trail[:0], [2]float64{x, z})
	m.radii = append(m.radii, math.Hypot(x, z))
	if len(m.radii) > historyLen {
		m.radii = m.radii[len(m.radii)-historyLen:]
	}

	m.draw()
}

func (m *Model) draw() {
	m.canvas.Clear()
	drawWall(m.frame, m.wall)

	for i := 1; i < len(m.trail); i++ {
		m.frame.Line(m.trail[i-1][0], m.trail[i-1][1], m.trail[i][0], m.trail[i][1])
	}
	if len(m.trail) > 0 {
		p := m.trail[len(m.trail)-1]
		m.frame.Mark(p[0], p[1])
	}
}

// contactsAt counts wall contacts recorded at or before tau.
func (m *Model) contactsAt(tau float64) int {
	idx := sort.Search(len(m.recs), func(i int) bool { return m.recs[i].Time > tau })
	if idx == 0 {
		return 0
	}
	return m.recs[idx-1].Collision
}

// velocityAt returns the constant segment velocity governing time tau.
func (m *Model) velocityAt(tau float64) (float64, float64) {
	idx := sort.Search(len(m.recs), func(i int) bool { return m.recs[i].Time > tau })
	if idx > 0 {
		idx--
	}
	return m.recs[idx].VX, m.recs[idx].VZ
}

func (m *Model) View() string {
	if len(m.recs) == 0 {
		return "no records to replay\n"
	}

	status := runningStyle.Render("PLAYING")
	if !m.playing {
		if m.tau >= m.duration {
			status = pausedStyle.Render("DONE")
		} else {
			status = pausedStyle.Render("PAUSED")
		}
	}

	frac := 1.0
	if m.duration > 0 {
		frac = m.tau / m.duration
	}
	x, z := billiard.PositionAt(m.recs, m.tau)
	vx, vz := m.velocityAt(m.tau)
	total := m.recs[len(m.recs)-1].Collision

	var s strings.Builder
	s.WriteString(headerStyle.Render(fmt.Sprintf("RUN %d REPLAY", m.run)) + "\n")
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("status", status)
	row("time", fmt.Sprintf("%.2f / %.2f s", m.tau, m.duration))
	row("progress", ProgressBar(frac, 24))
	row("speed", fmt.Sprintf("%.2fx", m.speed))
	row("contacts", fmt.Sprintf("%d of %d", m.contactsAt(m.tau), total))
	row("position", fmt.Sprintf("(%.3f, %.3f)", x, z))
	row("velocity", fmt.Sprintf("%.3f", math.Hypot(vx, vz)))
	row("wall", fmt.Sprintf("λ=%.3g A=%.3g N=%d", m.wall.Wavelength, m.wall.Amplitude, m.wall.Wavefronts))

	if len(m.radii) > 1 {
		s.WriteString("\n" + graphStyle.Render(asciigraph.Plot(m.radii,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("radial distance"),
		)) + "\n")
	}

	if m.showHelp {
		s.WriteString("\n" + m.helpView())
	} else {
		s.WriteString(helpStyle.Render("space pause · r restart · +/- speed · [/] scrub · ? help · q quit"))
	}

	view := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(s.String()),
	)
	return view + "\n"
}

func (m *Model) helpView() string {
	keys := [][2]string{
		{"space", "pause / resume"},
		{"r", "restart"},
		{"+ / -", "playback speed"},
		{"[ / ]", "scrub back / forward"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(labelStyle.Render(k[0]) + valueStyle.Render(k[1]) + "\n")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 2).
		Render(strings.TrimRight(b.String(), "\n"))
}

// Replay runs the interactive replay until the user quits.
func Replay(w wall.Wall, run int, recs []billiard.Record) error {
	p := tea.NewProgram(NewModel(w, run, recs, 0, 0), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
