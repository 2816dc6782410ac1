package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/litescript/ls-orrery/internal/geom"
	"github.com/litescript/ls-orrery/internal/solar"
)

// StateExport is the JSON form of a running context.
type StateExport struct {
	Frame   uint64         `json:"frame"`
	Ticks   uint64         `json:"ticks"`
	Paused  bool           `json:"paused"`
	Phase   string         `json:"phase"`
	Focused string         `json:"focused,omitempty"`
	Camera  CameraExport   `json:"camera"`
	Bodies  []BodyExport   `json:"bodies"`
	Events  []Event        `json:"events"`
	Overlay *OverlayExport `json:"overlay,omitempty"`
}

// CameraExport holds camera placement.
type CameraExport struct {
	Position [3]float64 `json:"position"`
	Target   [3]float64 `json:"target"`
	Aspect   float64    `json:"aspect"`
}

// BodyExport holds one body's definition and current angles.
type BodyExport struct {
	Name        string     `json:"name"`
	Kind        string     `json:"kind"`
	Radius      float64    `json:"radius"`
	OrbitRadius float64    `json:"orbit_radius"`
	OrbitRate   float64    `json:"orbit_rate"`
	SpinRate    float64    `json:"spin_rate"`
	OrbitAngle  float64    `json:"orbit_angle"`
	SelfAngle   float64    `json:"self_angle"`
	Position    [3]float64 `json:"position"`
	Texture     string     `json:"texture"`
	Ringed      bool       `json:"ringed,omitempty"`
	Described   bool       `json:"has_description"`
}

// OverlayExport is the info panel content while a body is focused.
type OverlayExport struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Export captures the context's current state.
func (c *Context) Export() *StateExport {
	snap := c.Snapshot()
	export := &StateExport{
		Frame:   snap.Frame,
		Ticks:   c.system.Ticks(),
		Paused:  snap.Paused,
		Phase:   snap.Phase.String(),
		Focused: snap.Focused,
		Camera: CameraExport{
			Position: vecArray(snap.Camera.Position),
			Target:   vecArray(snap.Camera.Target),
			Aspect:   snap.Camera.Aspect,
		},
		Events: c.Events(),
	}
	if export.Events == nil {
		export.Events = []Event{}
	}
	if snap.Overlay.Visible {
		export.Overlay = &OverlayExport{Name: snap.Overlay.Name, Description: snap.Overlay.Description}
	}
	for _, b := range c.system.Bodies() {
		export.Bodies = append(export.Bodies, exportBody(b, c.system.HasDescription(b.Name)))
	}
	return export
}

func exportBody(b *solar.Body, described bool) BodyExport {
	return BodyExport{
		Name:        b.Name,
		Kind:        b.Kind.String(),
		Radius:      b.VisualRadius,
		OrbitRadius: b.OrbitRadius,
		OrbitRate:   b.OrbitRate,
		SpinRate:    b.SelfRotationRate,
		OrbitAngle:  b.OrbitAngle(),
		SelfAngle:   b.SelfAngle(),
		Position:    vecArray(b.WorldPosition()),
		Texture:     b.Texture,
		Ringed:      b.Ring != nil,
		Described:   described,
	}
}

func vecArray(v geom.Vec3) [3]float64 {
	return [3]float64{round(v.X), round(v.Y), round(v.Z)}
}

// round trims float noise so exported positions compare cleanly.
func round(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}

// WriteJSON writes the state as JSON to the given writer.
func (s *StateExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteBodyTable writes the body registry as a text table.
func WriteBodyTable(w io.Writer, bodies []BodyExport) error {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Body", "Kind", "Radius", "Orbit", "Orbit rate", "Spin rate", "Angle", "Ring").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, b := range bodies {
		ring := ""
		if b.Ringed {
			ring = "yes"
		}
		t.Row(
			b.Name,
			b.Kind,
			fmt.Sprintf("%.1f", b.Radius),
			fmt.Sprintf("%.0f", b.OrbitRadius),
			fmt.Sprintf("%.5f", b.OrbitRate),
			fmt.Sprintf("%.4f", b.SpinRate),
			fmt.Sprintf("%.3f", b.OrbitAngle),
			ring,
		)
	}
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nTotal: %d bodies\n", len(bodies))
	return err
}
