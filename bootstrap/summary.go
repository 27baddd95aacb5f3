package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kbukum/newsfeed/component"
)

// InfrastructureInfo holds detailed infrastructure component information.
type InfrastructureInfo struct {
	Name    string
	Type    string // e.g. "server", "sse", "http-adapter"
	Details string
	Port    int
}

// RouteInfo represents a registered HTTP route.
type RouteInfo struct {
	Method string
	Path   string
}

// Summary tracks and displays the application bootstrap process.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	infrastructure  []InfrastructureInfo
	routes          []RouteInfo

	out      io.Writer
	title    lipgloss.Style
	section  lipgloss.Style
	muted    lipgloss.Style
	ok       lipgloss.Style
	warn     lipgloss.Style
	bad      lipgloss.Style
	methodFg map[string]lipgloss.Style
}

// NewSummary creates a new bootstrap summary tracker writing to out.
// A nil writer means stderr, keeping stdout free for command output.
func NewSummary(serviceName, version string, out io.Writer) *Summary {
	if out == nil {
		out = os.Stderr
	}
	r := lipgloss.NewRenderer(out)
	color := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return &Summary{
		serviceName: serviceName,
		version:     version,
		out:         out,
		title:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		section:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		muted:       color("241"),
		ok:          color("42"),
		warn:        color("220"),
		bad:         color("196"),
		methodFg: map[string]lipgloss.Style{
			"GET":    color("42"),
			"POST":   color("39"),
			"PUT":    color("220"),
			"DELETE": color("196"),
		},
	}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackInfrastructure records an infrastructure component.
func (s *Summary) TrackInfrastructure(name, componentType, details string, port int) {
	s.infrastructure = append(s.infrastructure, InfrastructureInfo{
		Name: name, Type: componentType, Details: details, Port: port,
	})
}

// TrackRoute records an HTTP route.
func (s *Summary) TrackRoute(method, path string) {
	s.routes = append(s.routes, RouteInfo{Method: method, Path: path})
}

// collect pulls descriptions and routes from registered components that
// implement Describable or RouteProvider.
func (s *Summary) collect(registry *component.Registry) {
	if registry == nil {
		return
	}
	for _, c := range registry.All() {
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			s.TrackInfrastructure(desc.Name, desc.Type, desc.Details, desc.Port)
		}
		if rp, ok := c.(component.RouteProvider); ok {
			for _, r := range rp.Routes() {
				s.TrackRoute(r.Method, r.Path)
			}
		}
	}
}

// Render builds the summary text including live health from the registry.
func (s *Summary) Render(ctx context.Context, registry *component.Registry) string {
	s.infrastructure, s.routes = nil, nil
	s.collect(registry)

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n\n", s.title.Render(fmt.Sprintf("%s %s started in %.2fs",
		s.serviceName, s.version, s.startupDuration.Seconds())))

	b.WriteString(s.section.Render("Infrastructure") + "\n")
	if len(s.infrastructure) == 0 {
		b.WriteString("   └── " + s.muted.Render("No components registered") + "\n")
	}
	for i, inf := range s.infrastructure {
		details := inf.Details
		if inf.Port > 0 {
			details = fmt.Sprintf("%s (:%d)", details, inf.Port)
		}
		fmt.Fprintf(&b, "   %s %s %s %s\n", branch(i, len(s.infrastructure)),
			inf.Name, s.muted.Render("["+inf.Type+"]"), details)
	}

	if len(s.routes) > 0 {
		fmt.Fprintf(&b, "\n%s\n", s.section.Render(fmt.Sprintf("Routes (%d)", len(s.routes))))
		for i, r := range s.routes {
			fmt.Fprintf(&b, "   %s %s %s\n", branch(i, len(s.routes)), s.method(r.Method), r.Path)
		}
	}

	if registry != nil {
		results := registry.HealthAll(ctx)
		if len(results) > 0 {
			fmt.Fprintf(&b, "\n%s\n", s.section.Render("Health Check"))
			healthy := 0
			for i, h := range results {
				if h.Status == component.StatusHealthy {
					healthy++
				}
				msg := ""
				if h.Message != "" {
					msg = " " + s.muted.Render("("+h.Message+")")
				}
				fmt.Fprintf(&b, "   %s %s: %s%s\n", branch(i, len(results)), h.Name, s.status(h.Status), msg)
			}
			if healthy == len(results) {
				fmt.Fprintf(&b, "\n%s\n", s.ok.Render(fmt.Sprintf("All components healthy (%d/%d)", healthy, len(results))))
			} else {
				fmt.Fprintf(&b, "\n%s\n", s.warn.Render(fmt.Sprintf("Some components have issues (%d/%d healthy)", healthy, len(results))))
			}
		}
	}
	return b.String()
}

// DisplaySummary writes the rendered summary to the configured output.
func (s *Summary) DisplaySummary(ctx context.Context, registry *component.Registry) {
	fmt.Fprintln(s.out, s.Render(ctx, registry))
}

func (s *Summary) method(m string) string {
	padded := fmt.Sprintf("%-7s", m)
	if st, ok := s.methodFg[m]; ok {
		return st.Render(padded)
	}
	return s.muted.Render(padded)
}

func (s *Summary) status(st component.HealthStatus) string {
	switch st {
	case component.StatusHealthy:
		return s.ok.Render(string(st))
	case component.StatusDegraded:
		return s.warn.Render(string(st))
	default:
		return s.bad.Render(string(st))
	}
}

func branch(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}
