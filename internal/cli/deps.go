package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/xolan/punch/internal/service"
)

// Deps contains all dependencies for CLI operations
type Deps struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Exit   func(code int)

	// Services is nil until Ready opens it, unless injected
	Services *service.Services

	// Open creates the services on first use
	Open func() (*service.Services, error)

	opened bool
}

// DefaultDeps creates a new Deps with default values. Nothing is opened
// until a command needs the services.
func DefaultDeps() *Deps {
	return &Deps{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
		Exit:   os.Exit,
		Open:   service.NewServices,
	}
}

// NewDeps creates a new Deps with the given services
func NewDeps(services *service.Services) *Deps {
	d := DefaultDeps()
	d.Services = services
	return d
}

// Ready makes sure Services is available, reporting the failure and exiting
// when it cannot be opened.
func (d *Deps) Ready() bool {
	if d.Services != nil {
		return true
	}

	var err error
	if d.Open == nil {
		err = fmt.Errorf("no services configured")
	} else {
		d.Services, err = d.Open()
	}
	if err != nil {
		d.Services = nil
		_, _ = fmt.Fprintln(d.Stderr, "Error: Failed to open punch data")
		_, _ = fmt.Fprintf(d.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(d.Stderr, "Hint: Check your config file with 'punch config' and that the data directory is writable")
		d.Exit(1)
		return false
	}
	d.opened = true
	return true
}

// Close releases services opened by Ready. Injected services are left open.
func (d *Deps) Close() {
	if !d.opened || d.Services == nil {
		return
	}
	_ = d.Services.Close()
	d.Services = nil
	d.opened = false
}

// Global deps instance for CLI
var deps = DefaultDeps()

// SetDeps sets the global deps (for testing)
func SetDeps(d *Deps) {
	deps = d
}

// ResetDeps resets to default deps
func ResetDeps() {
	deps = DefaultDeps()
}

// GetDeps returns the current deps
func GetDeps() *Deps {
	return deps
}
