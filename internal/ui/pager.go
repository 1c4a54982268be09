package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
)

// PagerOps runs ov on top of the Bubble Tea program
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new PagerOps instance
func NewPagerOps() *PagerOps {
	return &PagerOps{}
}

// SetProgram sets the program reference for terminal management
func (p *PagerOps) SetProgram(program *tea.Program) {
	p.program = program
}

// ShowHelp pages the help content
func (p *PagerOps) ShowHelp(content string) error {
	return p.run(func() (*oviewer.Root, error) {
		return oviewer.NewRoot(strings.NewReader(content))
	})
}

// PreviewFile pages a file from the index
func (p *PagerOps) PreviewFile(path string) error {
	return p.run(func() (*oviewer.Root, error) {
		return oviewer.Open(path)
	})
}


// run releases the terminal, runs ov and restores the terminal even when
// ov fails.
func (p *PagerOps) run(open func() (*oviewer.Root, error)) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// give ov time to leave the alternate screen
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := open()
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
