// Package picker asks the user to choose one of the recent projects.
//
// Selection is a chain of strategies tried in order. A strategy that cannot
// run returns an error wrapping ErrUnavailable and the chain moves on to the
// next one. Any other result, including "no selection", ends the chain.
package picker

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/osteele/open-unity/internal/config"
	"github.com/osteele/open-unity/internal/project"
	"github.com/osteele/open-unity/internal/ui"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnavailable signals that a strategy could not run and the next one should be tried.
	ErrUnavailable = errors.New("picker unavailable")
	// ErrInvalidSelection is returned when the user's answer does not name a project.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrNoStrategy is returned when every strategy in a chain was unavailable.
	ErrNoStrategy = errors.New("no picker available")
)

// Strategy selects one project from an ordered list.
//
// Select returns (nil, nil) when the user made no selection.
type Strategy interface {
	Name() string
	Select(ctx context.Context, projects []project.Project) (*project.Project, error)
}

// Labels returns the fuzzy-finder label of each project, in order.
func Labels(projects []project.Project) []string {
	labels := make([]string, len(projects))
	for i, p := range projects {
		labels[i] = p.Label()
	}
	return labels
}

// indexOfLabel returns the first project whose label equals label, or -1.
// Identical labels resolve to the earliest project.
func indexOfLabel(labels []string, label string) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}

// Chain tries each strategy in turn until one is available.
type Chain struct {
	strategies []Strategy
	logger     *logrus.Entry
}

// NewChain creates a Chain over the given strategies.
func NewChain(logger *logrus.Entry, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Chain{
		strategies: strategies,
		logger:     logger.WithField("component", "picker"),
	}
}

// Name implements Strategy.
func (c *Chain) Name() string {
	return "chain"
}

// Strategies returns the strategies in the order they are tried.
func (c *Chain) Strategies() []Strategy {
	return c.strategies
}

// Select implements Strategy.
func (c *Chain) Select(ctx context.Context, projects []project.Project) (*project.Project, error) {
	for _, s := range c.strategies {
		p, err := s.Select(ctx, projects)
		if errors.Is(err, ErrUnavailable) {
			c.logger.WithError(err).WithField("strategy", s.Name()).Debug("Picker unavailable, trying next")
			continue
		}
		if err != nil {
			return nil, err
		}
		if p == nil {
			c.logger.WithField("strategy", s.Name()).Debug("No project selected")
		}
		return p, nil
	}
	return nil, ErrNoStrategy
}

// Options carries the terminal streams used by the built-in strategies.
type Options struct {
	In     io.Reader
	Out    io.Writer
	Theme  ui.Theme
	Logger *logrus.Entry
}

// FromConfig builds a Chain from the configured strategy names.
func FromConfig(cfg config.PickerConfig, opts Options) (*Chain, error) {
	strategies := make([]Strategy, 0, len(cfg.Strategies))
	for _, name := range cfg.Strategies {
		switch name {
		case config.StrategyFzf:
			strategies = append(strategies, NewFzf(cfg.FzfPath, cfg.FzfHeight, cfg.Prompt))
		case config.StrategyTUI:
			strategies = append(strategies, NewTUI(opts.In, opts.Out, opts.Theme))
		case config.StrategyPlain:
			strategies = append(strategies, NewPlain(opts.In, opts.Out, cfg.MaxItems))
		default:
			return nil, fmt.Errorf("unknown picker strategy %q", name)
		}
	}
	if len(strategies) == 0 {
		return nil, fmt.Errorf("no picker strategies configured")
	}
	return NewChain(opts.Logger, strategies...), nil
}
