// SPDX-License-Identifier: MIT

package synth

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/mgmatch/gmatch"
	"github.com/katalvlaran/mgmatch/matrix"
	"github.com/katalvlaran/mgmatch/rng"
)

// Sentinel errors.
var (
	ErrTooFewNodes        = errors.New("synth: need at least one template and one world node")
	ErrTemplateTooLarge   = errors.New("synth: template larger than world")
	ErrInvalidProbability = errors.New("synth: edge probability must be in [0,1]")
	ErrChannels           = errors.New("synth: channel count must be positive")
	ErrLabels             = errors.New("synth: label count must be positive")
)

const (
	// DefaultChannels is the number of adjacency channels.
	DefaultChannels = 1
	// DefaultEdgeProbability is the per-pair edge probability.
	DefaultEdgeProbability = 0.2
	// DefaultLabels is the number of node classes.
	DefaultLabels = 4
	// DefaultSeed seeds every stream.
	DefaultSeed uint64 = 42
)

// stream ids below the channel range
const (
	streamEmbed uint64 = 1 << 32
	streamLabel uint64 = 1<<32 + 1
)

// Options configures Planted.
type Options struct {
	Channels        int
	EdgeProbability float64
	Labels          int
	Seed            uint64
	SelfLoops       bool
}

// Option represents a functional option for Planted.
type Option func(*Options)

// DefaultOptions returns Options with the package defaults.
func DefaultOptions() Options {
	return Options{
		Channels:        DefaultChannels,
		EdgeProbability: DefaultEdgeProbability,
		Labels:          DefaultLabels,
		Seed:            DefaultSeed,
	}
}

// WithChannels sets the channel count.
func WithChannels(n int) Option { return func(o *Options) { o.Channels = n } }

// WithEdgeProbability sets p.
func WithEdgeProbability(p float64) Option { return func(o *Options) { o.EdgeProbability = p } }

// WithLabels sets the number of classes; 1 makes the similarity uninformative.
func WithLabels(n int) Option { return func(o *Options) { o.Labels = n } }

// WithSeed sets the root seed.
func WithSeed(seed uint64) Option { return func(o *Options) { o.Seed = seed } }

// WithSelfLoops allows i→i world edges.
func WithSelfLoops() Option { return func(o *Options) { o.SelfLoops = true } }

// Instance is a planted problem with its ground truth.
type Instance struct {
	Template    []*matrix.CSR
	World       []*matrix.CSR
	Sim         *matrix.Dense
	Truth       []int
	WorldLabels []int
}

// Planted samples an instance with nt template and nw world nodes.
func Planted(nt, nw int, opts ...Option) (*Instance, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	switch {
	case nt < 1 || nw < 1:
		return nil, fmt.Errorf("Planted(%d,%d): %w", nt, nw, ErrTooFewNodes)
	case nt > nw:
		return nil, fmt.Errorf("Planted(%d,%d): %w", nt, nw, ErrTemplateTooLarge)
	case o.EdgeProbability < 0 || o.EdgeProbability > 1:
		return nil, fmt.Errorf("Planted: p=%.6f: %w", o.EdgeProbability, ErrInvalidProbability)
	case o.Channels < 1:
		return nil, fmt.Errorf("Planted: %d: %w", o.Channels, ErrChannels)
	case o.Labels < 1:
		return nil, fmt.Errorf("Planted: %d: %w", o.Labels, ErrLabels)
	}

	in := &Instance{
		Truth: rng.Perm(nw, rng.FromSeed(rng.DeriveSeed(o.Seed, streamEmbed)))[:nt],
	}

	lr := rng.FromSeed(rng.DeriveSeed(o.Seed, streamLabel))
	in.WorldLabels = make([]int, nw)
	for j := range in.WorldLabels {
		in.WorldLabels[j] = lr.IntN(o.Labels)
	}

	for m := 0; m < o.Channels; m++ {
		w, err := world(nw, o.EdgeProbability, o.SelfLoops, rng.DeriveSeed(o.Seed, uint64(m)+1))
		if err != nil {
			return nil, fmt.Errorf("Planted: channel %d: %w", m, err)
		}
		t, err := induced(w, in.Truth)
		if err != nil {
			return nil, fmt.Errorf("Planted: channel %d: %w", m, err)
		}
		in.World = append(in.World, w)
		in.Template = append(in.Template, t)
	}

	var err error
	if in.Sim, err = matrix.NewDense(nt, nw); err != nil {
		return nil, fmt.Errorf("Planted: %w", err)
	}
	for i, ti := range in.Truth {
		row := in.Sim.Row(i)
		for j, lj := range in.WorldLabels {
			if lj == in.WorldLabels[ti] {
				row[j] = 1
			}
		}
	}

	return in, nil
}

// world samples one directed channel; trial order is i asc, j asc.
func world(n int, p float64, loops bool, seed uint64) (*matrix.CSR, error) {
	r := rng.FromSeed(seed)
	rowStart := make([]int, n+1)
	var cols []int
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j && !loops {
				continue
			}
			if r.Float64() < p {
				cols = append(cols, j)
			}
		}
		rowStart[i+1] = len(cols)
	}

	vals := make([]float64, len(cols))
	for k := range vals {
		vals[k] = 1
	}

	return matrix.NewCSR(n, n, rowStart, cols, vals)
}

// induced extracts the subgraph on nodes (template node i = world node nodes[i]).
func induced(w *matrix.CSR, nodes []int) (*matrix.CSR, error) {
	local := make(map[int]int, len(nodes))
	for i, j := range nodes {
		local[j] = i
	}
	d, err := matrix.NewDense(len(nodes), len(nodes))
	if err != nil {
		return nil, err
	}
	for i, j := range nodes {
		cols, _ := w.Row(j)
		row := d.Row(i)
		for _, c := range cols {
			if k, ok := local[c]; ok {
				row[k] = 1
			}
		}
	}

	return matrix.FromDense(d), nil
}

// Problem stacks the instance into a gmatch.Problem. Sim is shared, not copied.
func (in *Instance) Problem() (*gmatch.Problem, error) {
	return gmatch.NewProblem(in.Template, in.World, in.Sim)
}

// Accuracy is the fraction of template nodes that ind maps to their planted world node.
func (in *Instance) Accuracy(ind []int) float64 {
	if len(ind) != len(in.Truth) || len(ind) == 0 {
		return 0
	}
	var hit int
	for i, j := range ind {
		if j == in.Truth[i] {
			hit++
		}
	}

	return float64(hit) / float64(len(ind))
}

// TemplateLabels returns the class of every template node.
func (in *Instance) TemplateLabels() []int {
	out := make([]int, len(in.Truth))
	for i, j := range in.Truth {
		out[i] = in.WorldLabels[j]
	}

	return out
}
