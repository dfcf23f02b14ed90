package commlib

import (
	"context"

	"oss.terrastruct.com/commdiagram/commconfig"
	"oss.terrastruct.com/commdiagram/commexporter"
	"oss.terrastruct.com/commdiagram/commgraph"
	"oss.terrastruct.com/commdiagram/commlayout"
	"oss.terrastruct.com/commdiagram/commtarget"
	"oss.terrastruct.com/commdiagram/lib/textmeasure"
)

type CompileOptions struct {
	Ruler  *textmeasure.Ruler
	Config *commconfig.Config
}

// Compile loads the diagram file at path from input, lays it out and
// exports the result.
func Compile(ctx context.Context, path string, input []byte, opts *CompileOptions) (*commtarget.Diagram, *commgraph.Graph, error) {
	if opts == nil {
		opts = &CompileOptions{}
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = commconfig.Default()
	}
	ruler := opts.Ruler
	if ruler == nil {
		var err error
		ruler, err = textmeasure.NewRuler()
		if err != nil {
			return nil, nil, err
		}
	}

	g, err := commgraph.LoadYAML(path, input, cfg.Wrap)
	if err != nil {
		return nil, nil, err
	}

	res, err := commlayout.Layout(ctx, g, ruler, cfg)
	if err != nil {
		return nil, nil, err
	}

	diagram, err := commexporter.Export(ctx, res, cfg)
	return diagram, g, err
}
