package commcli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"oss.terrastruct.com/xjson"

	"oss.terrastruct.com/commdiagram/commconfig"
	"oss.terrastruct.com/commdiagram/commlib"
	"oss.terrastruct.com/commdiagram/commrenderers/commsvg"
	"oss.terrastruct.com/commdiagram/commtarget"
	"oss.terrastruct.com/commdiagram/lib/go2"
	"oss.terrastruct.com/commdiagram/lib/textmeasure"
	"oss.terrastruct.com/commdiagram/lib/version"
	"oss.terrastruct.com/commdiagram/lib/xmain"
)

type outputFormat string

const (
	SVG  outputFormat = "svg"
	JSON outputFormat = "json"
)

func parseFormat(s string) (outputFormat, error) {
	switch outputFormat(strings.ToLower(s)) {
	case SVG:
		return SVG, nil
	case JSON:
		return JSON, nil
	}
	return "", fmt.Errorf("unsupported output format %q, expected svg or json", s)
}

func Run(ctx context.Context, ms *xmain.State) (err error) {
	// These should be kept up-to-date with help.go
	watchFlag, err := ms.Opts.Bool("COMM_WATCH", "watch", "w", false, "watch the input and config files for changes and recompile. The SVG output is opened in a browser after the first compile.")
	if err != nil {
		return err
	}
	debugFlag, err := ms.Opts.Bool("DEBUG", "debug", "d", false, "print debug logs.")
	if err != nil {
		ms.Log.Warn.Printf("Invalid DEBUG flag value ignored")
		debugFlag = go2.Pointer(false)
	}
	formatFlag := ms.Opts.String("COMM_FORMAT", "format", "f", "", "output format, svg or json. Defaults to the extension of the output path, or svg.")
	configFlag := ms.Opts.String("COMM_CONFIG", "config", "c", "", "path to a .yaml or .toml file overriding the layout configuration.")
	rightAnglesFlag, err := ms.Opts.Bool("COMM_RIGHT_ANGLES", "right-angles", "", false, "draw messages to self as right angled paths instead of curves.")
	if err != nil {
		return err
	}
	wrapFlag, err := ms.Opts.Bool("COMM_WRAP", "wrap", "", false, "wrap every label that does not say otherwise.")
	if err != nil {
		return err
	}
	hideUnusedFlag, err := ms.Opts.Bool("COMM_HIDE_UNUSED", "hide-unused", "", false, "omit participants that take part in no message or note.")
	if err != nil {
		return err
	}
	noMirrorFlag, err := ms.Opts.Bool("COMM_NO_MIRROR", "no-mirror", "", false, "do not repeat the actors below the diagram.")
	if err != nil {
		return err
	}
	scaleFlag, err := ms.Opts.Float64("SCALE", "scale", "", -1, "scale the SVG output. E.g., 0.5 to halve the default size. Default -1 keeps the diagram size.")
	if err != nil {
		return err
	}
	noXMLTagFlag, err := ms.Opts.Bool("COMM_NO_XML_TAG", "no-xml-tag", "", false, "omit XML tag (<?xml ...?>) from output SVG files. Useful when generating SVGs for direct HTML embedding")
	if err != nil {
		return err
	}
	browserFlag := ms.Opts.String("BROWSER", "browser", "", "", "browser executable that watch opens. Setting to 0 opens no browser.")
	versionFlag, err := ms.Opts.Bool("", "version", "v", false, "get the version")
	if err != nil {
		return err
	}

	err = ms.Opts.Parse()
	if errors.Is(err, pflag.ErrHelp) {
		help(ms)
		return nil
	}
	if err != nil {
		return err
	}

	ctx = ms.SlogContext(ctx, *debugFlag)
	if *debugFlag {
		ms.Env.Setenv("DEBUG", "1")
	}
	if *browserFlag != "" {
		ms.Env.Setenv("BROWSER", *browserFlag)
	}

	args := ms.Opts.Flags.Args()
	if len(args) == 0 {
		if *versionFlag {
			fmt.Fprintln(ms.Stdout, version.Version)
			return nil
		}
		help(ms)
		return nil
	}
	if args[0] == "version" {
		if len(args) > 1 {
			return xmain.UsageErrorf("version subcommand accepts no arguments")
		}
		fmt.Fprintln(ms.Stdout, version.Version)
		return nil
	}
	if len(args) >= 3 {
		return xmain.UsageErrorf("too many arguments passed")
	}

	inputPath := args[0]
	outputPath := ""
	if len(args) == 2 {
		outputPath = args[1]
	}

	format, err := resolveFormat(*formatFlag, outputPath)
	if err != nil {
		return xmain.UsageErrorf("%v", err)
	}
	if outputPath == "" {
		if inputPath == "-" {
			outputPath = "-"
		} else {
			outputPath = renameExt(inputPath, "."+string(format))
		}
	}
	inputPath = ms.AbsPath(inputPath)
	outputPath = ms.AbsPath(outputPath)

	ruler, err := textmeasure.NewRuler()
	if err != nil {
		return err
	}

	co := compileOpts{
		configPath: *configFlag,
		format:     format,
		ruler:      ruler,
		overrides: commconfig.Config{
			RightAngles:            *rightAnglesFlag,
			Wrap:                   *wrapFlag,
			HideUnusedParticipants: *hideUnusedFlag,
		},
		renderOpts: commsvg.RenderOpts{
			NoXMLTag: noXMLTagFlag,
		},
	}
	if co.configPath != "" {
		co.configPath = ms.AbsPath(co.configPath)
	}
	if *noMirrorFlag {
		co.overrides.MirrorActors = go2.Pointer(false)
	}
	if *scaleFlag > 0 {
		co.renderOpts.Scale = scaleFlag
	}

	if *watchFlag {
		if inputPath == "-" {
			return xmain.UsageErrorf("-w[atch] cannot be combined with reading input from stdin")
		}
		if outputPath == "-" {
			return xmain.UsageErrorf("-w[atch] cannot be combined with writing output to stdout")
		}
		w, err := newWatcher(ctx, ms, watcherOpts{
			compileOpts: co,
			inputPath:   inputPath,
			outputPath:  outputPath,
		})
		if err != nil {
			return err
		}
		return w.run()
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute*2)
	defer cancel()

	_, err = compile(ctx, ms, co, inputPath, outputPath)
	if err != nil {
		return err
	}
	return nil
}

type compileOpts struct {
	configPath string
	overrides  commconfig.Config
	format     outputFormat
	renderOpts commsvg.RenderOpts
	ruler      *textmeasure.Ruler
}

// config loads the config file, when there is one, and applies the flag
// overrides on top of it.
func (co compileOpts) config() (*commconfig.Config, error) {
	cfg := commconfig.Default()
	if co.configPath != "" {
		var err error
		cfg, err = commconfig.Load(co.configPath)
		if err != nil {
			return nil, err
		}
	}
	overrides := co.overrides
	cfg.Merge(&overrides)
	return cfg, nil
}

func compile(ctx context.Context, ms *xmain.State, co compileOpts, inputPath, outputPath string) (_ []byte, err error) {
	start := time.Now()
	input, err := ms.ReadPath(inputPath)
	if err != nil {
		return nil, err
	}
	cfg, err := co.config()
	if err != nil {
		return nil, err
	}

	diagram, _, err := commlib.Compile(ctx, ms.HumanPath(inputPath), input, &commlib.CompileOptions{
		Ruler:  co.ruler,
		Config: cfg,
	})
	if err != nil {
		return nil, err
	}

	out, err := render(diagram, co.format, &co.renderOpts)
	if err != nil {
		return nil, err
	}
	err = ms.WritePath(outputPath, out)
	if err != nil {
		return out, err
	}

	if outputPath != "-" {
		ms.Log.Success.Printf("successfully compiled %s to %s in %s", ms.HumanPath(inputPath), ms.HumanPath(outputPath), time.Since(start))
	}
	return out, nil
}

func render(diagram *commtarget.Diagram, format outputFormat, opts *commsvg.RenderOpts) ([]byte, error) {
	switch format {
	case JSON:
		return []byte(xjson.MarshalIndent(diagram)), nil
	default:
		return commsvg.Render(diagram, opts)
	}
}

func resolveFormat(flag, outputPath string) (outputFormat, error) {
	if flag != "" {
		return parseFormat(flag)
	}
	if outputPath == "" || outputPath == "-" {
		return SVG, nil
	}
	ext := strings.TrimPrefix(filepath.Ext(outputPath), ".")
	if ext == "" {
		return SVG, nil
	}
	return parseFormat(ext)
}

func renameExt(fp string, newExt string) string {
	ext := filepath.Ext(fp)
	if ext == "" {
		return fp + newExt
	}
	return strings.TrimSuffix(fp, ext) + newExt
}
