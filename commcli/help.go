package commcli

import (
	"fmt"
	"path/filepath"

	"oss.terrastruct.com/commdiagram/lib/version"
	"oss.terrastruct.com/commdiagram/lib/xmain"
)

func help(ms *xmain.State) {
	fmt.Fprintf(ms.Stdout, `%[1]s %[2]s
Usage:
  %[1]s [--watch=false] [--config=layout.yaml] file.yaml [file.svg | file.json]
  %[1]s version

%[1]s lays out the communication diagram in file.yaml and renders it to
file.svg, or exports the positioned geometry to file.json.
It defaults to file.svg if an output path is not provided.

Use - to have %[1]s read from stdin or write to stdout.

A diagram file lists its statements in order:

  title: Checkout
  statements:
    - participant: web
      as: Web server
    - box: lightblue Storage
      participants:
        - participant: db
    - {from: web, to: db, arrow: "-->>", text: reserve}
    - note: right of
      actors: [db]
      text: locks the row
    - loop: every item
      statements:
        - {from: db, to: web, text: ok}

Flags:
%[3]s
`, filepath.Base(ms.Name), version.Version, ms.Opts.Help())
}
