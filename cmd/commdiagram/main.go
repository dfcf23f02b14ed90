package main

import (
	"oss.terrastruct.com/commdiagram/commcli"
	"oss.terrastruct.com/commdiagram/lib/xmain"
)

func main() {
	xmain.Main(commcli.Run)
}
