package main

import (
	"github.com/openwob/wobkit/cmd/wobkit/cmd"
)

func main() {
	cmd.Execute()
}
