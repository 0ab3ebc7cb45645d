package main

import "github.com/dbtoolset/tablewipe/cmd/tablewipe/cmd"

func main() {
	cmd.Execute()
}
