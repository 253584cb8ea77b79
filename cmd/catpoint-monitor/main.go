package main

import "github.com/oshokin/catpoint/cmd/catpoint-monitor/cmd"

func main() {
	cmd.Execute()
}
