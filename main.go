package main

import "github.com/firewatch-geo/firewatch-services/cmd"

func main() {
	cmd.Execute()
}
