package main

import "github.com/MeKo-Tech/mapscan/cmd/mapscan/cmd"

func main() {
	cmd.Execute()
}
