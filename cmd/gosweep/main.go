package main

import "github.com/dbsmedya/gosweep/cmd/gosweep/cmd"

func main() {
	cmd.Execute()
}
