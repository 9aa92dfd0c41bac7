package main

import "github.com/frahmantamala/project-expenses/cmd"

func main() {
	cmd.Execute()
}
