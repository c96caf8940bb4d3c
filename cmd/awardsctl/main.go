package main

import "github.com/FranciscoCarneiro11/EduScrum-Awards/cmd/awardsctl/cmd"

func main() {
	cmd.Execute()
}
