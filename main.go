package main

import "github.com/KaramelBytes/dfprofile-cli/cmd"

func main() {
	cmd.Execute()
}
