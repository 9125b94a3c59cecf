package main

import "github.com/streamkeeper/dsadmin/cmd"

func main() {
	cmd.Execute()
}
