package main

import "binday-backend/cmd/binday-cli/cmd"

func main() {
	cmd.Execute()
}
