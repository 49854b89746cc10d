package main

import (
	"OfflinePlayer/cmd"
)

func main() {
	cmd.Execute()
}
