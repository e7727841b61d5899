package main

import "github.com/Vader773/daily-grimoire-sub000/cmd/grimoire/root"

func main() {
	root.Execute()
}
