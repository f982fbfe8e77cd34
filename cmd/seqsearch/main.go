package main

import (
	"seedsearch/internal/app"
	"seedsearch/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
