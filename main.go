package main

import (
	"github.com/dreamerjackson/mangacrawler/cmd"
)

func main() {
	cmd.Execute()
}
