package main

import (
	"log"

	_ "github.com/mivura/feedbed/docs"

	"github.com/mivura/feedbed/cmd"
	"github.com/mivura/feedbed/config"
)

func main() {
	log.Printf("feedbed %s (%s)", config.Version, config.CommitHash)
	cmd.Execute()
}
