package main

import (
	cmd "github.com/maslahah/nlpviz/cmd/nlpviz"
	"github.com/maslahah/nlpviz/internal"
)

var log = internal.GetLogger()

func main() {
	log.Info("Starting nlpviz")
	cmd.Execute()
}
