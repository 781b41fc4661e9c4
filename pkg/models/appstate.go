package models

import (
	"github.com/maslahah/nlpviz/config"
)

// AppState is a struct that holds the state of the application
// Use app.NewAppState to create a new instance
type AppState struct {
	Loader     ModelLoader
	Processor  TextProcessor
	Visualizer Visualizer
	Config     *config.Config
}
