package app

import "github.com/maslahah/nlpviz/internal"

var log = internal.GetLogger()
