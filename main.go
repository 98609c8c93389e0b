package main

import (
	"github.com/whoamihappyhacking/chatlens/cmd/chatlens"
)

func main() {
	chatlens.Execute()
}
