// File: main.go
package main

import (
	"github.com/autodeviq/iqcore/cmd"
)

func main() {
	cmd.Execute()
}
