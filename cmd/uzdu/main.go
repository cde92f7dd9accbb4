// cmd/uzdu/main.go
package main

import (
	"uzdu/cmd"
)

func main() {
	cmd.Execute()
}
