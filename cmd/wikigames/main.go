// Command wikigames manages a local catalog of video games and consoles.
package main

import "github.com/mesh-intelligence/wikigames/internal/cli"

func main() {
	cli.Execute()
}
