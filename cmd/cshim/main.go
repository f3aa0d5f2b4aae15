package main

import "github.com/clibforge/cshim/cmd/cshim/internal"

func main() {
	internal.Execute()
}
